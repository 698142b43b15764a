// SPDX-License-Identifier: MIT
package capture

import (
	"fmt"
	"time"

	"github.com/gordonklaus/portaudio"
)

// Device describes one audio device visible to PortAudio.
type Device struct {
	ID             int
	Name           string
	HostAPI        string
	InputChannels  int
	OutputChannels int
	SampleRate     float64
	LowLatency     time.Duration
	HighLatency    time.Duration
	IsDefaultInput bool
}

// Kind reports whether the device captures, plays, or both.
func (d Device) Kind() string {
	switch {
	case d.InputChannels > 0 && d.OutputChannels > 0:
		return "Input+Output"
	case d.InputChannels > 0:
		return "Input"
	case d.OutputChannels > 0:
		return "Output"
	}
	return "None"
}

// ListDevices enumerates all audio devices. Initialize must have been
// called.
func ListDevices() ([]Device, error) {
	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureUnavailable, err)
	}

	defaultIn, _ := portaudio.DefaultInputDevice()

	devices := make([]Device, 0, len(infos))
	for i, info := range infos {
		devices = append(devices, Device{
			ID:             i,
			Name:           info.Name,
			HostAPI:        info.HostApi.Name,
			InputChannels:  info.MaxInputChannels,
			OutputChannels: info.MaxOutputChannels,
			SampleRate:     info.DefaultSampleRate,
			LowLatency:     info.DefaultLowInputLatency,
			HighLatency:    info.DefaultHighInputLatency,
			IsDefaultInput: defaultIn != nil && info.Name == defaultIn.Name,
		})
	}
	return devices, nil
}

// inputDevice resolves a device ID to a capture-capable device.
// UseDefaultDevice selects the system default input.
func inputDevice(deviceID int) (*portaudio.DeviceInfo, error) {
	if deviceID == UseDefaultDevice {
		device, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("%w: no default input device: %v", ErrCaptureUnavailable, err)
		}
		return device, nil
	}

	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureUnavailable, err)
	}
	if deviceID < 0 || deviceID >= len(infos) {
		return nil, fmt.Errorf("invalid device ID: %d", deviceID)
	}
	if infos[deviceID].MaxInputChannels < 1 {
		return nil, fmt.Errorf("device %d (%s) has no input channels", deviceID, infos[deviceID].Name)
	}
	return infos[deviceID], nil
}
