package signal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-audio/wav"
)

// LoadWAV decodes a WAV file into a mono Buffer. Multi-channel files
// keep only the first channel; samples are scaled to [-1, 1) by the
// file's bit depth. The buffer label defaults to the file's base name.
func LoadWAV(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open wav file: %w", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("not a valid wav file: %s", path)
	}

	pcm, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode wav file: %w", err)
	}

	channels := pcm.Format.NumChannels
	if channels < 1 {
		channels = 1
	}

	scale := 1.0 / float64(int64(1)<<(decoder.BitDepth-1))
	frames := len(pcm.Data) / channels

	samples := make([]float64, frames)
	for i := range samples {
		samples[i] = float64(pcm.Data[i*channels]) * scale
	}

	return New(samples, pcm.Format.SampleRate, filepath.Base(path))
}
