// SPDX-License-Identifier: MIT
package capture

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Recorder writes captured samples to a mono 32-bit WAV file. Write is
// safe to call from the capture thread; Start and Stop may race with
// it freely because the active flag is checked atomically.
type Recorder struct {
	rate int

	active int32 // atomic
	mu     sync.Mutex
	file   *os.File
	enc    *wav.Encoder
	buf    *audio.IntBuffer
}

// NewRecorder returns an idle recorder for the given sample rate.
func NewRecorder(rate int) *Recorder {
	return &Recorder{rate: rate}
}

// Start opens filename and begins accepting samples. Starting an
// active recorder is an error.
func (r *Recorder) Start(filename string) error {
	if atomic.LoadInt32(&r.active) == 1 {
		return fmt.Errorf("already recording")
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.file = file
	r.enc = wav.NewEncoder(file, r.rate, 32, 1, 1)
	r.buf = &audio.IntBuffer{
		Format: &audio.Format{NumChannels: 1, SampleRate: r.rate},
	}
	r.mu.Unlock()

	atomic.StoreInt32(&r.active, 1)
	return nil
}

// Recording reports whether samples are currently being written.
func (r *Recorder) Recording() bool {
	return atomic.LoadInt32(&r.active) == 1
}

// Write appends samples in [-1, 1] to the open file. A no-op while
// idle, so it can be registered as a pipeline tap unconditionally.
func (r *Recorder) Write(samples []float64) {
	if atomic.LoadInt32(&r.active) == 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.enc == nil {
		return
	}

	if cap(r.buf.Data) < len(samples) {
		r.buf.Data = make([]int, len(samples))
	}
	r.buf.Data = r.buf.Data[:len(samples)]
	for i, v := range samples {
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		r.buf.Data[i] = int(v * 2147483647)
	}

	if err := r.enc.Write(r.buf); err != nil {
		// Keep capturing; a full disk should not kill the stream.
		atomic.StoreInt32(&r.active, 0)
	}
}

// Stop finalizes the WAV header and closes the file. Stopping an idle
// recorder is a no-op.
func (r *Recorder) Stop() error {
	atomic.StoreInt32(&r.active, 0)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.enc != nil {
		if err := r.enc.Close(); err != nil {
			return err
		}
		r.enc = nil
	}
	if r.file != nil {
		if err := r.file.Close(); err != nil {
			return err
		}
		r.file = nil
	}
	return nil
}
