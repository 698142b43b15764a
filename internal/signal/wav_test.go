// SPDX-License-Identifier: MIT
package signal

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func writeTempWAV(t *testing.T, samples []float64, rate, channels int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp wav: %v", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, rate, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:   make([]int, len(samples)*channels),
	}
	for i, v := range samples {
		for ch := 0; ch < channels; ch++ {
			buf.Data[i*channels+ch] = int(v * 32767)
		}
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("failed to write wav data: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("failed to finalize wav: %v", err)
	}
	return path
}

func TestLoadWAVRoundTrip(t *testing.T) {
	samples := make([]float64, 1000)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/44100)
	}
	path := writeTempWAV(t, samples, 44100, 1)

	buf, err := LoadWAV(path)
	if err != nil {
		t.Fatalf("LoadWAV returned error: %v", err)
	}
	if buf.Rate() != 44100 {
		t.Errorf("rate = %d, expected 44100", buf.Rate())
	}
	if buf.Len() != len(samples) {
		t.Fatalf("length = %d, expected %d", buf.Len(), len(samples))
	}
	if buf.Label() != "test.wav" {
		t.Errorf("label = %q, expected the file base name", buf.Label())
	}

	// 16-bit quantization bounds the reconstruction error.
	for i, v := range buf.Samples() {
		if math.Abs(v-samples[i]) > 1.0/16384 {
			t.Fatalf("sample %d: %.6f, expected %.6f within quantization error", i, v, samples[i])
		}
	}
}

func TestLoadWAVKeepsFirstChannel(t *testing.T) {
	samples := []float64{0.1, 0.2, 0.3, 0.4}
	path := writeTempWAV(t, samples, 48000, 2)

	buf, err := LoadWAV(path)
	if err != nil {
		t.Fatalf("LoadWAV returned error: %v", err)
	}
	if buf.Len() != len(samples) {
		t.Errorf("length = %d, expected %d mono frames", buf.Len(), len(samples))
	}
	if buf.Rate() != 48000 {
		t.Errorf("rate = %d, expected 48000", buf.Rate())
	}
}

func TestLoadWAVMissingFile(t *testing.T) {
	if _, err := LoadWAV("does-not-exist.wav"); err == nil {
		t.Error("expected error for a missing file, got nil")
	}
}

func TestLoadWAVInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.wav")
	if err := os.WriteFile(path, []byte("not a wav"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadWAV(path); err == nil {
		t.Error("expected error for a non-wav file, got nil")
	}
}
