// SPDX-License-Identifier: MIT
package dsp

import (
	"errors"
	"testing"
)

func TestWindowConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     WindowConfig
		wantErr bool
	}{
		{"valid", WindowConfig{Hann, 1024, 512}, false},
		{"hop equals length", WindowConfig{Hann, 512, 512}, false},
		{"minimum length", WindowConfig{Rectangular, 2, 1}, false},
		{"length too small", WindowConfig{Hann, 1, 1}, true},
		{"zero hop", WindowConfig{Hann, 1024, 0}, true},
		{"negative hop", WindowConfig{Hann, 1024, -4}, true},
		{"hop exceeds length", WindowConfig{Hann, 256, 512}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("expected ErrInvalidConfiguration, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected nil error, got %v", err)
			}
		})
	}
}

func TestFrameStartsIncreaseByHop(t *testing.T) {
	samples := make([]float64, 10000)
	cfg := WindowConfig{Window: Hann, Length: 1024, Hop: 256}

	fs, err := NewFrameSource(samples, 44100, cfg)
	if err != nil {
		t.Fatalf("NewFrameSource returned error: %v", err)
	}

	for i := 1; i < fs.NumFrames(); i++ {
		if fs.Start(i)-fs.Start(i-1) != cfg.Hop {
			t.Fatalf("frame %d: start offset delta %d, expected hop %d",
				i, fs.Start(i)-fs.Start(i-1), cfg.Hop)
		}
	}
}

func TestNumFrames(t *testing.T) {
	tests := []struct {
		name     string
		samples  int
		length   int
		hop      int
		expected int
	}{
		{"empty signal", 0, 8, 4, 0},
		{"shorter than window", 5, 8, 4, 1},
		{"exactly one window", 8, 8, 4, 1},
		{"aligned frames", 16, 8, 4, 3},
		{"trailing partial", 18, 8, 4, 4},
		{"hop equals length", 32, 8, 8, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, err := NewFrameSource(make([]float64, tt.samples), 8000,
				WindowConfig{Rectangular, tt.length, tt.hop})
			if err != nil {
				t.Fatalf("NewFrameSource returned error: %v", err)
			}
			if got := fs.NumFrames(); got != tt.expected {
				t.Errorf("NumFrames() = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestTrailingFrameIsZeroPadded(t *testing.T) {
	samples := []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1} // 10 ones
	fs, err := NewFrameSource(samples, 8000, WindowConfig{Rectangular, 8, 4})
	if err != nil {
		t.Fatalf("NewFrameSource returned error: %v", err)
	}

	// Frames start at 0 and 4; the second reaches past the end of the
	// signal and is zero-padded, so every sample lands in a frame and
	// no third frame is needed.
	if fs.NumFrames() != 2 {
		t.Fatalf("expected 2 frames, got %d", fs.NumFrames())
	}

	frame := make([]float64, 8)
	fs.Raw(1, frame)
	for j := 0; j < 6; j++ {
		if frame[j] != 1 {
			t.Errorf("sample %d of partial frame: expected 1, got %v", j, frame[j])
		}
	}
	for j := 6; j < 8; j++ {
		if frame[j] != 0 {
			t.Errorf("sample %d of partial frame: expected zero padding, got %v", j, frame[j])
		}
	}
}

func TestWindowedAppliesCoefficients(t *testing.T) {
	samples := make([]float64, 64)
	for i := range samples {
		samples[i] = 1.0
	}

	fs, err := NewFrameSource(samples, 8000, WindowConfig{Hann, 64, 32})
	if err != nil {
		t.Fatalf("NewFrameSource returned error: %v", err)
	}

	frame := make([]float64, 64)
	fs.Windowed(0, frame)

	coeffs := Hann.Coefficients(64)
	for j := range frame {
		if frame[j] != coeffs[j] {
			t.Fatalf("sample %d: expected window coefficient %v, got %v", j, coeffs[j], frame[j])
		}
	}
}

func TestParseWindowFunc(t *testing.T) {
	tests := []struct {
		name     string
		expected WindowFunc
		wantErr  bool
	}{
		{"hann", Hann, false},
		{"Hanning", Hann, false},
		{"HAMMING", Hamming, false},
		{"blackman", Blackman, false},
		{"rectangular", Rectangular, false},
		{"rect", Rectangular, false},
		{"kaiser", Hann, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWindowFunc(tt.name)
			if tt.wantErr && err == nil {
				t.Error("expected error for unknown window name, got nil")
			}
			if got != tt.expected {
				t.Errorf("ParseWindowFunc(%q) = %v, expected %v", tt.name, got, tt.expected)
			}
		})
	}
}

func TestRawZeroAllocs(t *testing.T) {
	fs, err := NewFrameSource(make([]float64, 4096), 44100,
		WindowConfig{Hann, 1024, 256})
	if err != nil {
		t.Fatalf("NewFrameSource returned error: %v", err)
	}

	frame := make([]float64, 1024)
	allocs := testing.AllocsPerRun(100, func() {
		for i := 0; i < fs.NumFrames(); i++ {
			fs.Windowed(i, frame)
		}
	})

	if allocs > 0 {
		t.Errorf("Expected zero allocations when materializing frames, got %.1f", allocs)
	}
}
