// SPDX-License-Identifier: MIT
package signal

import (
	"testing"
	"time"
)

func TestNewCopiesSamples(t *testing.T) {
	src := []float64{0.1, 0.2, 0.3}
	buf, err := New(src, 44100, "test")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	src[0] = 99.0
	if buf.Samples()[0] != 0.1 {
		t.Error("Buffer should own a copy of the input samples")
	}
}

func TestNewRejectsBadRate(t *testing.T) {
	for _, rate := range []int{0, -1, -44100} {
		if _, err := New([]float64{0}, rate, "bad"); err == nil {
			t.Errorf("expected error for sample rate %d, got nil", rate)
		}
	}
}

func TestEmptyBufferIsValid(t *testing.T) {
	buf, err := New(nil, 8000, "empty")
	if err != nil {
		t.Fatalf("empty buffer should be constructible, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected length 0, got %d", buf.Len())
	}
	if buf.Duration() != 0 {
		t.Errorf("expected zero duration, got %v", buf.Duration())
	}
}

func TestDuration(t *testing.T) {
	buf, _ := New(make([]float64, 44100), 44100, "one second")
	if got := buf.Duration(); got != time.Second {
		t.Errorf("expected 1s duration, got %v", got)
	}
}

func TestSlice(t *testing.T) {
	buf, _ := New([]float64{0, 1, 2, 3, 4}, 100, "full")

	tests := []struct {
		name     string
		from, to int
		expected []float64
	}{
		{"interior", 1, 3, []float64{1, 2}},
		{"clamped high", 3, 99, []float64{3, 4}},
		{"clamped low", -2, 2, []float64{0, 1}},
		{"inverted", 4, 2, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			region := buf.Slice(tt.from, tt.to, "region")
			if region.Len() != len(tt.expected) {
				t.Fatalf("expected %d samples, got %d", len(tt.expected), region.Len())
			}
			for i, want := range tt.expected {
				if region.Samples()[i] != want {
					t.Errorf("sample %d: expected %v, got %v", i, want, region.Samples()[i])
				}
			}
			if region.Rate() != buf.Rate() {
				t.Error("slice should keep the source sample rate")
			}
		})
	}
}
