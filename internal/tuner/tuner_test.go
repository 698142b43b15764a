// SPDX-License-Identifier: MIT
package tuner

import (
	"math"
	"testing"
	"time"

	"sigviz/internal/capture"
	"sigviz/internal/dsp"
	"sigviz/pkg/testsig"
)

const testRate = 44100

func TestLookupInstrument(t *testing.T) {
	tests := []struct {
		query   string
		want    string
		wantErr bool
	}{
		{"Guitar (Standard)", "Guitar (Standard)", false},
		{"guitar", "Guitar (Standard)", false},
		{"VIOLIN", "Violin", false},
		{"cretan lute", "Cretan Lute", false},
		{"piano", "Piano", false},
		{"theremin", "", true},
	}

	for _, tt := range tests {
		inst, err := LookupInstrument(tt.query)
		if tt.wantErr {
			if err == nil {
				t.Errorf("LookupInstrument(%q) expected error", tt.query)
			}
			continue
		}
		if err != nil {
			t.Errorf("LookupInstrument(%q) returned error: %v", tt.query, err)
			continue
		}
		if inst.Name != tt.want {
			t.Errorf("LookupInstrument(%q) = %q, expected %q", tt.query, inst.Name, tt.want)
		}
	}
}

func TestNearestString(t *testing.T) {
	guitar, err := LookupInstrument("guitar")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		hz    float64
		label string
	}{
		{82.41, "E2"},
		{84, "E2"},
		{110, "A2"},
		{200, "G3"},
		{330, "E4"},
		{500, "E4"}, // above every string: nearest is the top one
	}

	for _, tt := range tests {
		s, _ := guitar.NearestString(tt.hz)
		if s.Label != tt.label {
			t.Errorf("NearestString(%.2f) = %q, expected %q", tt.hz, s.Label, tt.label)
		}
	}

	// Exactly on pitch reads zero cents.
	if _, cents := guitar.NearestString(110); math.Abs(cents) > 1e-9 {
		t.Errorf("on-pitch string read %.4f cents, expected 0", cents)
	}

	// A semitone above A2 is +100 cents.
	sharp := 110 * math.Pow(2, 1.0/12)
	if s, cents := guitar.NearestString(sharp); s.Label == "A2" && math.Abs(cents-100) > 0.01 {
		t.Errorf("semitone above A2 read %.2f cents, expected 100", cents)
	}
}

func TestTunerAnnotatesReadings(t *testing.T) {
	src := capture.NewStaticSource(testRate)
	tun, err := New(src, dsp.WindowConfig{Window: dsp.Hann, Length: 2048, Hop: 512}, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := tun.SetInstrument("guitar"); err != nil {
		t.Fatal(err)
	}

	update := &capture.Update{
		Time:   time.Now(),
		Pitch:  111.2,
		Voiced: true,
		Note:   "A2",
	}
	if err := tun.Send(update); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	reading := tun.Latest()
	if reading == nil {
		t.Fatal("expected a reading after Send")
	}
	if reading.Instrument != "Guitar (Standard)" {
		t.Errorf("instrument %q, expected Guitar (Standard)", reading.Instrument)
	}
	if reading.String != "A2" {
		t.Errorf("string %q, expected A2", reading.String)
	}
	if reading.StringCents <= 0 {
		t.Errorf("cents %.2f, expected sharp (positive)", reading.StringCents)
	}
}

func TestTunerForwardsReadings(t *testing.T) {
	src := capture.NewStaticSource(testRate)
	forward := &testsig.MockTransport{}
	tun, err := New(src, dsp.WindowConfig{Window: dsp.Hann, Length: 2048, Hop: 512}, forward)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if err := tun.Send(&capture.Update{Voiced: true, Pitch: 440}); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if forward.Sends != 1 {
		t.Fatalf("forward saw %d sends, expected 1", forward.Sends)
	}
	if _, ok := forward.LastData.(*Reading); !ok {
		t.Errorf("forwarded %T, expected *Reading", forward.LastData)
	}
}

func TestTunerLiveTone(t *testing.T) {
	src := capture.NewStaticSource(testRate)
	tun, err := New(src, dsp.WindowConfig{Window: dsp.Hann, Length: 2048, Hop: 512}, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := tun.SetInstrument("violin"); err != nil {
		t.Fatal(err)
	}
	if err := tun.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	defer tun.Stop()

	src.Push(testsig.Sine(4096, testRate, 440))

	// The pipeline ticks on its own cadence (~11.6 ms per hop).
	deadline := time.After(2 * time.Second)
	for tun.Latest() == nil {
		select {
		case <-deadline:
			t.Fatal("no reading within 2s of pushing audio")
		case <-time.After(5 * time.Millisecond):
		}
	}

	reading := tun.Latest()
	if !reading.Voiced {
		t.Fatal("expected a voiced reading on a pure tone")
	}
	if math.Abs(reading.Pitch-440) > 2 {
		t.Errorf("pitch %.2f Hz, expected 440±2 Hz", reading.Pitch)
	}
	if reading.String != "A4" {
		t.Errorf("string %q, expected the violin A4", reading.String)
	}
}
