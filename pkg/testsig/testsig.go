// Package testsig provides synthetic signals and helpers shared by the
// analysis test suites. Nothing here is used by the engine itself.
package testsig

import "math"

// Sine returns size samples of a pure tone at the given frequency and
// amplitude 1.0.
func Sine(size int, sampleRate, frequency float64) []float64 {
	buffer := make([]float64, size)
	for i := range buffer {
		t := float64(i) / sampleRate
		buffer[i] = math.Sin(2 * math.Pi * frequency * t)
	}
	return buffer
}

// Harmonics returns a 440Hz fundamental with two weaker harmonics,
// useful for exercising pitch and peak picking on non-trivial content.
func Harmonics(size int, sampleRate float64) []float64 {
	buffer := make([]float64, size)
	for i := range buffer {
		t := float64(i) / sampleRate
		buffer[i] = math.Sin(2*math.Pi*440*t)*0.5 +
			math.Sin(2*math.Pi*880*t)*0.3 +
			math.Sin(2*math.Pi*1320*t)*0.2
	}
	return buffer
}

// Silence returns size zero-valued samples.
func Silence(size int) []float64 {
	return make([]float64, size)
}

// FindPeakBin returns the index of the largest magnitude within
// [startBin, endBin], clamped to the slice bounds.
func FindPeakBin(magnitudes []float64, startBin, endBin int) int {
	if len(magnitudes) == 0 {
		return 0
	}

	if startBin < 0 {
		startBin = 0
	}
	if endBin >= len(magnitudes) {
		endBin = len(magnitudes) - 1
	}

	peakBin := startBin
	peakValue := magnitudes[startBin]
	for bin := startBin + 1; bin <= endBin; bin++ {
		if magnitudes[bin] > peakValue {
			peakValue = magnitudes[bin]
			peakBin = bin
		}
	}

	return peakBin
}

// MockTransport records the last payload handed to Send so tests can
// inspect what would have been broadcast.
type MockTransport struct {
	LastData any
	Sends    int
}

func (m *MockTransport) Send(data any) error {
	m.LastData = data
	m.Sends++
	return nil
}

func (m *MockTransport) Close() error { return nil }
