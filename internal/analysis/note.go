// SPDX-License-Identifier: MIT
package analysis

import (
	"fmt"
	"math"
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteForFrequency maps a frequency to its nearest note in twelve-tone
// equal temperament around the given A4 reference (usually 440 Hz).
// Returns the scientific-pitch label ("A4", "C#3") and the deviation
// from that note in cents, positive when the input is sharp.
// Non-positive frequencies return an empty label.
func NoteForFrequency(hz, refA4 float64) (string, float64) {
	if hz <= 0 || refA4 <= 0 {
		return "", 0
	}

	// Semitone distance from A4; A4 itself is MIDI note 69.
	semitones := 12 * math.Log2(hz/refA4)
	midi := int(math.Round(semitones)) + 69
	if midi < 0 {
		midi = 0
	}

	name := noteNames[midi%12]
	octave := midi/12 - 1
	cents := 100 * (semitones - float64(midi-69))

	return fmt.Sprintf("%s%d", name, octave), cents
}
