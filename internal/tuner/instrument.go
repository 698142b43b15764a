// SPDX-License-Identifier: MIT

// Package tuner runs the live capture pipeline as an instrument tuner.
// It layers instrument string tables over the pipeline's pitch
// estimates so each update names the nearest target string and how far
// off it is.
package tuner

import (
	"fmt"
	"math"
	"strings"
)

// InstrumentString is one tunable string: its target frequency and
// conventional label.
type InstrumentString struct {
	Freq  float64
	Label string
}

// Instrument groups the strings of one instrument in playing order,
// lowest first.
type Instrument struct {
	Name    string
	Strings []InstrumentString
}

// Instruments lists the built-in tuning tables.
var Instruments = []Instrument{
	{
		Name: "Guitar (Standard)",
		Strings: []InstrumentString{
			{82.41, "E2"}, {110.00, "A2"}, {146.83, "D3"},
			{196.00, "G3"}, {246.94, "B3"}, {329.63, "E4"},
		},
	},
	{
		Name: "Violin",
		Strings: []InstrumentString{
			{196.00, "G3"}, {293.66, "D4"}, {440.00, "A4"}, {659.26, "E5"},
		},
	},
	{
		Name: "Cretan Lute",
		Strings: []InstrumentString{
			{110.00, "E"}, {146.83, "A"}, {196.00, "D"}, {359.00, "G"},
		},
	},
	{
		Name: "Piano",
		Strings: []InstrumentString{
			{27.50, "A0"}, {55.00, "A1"}, {110.00, "A2"},
			{220.00, "A3"}, {440.00, "A4"}, {880.00, "A5"},
		},
	},
}

// LookupInstrument finds a built-in instrument by name, matched
// case-insensitively and ignoring anything after the first paren, so
// "guitar" finds "Guitar (Standard)".
func LookupInstrument(name string) (Instrument, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, inst := range Instruments {
		full := strings.ToLower(inst.Name)
		short := strings.TrimSpace(strings.Split(full, "(")[0])
		if needle == full || needle == short {
			return inst, nil
		}
	}
	return Instrument{}, fmt.Errorf("unknown instrument %q", name)
}

// NearestString returns the instrument string closest to hz in log
// frequency, along with the deviation from it in cents (positive when
// sharp). Log distance keeps octaves comparable: 10 Hz off a bass
// string matters more than 10 Hz off a treble one.
func (inst Instrument) NearestString(hz float64) (InstrumentString, float64) {
	if hz <= 0 || len(inst.Strings) == 0 {
		return InstrumentString{}, 0
	}

	best := inst.Strings[0]
	bestDist := math.Abs(math.Log2(hz / best.Freq))
	for _, s := range inst.Strings[1:] {
		if d := math.Abs(math.Log2(hz / s.Freq)); d < bestDist {
			best = s
			bestDist = d
		}
	}

	cents := 1200 * math.Log2(hz/best.Freq)
	return best, cents
}
