package tab

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidTuning is returned for tunings that cannot describe a real
// instrument: no strings, no frets, or two strings with the same open pitch.
var ErrInvalidTuning = errors.New("invalid tuning")

// ErrUnknownPreset is returned when a preset name does not resolve.
var ErrUnknownPreset = errors.New("unknown tuning preset")

var pitchNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Tuning is an immutable description of an instrument: the open pitch of
// each string (low to high) and the playable fret range.
type Tuning struct {
	open     []int
	numFrets int
}

// NewTuning validates and builds a Tuning. Open pitches are listed from the
// lowest string to the highest; they need not be monotonic (drop tunings are
// fine) but duplicates are rejected.
func NewTuning(openPitches []int, numFrets int) (*Tuning, error) {
	if len(openPitches) == 0 {
		return nil, fmt.Errorf("%w: no strings", ErrInvalidTuning)
	}
	if numFrets <= 0 {
		return nil, fmt.Errorf("%w: fret count %d", ErrInvalidTuning, numFrets)
	}
	seen := make(map[int]int, len(openPitches))
	for i, p := range openPitches {
		if p < 0 || p > 127 {
			return nil, fmt.Errorf("%w: open pitch %d out of MIDI range", ErrInvalidTuning, p)
		}
		if j, ok := seen[p]; ok {
			return nil, fmt.Errorf("%w: strings %d and %d share open pitch %d", ErrInvalidTuning, j, i, p)
		}
		seen[p] = i
	}
	open := make([]int, len(openPitches))
	copy(open, openPitches)
	return &Tuning{open: open, numFrets: numFrets}, nil
}

// NumStrings returns the string count.
func (t *Tuning) NumStrings() int {
	return len(t.open)
}

// NumFrets returns the highest playable fret.
func (t *Tuning) NumFrets() int {
	return t.numFrets
}

// OpenPitch returns the open pitch of string s.
func (t *Tuning) OpenPitch(s int) int {
	return t.open[s]
}

// OpenPitches returns a copy of the open pitches, low string first.
func (t *Tuning) OpenPitches() []int {
	out := make([]int, len(t.open))
	copy(out, t.open)
	return out
}

// StringLabel returns the note name of string s for tab rendering,
// e.g. "E" for pitch 40.
func (t *Tuning) StringLabel(s int) string {
	return pitchNames[((t.open[s]%12)+12)%12]
}

// DefaultFrets is the fret range used by the built-in presets.
const DefaultFrets = 24

var presets = map[string][]int{
	"guitar": {40, 45, 50, 55, 59, 64}, // standard E A D G B e
	"drop-d": {38, 45, 50, 55, 59, 64},
	"bass":   {28, 33, 38, 43}, // 4-string E A D G
	"bass-5": {23, 28, 33, 38, 43},
}

// Preset resolves a named tuning preset ("guitar", "drop-d", "bass",
// "bass-5") with the default fret range.
func Preset(name string) (*Tuning, error) {
	open, ok := presets[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return NewTuning(open, DefaultFrets)
}

// PresetNames lists the built-in presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
