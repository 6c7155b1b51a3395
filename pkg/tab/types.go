// Package tab converts transcribed note sequences into playable tablature
// for fretted string instruments.
package tab

// Technique describes how a note connects to the previous note on the
// same string.
type Technique int

const (
	TechniqueNone Technique = iota
	TechniqueSlide
	TechniqueHammerOn
	TechniquePullOff
)

// String returns the technique name used in JSON output.
func (t Technique) String() string {
	switch t {
	case TechniqueSlide:
		return "slide"
	case TechniqueHammerOn:
		return "hammer-on"
	case TechniquePullOff:
		return "pull-off"
	default:
		return "none"
	}
}

// Marker returns the single-character suffix used in ASCII tabs.
func (t Technique) Marker() string {
	switch t {
	case TechniqueSlide:
		return "s"
	case TechniqueHammerOn:
		return "h"
	case TechniquePullOff:
		return "p"
	default:
		return ""
	}
}

// Note is one transcribed musical event, as produced by an external
// transcription stage. Times are in seconds.
type Note struct {
	Pitch    int     // MIDI pitch (0-127)
	Start    float64 // onset in seconds
	End      float64 // offset in seconds
	Velocity int     // MIDI velocity (0-127)
}

// Duration returns the note length in seconds.
func (n Note) Duration() float64 {
	return n.End - n.Start
}

// TabNote is a note positioned on the fretboard.
type TabNote struct {
	String    int     // string index, 0 = lowest pitched string
	Fret      int     // fret number, 0 = open string
	Start     float64 // onset in seconds
	End       float64 // offset in seconds
	Pitch     int     // original MIDI pitch
	Velocity  int     // original MIDI velocity
	Technique Technique
}

// Diagnostic reports a note that was dropped during solving.
type Diagnostic struct {
	Note   Note
	Reason string
}

// Result is a solved tablature plus any per-note diagnostics.
type Result struct {
	Notes   []TabNote
	Dropped []Diagnostic
}
