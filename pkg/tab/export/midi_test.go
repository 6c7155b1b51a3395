package export

import (
	"bytes"
	"testing"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/fretwise/fretwise/pkg/midiio"
	"github.com/fretwise/fretwise/pkg/tab"
)

func TestMIDIHeader(t *testing.T) {
	notes := []tab.TabNote{
		{String: 0, Fret: 0, Start: 0, End: 0.5, Pitch: 40, Velocity: 90},
	}
	data, err := MIDI(guitar(t), notes, 120)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("MThd")) {
		t.Errorf("output does not start with an SMF header")
	}
	if _, err := smf.ReadFrom(bytes.NewReader(data)); err != nil {
		t.Errorf("generated file not readable as SMF: %v", err)
	}
}

func TestMIDIRoundTrip(t *testing.T) {
	tuning := guitar(t)
	in := []tab.TabNote{
		{String: 4, Fret: 1, Start: 0.0, End: 0.5, Pitch: 60, Velocity: 80},
		{String: 4, Fret: 3, Start: 0.5, End: 1.0, Pitch: 62, Velocity: 85},
		{String: 5, Fret: 0, Start: 1.0, End: 2.0, Pitch: 64, Velocity: 90},
	}
	data, err := MIDI(tuning, in, 120)
	if err != nil {
		t.Fatal(err)
	}

	got, err := midiio.Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(in) {
		t.Fatalf("round trip produced %d notes, want %d", len(got), len(in))
	}
	for i, n := range got {
		if n.Pitch != in[i].Pitch {
			t.Errorf("note %d pitch = %d, want %d", i, n.Pitch, in[i].Pitch)
		}
		if n.Velocity != in[i].Velocity {
			t.Errorf("note %d velocity = %d, want %d", i, n.Velocity, in[i].Velocity)
		}
		if diff := n.Start - in[i].Start; diff < -0.01 || diff > 0.01 {
			t.Errorf("note %d start = %v, want about %v", i, n.Start, in[i].Start)
		}
	}
}

func TestMIDIZeroDurationNote(t *testing.T) {
	notes := []tab.TabNote{
		{String: 0, Fret: 0, Start: 0.5, End: 0.5, Pitch: 40, Velocity: 90},
	}
	data, err := MIDI(guitar(t), notes, 120)
	if err != nil {
		t.Fatal(err)
	}
	got, err := midiio.Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d notes, want 1", len(got))
	}
	if got[0].End <= got[0].Start {
		t.Errorf("zero-length note not stretched: %+v", got[0])
	}
}
