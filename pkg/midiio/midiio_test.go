package midiio

import (
	"bytes"
	"testing"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// makeSMF builds a one-track file at 120 BPM with 480 ticks per quarter,
// so 480 ticks last exactly half a second.
func makeSMF(t *testing.T, add func(track *smf.Track)) []byte {
	t.Helper()
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(480)

	var track smf.Track
	track.Add(0, smf.MetaTempo(120))
	add(&track)
	track.Close(0)
	if err := s.Add(track); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestParse(t *testing.T) {
	data := makeSMF(t, func(track *smf.Track) {
		track.Add(0, midi.NoteOn(0, 60, 90))
		track.Add(480, midi.NoteOff(0, 60))
		track.Add(0, midi.NoteOn(0, 64, 100))
		track.Add(480, midi.NoteOff(0, 64))
	})

	notes, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 2 {
		t.Fatalf("got %d notes, want 2", len(notes))
	}

	if notes[0].Pitch != 60 || notes[1].Pitch != 64 {
		t.Errorf("pitches = %d, %d, want 60, 64", notes[0].Pitch, notes[1].Pitch)
	}
	if notes[0].Velocity != 90 || notes[1].Velocity != 100 {
		t.Errorf("velocities = %d, %d, want 90, 100", notes[0].Velocity, notes[1].Velocity)
	}
	// 480 ticks at 120 BPM is half a second.
	approx := func(got, want float64) bool { return got > want-0.01 && got < want+0.01 }
	if !approx(notes[0].Start, 0) || !approx(notes[0].End, 0.5) {
		t.Errorf("first note times = [%v, %v], want [0, 0.5]", notes[0].Start, notes[0].End)
	}
	if !approx(notes[1].Start, 0.5) || !approx(notes[1].End, 1.0) {
		t.Errorf("second note times = [%v, %v], want [0.5, 1.0]", notes[1].Start, notes[1].End)
	}
}

func TestParseChord(t *testing.T) {
	data := makeSMF(t, func(track *smf.Track) {
		track.Add(0, midi.NoteOn(0, 60, 90))
		track.Add(0, midi.NoteOn(0, 64, 90))
		track.Add(0, midi.NoteOn(0, 67, 90))
		track.Add(960, midi.NoteOff(0, 60))
		track.Add(0, midi.NoteOff(0, 64))
		track.Add(0, midi.NoteOff(0, 67))
	})

	notes, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 3 {
		t.Fatalf("got %d notes, want 3", len(notes))
	}
	// Simultaneous notes come out ordered by pitch.
	for i, want := range []int{60, 64, 67} {
		if notes[i].Pitch != want {
			t.Errorf("note %d pitch = %d, want %d", i, notes[i].Pitch, want)
		}
	}
}

func TestParseUnterminatedNote(t *testing.T) {
	data := makeSMF(t, func(track *smf.Track) {
		track.Add(0, midi.NoteOn(0, 60, 90))
		track.Add(480, midi.NoteOn(0, 64, 90))
		track.Add(480, midi.NoteOff(0, 64))
		// note 60 never receives a note-off
	})

	notes, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 2 {
		t.Fatalf("got %d notes, want 2 (hung note closed at end of track)", len(notes))
	}
	for _, n := range notes {
		if n.End <= n.Start {
			t.Errorf("note %+v has no duration", n)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse([]byte("definitely not midi")); err == nil {
		t.Error("Parse accepted garbage input")
	}
	if _, err := Parse(nil); err == nil {
		t.Error("Parse accepted empty input")
	}
}

func TestParseNoNotes(t *testing.T) {
	data := makeSMF(t, func(track *smf.Track) {})
	if _, err := Parse(data); err == nil {
		t.Error("Parse accepted a file without note events")
	}
}
