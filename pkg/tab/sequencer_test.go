package tab

import (
	"testing"
)

func TestSequenceEmpty(t *testing.T) {
	if got := sequence(nil); got != nil {
		t.Errorf("sequence(nil) = %v, want nil", got)
	}
	if got := sequence([]Note{}); got != nil {
		t.Errorf("sequence(empty) = %v, want nil", got)
	}
}

func TestSequenceSoloNotes(t *testing.T) {
	notes := []Note{
		{Pitch: 64, Start: 1.0, End: 1.4},
		{Pitch: 60, Start: 0.0, End: 0.4},
		{Pitch: 62, Start: 0.5, End: 0.9},
	}
	units := sequence(notes)
	if len(units) != 3 {
		t.Fatalf("got %d units, want 3", len(units))
	}
	wantPitches := []int{60, 62, 64}
	for i, u := range units {
		if len(u.notes) != 1 {
			t.Errorf("unit %d has %d notes, want 1", i, len(u.notes))
		}
		if u.notes[0].Pitch != wantPitches[i] {
			t.Errorf("unit %d pitch = %d, want %d", i, u.notes[0].Pitch, wantPitches[i])
		}
	}
}

func TestSequenceChordGroup(t *testing.T) {
	notes := []Note{
		{Pitch: 60, Start: 0.0, End: 1.0},
		{Pitch: 64, Start: 0.0, End: 1.0},
		{Pitch: 67, Start: 0.0, End: 1.0},
		{Pitch: 72, Start: 1.5, End: 2.0},
	}
	units := sequence(notes)
	if len(units) != 2 {
		t.Fatalf("got %d units, want 2", len(units))
	}
	if len(units[0].notes) != 3 {
		t.Errorf("chord unit has %d notes, want 3", len(units[0].notes))
	}
	if len(units[1].notes) != 1 {
		t.Errorf("solo unit has %d notes, want 1", len(units[1].notes))
	}
}

func TestSequenceTransitiveOverlap(t *testing.T) {
	// A overlaps B, B overlaps C, but A and C never sound together. They
	// still form one group because overlap is merged transitively.
	notes := []Note{
		{Pitch: 60, Start: 0.0, End: 1.0},
		{Pitch: 62, Start: 0.5, End: 2.0},
		{Pitch: 64, Start: 1.5, End: 3.0},
	}
	units := sequence(notes)
	if len(units) != 1 {
		t.Fatalf("got %d units, want 1", len(units))
	}
	if len(units[0].notes) != 3 {
		t.Errorf("group has %d notes, want 3", len(units[0].notes))
	}
}

func TestSequenceTouchingIntervalsDoNotMerge(t *testing.T) {
	// Half-open intervals: a note starting exactly when another ends is
	// not simultaneous with it.
	notes := []Note{
		{Pitch: 60, Start: 0.0, End: 0.5},
		{Pitch: 62, Start: 0.5, End: 1.0},
	}
	units := sequence(notes)
	if len(units) != 2 {
		t.Fatalf("got %d units, want 2", len(units))
	}
}

func TestSequenceTieBrokenByPitch(t *testing.T) {
	notes := []Note{
		{Pitch: 67, Start: 0.0, End: 1.0},
		{Pitch: 60, Start: 0.0, End: 1.0},
	}
	units := sequence(notes)
	if len(units) != 1 || len(units[0].notes) != 2 {
		t.Fatalf("unexpected grouping: %v", units)
	}
	if units[0].notes[0].Pitch != 60 || units[0].notes[1].Pitch != 67 {
		t.Errorf("equal onsets not ordered by pitch: %v", units[0].notes)
	}
}

func TestSequenceDoesNotMutateInput(t *testing.T) {
	notes := []Note{
		{Pitch: 64, Start: 1.0, End: 1.5},
		{Pitch: 60, Start: 0.0, End: 0.5},
	}
	sequence(notes)
	if notes[0].Pitch != 64 {
		t.Errorf("input slice was reordered: %v", notes)
	}
}
