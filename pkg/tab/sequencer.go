package tab

import "sort"

// solveUnit is one decision point for the solver: a single note, or a
// group of notes whose time intervals transitively overlap and therefore
// compete for strings.
type solveUnit struct {
	notes []Note
}

// sequence sorts notes by (start, pitch) and merges transitively
// overlapping intervals into chord groups. Notes with no temporal overlap
// become singleton units. Empty input yields an empty sequence.
func sequence(notes []Note) []solveUnit {
	if len(notes) == 0 {
		return nil
	}

	sorted := make([]Note, len(notes))
	copy(sorted, notes)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].Pitch < sorted[j].Pitch
	})

	var units []solveUnit
	cur := solveUnit{notes: []Note{sorted[0]}}
	maxEnd := sorted[0].End

	// With notes sorted by start, a note overlaps the running group iff it
	// starts before the group's furthest offset.
	for _, n := range sorted[1:] {
		if n.Start < maxEnd {
			cur.notes = append(cur.notes, n)
			if n.End > maxEnd {
				maxEnd = n.End
			}
			continue
		}
		units = append(units, cur)
		cur = solveUnit{notes: []Note{n}}
		maxEnd = n.End
	}
	units = append(units, cur)
	return units
}
