package tab

// Candidate is one playable (string, fret) position for a pitch.
type Candidate struct {
	String int
	Fret   int
}

// Candidates returns every position that sounds pitch under the tuning,
// ordered by string index. An empty result means the pitch is outside the
// instrument's range.
func (t *Tuning) Candidates(pitch int) []Candidate {
	var out []Candidate
	for s, open := range t.open {
		fret := pitch - open
		if fret >= 0 && fret <= t.numFrets {
			out = append(out, Candidate{String: s, Fret: fret})
		}
	}
	return out
}
