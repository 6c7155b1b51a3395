package tab

// TechniqueParams control how consecutive same-string notes are tagged.
type TechniqueParams struct {
	MaxGap     float64 // largest silent gap in seconds that still connects two notes
	LegatoSpan int     // largest fret distance for a hammer-on or pull-off
}

// DefaultTechniqueParams returns the annotation thresholds used when none
// are configured: a 50ms gap and a four-fret legato reach.
func DefaultTechniqueParams() TechniqueParams {
	return TechniqueParams{
		MaxGap:     0.05,
		LegatoSpan: 4,
	}
}

// Annotate scans a solved tablature pairwise in time order and tags
// hammer-ons, pull-offs and slides on consecutive same-string notes. The
// string and fret assignment is never altered. The input slice is returned
// with its technique fields filled in.
func Annotate(notes []TabNote, p TechniqueParams) []TabNote {
	for i := 1; i < len(notes); i++ {
		prev := notes[i-1]
		cur := &notes[i]

		if cur.String != prev.String {
			continue
		}
		gap := cur.Start - prev.End
		if gap > p.MaxGap {
			continue
		}

		diff := cur.Fret - prev.Fret
		switch {
		case diff == 0:
			// repicked note, nothing to tag
		case diff > 0 && diff <= p.LegatoSpan:
			cur.Technique = TechniqueHammerOn
		case diff < 0 && -diff <= p.LegatoSpan:
			cur.Technique = TechniquePullOff
		case gap <= 0:
			// too far for legato but no silence in between: a glide
			cur.Technique = TechniqueSlide
		}
	}
	return notes
}
