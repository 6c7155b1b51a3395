package export

import (
	"encoding/json"

	"github.com/fretwise/fretwise/pkg/tab"
)

// Document is the JSON representation of a solved tablature.
type Document struct {
	Title    string     `json:"title"`
	Tuning   []int      `json:"tuning"`
	NumFrets int        `json:"num_frets"`
	Notes    []noteJSON `json:"notes"`
}

type noteJSON struct {
	String    int     `json:"string"`
	Fret      int     `json:"fret"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Pitch     int     `json:"pitch"`
	Technique string  `json:"technique"`
}

// JSON serializes the tablature with its instrument context.
func JSON(t *tab.Tuning, notes []tab.TabNote, title string) ([]byte, error) {
	doc := Document{
		Title:    title,
		Tuning:   t.OpenPitches(),
		NumFrets: t.NumFrets(),
		Notes:    make([]noteJSON, 0, len(notes)),
	}
	for _, n := range notes {
		doc.Notes = append(doc.Notes, noteJSON{
			String:    n.String,
			Fret:      n.Fret,
			StartTime: n.Start,
			EndTime:   n.End,
			Pitch:     n.Pitch,
			Technique: n.Technique.String(),
		})
	}
	return json.MarshalIndent(doc, "", "  ")
}
