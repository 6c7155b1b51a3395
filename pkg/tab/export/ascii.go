// Package export renders solved tablature as ASCII tab, JSON and standard
// MIDI files.
package export

import (
	"fmt"
	"strings"

	"github.com/fretwise/fretwise/pkg/tab"
)

const (
	cellWidth     = 3  // characters per time column
	columnsPerRow = 60 // time columns per staff chunk
)

// ASCII renders the tablature as monospace text. Each column covers
// resolution seconds; strings are printed high to low the way tabs are
// usually read.
func ASCII(t *tab.Tuning, notes []tab.TabNote, title string, resolution float64) string {
	if resolution <= 0 {
		resolution = 0.25
	}
	var b strings.Builder
	fmt.Fprintf(&b, "=== %s ===\n\n", title)
	if len(notes) == 0 {
		b.WriteString("(no notes)\n")
		return b.String()
	}

	maxEnd := 0.0
	for _, n := range notes {
		if n.End > maxEnd {
			maxEnd = n.End
		}
	}
	numCols := int(maxEnd/resolution) + 1

	empty := strings.Repeat("-", cellWidth)
	grid := make([][]string, t.NumStrings())
	for s := range grid {
		grid[s] = make([]string, numCols)
		for c := range grid[s] {
			grid[s][c] = empty
		}
	}

	for _, n := range notes {
		col := int(n.Start / resolution)
		if col >= numCols {
			continue
		}
		cell := fmt.Sprintf("%d%s", n.Fret, n.Technique.Marker())
		if len(cell) < cellWidth {
			cell += strings.Repeat("-", cellWidth-len(cell))
		}
		grid[n.String][col] = cell
	}

	for start := 0; start < numCols; start += columnsPerRow {
		end := start + columnsPerRow
		if end > numCols {
			end = numCols
		}
		for s := t.NumStrings() - 1; s >= 0; s-- {
			b.WriteString(t.StringLabel(s))
			b.WriteString("|")
			for c := start; c < end; c++ {
				b.WriteString(grid[s][c])
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("Legend: s=slide, h=hammer-on, p=pull-off\n")
	return b.String()
}
