// Package midiio reads standard MIDI files into the note sequence consumed
// by the tablature engine.
package midiio

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/fretwise/fretwise/pkg/tab"
)

// ReadFile parses a MIDI file into notes ordered by onset.
func ReadFile(path string) ([]tab.Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read MIDI file: %w", err)
	}
	return Parse(data)
}

// Parse extracts note events from MIDI data. Note on/off pairs are matched
// per pitch across all tracks; times are absolute seconds derived from the
// file's tempo map.
func Parse(data []byte) (notes []tab.Note, err error) {
	// The SMF reader can panic on malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed MIDI data: %v", r)
		}
	}()

	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse MIDI: %w", err)
	}

	type pressedNote struct {
		startUS  int64
		velocity uint8
	}

	for _, track := range s.Tracks {
		var absTicks int64
		pressed := make(map[uint8]pressedNote)
		lastUS := int64(0)
		for _, ev := range track {
			absTicks += int64(ev.Delta)
			absUS := s.TimeAt(absTicks)
			lastUS = absUS

			var channel, key, velocity uint8
			switch {
			case ev.Message.GetNoteStart(&channel, &key, &velocity):
				if p, ok := pressed[key]; ok {
					// retriggered before release, close the previous one
					notes = append(notes, makeNote(key, p.startUS, absUS, p.velocity))
				}
				pressed[key] = pressedNote{startUS: absUS, velocity: velocity}
			case ev.Message.GetNoteEnd(&channel, &key):
				if p, ok := pressed[key]; ok {
					notes = append(notes, makeNote(key, p.startUS, absUS, p.velocity))
					delete(pressed, key)
				}
			}
		}
		// notes still sounding at end of track close at the last event
		for key, p := range pressed {
			if lastUS > p.startUS {
				notes = append(notes, makeNote(key, p.startUS, lastUS, p.velocity))
			}
		}
	}

	if len(notes) == 0 {
		return nil, errors.New("no note events in MIDI data")
	}
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].Start != notes[j].Start {
			return notes[i].Start < notes[j].Start
		}
		return notes[i].Pitch < notes[j].Pitch
	})
	return notes, nil
}

func makeNote(key uint8, startUS, endUS int64, velocity uint8) tab.Note {
	return tab.Note{
		Pitch:    int(key),
		Start:    float64(startUS) / 1e6,
		End:      float64(endUS) / 1e6,
		Velocity: int(velocity),
	}
}
