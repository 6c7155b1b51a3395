package export

import (
	"bytes"
	"fmt"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/fretwise/fretwise/pkg/tab"
)

const (
	ticksPerQuarter = 480
	defaultVelocity = 96
)

// MIDI renders the tablature as a single-track standard MIDI file. Each
// string plays on its own channel so downstream tools can tell unison
// pitches on different strings apart.
func MIDI(t *tab.Tuning, notes []tab.TabNote, tempo float64) ([]byte, error) {
	if tempo <= 0 {
		tempo = 120
	}

	type event struct {
		tick uint32
		off  bool
		msg  midi.Message
	}
	ticksPerSecond := tempo / 60 * ticksPerQuarter

	events := make([]event, 0, len(notes)*2)
	for _, n := range notes {
		ch := uint8(n.String % 16)
		vel := uint8(defaultVelocity)
		if n.Velocity > 0 && n.Velocity <= 127 {
			vel = uint8(n.Velocity)
		}
		on := uint32(n.Start * ticksPerSecond)
		off := uint32(n.End * ticksPerSecond)
		if off <= on {
			off = on + 1
		}
		key := uint8(n.Pitch)
		events = append(events,
			event{tick: on, msg: midi.NoteOn(ch, key, vel)},
			event{tick: off, off: true, msg: midi.NoteOff(ch, key)},
		)
	}
	// Offs before ons at the same tick so retriggers are unambiguous.
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].off && !events[j].off
	})

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ticksPerQuarter)

	var track smf.Track
	track.Add(0, smf.MetaTempo(tempo))
	var cur uint32
	for _, ev := range events {
		track.Add(ev.tick-cur, ev.msg)
		cur = ev.tick
	}
	track.Close(0)

	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("failed to add track: %w", err)
	}
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}
	return buf.Bytes(), nil
}
