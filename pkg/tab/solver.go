package tab

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
)

// Weights are the tunable cost parameters for the fingering solver. All
// weights must be non-negative so that zero movement always costs zero.
type Weights struct {
	Fret       float64 // intrinsic cost per fret; open strings cost nothing
	Movement   float64 // cost per fret of hand travel between units
	StringJump float64 // cost per newly engaged string
	Span       float64 // cost per squared fret beyond HandSpan within a chord
	HandSpan   int     // comfortable fret span for one hand
}

// DefaultWeights returns parameters tuned so that small same-string moves
// beat string hops and open-string detours on stepwise melodies.
func DefaultWeights() Weights {
	return Weights{
		Fret:       0.3,
		Movement:   1.5,
		StringJump: 2.0,
		Span:       1.0,
		HandSpan:   4,
	}
}

func (w Weights) validate() error {
	if w.Fret < 0 || w.Movement < 0 || w.StringJump < 0 || w.Span < 0 {
		return errors.New("solver weights must be non-negative")
	}
	if w.HandSpan < 1 {
		return errors.New("hand span must be at least one fret")
	}
	return nil
}

// state is one joint fingering for a solve unit: an injective mapping from
// the unit's notes to strings. Solo notes are the one-note case.
type state struct {
	strs      []int   // string per note, parallel to the unit's notes
	frets     []int   // fret per note
	used      uint32  // bitmask of engaged strings
	center    float64 // mean fret over fretted positions, 0 if all open
	maxFret   int
	intrinsic float64
}

// Solver assigns fretboard positions to note sequences by dynamic
// programming over per-unit candidate states. It is pure and safe to share
// across goroutines.
type Solver struct {
	tuning  *Tuning
	weights Weights
}

// NewSolver builds a solver for one instrument.
func NewSolver(t *Tuning, w Weights) (*Solver, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil tuning", ErrInvalidTuning)
	}
	if err := w.validate(); err != nil {
		return nil, err
	}
	return &Solver{tuning: t, weights: w}, nil
}

// layer is one column of the DP table: a solve unit and its states.
type layer struct {
	unit   solveUnit
	states []state
}

// Solve computes a minimum-cost fingering for the whole note sequence.
// Unplayable notes are dropped and reported in Result.Dropped; they never
// abort the solve. Empty input yields an empty result.
func (s *Solver) Solve(notes []Note) (Result, error) {
	var res Result

	layers := s.buildLayers(sequence(notes), &res)
	if len(layers) == 0 {
		return res, nil
	}

	// Viterbi forward pass over flat per-layer arrays.
	costs := make([][]float64, len(layers))
	back := make([][]int, len(layers))
	for i, ly := range layers {
		costs[i] = make([]float64, len(ly.states))
		back[i] = make([]int, len(ly.states))
		for j, st := range ly.states {
			if i == 0 {
				costs[i][j] = st.intrinsic
				back[i][j] = -1
				continue
			}
			best := math.Inf(1)
			bestPrev := -1
			for k, prev := range layers[i-1].states {
				c := costs[i-1][k] + s.transition(prev, st)
				if c < best {
					best = c
					bestPrev = k
				}
			}
			costs[i][j] = best + st.intrinsic
			back[i][j] = bestPrev
		}
	}

	// Terminal selection with deterministic tie-breaking, then backtrace.
	last := len(layers) - 1
	bestEnd := 0
	for j := 1; j < len(layers[last].states); j++ {
		if betterEnd(layers[last].states[j], costs[last][j], layers[last].states[bestEnd], costs[last][bestEnd]) {
			bestEnd = j
		}
	}
	path := make([]int, len(layers))
	path[last] = bestEnd
	for i := last; i > 0; i-- {
		path[i-1] = back[i][path[i]]
	}

	for i, ly := range layers {
		st := ly.states[path[i]]
		for k, n := range ly.unit.notes {
			res.Notes = append(res.Notes, TabNote{
				String:   st.strs[k],
				Fret:     st.frets[k],
				Start:    n.Start,
				End:      n.End,
				Pitch:    n.Pitch,
				Velocity: n.Velocity,
			})
		}
	}
	return res, nil
}

// buildLayers prunes unplayable notes, enumerates candidate states per unit
// and records diagnostics for everything dropped on the way.
func (s *Solver) buildLayers(units []solveUnit, res *Result) []layer {
	var layers []layer
	for _, u := range units {
		var playable []Note
		for _, n := range u.notes {
			if len(s.tuning.Candidates(n.Pitch)) == 0 {
				res.Dropped = append(res.Dropped, Diagnostic{
					Note:   n,
					Reason: fmt.Sprintf("pitch %d not playable within %d frets", n.Pitch, s.tuning.NumFrets()),
				})
				continue
			}
			playable = append(playable, n)
		}

		// A chord can never use more strings than the instrument has.
		for len(playable) > s.tuning.NumStrings() {
			n := playable[len(playable)-1]
			playable = playable[:len(playable)-1]
			res.Dropped = append(res.Dropped, Diagnostic{
				Note:   n,
				Reason: fmt.Sprintf("chord exceeds %d strings", s.tuning.NumStrings()),
			})
		}

		// Per-note candidates can still admit no injective assignment, e.g.
		// a unison where both notes resolve to the same single string. Shed
		// notes from the top of the group until an assignment exists.
		var states []state
		for len(playable) > 0 {
			states = s.enumerate(playable)
			if len(states) > 0 {
				break
			}
			n := playable[len(playable)-1]
			playable = playable[:len(playable)-1]
			res.Dropped = append(res.Dropped, Diagnostic{
				Note:   n,
				Reason: "no conflict-free string assignment in chord",
			})
		}
		if len(playable) == 0 {
			continue
		}
		layers = append(layers, layer{unit: solveUnit{notes: playable}, states: states})
	}
	return layers
}

// enumerate lists every injective (string, fret) assignment for the unit's
// notes. The branching factor is bounded by permutations over the string
// count, so brute force is cheap.
func (s *Solver) enumerate(notes []Note) []state {
	k := len(notes)
	cands := make([][]Candidate, k)
	for i, n := range notes {
		cands[i] = s.tuning.Candidates(n.Pitch)
	}

	var states []state
	strs := make([]int, k)
	frets := make([]int, k)
	var assign func(i int, used uint32)
	assign = func(i int, used uint32) {
		if i == k {
			states = append(states, s.newState(strs, frets, used))
			return
		}
		for _, c := range cands[i] {
			bit := uint32(1) << uint(c.String)
			if used&bit != 0 {
				continue
			}
			strs[i] = c.String
			frets[i] = c.Fret
			assign(i+1, used|bit)
		}
	}
	assign(0, 0)
	return states
}

// newState computes the intrinsic cost of an assignment: fret height (open
// strings are free) plus a superlinear penalty once a chord's fretted span
// exceeds the hand span.
func (s *Solver) newState(strs, frets []int, used uint32) state {
	st := state{
		strs:  append([]int(nil), strs...),
		frets: append([]int(nil), frets...),
		used:  used,
	}
	sum, fretted := 0, 0
	minFret, maxFretted := -1, 0
	for _, f := range st.frets {
		if f > st.maxFret {
			st.maxFret = f
		}
		st.intrinsic += s.weights.Fret * float64(f)
		if f == 0 {
			continue
		}
		sum += f
		fretted++
		if minFret == -1 || f < minFret {
			minFret = f
		}
		if f > maxFretted {
			maxFretted = f
		}
	}
	if fretted > 0 {
		st.center = float64(sum) / float64(fretted)
		if len(st.frets) > 1 {
			if span := maxFretted - minFret; span > s.weights.HandSpan {
				over := float64(span - s.weights.HandSpan)
				st.intrinsic += s.weights.Span * over * over
			}
		}
	}
	return st
}

// transition prices the move between consecutive states: fret-center travel
// plus a penalty per string the hand newly engages.
func (s *Solver) transition(prev, cur state) float64 {
	moved := s.weights.Movement * math.Abs(cur.center-prev.center)
	fresh := bits.OnesCount32(cur.used &^ prev.used)
	return moved + s.weights.StringJump*float64(fresh)
}

// betterEnd orders terminal states: lower accumulated cost, then lower
// maximum fret, then lower string for the unit's first note. Remaining ties
// keep the earlier enumeration, which follows input order.
func betterEnd(a state, costA float64, b state, costB float64) bool {
	if costA != costB {
		return costA < costB
	}
	if a.maxFret != b.maxFret {
		return a.maxFret < b.maxFret
	}
	return a.strs[0] < b.strs[0]
}
