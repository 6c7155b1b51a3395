package tab

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Arranger runs the full note-to-tablature pipeline for one instrument:
// sequencing, fingering and technique annotation.
type Arranger struct {
	solver *Solver
	params TechniqueParams
	log    *zap.Logger
}

// Option configures an Arranger.
type Option func(*Arranger)

// WithTechniqueParams overrides the annotation thresholds.
func WithTechniqueParams(p TechniqueParams) Option {
	return func(a *Arranger) {
		a.params = p
	}
}

// WithLogger attaches a logger. The default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(a *Arranger) {
		if log != nil {
			a.log = log
		}
	}
}

// NewArranger builds an arranger for the given instrument and solver
// weights.
func NewArranger(t *Tuning, w Weights, opts ...Option) (*Arranger, error) {
	solver, err := NewSolver(t, w)
	if err != nil {
		return nil, err
	}
	a := &Arranger{
		solver: solver,
		params: DefaultTechniqueParams(),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Tuning returns the instrument model the arranger solves for.
func (a *Arranger) Tuning() *Tuning {
	return a.solver.tuning
}

// Arrange converts a transcribed note sequence into annotated tablature.
func (a *Arranger) Arrange(notes []Note) (Result, error) {
	res, err := a.solver.Solve(notes)
	if err != nil {
		return Result{}, err
	}
	res.Notes = Annotate(res.Notes, a.params)
	a.log.Debug("arranged track",
		zap.Int("input_notes", len(notes)),
		zap.Int("tab_notes", len(res.Notes)),
		zap.Int("dropped", len(res.Dropped)))
	return res, nil
}

// ArrangeTracks solves independent tracks concurrently. Each track has its
// own DP table, so the only coordination is collecting results. A track
// whose solve has not started when ctx is canceled is skipped.
func (a *Arranger) ArrangeTracks(ctx context.Context, tracks map[string][]Note) (map[string]Result, error) {
	results := make(map[string]Result, len(tracks))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for name, notes := range tracks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := a.Arrange(notes)
			if err != nil {
				return err
			}
			mu.Lock()
			results[name] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
