package orchestrator

import (
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/maastricht-university/podcast-pipeline/speakers"
)

// run is the state of one invocation. It is owned by a single goroutine.
type run struct {
	id       string
	state    State
	total    int
	done     int
	log      logrus.FieldLogger
	progress func(Progress)
}

func (p *Pipeline) newRun() *run {
	id := uuid.New().String()
	return &run{
		id:       id,
		state:    Idle,
		log:      p.log.WithField("run", id),
		progress: p.progress,
	}
}

func (r *run) enter(s State) {
	r.log.WithField("state", s).Debugf("pipeline: %s -> %s", r.state, s)
	r.state = s
	r.report()
}

func (r *run) lineDone() {
	r.done++
	r.report()
}

func (r *run) report() {
	if r.progress != nil {
		r.progress(Progress{RunID: r.id, State: r.state, Line: r.done, Total: r.total})
	}
}

// fail moves the run to Failed and wraps err with the failing state.
func (r *run) fail(kind Kind, ordinal int, err error) error {
	e := &Error{Kind: kind, State: r.state, Ordinal: ordinal, Err: err}
	r.log.WithError(err).WithFields(logrus.Fields{
		"kind":  kind.String(),
		"state": r.state.String(),
	}).Warn("pipeline: run failed")
	r.state = Failed
	r.report()
	return e
}

// newRegistry builds the per-run speaker registry. A configured seed makes
// voice assignment reproducible; otherwise every run starts at a random
// pool offset.
func (p *Pipeline) newRegistry() (*speakers.Registry, error) {
	seed := p.cfg.Voices.Seed
	var rng *rand.Rand
	if seed != 0 {
		rng = rand.New(rand.NewPCG(seed, seed))
	} else {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return speakers.New(p.cfg.Voices.Pool, speakers.WithRand(rng))
}
