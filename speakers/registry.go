// Package speakers assigns one voice to each speaker label of a run.
package speakers

import (
	"errors"
	"math/rand/v2"
)

// ErrEmptyPool is returned by New when no voices are available.
var ErrEmptyPool = errors.New("speakers: empty voice pool")

// Speaker is a label together with its assigned voice.
type Speaker struct {
	Label string
	Voice string
}

// Registry maps speaker labels to voices. A label keeps its first voice for
// the lifetime of the registry. Voices are handed out round-robin through
// the pool starting at an offset, so distinct labels get distinct voices
// until the pool is exhausted.
//
// A Registry belongs to a single run and is not safe for concurrent use.
type Registry struct {
	pool   []string
	offset int
	voices map[string]string
	order  []Speaker
}

// Option configures a Registry.
type Option func(*Registry)

// WithOffset starts the round-robin at pool[n mod len(pool)].
func WithOffset(n int) Option {
	return func(r *Registry) {
		r.offset = n
	}
}

// WithRand picks the starting offset from rng, so that the same cast gets
// different voices across runs.
func WithRand(rng *rand.Rand) Option {
	return func(r *Registry) {
		r.offset = rng.IntN(len(r.pool))
	}
}

// New creates a registry drawing from pool.
func New(pool []string, opts ...Option) (*Registry, error) {
	if len(pool) == 0 {
		return nil, ErrEmptyPool
	}
	r := &Registry{
		pool:   append([]string(nil), pool...),
		voices: make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.offset %= len(r.pool)
	if r.offset < 0 {
		r.offset += len(r.pool)
	}
	return r, nil
}

// Register returns the voice of label, assigning the next pool voice on
// first sight.
func (r *Registry) Register(label string) string {
	if v, ok := r.voices[label]; ok {
		return v
	}
	v := r.pool[(r.offset+len(r.order))%len(r.pool)]
	r.voices[label] = v
	r.order = append(r.order, Speaker{Label: label, Voice: v})
	return v
}

// Voice looks up an already registered label.
func (r *Registry) Voice(label string) (string, bool) {
	v, ok := r.voices[label]
	return v, ok
}

// Speakers returns the registered speakers in first-registration order.
func (r *Registry) Speakers() []Speaker {
	return append([]Speaker(nil), r.order...)
}

// Len returns the number of registered labels.
func (r *Registry) Len() int { return len(r.order) }
