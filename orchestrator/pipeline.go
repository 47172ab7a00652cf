package orchestrator

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/maastricht-university/podcast-pipeline/audio"
	cfg "github.com/maastricht-university/podcast-pipeline/config"
	"github.com/maastricht-university/podcast-pipeline/script"
	"github.com/maastricht-university/podcast-pipeline/speakers"
	"github.com/maastricht-university/podcast-pipeline/synth"
)

var errNoLines = errors.New("no speaker:text lines in script")

// Pipeline turns dialogue scripts into WAVE files.
//
// Runs share nothing but the Speaker, and the Speaker is only ever called
// from one line at a time within a run. Concurrent runs against a back-end
// that allows a single caller need one Pipeline, with its own Speaker, each.
type Pipeline struct {
	cfg      *cfg.Root
	speaker  synth.Speaker
	gen      Generator
	log      logrus.FieldLogger
	progress func(Progress)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithGenerator sets the text-generation service used by Generate.
func WithGenerator(g Generator) Option {
	return func(p *Pipeline) { p.gen = g }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(p *Pipeline) { p.log = l }
}

// WithProgress registers a callback invoked synchronously on the run's
// goroutine.
func WithProgress(fn func(Progress)) Option {
	return func(p *Pipeline) { p.progress = fn }
}

func NewPipeline(c *cfg.Root, sp synth.Speaker, opts ...Option) *Pipeline {
	p := &Pipeline{cfg: c, speaker: sp, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run renders raw to a WAVE file. Either a complete file or an *Error is
// returned, never a partial file.
func (p *Pipeline) Run(ctx context.Context, raw string) (*audio.EncodedFile, error) {
	res, err := p.RunDetailed(ctx, raw)
	if err != nil {
		return nil, err
	}
	return res.File, nil
}

// RunDetailed is Run returning the parsed lines, the cast and run metadata
// along with the file.
func (p *Pipeline) RunDetailed(ctx context.Context, raw string) (*Result, error) {
	r := p.newRun()

	// a bad voice pool is a configuration fault, reported before any work
	reg, err := p.newRegistry()
	if err != nil {
		return nil, r.fail(InputInvalid, -1, err)
	}

	r.enter(Parsing)
	lines := script.Parse(raw)
	if len(lines) == 0 {
		return nil, r.fail(ParseEmpty, -1, errNoLines)
	}
	r.total = len(lines)

	for _, l := range lines {
		reg.Register(l.Speaker)
	}

	r.enter(Synthesizing)
	driver := synth.NewDriver(p.speaker, p.cfg.Format(),
		synth.WithRate(p.cfg.Voices.Rate),
		synth.WithPitch(p.cfg.Voices.Pitch),
		synth.WithLogger(r.log),
	)
	segments := make([]audio.Segment, 0, len(lines))
	for _, l := range lines {
		voice, _ := reg.Voice(l.Speaker)
		seg, err := driver.Synthesize(ctx, l, voice)
		if err != nil {
			return nil, r.fail(SynthesisFailed, l.Ordinal, err)
		}
		segments = append(segments, seg)
		r.lineDone()
	}

	r.enter(Assembling)
	tl, err := audio.Assemble(segments)
	if err != nil {
		return nil, r.fail(FormatMismatch, -1, err)
	}

	r.enter(Encoding)
	file, err := audio.Encode(tl)
	if err != nil {
		return nil, r.fail(EncodingFailed, -1, err)
	}

	r.enter(Done)
	r.log.WithFields(logrus.Fields{
		"lines":    len(lines),
		"speakers": reg.Len(),
		"bytes":    file.Len(),
		"duration": tl.Format.Duration(tl.Frames()).String(),
	}).Info("pipeline: run complete")

	return &Result{
		RunID:    r.id,
		File:     file,
		Lines:    lines,
		Speakers: reg.Speakers(),
		Duration: tl.Duration(),
		State:    r.state,
	}, nil
}

// Cast parses raw and assigns voices the way a run would, without rendering
// anything. With voices.seed unset the assignment differs between calls.
func (p *Pipeline) Cast(raw string) ([]script.Line, []speakers.Speaker, error) {
	reg, err := p.newRegistry()
	if err != nil {
		return nil, nil, &Error{Kind: InputInvalid, State: Idle, Ordinal: -1, Err: err}
	}
	lines := script.Parse(raw)
	if len(lines) == 0 {
		return nil, nil, &Error{Kind: ParseEmpty, State: Parsing, Ordinal: -1, Err: errNoLines}
	}
	for _, l := range script.Labels(lines) {
		reg.Register(l)
	}
	return lines, reg.Speakers(), nil
}
