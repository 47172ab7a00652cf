package synth

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/maastricht-university/podcast-pipeline/audio"
	"github.com/maastricht-university/podcast-pipeline/script"
)

// ErrEmptyRendering is returned when a back-end produced no samples.
var ErrEmptyRendering = errors.New("synth: empty rendering")

// Driver renders script lines through a Speaker and converts every result to
// a single target format, so that the assembler never sees mixed formats.
type Driver struct {
	speaker Speaker
	format  audio.Format
	rate    float64
	pitch   float64
	log     logrus.FieldLogger
}

// Option configures a Driver.
type Option func(*Driver)

// WithRate sets the speaking-rate multiplier sent with each request.
func WithRate(rate float64) Option {
	return func(d *Driver) { d.rate = rate }
}

// WithPitch sets the pitch multiplier sent with each request.
func WithPitch(pitch float64) Option {
	return func(d *Driver) { d.pitch = pitch }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(d *Driver) { d.log = l }
}

// NewDriver creates a driver producing segments in format f.
func NewDriver(sp Speaker, f audio.Format, opts ...Option) *Driver {
	d := &Driver{
		speaker: sp,
		format:  f,
		rate:    1,
		pitch:   1,
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Format returns the format of the produced segments.
func (d *Driver) Format() audio.Format { return d.format }

// Synthesize renders one line with the given voice and blocks until the
// audio is complete. The returned segment is already in the driver format.
func (d *Driver) Synthesize(ctx context.Context, line script.Line, voice string) (audio.Segment, error) {
	if err := ctx.Err(); err != nil {
		return audio.Segment{}, err
	}
	r, err := d.speaker.Speak(ctx, Request{
		Text:  line.Text,
		Voice: voice,
		Rate:  d.rate,
		Pitch: d.pitch,
	})
	if err != nil {
		return audio.Segment{}, fmt.Errorf("synth: line %d (%s): %w", line.Ordinal, line.Speaker, err)
	}
	if r == nil || len(r.Samples) == 0 {
		return audio.Segment{}, fmt.Errorf("synth: line %d (%s): %w", line.Ordinal, line.Speaker, ErrEmptyRendering)
	}
	if err := r.Format.Validate(); err != nil {
		return audio.Segment{}, fmt.Errorf("synth: line %d (%s): %w", line.Ordinal, line.Speaker, err)
	}

	samples, err := convert(r.Samples, r.Format, d.format)
	if err != nil {
		return audio.Segment{}, fmt.Errorf("synth: line %d (%s): %w", line.Ordinal, line.Speaker, err)
	}
	if len(samples) == 0 {
		return audio.Segment{}, fmt.Errorf("synth: line %d (%s): %w", line.Ordinal, line.Speaker, ErrEmptyRendering)
	}
	seg := audio.NewSegment(line.Speaker, samples, d.format)
	if r.Duration > 0 {
		seg.Duration = r.Duration
	}

	d.log.WithFields(logrus.Fields{
		"ordinal": line.Ordinal,
		"speaker": line.Speaker,
		"voice":   voice,
		"frames":  seg.Frames(),
		"source":  r.Format.String(),
	}).Debug("synth: line rendered")
	return seg, nil
}
