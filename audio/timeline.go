package audio

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrFormatMismatch is returned by Assemble when segments disagree on
	// sample rate or channel count.
	ErrFormatMismatch = errors.New("audio: segment format mismatch")

	// ErrEmptyTimeline is returned when there is nothing to assemble.
	ErrEmptyTimeline = errors.New("audio: empty timeline")
)

// Timeline is the ordered concatenation of all segments of one run.
type Timeline struct {
	Segments []Segment
	Format   Format

	samples  []int16
	duration time.Duration
}

// Assemble concatenates segments in order. Samples are copied verbatim: no
// gaps, no silence between turns and no resampling. Every segment must share
// the format of the first one.
func Assemble(segments []Segment) (*Timeline, error) {
	if len(segments) == 0 {
		return nil, ErrEmptyTimeline
	}
	f := segments[0].Format
	if err := f.Validate(); err != nil {
		return nil, err
	}

	total := 0
	for i, s := range segments {
		if s.Format != f {
			return nil, fmt.Errorf("%w: segment %d is %s, timeline is %s", ErrFormatMismatch, i, s.Format, f)
		}
		if len(s.Samples)%f.Channels != 0 {
			return nil, fmt.Errorf("%w: segment %d has %d samples for %d channels", ErrFormatMismatch, i, len(s.Samples), f.Channels)
		}
		total += len(s.Samples)
	}

	t := &Timeline{
		Segments: segments,
		Format:   f,
		samples:  make([]int16, 0, total),
	}
	for _, s := range segments {
		t.samples = append(t.samples, s.Samples...)
		t.duration += s.Duration
	}
	return t, nil
}

// Samples returns the concatenated interleaved samples.
func (t *Timeline) Samples() []int16 { return t.samples }

// Frames returns the number of frames in the timeline.
func (t *Timeline) Frames() int { return len(t.samples) / t.Format.Channels }

// Duration returns the sum of the segment durations. It is metadata only; the
// exact playback length is Format.Duration(Frames()).
func (t *Timeline) Duration() time.Duration { return t.duration }
