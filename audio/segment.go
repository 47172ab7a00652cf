package audio

import "time"

// Segment is one speaker's synthesized utterance. Segments are values: once
// built, neither the pipeline nor the assembler modifies Samples.
type Segment struct {
	Speaker string
	// Samples are interleaved, Format.Channels values per frame.
	Samples []int16
	Format  Format
	// Duration is advisory. Encoding relies on len(Samples) only.
	Duration time.Duration
}

// NewSegment builds a segment whose duration is derived from its samples.
func NewSegment(speaker string, samples []int16, f Format) Segment {
	s := Segment{Speaker: speaker, Samples: samples, Format: f}
	s.Duration = f.Duration(s.Frames())
	return s
}

// Frames returns the number of complete frames in the segment.
func (s Segment) Frames() int {
	if s.Format.Channels <= 0 {
		return 0
	}
	return len(s.Samples) / s.Format.Channels
}

// Bytes returns the PCM byte length of the segment.
func (s Segment) Bytes() int {
	return len(s.Samples) * BitsPerSample / 8
}
