// Package audio holds the PCM data types of the pipeline: per-utterance
// segments, the assembled timeline and the WAVE container encoder.
//
// All sample data is interleaved signed 16-bit PCM.
package audio

import (
	"fmt"
	"time"
)

// BitsPerSample is the only sample depth the pipeline produces.
const BitsPerSample = 16

// Format describes interleaved 16-bit PCM.
type Format struct {
	SampleRate int
	Channels   int
}

// BlockAlign returns the size of one frame in bytes.
func (f Format) BlockAlign() int {
	return f.Channels * BitsPerSample / 8
}

// ByteRate returns the number of bytes per second of audio.
func (f Format) ByteRate() int {
	return f.SampleRate * f.BlockAlign()
}

// Duration returns the playback time of the given number of frames.
func (f Format) Duration(frames int) time.Duration {
	if f.SampleRate <= 0 {
		return 0
	}
	return time.Duration(frames) * time.Second / time.Duration(f.SampleRate)
}

// Validate reports whether the format can be encoded.
func (f Format) Validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("audio: invalid sample rate %d", f.SampleRate)
	}
	if f.Channels <= 0 || f.Channels > 0xffff {
		return fmt.Errorf("audio: invalid channel count %d", f.Channels)
	}
	return nil
}

// String returns a human-readable string representation of the format.
func (f Format) String() string {
	return fmt.Sprintf("audio/L16; rate=%d; channels=%d", f.SampleRate, f.Channels)
}
