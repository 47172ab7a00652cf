// Package synth drives a speech-synthesis back-end one script line at a time
// and normalizes what it returns into audio segments of the run format.
package synth

import (
	"context"
	"errors"
	"time"

	"github.com/maastricht-university/podcast-pipeline/audio"
)

// Request is a single utterance to render.
type Request struct {
	Text  string
	Voice string
	// Rate and Pitch are multipliers, 1 is the voice default. Back-ends
	// ignore what they cannot honor.
	Rate  float64
	Pitch float64
}

// Rendering is fully materialized audio for one request.
type Rendering struct {
	// Samples are interleaved 16-bit PCM.
	Samples []int16
	Format  audio.Format
	// Duration is what the back-end reported, if anything. It is advisory.
	Duration time.Duration
}

// Speaker is a speech-synthesis back-end. Implementations are treated as
// exclusive-access resources: the Driver never issues a second Speak before
// the first returned.
type Speaker interface {
	Speak(ctx context.Context, req Request) (*Rendering, error)
}

// SpeakFunc adapts a function to the Speaker interface.
type SpeakFunc func(ctx context.Context, req Request) (*Rendering, error)

// Speak implements Speaker.
func (f SpeakFunc) Speak(ctx context.Context, req Request) (*Rendering, error) {
	return f(ctx, req)
}

// ErrNoVoiceList is returned by wrappers whose back-end cannot list voices.
var ErrNoVoiceList = errors.New("synth: back-end cannot list voices")

// VoiceLister is implemented by back-ends that can enumerate their voices.
type VoiceLister interface {
	Voices(ctx context.Context) ([]string, error)
}
