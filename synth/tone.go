package synth

import (
	"context"
	"hash/fnv"
	"math"
	"time"
	"unicode/utf8"

	"github.com/maastricht-university/podcast-pipeline/audio"
)

// CharDuration is the speaking time budgeted per character by Tone.
const CharDuration = 60 * time.Millisecond

// Tone is an offline Speaker that renders each utterance as a sine tone.
// Every voice gets its own frequency and the length follows the text, which
// is enough to audition timing without a TTS service.
type Tone struct {
	Format    audio.Format
	Amplitude float64
}

var _ Speaker = Tone{}

// Speak implements Speaker.
func (t Tone) Speak(ctx context.Context, req Request) (*Rendering, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f := t.Format
	if err := f.Validate(); err != nil {
		return nil, err
	}
	amp := t.Amplitude
	if amp == 0 {
		amp = 0.3
	}
	rate := req.Rate
	if rate <= 0 {
		rate = 1
	}
	pitch := req.Pitch
	if pitch <= 0 {
		pitch = 1
	}

	d := EstimateDuration(req.Text, rate)
	frames := int(int64(d) * int64(f.SampleRate) / int64(time.Second))
	freq := VoiceFrequency(req.Voice) * pitch

	samples := make([]int16, frames*f.Channels)
	for i := range frames {
		v := audio.Sample16(amp * math.Sin(2*math.Pi*freq*float64(i)/float64(f.SampleRate)))
		for c := range f.Channels {
			samples[i*f.Channels+c] = v
		}
	}
	return &Rendering{Samples: samples, Format: f, Duration: d}, nil
}

// EstimateDuration approximates speaking time from text length.
func EstimateDuration(text string, rate float64) time.Duration {
	if rate <= 0 {
		rate = 1
	}
	n := utf8.RuneCountInString(text)
	return time.Duration(float64(time.Duration(n)*CharDuration) / rate)
}

// VoiceFrequency maps a voice id onto a stable tone between 140 and 400 Hz.
func VoiceFrequency(voice string) float64 {
	h := fnv.New32a()
	h.Write([]byte(voice))
	return 140 + float64(h.Sum32()%261)
}
