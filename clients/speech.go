package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/maastricht-university/podcast-pipeline/audio"
	"github.com/maastricht-university/podcast-pipeline/synth"
)

// --- Speech (/synthesize) ---
type SynthReq struct {
	Text       string  `json:"text"`
	Voice      string  `json:"voice"`
	Rate       float64 `json:"rate"`
	Pitch      float64 `json:"pitch"`
	SampleRate int     `json:"sample_rate,omitempty"`
}

// Synthesize posts one utterance and returns the WAV body.
func (h *HTTP) Synthesize(ctx context.Context, url string, in SynthReq) ([]byte, error) {
	b, _ := json.Marshal(in)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url+"/synthesize", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/wav")

	resp, err := h.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("speech %s: %s", resp.Status, string(body))
	}
	return io.ReadAll(resp.Body)
}

// SpeechService is a synth.Speaker backed by a REST TTS service answering
// POST /synthesize with a 16-bit PCM WAV file and GET /voices with its voice
// list.
type SpeechService struct {
	HTTP *HTTP
	URL  string
	// SampleRate is sent as a hint; the service may answer in any rate.
	SampleRate int
}

var (
	_ synth.Speaker     = (*SpeechService)(nil)
	_ synth.VoiceLister = (*SpeechService)(nil)
)

// Speak implements synth.Speaker.
func (s *SpeechService) Speak(ctx context.Context, req synth.Request) (*synth.Rendering, error) {
	wav, err := s.HTTP.Synthesize(ctx, s.URL, SynthReq{
		Text:       req.Text,
		Voice:      req.Voice,
		Rate:       req.Rate,
		Pitch:      req.Pitch,
		SampleRate: s.SampleRate,
	})
	if err != nil {
		return nil, err
	}
	samples, f, err := audio.DecodeWAV(wav)
	if err != nil {
		return nil, fmt.Errorf("speech decode: %w", err)
	}
	return &synth.Rendering{Samples: samples, Format: f, Duration: f.Duration(len(samples) / f.Channels)}, nil
}

// Voices implements synth.VoiceLister.
func (s *SpeechService) Voices(ctx context.Context) ([]string, error) {
	resp, err := s.HTTP.Voices(ctx, s.URL)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(resp.Voices))
	for _, v := range resp.Voices {
		ids = append(ids, v.ID)
	}
	return ids, nil
}
