package commands

import (
	"context"
	"fmt"

	"github.com/maastricht-university/podcast-pipeline/clients"
	cfg "github.com/maastricht-university/podcast-pipeline/config"
	"github.com/maastricht-university/podcast-pipeline/orchestrator"
	"github.com/maastricht-university/podcast-pipeline/sink"
	"github.com/maastricht-university/podcast-pipeline/synth"
)

// newSpeaker builds the speech back-end. The returned close func releases
// the rendering cache, if any.
func newSpeaker(c *cfg.Root) (synth.Speaker, func() error, error) {
	noop := func() error { return nil }

	var sp synth.Speaker
	svc := c.Services.Speech
	switch {
	case offline:
		sp = synth.Tone{Format: c.Format()}
	case svc.Provider == "openai":
		s, err := clients.NewOpenAISpeech(svc.APIKey, svc.URL, svc.Model)
		if err != nil {
			return nil, noop, err
		}
		sp = s
	case svc.Provider == "http":
		if svc.URL == "" {
			return nil, noop, fmt.Errorf("services.speech.url is required for provider %q", svc.Provider)
		}
		sp = &clients.SpeechService{
			HTTP:       clients.NewHTTP(cfg.DurSeconds(svc.Timeout)),
			URL:        svc.URL,
			SampleRate: c.Audio.SampleRate,
		}
	default:
		return nil, noop, fmt.Errorf("unknown speech provider %q", svc.Provider)
	}

	if !c.Cache.Enabled || offline {
		return sp, noop, nil
	}
	cached, err := synth.NewCached(sp, synth.CacheOptions{
		Dir:     c.Cache.Dir,
		Backend: backendID(svc),
		Logger:  log,
	})
	if err != nil {
		return nil, noop, err
	}
	return cached, cached.Close, nil
}

// backendID names the engine behind svc for cache keys.
func backendID(svc cfg.Service) string {
	return svc.Provider + "|" + svc.URL + "|" + svc.Model
}

func newGenerator(ctx context.Context, c *cfg.Root) (orchestrator.Generator, error) {
	svc := c.Services.Generation
	switch svc.Provider {
	case "gemini":
		g, err := clients.NewGemini(ctx, svc.APIKey, svc.URL, svc.Model)
		if err != nil {
			return nil, err
		}
		return g, nil
	case "openai":
		o, err := clients.NewOpenAIChat(svc.APIKey, svc.URL, svc.Model)
		if err != nil {
			return nil, err
		}
		return o, nil
	}
	return nil, fmt.Errorf("unknown generation provider %q", svc.Provider)
}

func newSink(c *cfg.Root) (sink.Sink, error) {
	s := c.Sink
	switch s.Kind {
	case "", "local":
		return &sink.Local{Root: c.Paths.Outputs}, nil
	case "s3":
		if s.Bucket == "" {
			return nil, fmt.Errorf("sink.bucket is required for kind s3")
		}
		return sink.NewS3(sink.NewS3Client(s.Region, s.Endpoint, s.AccessKey, s.SecretKey), s.Bucket, s.Prefix), nil
	}
	return nil, fmt.Errorf("unknown sink kind %q", s.Kind)
}

// progressLogger logs state changes at Info and rendered lines at Debug.
func progressLogger() func(orchestrator.Progress) {
	last := orchestrator.Idle
	return func(p orchestrator.Progress) {
		entry := log.WithField("run", p.RunID)
		if p.State != last {
			last = p.State
			entry.Infof("%s", p.State)
			return
		}
		entry.Debugf("rendered %d/%d", p.Line, p.Total)
	}
}
