package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/maastricht-university/podcast-pipeline/script"
)

// Generator is a text-generation service. Its output is untrusted free text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Prompt builds the scenario request sent to the generator.
func Prompt(title, keywords string) string {
	return fmt.Sprintf("Create a short podcast scenario (max 200 words) about \"%s\" with the following keywords: %s. "+
		"Include speaker names in the format [SPEAKER_NAME]: before their lines.", title, keywords)
}

// Generate asks the generator for a dialogue about title. Both title and
// keywords are required.
func (p *Pipeline) Generate(ctx context.Context, title, keywords string) (*Scenario, error) {
	title = strings.TrimSpace(title)
	keywords = strings.TrimSpace(keywords)
	if title == "" || keywords == "" {
		return nil, &Error{Kind: InputInvalid, State: Idle, Ordinal: -1,
			Err: errors.New("both a title and keywords are required")}
	}
	if p.gen == nil {
		return nil, &Error{Kind: GenerationFailed, State: Idle, Ordinal: -1,
			Err: errors.New("no text generator configured")}
	}

	log := p.log.WithField("title", title)
	log.Debug("pipeline: generating scenario")
	text, err := p.gen.Generate(ctx, Prompt(title, keywords))
	if err != nil {
		log.WithError(err).Warn("pipeline: scenario generation failed")
		return nil, &Error{Kind: GenerationFailed, State: Idle, Ordinal: -1, Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return nil, &Error{Kind: GenerationFailed, State: Idle, Ordinal: -1,
			Err: errors.New("generator returned no text")}
	}
	return &Scenario{
		Title:    title,
		Keywords: keywords,
		Script:   text,
		Speakers: script.BracketNames(text),
	}, nil
}
