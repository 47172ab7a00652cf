package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// Gemini generates scenario text with the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini client for apiKey. An empty baseURL uses the
// public endpoint.
func NewGemini(ctx context.Context, apiKey, baseURL, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: missing api key")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Generate sends prompt as a single user turn and returns the text of the
// first candidate.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
		{Parts: []*genai.Part{{Text: prompt}}, Role: "user"},
	}, nil)
	if err != nil {
		return "", fmt.Errorf("genai generate: %w", err)
	}

	var sb strings.Builder
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}
