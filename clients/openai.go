package clients

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/maastricht-university/podcast-pipeline/audio"
	"github.com/maastricht-university/podcast-pipeline/synth"
)

const (
	DefaultOpenAIChatModel   = "gpt-4o-mini"
	DefaultOpenAISpeechModel = "tts-1"
)

// OpenAIPCMFormat is the layout of response_format=pcm speech.
var OpenAIPCMFormat = audio.Format{SampleRate: 24000, Channels: 1}

// OpenAIVoices are the built-in speech voices.
var OpenAIVoices = []string{"alloy", "ash", "coral", "echo", "fable", "nova", "onyx", "sage", "shimmer"}

func newOpenAIClient(apiKey, baseURL string) (openai.Client, error) {
	if apiKey == "" {
		return openai.Client{}, errors.New("openai: missing api key")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return openai.NewClient(opts...), nil
}

// OpenAIChat generates scenario text with the chat completions API.
type OpenAIChat struct {
	client openai.Client
	model  string
}

func NewOpenAIChat(apiKey, baseURL, model string) (*OpenAIChat, error) {
	client, err := newOpenAIClient(apiKey, baseURL)
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = DefaultOpenAIChatModel
	}
	return &OpenAIChat{client: client, model: model}, nil
}

// Generate sends prompt as a single user message.
func (o *OpenAIChat) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// OpenAISpeech is a synth.Speaker using the audio/speech endpoint with raw
// PCM output. Rate maps to speed; pitch is not supported and ignored.
type OpenAISpeech struct {
	client openai.Client
	model  string
}

var (
	_ synth.Speaker     = (*OpenAISpeech)(nil)
	_ synth.VoiceLister = (*OpenAISpeech)(nil)
)

func NewOpenAISpeech(apiKey, baseURL, model string) (*OpenAISpeech, error) {
	client, err := newOpenAIClient(apiKey, baseURL)
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = DefaultOpenAISpeechModel
	}
	return &OpenAISpeech{client: client, model: model}, nil
}

// Speak implements synth.Speaker.
func (o *OpenAISpeech) Speak(ctx context.Context, req synth.Request) (*synth.Rendering, error) {
	params := openai.AudioSpeechNewParams{
		Input:          req.Text,
		Model:          openai.SpeechModel(o.model),
		Voice:          openai.AudioSpeechNewParamsVoice(req.Voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatPCM,
	}
	if req.Rate > 0 {
		params.Speed = openai.Float(max(0.25, min(4.0, req.Rate)))
	}

	resp, err := o.client.Audio.Speech.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai speech: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openai speech read: %w", err)
	}
	samples := audio.PCM16(raw, OpenAIPCMFormat)
	return &synth.Rendering{
		Samples:  samples,
		Format:   OpenAIPCMFormat,
		Duration: OpenAIPCMFormat.Duration(len(samples)),
	}, nil
}

// Voices implements synth.VoiceLister.
func (o *OpenAISpeech) Voices(context.Context) ([]string, error) {
	return append([]string(nil), OpenAIVoices...), nil
}
