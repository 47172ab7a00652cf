package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/maastricht-university/podcast-pipeline/audio"
	cfg "github.com/maastricht-university/podcast-pipeline/config"
	"github.com/maastricht-university/podcast-pipeline/sink"
	"github.com/maastricht-university/podcast-pipeline/synth"
)

const testScript = "[Alice]: Hello there\n[Bob]: Hi Alice, good to see you\n[Alice]: Let us begin"

// execute runs the root command offline in an empty working directory.
func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--offline"}, args...))
	if err := Execute(context.Background()); err != nil {
		t.Fatalf("podcast %s: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

func writeScript(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "episode.txt")
	if err := os.WriteFile(path, []byte(testScript), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSynthToFile(t *testing.T) {
	script := writeScript(t)
	t.Chdir(t.TempDir())
	wav := filepath.Join(t.TempDir(), "episode.wav")

	out := execute(t, "synth", "-f", script, "-o", wav, "--verify")
	if strings.TrimSpace(out) != wav {
		t.Errorf("stdout = %q; want %q", out, wav)
	}
	b, err := os.ReadFile(wav)
	if err != nil {
		t.Fatal(err)
	}
	h, err := audio.ParseHeader(b)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if h.SampleRate != 24000 || h.Channels != 1 || h.DataSize == 0 {
		t.Errorf("header = %+v", h)
	}
}

func TestParseShowsCast(t *testing.T) {
	script := writeScript(t)
	t.Chdir(t.TempDir())

	out := execute(t, "parse", "-f", script)
	for _, want := range []string{"Cast", "Alice", "Bob", "Lines (3)", "Let us begin"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigMasksSecrets(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PODCAST_SERVICES_SPEECH_API_KEY", "sk-secret")

	out := execute(t, "config")
	if strings.Contains(out, "sk-secret") {
		t.Errorf("secret leaked:\n%s", out)
	}
	if !strings.Contains(out, "sample_rate: 24000") {
		t.Errorf("output missing defaults:\n%s", out)
	}
}

func TestNewSink(t *testing.T) {
	tests := []struct {
		name    string
		sink    cfg.Sink
		wantErr bool
		local   bool
	}{
		{name: "default", sink: cfg.Sink{}, local: true},
		{name: "local", sink: cfg.Sink{Kind: "local"}, local: true},
		{name: "s3", sink: cfg.Sink{Kind: "s3", Bucket: "b", Region: "us-east-1"}},
		{name: "s3 without bucket", sink: cfg.Sink{Kind: "s3"}, wantErr: true},
		{name: "unknown", sink: cfg.Sink{Kind: "ftp"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &cfg.Root{Sink: tt.sink}
			s, err := newSink(c)
			if (err != nil) != tt.wantErr {
				t.Fatalf("newSink() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			_, isLocal := s.(*sink.Local)
			if isLocal != tt.local {
				t.Errorf("newSink() = %T", s)
			}
		})
	}
}

func TestConfigureLogger(t *testing.T) {
	l := logrus.New()
	configureLogger(l, "warn")
	if l.GetLevel() != logrus.WarnLevel {
		t.Errorf("level = %v; want warn", l.GetLevel())
	}
	configureLogger(l, "bogus")
	if l.GetLevel() != logrus.InfoLevel {
		t.Errorf("level = %v; want info fallback", l.GetLevel())
	}
}

type listedTone struct{ synth.Tone }

func (listedTone) Voices(context.Context) ([]string, error) { return []string{"alloy", "nova"}, nil }

func TestListVoicesThroughCache(t *testing.T) {
	f := audio.Format{SampleRate: 8000, Channels: 1}
	tests := []struct {
		name   string
		inner  synth.Speaker
		wantOK bool
	}{
		{name: "listing back-end", inner: listedTone{synth.Tone{Format: f}}, wantOK: true},
		{name: "tone", inner: synth.Tone{Format: f}, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cached, err := synth.NewCached(tt.inner, synth.CacheOptions{InMemory: true, Logger: logrus.New()})
			if err != nil {
				t.Fatalf("NewCached: %v", err)
			}
			defer cached.Close()

			voices, ok, err := listVoices(context.Background(), cached)
			if err != nil {
				t.Fatalf("listVoices: %v", err)
			}
			if ok != tt.wantOK {
				t.Fatalf("ok = %v; want %v", ok, tt.wantOK)
			}
			if ok && len(voices) != 2 {
				t.Errorf("voices = %v", voices)
			}
		})
	}
}

func TestBackendIDDistinguishesModels(t *testing.T) {
	a := backendID(cfg.Service{Provider: "openai", Model: "tts-1"})
	b := backendID(cfg.Service{Provider: "openai", Model: "tts-1-hd"})
	c := backendID(cfg.Service{Provider: "http", URL: "http://localhost:8002"})
	if a == b || a == c || b == c {
		t.Errorf("backend ids collide: %q %q %q", a, b, c)
	}
}
