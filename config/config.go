package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/maastricht-university/podcast-pipeline/audio"
)

// EnvPrefix prefixes environment overrides, e.g. PODCAST_SERVICES_SPEECH_API_KEY.
const EnvPrefix = "PODCAST"

type Service struct {
	Provider string `yaml:"provider" mapstructure:"provider"`
	URL      string `yaml:"url" mapstructure:"url"`
	Model    string `yaml:"model" mapstructure:"model"`
	APIKey   string `yaml:"api_key" mapstructure:"api_key"`
	Timeout  int    `yaml:"timeout" mapstructure:"timeout"`
}
type Services struct {
	Generation Service `yaml:"generation" mapstructure:"generation"`
	Speech     Service `yaml:"speech" mapstructure:"speech"`
}
type Audio struct {
	SampleRate int `yaml:"sample_rate" mapstructure:"sample_rate"`
	Channels   int `yaml:"channels" mapstructure:"channels"`
}
type Voices struct {
	Pool  []string `yaml:"pool" mapstructure:"pool"`
	Rate  float64  `yaml:"rate" mapstructure:"rate"`
	Pitch float64  `yaml:"pitch" mapstructure:"pitch"`
	// Seed fixes voice assignment across runs; 0 picks a random offset.
	Seed uint64 `yaml:"seed" mapstructure:"seed"`
}
type Cache struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Dir     string `yaml:"dir" mapstructure:"dir"`
}
type Sink struct {
	Kind      string `yaml:"kind" mapstructure:"kind"`
	Bucket    string `yaml:"bucket" mapstructure:"bucket"`
	Prefix    string `yaml:"prefix" mapstructure:"prefix"`
	Region    string `yaml:"region" mapstructure:"region"`
	Endpoint  string `yaml:"endpoint" mapstructure:"endpoint"`
	AccessKey string `yaml:"access_key" mapstructure:"access_key"`
	SecretKey string `yaml:"secret_key" mapstructure:"secret_key"`
}
type Root struct {
	Pipeline struct {
		Name    string `yaml:"name" mapstructure:"name"`
		Version string `yaml:"version" mapstructure:"version"`
		LogLvl  string `yaml:"log_level" mapstructure:"log_level"`
	} `yaml:"pipeline" mapstructure:"pipeline"`
	Audio    Audio    `yaml:"audio" mapstructure:"audio"`
	Voices   Voices   `yaml:"voices" mapstructure:"voices"`
	Services Services `yaml:"services" mapstructure:"services"`
	Cache    Cache    `yaml:"cache" mapstructure:"cache"`
	Sink     Sink     `yaml:"sink" mapstructure:"sink"`
	Paths    struct {
		Outputs string `yaml:"outputs" mapstructure:"outputs"`
	} `yaml:"paths" mapstructure:"paths"`
}

// Format returns the PCM format every run is rendered in.
func (r *Root) Format() audio.Format {
	return audio.Format{SampleRate: r.Audio.SampleRate, Channels: r.Audio.Channels}
}

// Validate checks the values the pipeline cannot run without.
func (r *Root) Validate() error {
	if r.Audio.SampleRate <= 0 {
		return fmt.Errorf("config: audio.sample_rate must be positive, got %d", r.Audio.SampleRate)
	}
	if r.Audio.Channels < 1 || r.Audio.Channels > 2 {
		return fmt.Errorf("config: audio.channels must be 1 or 2, got %d", r.Audio.Channels)
	}
	if len(r.Voices.Pool) == 0 {
		return errors.New("config: voices.pool is empty")
	}
	if r.Voices.Rate <= 0 || r.Voices.Pitch <= 0 {
		return errors.New("config: voices.rate and voices.pitch must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("pipeline.name", "podcast-pipeline")
	v.SetDefault("pipeline.version", "dev")
	v.SetDefault("pipeline.log_level", "info")
	v.SetDefault("audio.sample_rate", 24000)
	v.SetDefault("audio.channels", 1)
	v.SetDefault("voices.pool", []string{"alloy", "echo", "fable", "nova", "onyx", "shimmer"})
	v.SetDefault("voices.rate", 1.0)
	v.SetDefault("voices.pitch", 1.0)
	v.SetDefault("voices.seed", 0)
	v.SetDefault("services.generation.provider", "gemini")
	v.SetDefault("services.speech.provider", "openai")
	// every key needs a default so that env overrides reach Unmarshal
	for _, svc := range []string{"generation", "speech"} {
		v.SetDefault("services."+svc+".url", "")
		v.SetDefault("services."+svc+".model", "")
		v.SetDefault("services."+svc+".api_key", "")
		v.SetDefault("services."+svc+".timeout", 60)
	}
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.dir", filepath.Join("outputs", ".tts-cache"))
	v.SetDefault("sink.kind", "local")
	for _, k := range []string{"bucket", "prefix", "region", "endpoint", "access_key", "secret_key"} {
		v.SetDefault("sink."+k, "")
	}
	v.SetDefault("paths.outputs", "outputs")
}

// Load reads the configuration. An explicit path must exist; otherwise the
// usual locations are tried and a missing file leaves defaults plus
// environment overrides.
func Load(path string) (*Root, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = guess()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Root
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	return &cfg, nil
}

func guess() string {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	for _, p := range []string{
		filepath.Join("config", env, "config.yaml"),
		"config.yaml",
	} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Dump writes cfg as YAML. API keys are masked.
func Dump(w io.Writer, cfg *Root) error {
	c := *cfg
	c.Services.Generation.APIKey = mask(c.Services.Generation.APIKey)
	c.Services.Speech.APIKey = mask(c.Services.Speech.APIKey)
	c.Sink.SecretKey = mask(c.Sink.SecretKey)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&c); err != nil {
		return err
	}
	return enc.Close()
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "****"
}

func DurSeconds(n int) time.Duration { return time.Duration(n) * time.Second }
