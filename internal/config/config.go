// Package config builds the application configuration from viper (config
// file, VOCABDECK_* environment, bound flags) once at startup. The result is
// passed explicitly to everything that needs credentials or catalogs.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"codeberg.org/snonux/vocabdeck/internal/language"
)

// Config is the complete application configuration
type Config struct {
	OpenAI      OpenAIConfig      `mapstructure:"openai" yaml:"openai"`
	Gemini      GeminiConfig      `mapstructure:"gemini" yaml:"gemini"`
	Translation TranslationConfig `mapstructure:"translation" yaml:"translation"`
	Audio       AudioConfig       `mapstructure:"audio" yaml:"audio"`
	Languages   LanguagesConfig   `mapstructure:"languages" yaml:"languages"`
	Output      OutputConfig      `mapstructure:"output" yaml:"output"`
	Log         LogConfig         `mapstructure:"log" yaml:"log"`
}

// OpenAIConfig configures OpenAI translations
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key" yaml:"api_key"`
	Model   string `mapstructure:"model" yaml:"model"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url,omitempty"`
}

// GeminiConfig configures Gemini translations
type GeminiConfig struct {
	APIKey  string `mapstructure:"api_key" yaml:"api_key"`
	Model   string `mapstructure:"model" yaml:"model"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url,omitempty"`
}

// TranslationConfig tunes the translation pipeline
type TranslationConfig struct {
	Workers         int           `mapstructure:"workers" yaml:"workers"`
	BatchSize       int           `mapstructure:"batch_size" yaml:"batch_size"`
	BreakerFailures uint32        `mapstructure:"breaker_failures" yaml:"breaker_failures"`
	BreakerTimeout  time.Duration `mapstructure:"breaker_timeout" yaml:"breaker_timeout"`
}

// AudioConfig selects and tunes the text-to-speech provider
type AudioConfig struct {
	Provider    string  `mapstructure:"provider" yaml:"provider"`
	Fallback    string  `mapstructure:"fallback" yaml:"fallback"`
	Model       string  `mapstructure:"model" yaml:"model"`
	Voice       string  `mapstructure:"voice" yaml:"voice"`
	Speed       float64 `mapstructure:"speed" yaml:"speed"`
	Instruction string  `mapstructure:"instruction" yaml:"instruction"`
	ESpeakSpeed int     `mapstructure:"espeak_speed" yaml:"espeak_speed"`
}

// LanguagesConfig holds the default source language and catalog overrides
type LanguagesConfig struct {
	DefaultSource string            `mapstructure:"default_source" yaml:"default_source"`
	Source        map[string]string `mapstructure:"source" yaml:"source,omitempty"`
	Target        map[string]string `mapstructure:"target" yaml:"target,omitempty"`
	Secondary     map[string]string `mapstructure:"secondary" yaml:"secondary,omitempty"`
}

// OutputConfig holds output locations
type OutputConfig struct {
	Directory string `mapstructure:"directory" yaml:"directory"`
}

// LogConfig configures the logger
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file,omitempty"`
}

// Default returns the configuration used when nothing is configured
func Default() *Config {
	return &Config{
		OpenAI: OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini: GeminiConfig{Model: "gemini-2.5-flash"},
		Translation: TranslationConfig{
			Workers:         8,
			BatchSize:       20,
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
		},
		Audio: AudioConfig{
			Provider:    "openai",
			Model:       "gpt-4o-mini-tts",
			Voice:       "alloy",
			Speed:       1.0,
			Instruction: "You are a native %s speaker. Pronounce the text with authentic %[1]s phonetics. Speak slowly and clearly for language learners.",
			ESpeakSpeed: 150,
		},
		Languages: LanguagesConfig{DefaultSource: "en"},
		Output:    OutputConfig{Directory: "Output"},
		Log:       LogConfig{Level: "info"},
	}
}

// SetDefaults registers the defaults with v so unset keys resolve to them
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("openai.model", d.OpenAI.Model)
	v.SetDefault("gemini.model", d.Gemini.Model)
	v.SetDefault("translation.workers", d.Translation.Workers)
	v.SetDefault("translation.batch_size", d.Translation.BatchSize)
	v.SetDefault("translation.breaker_failures", d.Translation.BreakerFailures)
	v.SetDefault("translation.breaker_timeout", d.Translation.BreakerTimeout)
	v.SetDefault("audio.provider", d.Audio.Provider)
	v.SetDefault("audio.fallback", d.Audio.Fallback)
	v.SetDefault("audio.model", d.Audio.Model)
	v.SetDefault("audio.voice", d.Audio.Voice)
	v.SetDefault("audio.speed", d.Audio.Speed)
	v.SetDefault("audio.instruction", d.Audio.Instruction)
	v.SetDefault("audio.espeak_speed", d.Audio.ESpeakSpeed)
	v.SetDefault("languages.default_source", d.Languages.DefaultSource)
	v.SetDefault("output.directory", d.Output.Directory)
	v.SetDefault("log.level", d.Log.Level)
}

// Load builds the configuration from v. API keys from the provider's own
// environment variables take precedence over the config file.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.OpenAI.APIKey = key
	}
	if key := firstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY"); key != "" {
		cfg.Gemini.APIKey = key
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if value := os.Getenv(name); value != "" {
			return value
		}
	}
	return ""
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Translation.Workers < 1 {
		return fmt.Errorf("translation.workers must be at least 1, got %d", c.Translation.Workers)
	}
	if c.Translation.BatchSize < 1 {
		return fmt.Errorf("translation.batch_size must be at least 1, got %d", c.Translation.BatchSize)
	}
	if c.Audio.Speed < 0.25 || c.Audio.Speed > 4.0 {
		return fmt.Errorf("audio.speed must be between 0.25 and 4.0, got %g", c.Audio.Speed)
	}
	for _, provider := range []string{c.Audio.Provider, c.Audio.Fallback} {
		switch provider {
		case "", "openai", "espeak", "espeak-ng":
		default:
			return fmt.Errorf("unknown audio provider: %s", provider)
		}
	}
	if c.Languages.DefaultSource == "" {
		return fmt.Errorf("languages.default_source must not be empty")
	}
	return nil
}

// Catalog returns the built-in language catalogs with the configured overrides
func (c *Config) Catalog() *language.Catalog {
	catalog := language.DefaultCatalog()
	catalog.Merge(c.Languages.Source, c.Languages.Target, c.Languages.Secondary)
	return catalog
}
