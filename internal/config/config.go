package config

import (
	"fmt"

	"github.com/gosidekick/goconfig"
	"github.com/joho/godotenv"
)

// ConfigError marks startup configuration problems. These are fatal: no job
// can run without a valid provider.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "configuration error: " + e.Reason
}

// Config is built once at startup and passed into the runner and the
// provider factory. Nothing reads the process environment after this.
type Config struct {
	Provider        string `cfg:"transcriber_provider" cfgDefault:"mock"`
	OutputDir       string `cfg:"transcriber_output_dir" cfgDefault:"./transcriptions"`
	HistoryDB       string `cfg:"transcriber_history_db"`
	DeepgramAPIKey  string `cfg:"deepgram_api_key"`
	OpenAIAPIKey    string `cfg:"openai_api_key"`
	GeminiAPIKey    string `cfg:"gemini_api_key"`
	AnthropicAPIKey string `cfg:"anthropic_api_key"`
}

// supported language codes, plus "auto" for provider-side detection
var Languages = []string{
	"auto", "en", "fr", "de", "es", "hi", "ja", "zh", "ru", "ar", "pt", "it",
}

func IsSupportedLanguage(code string) bool {
	for _, lang := range Languages {
		if code == lang {
			return true
		}
	}
	return false
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := goconfig.Parse(&cfg); err != nil {
		return nil, &ConfigError{
			Reason: fmt.Sprintf("failed to parse environment: %v", err),
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if _, err := c.APIKey(c.Provider); err != nil {
		return err
	}
	return nil
}

// APIKey returns the credential for a provider, or a ConfigError when the
// provider needs one and it is missing.
func (c *Config) APIKey(provider string) (string, error) {
	switch provider {
	case "mock":
		return "", nil
	case "whisper":
		if c.OpenAIAPIKey == "" {
			return "", &ConfigError{
				Reason: "whisper provider selected but OPENAI_API_KEY is not set",
			}
		}
		return c.OpenAIAPIKey, nil
	case "deepgram":
		if c.DeepgramAPIKey == "" {
			return "", &ConfigError{
				Reason: "deepgram provider selected but DEEPGRAM_API_KEY is not set",
			}
		}
		return c.DeepgramAPIKey, nil
	case "gemini":
		if c.GeminiAPIKey == "" {
			return "", &ConfigError{
				Reason: "gemini provider selected but GEMINI_API_KEY is not set",
			}
		}
		return c.GeminiAPIKey, nil
	default:
		return "", nil
	}
}
