package config

import (
	"fmt"
	"strings"
)

type Config struct {
	Server ServerConfig
	NPS    NPSConfig
	LLM    LLMConfig
	Warm   WarmConfig
	Log    LogConfig
}

type ServerConfig struct {
	Port       int
	AdminToken string
}

type NPSConfig struct {
	BaseURL string
	APIKey  string
}

type LLMConfig struct {
	BaseURL string
	Model   string
	APIKey  string
}

type WarmConfig struct {
	IntervalHours int
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 3000,
		},
		NPS: NPSConfig{
			BaseURL: "https://developer.nps.gov/api/v1",
		},
		LLM: LLMConfig{
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-4o-mini",
		},
		Warm: WarmConfig{
			IntervalHours: 24,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the platform-native backend, environment
// variables, and platform secret store.
//
// On macOS the backend is UserDefaults (domain: com.ranger.app) and secrets
// fall back to macOS Keychain.
// On Linux the backend is a JSON file at $XDG_CONFIG_HOME/ranger/config.json
// and secrets must be provided via environment variables.
//
// Environment variables (RANGER_*) override backend values on all platforms.
func Load() (Config, error) {
	return loadWith(newPlatformBackend(), keychainReader{})
}

// keychain abstracts Keychain access for testing.
type keychain interface {
	Get(service, account string) (string, error)
}

func loadWith(b ConfigBackend, kc keychain) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	// Try the platform keychain for secrets that are still empty.
	if cfg.NPS.APIKey == "" {
		if key, err := kc.Get("ranger", "nps_api_key"); err == nil && key != "" {
			cfg.NPS.APIKey = key
		}
	}
	if cfg.LLM.APIKey == "" {
		if key, err := kc.Get("ranger", "llm_api_key"); err == nil && key != "" {
			cfg.LLM.APIKey = key
		}
	}

	if cfg.NPS.APIKey == "" {
		msg := "missing required config: National Park Service API key. " +
			"Set it via environment variable RANGER_NPS_API_KEY" +
			apiKeyHint("nps_api_key")
		return Config{}, fmt.Errorf("%s", msg)
	}
	if cfg.LLM.APIKey == "" {
		msg := "missing required config: language model API key. " +
			"Set it via environment variable RANGER_LLM_API_KEY" +
			apiKeyHint("llm_api_key")
		return Config{}, fmt.Errorf("%s", msg)
	}

	return cfg, nil
}

// keychainReader reads from macOS Keychain via the security CLI.
type keychainReader struct{}

func (keychainReader) Get(service, account string) (string, error) {
	out, err := keychainExec(service, account)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
