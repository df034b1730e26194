package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/obegron/ipscope/internal/criminalip"
	"github.com/obegron/ipscope/internal/errors"
)

// ─── struct ───────────────────────────────────────────────────────────────────

// Config holds all runtime configuration for ipscope.
type Config struct {
	APIKey       string        `yaml:"api_key"`
	BaseURL      string        `yaml:"base_url"`
	Timeout      time.Duration `yaml:"timeout"`
	MockFallback bool          `yaml:"mock_fallback"`
	DefaultIP    string        `yaml:"default_ip"`
	ExportDir    string        `yaml:"export_dir"`
	Listen       string        `yaml:"listen"`
	Log          LogConfig     `yaml:"log"`
}

// LogConfig controls the zerolog logger.
type LogConfig struct {
	Level string `yaml:"level"`
	// File receives logs while the dashboard owns the terminal. Empty
	// discards them.
	File string `yaml:"file"`
	JSON bool   `yaml:"json"`
}

// ─── defaults ─────────────────────────────────────────────────────────────────

// Default returns a Config populated with sensible defaults.
func Default() Config {
	return Config{
		BaseURL:      criminalip.DefaultBaseURL,
		Timeout:      criminalip.DefaultTimeout,
		MockFallback: true,
		DefaultIP:    criminalip.DefaultTarget,
		ExportDir:    ".",
		Listen:       "127.0.0.1:8080",
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ─── load ─────────────────────────────────────────────────────────────────────

// Load reads a YAML config file and merges it onto the defaults, then
// applies environment overrides. If the file does not exist, defaults are
// used without error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, ".ipscope.yaml")
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, errors.NewConfigError("cannot parse "+path, err)
			}
		case !os.IsNotExist(err):
			return cfg, errors.NewConfigError("cannot read "+path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv lets IPSCOPE_* variables override file values. The API key also
// falls back to CRIMINALIP_API_KEY.
func applyEnv(cfg *Config) {
	if v := firstEnv("IPSCOPE_API_KEY", "CRIMINALIP_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("IPSCOPE_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("IPSCOPE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}
	if v := os.Getenv("IPSCOPE_MOCK_FALLBACK"); v != "" {
		cfg.MockFallback = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("IPSCOPE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}
