package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/inevitable-commit/wikis/internal/selector"
	"github.com/inevitable-commit/wikis/pkg/wikipedia"
)

// Picker modes for choosing among several search results.
const (
	PickerTerminal = "terminal"
	PickerMenu     = "menu"
)

// Config holds the persistent settings of wikis. Flags set on the command line
// override it; see Load for the file and environment layers.
type Config struct {
	Lang            string        `yaml:"lang"`
	Strategy        string        `yaml:"strategy"`
	Timeout         time.Duration `yaml:"timeout"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps"`
	MaxRedirectHops int           `yaml:"max_redirect_hops"`
	BaseURL         string        `yaml:"base_url"`

	Picker        string   `yaml:"picker"`
	PickerCommand []string `yaml:"picker_command"`
	NotifyCommand string   `yaml:"notify_command"`

	NoLink    bool `yaml:"no_link"`
	NoSummary bool `yaml:"no_summary"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Lang:            wikipedia.DefaultLanguage,
		Strategy:        string(wikipedia.DefaultStrategy),
		Timeout:         wikipedia.DefaultTimeout,
		MaxRedirectHops: wikipedia.DefaultMaxRedirectHops,
		Picker:          PickerTerminal,
		PickerCommand:   append([]string(nil), selector.DefaultPickerCommand...),
		NotifyCommand:   "notify-send",
	}
}

// DefaultPath returns $WIKIS_CONFIG, or config.yaml under the user config
// directory ($XDG_CONFIG_HOME/wikis, falling back to ~/.config/wikis).
func DefaultPath() string {
	if p := strings.TrimSpace(os.Getenv("WIKIS_CONFIG")); p != "" {
		return p
	}
	dir := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME"))
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "wikis", "config.yaml")
}

// Load layers the defaults, the YAML file and the WIKIS_* environment.
//
// An empty path means DefaultPath, which may be absent. An explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	cfg.Lang = envString("WIKIS_LANG", cfg.Lang)
	cfg.Strategy = envString("WIKIS_STRATEGY", cfg.Strategy)
	cfg.BaseURL = envString("WIKIS_BASE_URL", cfg.BaseURL)
	cfg.Picker = envString("WIKIS_PICKER", cfg.Picker)

	var err error
	if cfg.Timeout, err = envDuration("WIKIS_TIMEOUT", cfg.Timeout); err != nil {
		return err
	}
	if cfg.RateLimitRPS, err = envFloat("WIKIS_RATE_LIMIT_RPS", cfg.RateLimitRPS); err != nil {
		return err
	}
	if cfg.MaxRedirectHops, err = envInt("WIKIS_MAX_REDIRECT_HOPS", cfg.MaxRedirectHops); err != nil {
		return err
	}
	if cfg.NoLink, err = envBool("WIKIS_NO_LINK", cfg.NoLink); err != nil {
		return err
	}
	if cfg.NoSummary, err = envBool("WIKIS_NO_SUMMARY", cfg.NoSummary); err != nil {
		return err
	}
	return nil
}

// Validate rejects settings the client or the pipeline cannot honor.
func (c Config) Validate() error {
	if err := wikipedia.ValidateLanguage(c.Lang); err != nil {
		return err
	}
	if _, err := wikipedia.ParseStrategy(c.Strategy); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0 (got %s)", c.Timeout)
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("rate_limit_rps must be >= 0 (got %g)", c.RateLimitRPS)
	}
	if c.MaxRedirectHops < 0 {
		return fmt.Errorf("max_redirect_hops must be >= 0 (got %d)", c.MaxRedirectHops)
	}
	switch c.Picker {
	case PickerTerminal:
	case PickerMenu:
		if len(c.PickerCommand) == 0 || strings.TrimSpace(c.PickerCommand[0]) == "" {
			return fmt.Errorf("picker_command is required for picker %q", PickerMenu)
		}
	default:
		return fmt.Errorf("unknown picker %q (want %s or %s)", c.Picker, PickerTerminal, PickerMenu)
	}
	if strings.TrimSpace(c.NotifyCommand) == "" {
		return fmt.Errorf("notify_command must not be empty")
	}
	return nil
}

func envString(varName, fallback string) string {
	v := strings.TrimSpace(os.Getenv(varName))
	if v == "" {
		return fallback
	}
	return v
}

func envInt(varName string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(varName))
	if v == "" {
		return fallback, nil
	}
	out, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", varName, v, err)
	}
	return out, nil
}

func envFloat(varName string, fallback float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(varName))
	if v == "" {
		return fallback, nil
	}
	out, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", varName, v, err)
	}
	return out, nil
}

func envDuration(varName string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(varName))
	if v == "" {
		return fallback, nil
	}
	out, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", varName, v, err)
	}
	return out, nil
}

func envBool(varName string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(varName))
	if v == "" {
		return fallback, nil
	}
	out, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s=%q: %w", varName, v, err)
	}
	return out, nil
}
