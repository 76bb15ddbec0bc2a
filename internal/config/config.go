package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config holds all configurable overcue settings.
type Config struct {
	FallbackStackOrder int    `json:"fallback_stack_order"` // overlay paint order when the surface has none
	SyncIntervalMS     int    `json:"sync_interval_ms"`     // periodic geometry sync fallback
	FPS                int    `json:"fps"`                  // simulated playback rate in the player
	DefaultTextColor   string `json:"default_text_color"`   // applied to entries with no text_color
	DefaultBackground  string `json:"default_background"`   // applied to entries with no background
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		FallbackStackOrder: 1000,
		SyncIntervalMS:     1000,
		FPS:                10,
		DefaultTextColor:   "#f8f8f2",
	}
}

// LoadGlobal reads ~/.config/overcue/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".config", "overcue", "config.json")
	return loadFile(path, true)
}

// LoadProject reads .overcuerc in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".overcuerc", false)
}

// loadFile reads and parses a JSON config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()
	for _, c := range []*Config{global, project} {
		if c == nil {
			continue
		}
		if c.FallbackStackOrder != 0 {
			result.FallbackStackOrder = c.FallbackStackOrder
		}
		if c.SyncIntervalMS != 0 {
			result.SyncIntervalMS = c.SyncIntervalMS
		}
		if c.FPS != 0 {
			result.FPS = c.FPS
		}
		if c.DefaultTextColor != "" {
			result.DefaultTextColor = c.DefaultTextColor
		}
		if c.DefaultBackground != "" {
			result.DefaultBackground = c.DefaultBackground
		}
	}
	return result
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
