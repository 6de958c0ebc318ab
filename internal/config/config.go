package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	UndergraduateURL = "https://www.kalindicollege.in/undergraduate/"
	PostgraduateURL  = "https://www.kalindicollege.in/postgraduate/"
	OutputFile       = "Kalindi_College_Courses.xlsx"
	DefaultTimeout   = 30 * time.Second
)

// Config holds the settings for one run
type Config struct {
	UndergraduateURL string   `json:"undergraduate_url,omitempty"`
	PostgraduateURL  string   `json:"postgraduate_url,omitempty"`
	Output           string   `json:"output,omitempty"`
	CSVDir           string   `json:"csv_dir,omitempty"`
	NameColumn       int      `json:"name_column"`
	LinkColumn       int      `json:"link_column"`
	Timeout          Duration `json:"timeout,omitempty"`
	LogLevel         string   `json:"log_level,omitempty"`
}

// Duration is a time.Duration read from a string such as "15s"
type Duration time.Duration

// UnmarshalJSON accepts Go duration strings
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parsing duration: %w", err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalJSON writes the duration as a string
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		UndergraduateURL: UndergraduateURL,
		PostgraduateURL:  PostgraduateURL,
		Output:           OutputFile,
		NameColumn:       1,
		LinkColumn:       2,
		Timeout:          Duration(DefaultTimeout),
		LogLevel:         "info",
	}
}

// ExpandPath replaces a leading ~/ with the user's home directory
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

// Load reads a config file on top of the defaults. An empty path returns the defaults.
// The result is not validated; callers validate after applying their overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	path, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks that the settings can drive a run
func (c *Config) Validate() error {
	if strings.TrimSpace(c.UndergraduateURL) == "" {
		return fmt.Errorf("undergraduate URL is required")
	}
	if strings.TrimSpace(c.PostgraduateURL) == "" {
		return fmt.Errorf("postgraduate URL is required")
	}
	if strings.TrimSpace(c.Output) == "" {
		return fmt.Errorf("output path is required")
	}
	if c.NameColumn < 0 || c.LinkColumn < 0 {
		return fmt.Errorf("column indices must not be negative (name=%d, link=%d)", c.NameColumn, c.LinkColumn)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive: %s", time.Duration(c.Timeout))
	}
	return nil
}
