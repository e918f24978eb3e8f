// Package config loads autoindex settings from a YAML file and the
// environment. Command-line flags are applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the autoindex configuration.
type Config struct {
	Crawl    CrawlConfig    `yaml:"crawl"`
	Match    MatchConfig    `yaml:"match"`
	Download DownloadConfig `yaml:"download"`
	HTTP     HTTPConfig     `yaml:"http"`
	LogLevel string         `yaml:"log_level"` // debug, info, warn, error
}

// CrawlConfig holds crawler settings.
type CrawlConfig struct {
	Concurrency int      `yaml:"concurrency"` // Parallel directory fetches
	Extensions  []string `yaml:"extensions"`  // Accepted file suffixes, e.g. ".mkv"
}

// MatchConfig holds relevance matching settings.
type MatchConfig struct {
	Mode    string   `yaml:"mode"`    // dir or file
	Exclude []string `yaml:"exclude"` // Basename globs to skip, e.g. "*sample*"
}

// DownloadConfig holds downloader settings.
type DownloadConfig struct {
	Concurrency int    `yaml:"concurrency"` // Parallel downloads (1 = sequential)
	ChunkSize   int    `yaml:"chunk_size"`  // Copy buffer in bytes
	Dest        string `yaml:"dest"`        // Destination root (empty = working directory)
}

// HTTPConfig holds client settings.
type HTTPConfig struct {
	UserAgent     string        `yaml:"user_agent"`
	HeaderTimeout time.Duration `yaml:"header_timeout"` // Wait for response headers (0 = none)
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Crawl: CrawlConfig{
			Concurrency: 5,
			Extensions:  []string{".mp4", ".mkv", ".avi"},
		},
		Match: MatchConfig{
			Mode: "dir",
		},
		Download: DownloadConfig{
			Concurrency: 1,
			ChunkSize:   8192,
		},
		HTTP: HTTPConfig{
			HeaderTimeout: 30 * time.Second,
		},
		LogLevel: "info",
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/autoindex/config.yaml, falling back
// to ~/.config.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "autoindex", "config.yaml")
}

// LoadFromFile loads configuration from path. A missing file yields the
// defaults. Environment overrides are applied after the file.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Crawl.Concurrency < 1 {
		return errors.New("crawl.concurrency must be >= 1")
	}
	if len(c.Crawl.Extensions) == 0 {
		return errors.New("crawl.extensions must not be empty")
	}
	for _, ext := range c.Crawl.Extensions {
		if strings.TrimSpace(ext) == "" {
			return errors.New("crawl.extensions must not contain empty entries")
		}
	}
	if !isValidMode(c.Match.Mode) {
		return fmt.Errorf("match.mode must be dir or file (got: %s)", c.Match.Mode)
	}
	if c.Download.Concurrency < 1 {
		return errors.New("download.concurrency must be >= 1")
	}
	if c.Download.ChunkSize < 512 {
		return errors.New("download.chunk_size must be >= 512")
	}
	if c.HTTP.HeaderTimeout < 0 {
		return errors.New("http.header_timeout must be >= 0")
	}
	if !isValidLogLevel(c.LogLevel) {
		return fmt.Errorf("log_level must be debug, info, warn, or error (got: %s)", c.LogLevel)
	}
	return nil
}

func isValidMode(mode string) bool {
	switch mode {
	case "dir", "file":
		return true
	default:
		return false
	}
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// ApplyEnvOverrides applies AUTOINDEX_* environment variables. Malformed
// values are ignored.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("AUTOINDEX_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Crawl.Concurrency = n
		}
	}
	if v := os.Getenv("AUTOINDEX_DOWNLOAD_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Download.Concurrency = n
		}
	}
	if v := os.Getenv("AUTOINDEX_EXTENSIONS"); v != "" {
		if exts := SplitList(v); len(exts) > 0 {
			c.Crawl.Extensions = exts
		}
	}
	if v := os.Getenv("AUTOINDEX_MATCH"); v != "" {
		if isValidMode(v) {
			c.Match.Mode = v
		}
	}
	if v := os.Getenv("AUTOINDEX_LOG_LEVEL"); v != "" {
		if isValidLogLevel(v) {
			c.LogLevel = v
		}
	}
	if v := os.Getenv("AUTOINDEX_USER_AGENT"); v != "" {
		c.HTTP.UserAgent = v
	}
}

// SplitList splits a comma-separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
