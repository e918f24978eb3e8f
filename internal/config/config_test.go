package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 5, cfg.Crawl.Concurrency)
	assert.Equal(t, []string{".mp4", ".mkv", ".avi"}, cfg.Crawl.Extensions)
	assert.Equal(t, "dir", cfg.Match.Mode)
	assert.Equal(t, 1, cfg.Download.Concurrency)
	assert.Equal(t, 8192, cfg.Download.ChunkSize)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFromFile_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `crawl:
  concurrency: 8
  extensions: [".webm", ".mkv"]
match:
  mode: file
  exclude: ["*sample*"]
download:
  concurrency: 2
  dest: /srv/media
http:
  header_timeout: 5s
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Crawl.Concurrency)
	assert.Equal(t, []string{".webm", ".mkv"}, cfg.Crawl.Extensions)
	assert.Equal(t, "file", cfg.Match.Mode)
	assert.Equal(t, []string{"*sample*"}, cfg.Match.Exclude)
	assert.Equal(t, 2, cfg.Download.Concurrency)
	assert.Equal(t, 8192, cfg.Download.ChunkSize, "unset keys keep defaults")
	assert.Equal(t, "/srv/media", cfg.Download.Dest)
	assert.Equal(t, 5*time.Second, cfg.HTTP.HeaderTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("crawl: [unterminated"), 0644))

	_, err := LoadFromFile(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestLoadFromFile_InvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("match:\n  mode: both\n"), 0644))

	_, err := LoadFromFile(path)
	assert.ErrorContains(t, err, "match.mode")
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("AUTOINDEX_CONCURRENCY", "9")
	t.Setenv("AUTOINDEX_DOWNLOAD_CONCURRENCY", "3")
	t.Setenv("AUTOINDEX_EXTENSIONS", ".mp4, ,.m4v")
	t.Setenv("AUTOINDEX_MATCH", "file")
	t.Setenv("AUTOINDEX_LOG_LEVEL", "warn")
	t.Setenv("AUTOINDEX_USER_AGENT", "test-agent")

	cfg := DefaultConfig()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, 9, cfg.Crawl.Concurrency)
	assert.Equal(t, 3, cfg.Download.Concurrency)
	assert.Equal(t, []string{".mp4", ".m4v"}, cfg.Crawl.Extensions)
	assert.Equal(t, "file", cfg.Match.Mode)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "test-agent", cfg.HTTP.UserAgent)
}

func TestApplyEnvOverrides_IgnoresMalformed(t *testing.T) {
	t.Setenv("AUTOINDEX_CONCURRENCY", "lots")
	t.Setenv("AUTOINDEX_MATCH", "both")
	t.Setenv("AUTOINDEX_LOG_LEVEL", "verbose")

	cfg := DefaultConfig()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, 5, cfg.Crawl.Concurrency)
	assert.Equal(t, "dir", cfg.Match.Mode)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"zero crawl concurrency", func(c *Config) { c.Crawl.Concurrency = 0 }, "crawl.concurrency"},
		{"no extensions", func(c *Config) { c.Crawl.Extensions = nil }, "crawl.extensions"},
		{"blank extension", func(c *Config) { c.Crawl.Extensions = []string{" "} }, "crawl.extensions"},
		{"zero download concurrency", func(c *Config) { c.Download.Concurrency = 0 }, "download.concurrency"},
		{"tiny chunk", func(c *Config) { c.Download.ChunkSize = 10 }, "download.chunk_size"},
		{"negative timeout", func(c *Config) { c.HTTP.HeaderTimeout = -time.Second }, "http.header_timeout"},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }, "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}
}

func TestDefaultPath_UsesXDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", "autoindex", "config.yaml"), DefaultPath())
}
