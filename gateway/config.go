package gateway

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the gateway configuration. It is loaded once at startup and
// read-only afterwards; every component receives it explicitly.
type Config struct {
	// Address to listen on (e.g., ":8080")
	ListenAddr string `toml:"listen_addr"`

	// Shared secret clients must present as a bearer token
	APIKey string `toml:"api_key"`

	// Full URL of the backend ask endpoint
	UpstreamURL string `toml:"upstream_url"`

	// Model id used when a request omits one
	DefaultModel string `toml:"default_model"`

	// Model ids advertised by the model listing
	Models []string `toml:"models"`

	// Characters per pseudo-stream slice
	StreamChunkSize int `toml:"stream_chunk_size"`

	// Pause between slices, in milliseconds
	StreamDelayMS int `toml:"stream_delay_ms"`

	// Enable debug logging
	Debug bool `toml:"debug"`
}

// LoadConfig builds the configuration from defaults, an optional TOML file,
// and environment overrides, in that order.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ListenAddr:      ":8080",
		DefaultModel:    "ask-ai-v1",
		StreamChunkSize: 8,
		StreamDelayMS:   20,
	}

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if len(cfg.Models) == 0 {
		cfg.Models = []string{cfg.DefaultModel}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	} else if v := os.Getenv("PORT"); v != "" {
		c.ListenAddr = ":" + v
	}
	if v := os.Getenv("API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("UPSTREAM_URL"); v != "" {
		c.UpstreamURL = v
	}
	if v := os.Getenv("DEFAULT_MODEL"); v != "" {
		c.DefaultModel = v
	}
	if v := os.Getenv("MODELS"); v != "" {
		c.Models = splitList(v)
	}
	if v := os.Getenv("STREAM_CHUNK_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.StreamChunkSize = n
		}
	}
	if v := os.Getenv("STREAM_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.StreamDelayMS = n
		}
	}
	if v := os.Getenv("DEBUG"); v != "" {
		c.Debug = v == "1" || strings.EqualFold(v, "true")
	}
}

// StreamDelay returns the inter-slice pause as a duration.
func (c *Config) StreamDelay() time.Duration {
	return time.Duration(c.StreamDelayMS) * time.Millisecond
}

// Validate rejects configuration the gateway cannot run with. Tuning errors
// surface here at startup, never inside a request.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("API_KEY is required")
	}
	if c.UpstreamURL == "" {
		return errors.New("UPSTREAM_URL is required")
	}
	if c.StreamChunkSize < 1 {
		return fmt.Errorf("stream chunk size must be >= 1, got %d", c.StreamChunkSize)
	}
	if c.StreamDelayMS < 0 {
		return fmt.Errorf("stream delay must not be negative, got %dms", c.StreamDelayMS)
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
