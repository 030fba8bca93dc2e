// Package config loads the fintrade client configuration.
//
// Precedence, lowest first: built-in defaults, the YAML file
// (~/.fintrade/config.yaml unless --config is given), environment variables,
// then command-line flags applied by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// EnvAPIURL overrides the backend base URL.
	EnvAPIURL = "FINTRADE_API_URL"
	// EnvHome overrides the state directory.
	EnvHome = "FINTRADE_HOME"

	configFileName  = "config.yaml"
	storageFileName = "storage.db"
)

// ClientConfig holds configuration for the fintrade client.
type ClientConfig struct {
	APIURL      string        `yaml:"api_url"`      // Backend base URL including the /api prefix
	Home        string        `yaml:"home"`         // State directory (default ~/.fintrade)
	StoragePath string        `yaml:"storage_path"` // Local storage database (default <home>/storage.db, ":memory:" for testing)
	Timeout     time.Duration `yaml:"timeout"`      // Per-request timeout
	Currency    string        `yaml:"currency"`     // ISO code used to display amounts
	LogLevel    string        `yaml:"log_level"`    // debug, info, warn, error
	LogFormat   string        `yaml:"log_format"`   // text, json
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		APIURL:    "http://localhost:8080/api",
		Timeout:   30 * time.Second,
		Currency:  "USD",
		LogLevel:  "warn",
		LogFormat: "text",
	}
}

// DefaultHome returns $FINTRADE_HOME or ~/.fintrade.
func DefaultHome() (string, error) {
	if h := os.Getenv(EnvHome); h != "" {
		return h, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".fintrade"), nil
}

// Load builds a ClientConfig. An empty path means the default location, which
// may be absent; an explicit path must exist.
func Load(path string) (ClientConfig, error) {
	cfg := DefaultClientConfig()

	home, err := DefaultHome()
	if err != nil {
		return cfg, err
	}
	cfg.Home = home

	explicit := path != ""
	if !explicit {
		path = filepath.Join(home, configFileName)
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIURL = v
	}
	cfg.normalize()
	return cfg, cfg.Validate()
}

func (c *ClientConfig) normalize() {
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	c.Currency = strings.ToUpper(c.Currency)
	if c.StoragePath == "" && c.Home != "" {
		c.StoragePath = filepath.Join(c.Home, storageFileName)
	}
}

// Validate reports configuration values the client cannot work with.
func (c ClientConfig) Validate() error {
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("api_url must be an http(s) URL, got %q", c.APIURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.StoragePath == "" {
		return errors.New("storage_path is empty")
	}
	return nil
}
