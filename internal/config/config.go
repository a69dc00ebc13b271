// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config holds all contacts configuration.
type Config struct {
	Store  Store  `yaml:"store"`
	Server Server `yaml:"server"`
	Log    Log    `yaml:"log"`
}

// Store selects where contacts are persisted.
type Store struct {
	Backend string `yaml:"backend"` // "memory" | "json" | "sqlite"
	Path    string `yaml:"path"`    // empty means DefaultStorePath(Backend)
}

// DefaultStorePath returns the file a backend uses when store.path is unset.
// The memory backend has no file.
func DefaultStorePath(backend string) string {
	switch backend {
	case BackendJSON:
		return ".contacts/contacts.json"
	case BackendSQLite:
		return ".contacts/contacts.db"
	default:
		return ""
	}
}

// FilePath returns the configured path, or the backend's default when unset.
func (s Store) FilePath() string {
	if s.Path != "" {
		return s.Path
	}
	return DefaultStorePath(s.Backend)
}

// Server holds HTTP API settings.
type Server struct {
	Addr        string        `yaml:"addr"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
}

// Log holds logger settings.
type Log struct {
	Mode  string `yaml:"mode"` // "development" | "production"
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Store: Store{
			Backend: BackendJSON,
		},
		Server: Server{
			Addr:        "127.0.0.1:8080",
			ReadTimeout: 10 * time.Second,
		},
		Log: Log{
			Mode:  "development",
			Level: "info",
		},
	}
}

// Load reads a single YAML config file at path and returns a Config.
// For merging multiple config sources, use LoadLayered instead.
// If the file does not exist, defaults are returned without error.
func Load(path string) (*Config, error) {
	return LoadLayered(path)
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("config: store.backend must be \"memory\", \"json\" or \"sqlite\", got %q", c.Store.Backend)
	}
	if c.Server.Addr == "" {
		return errors.New("config: server.addr cannot be empty")
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("config: server.read_timeout must be positive, got %v", c.Server.ReadTimeout)
	}
	switch c.Log.Mode {
	case "development", "production":
	default:
		return fmt.Errorf("config: log.mode must be \"development\" or \"production\", got %q", c.Log.Mode)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: CONTACTS_STORE_BACKEND, CONTACTS_STORE_PATH,
// CONTACTS_SERVER_ADDR, CONTACTS_SERVER_READ_TIMEOUT, CONTACTS_LOG_LEVEL.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("CONTACTS_STORE_BACKEND"); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv("CONTACTS_STORE_PATH"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("CONTACTS_SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("CONTACTS_SERVER_READ_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: invalid CONTACTS_SERVER_READ_TIMEOUT %q: %w", v, err)
		}
		c.Server.ReadTimeout = d
	}
	if v := os.Getenv("CONTACTS_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Store  *rawStore  `yaml:"store"`
	Server *rawServer `yaml:"server"`
	Log    *rawLog    `yaml:"log"`
}

type rawStore struct {
	Backend *string `yaml:"backend"`
	Path    *string `yaml:"path"`
}

type rawServer struct {
	Addr        *string        `yaml:"addr"`
	ReadTimeout *time.Duration `yaml:"read_timeout"`
}

type rawLog struct {
	Mode  *string `yaml:"mode"`
	Level *string `yaml:"level"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if s := layer.Store; s != nil {
		if s.Backend != nil {
			c.Store.Backend = *s.Backend
		}
		if s.Path != nil {
			c.Store.Path = *s.Path
		}
	}
	if s := layer.Server; s != nil {
		if s.Addr != nil {
			c.Server.Addr = *s.Addr
		}
		if s.ReadTimeout != nil {
			c.Server.ReadTimeout = *s.ReadTimeout
		}
	}
	if l := layer.Log; l != nil {
		if l.Mode != nil {
			c.Log.Mode = *l.Mode
		}
		if l.Level != nil {
			c.Log.Level = *l.Level
		}
	}
}
