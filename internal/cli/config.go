package cli

import (
	"bytes"
	"errors"
	"io"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/aretw0/strand/pkg/identity"
	"github.com/aretw0/strand/pkg/persistence/middleware"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read when --config is not given.
const DefaultConfigFile = "strand.yaml"

// EncryptionKeyEnv overrides store.encryption_key.
const EncryptionKeyEnv = "STRAND_ENCRYPTION_KEY"

// Backend names accepted in the store section.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config is the content of strand.yaml.
type Config struct {
	Homespace string      `yaml:"homespace"`
	Version   string      `yaml:"version"`
	Library   string      `yaml:"library"`
	Log       LogConfig   `yaml:"log"`
	Store     StoreConfig `yaml:"store"`
}

// LogConfig selects the log level and handler format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// StoreConfig selects where compiled documents are persisted.
type StoreConfig struct {
	Backend string      `yaml:"backend"`
	Path    string      `yaml:"path"`
	Redis   RedisConfig `yaml:"redis"`

	// EncryptionKey seals stored documents with AES-256 (hex or base64).
	// The STRAND_ENCRYPTION_KEY environment variable takes precedence.
	EncryptionKey string `yaml:"encryption_key"`
	// PreviousKeys still open documents sealed before a key rotation.
	PreviousKeys []string `yaml:"previous_keys"`
}

// RedisConfig holds the connection settings of the redis backend.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
	TTL      string `yaml:"ttl"`
}

// DefaultConfig returns the settings used when no file is present.
func DefaultConfig() Config {
	return Config{
		Homespace: "https://strand.local",
		Log:       LogConfig{Level: "info", Format: "text"},
		Store:     StoreConfig{Backend: BackendFile},
	}
}

// LoadConfig reads path over the defaults. A missing default file is not an
// error; a missing explicit file is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values that cannot be caught by decoding.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendSQLite, BackendRedis:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if _, err := c.Namespace(); err != nil {
		return err
	}
	if _, err := c.Store.Redis.ttl(); err != nil {
		return err
	}
	if _, err := c.Store.encryption(); err != nil {
		return err
	}
	return nil
}

// Namespace returns the identity configuration described by the file.
func (c Config) Namespace() (identity.Namespace, error) {
	return identity.New(c.Homespace, c.Version)
}

// encryption returns the configured keys, or nil when documents are stored in clear.
func (s StoreConfig) encryption() (*middleware.EncryptionConfig, error) {
	active := s.EncryptionKey
	if env := os.Getenv(EncryptionKeyEnv); env != "" {
		active = env
	}
	if active == "" {
		return nil, nil
	}
	key, err := middleware.DecodeKey(active)
	if err != nil {
		return nil, err
	}
	cfg := &middleware.EncryptionConfig{ActiveKey: key}
	for _, prev := range s.PreviousKeys {
		k, err := middleware.DecodeKey(prev)
		if err != nil {
			return nil, fmt.Errorf("previous key: %w", err)
		}
		cfg.FallbackKeys = append(cfg.FallbackKeys, k)
	}
	return cfg, nil
}

func (r RedisConfig) ttl() (time.Duration, error) {
	if r.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(r.TTL)
	if err != nil {
		return 0, fmt.Errorf("invalid redis ttl: %w", err)
	}
	return d, nil
}
