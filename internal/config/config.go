// Package config handles the XDG configuration directory, the optional
// config.toml file and environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"todo/internal/credstore"
	"todo/internal/gate"
)

const (
	// AppName is the application directory name.
	AppName = "todo"

	// ConfigFile is the optional settings filename inside the config directory.
	ConfigFile = "config.toml"

	// DefaultServer is the task service used when nothing else is configured.
	DefaultServer = "https://to-do-backend-zeta.vercel.app"

	// DefaultSplash is how long the interactive UI keeps its loading screen up.
	DefaultSplash = gate.MinimumDuration

	// EnvServer overrides the server URL.
	EnvServer = "TODO_SERVER"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Server is the base URL of the task service.
	Server string

	// SplashDuration is the minimum loading-screen time.
	SplashDuration time.Duration

	// CredentialStore selects where the token is kept: "file" or "sqlite".
	CredentialStore string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// fileConfig mirrors config.toml. Every key is optional.
type fileConfig struct {
	Server          string `toml:"server"`
	SplashMS        *int   `toml:"splash_ms"`
	CredentialStore string `toml:"credential_store"`
}

// New creates a Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/todo or $HOME/.config/todo.
// Values come from config.toml when present and are then overridden by the
// environment; command-line flags are applied by the caller afterwards.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	c := &Config{
		Dir:             dir,
		Server:          DefaultServer,
		SplashDuration:  DefaultSplash,
		CredentialStore: credstore.KindFile,
	}
	if err := c.loadFile(); err != nil {
		return nil, err
	}
	if s := os.Getenv(EnvServer); s != "" {
		c.Server = s
	}
	return c, nil
}

func (c *Config) loadFile() error {
	var fc fileConfig
	_, err := toml.DecodeFile(c.FilePath(), &fc)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}

	if fc.Server != "" {
		c.Server = fc.Server
	}
	if fc.SplashMS != nil {
		if *fc.SplashMS < 0 {
			return fmt.Errorf("invalid %s: splash_ms must not be negative", ConfigFile)
		}
		c.SplashDuration = time.Duration(*fc.SplashMS) * time.Millisecond
	}
	switch fc.CredentialStore {
	case "":
	case credstore.KindFile, credstore.KindSQLite:
		c.CredentialStore = fc.CredentialStore
	default:
		return fmt.Errorf("invalid %s: unknown credential_store %q", ConfigFile, fc.CredentialStore)
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// FilePath returns the path to config.toml.
func (c *Config) FilePath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}
