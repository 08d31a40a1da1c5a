// Package config resolves runtime settings from defaults, the config file,
// TODO_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pablasso/todo/internal/store"
)

const (
	// AppName is the configuration directory name.
	AppName = "todo"

	// ConfigFile is the optional YAML settings file inside the config dir.
	ConfigFile = "config.yaml"

	// CredentialFile holds the stored login credential.
	CredentialFile = "credential.json"

	// EnvPrefix prefixes every environment override (TODO_API_URL, ...).
	EnvPrefix = "TODO"
)

// Keys understood in config.yaml, as flags and (upper-cased, dashes replaced by
// underscores, prefixed) as environment variables.
const (
	KeyAPIURL   = "api-url"
	KeyTimeout  = "timeout"
	KeyLogFile  = "log-file"
	KeyLogLevel = "log-level"
	KeyRollback = "rollback"
)

const (
	DefaultAPIURL  = "http://localhost:3000"
	DefaultTimeout = 10 * time.Second
)

// Config holds the resolved settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	APIURL   string
	Timeout  time.Duration
	LogFile  string
	LogLevel string
	Rollback store.RollbackPolicy
}

// Options controls where Load looks.
type Options struct {
	// Dir overrides the configuration directory.
	Dir string

	// File overrides the config file path. A missing explicit file is an error;
	// a missing default file is not.
	File string

	// Flags, when set, are bound so that changed flags win over every other source.
	Flags *pflag.FlagSet
}

// DefaultDir returns $XDG_CONFIG_HOME/todo, or $HOME/.config/todo.
func DefaultDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// Load resolves the configuration. Precedence is flag > env > file > default.
func Load(opts Options) (*Config, error) {
	dir := opts.Dir
	if dir == "" {
		dir = DefaultDir()
	}

	v := viper.New()
	v.SetDefault(KeyAPIURL, DefaultAPIURL)
	v.SetDefault(KeyTimeout, DefaultTimeout)
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyRollback, store.RollbackSnapshot.String())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	file := opts.File
	explicit := file != ""
	if !explicit {
		file = filepath.Join(dir, ConfigFile)
	}
	v.SetConfigFile(file)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
		case !explicit && errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config %s: %w", file, err)
		}
	}

	if opts.Flags != nil {
		for _, key := range []string{KeyAPIURL, KeyTimeout, KeyLogFile, KeyLogLevel, KeyRollback} {
			if f := opts.Flags.Lookup(key); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", key, err)
				}
			}
		}
	}

	policy, err := store.ParseRollbackPolicy(v.GetString(KeyRollback))
	if err != nil {
		return nil, err
	}
	timeout := v.GetDuration(KeyTimeout)
	if timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %s", v.GetString(KeyTimeout))
	}

	return &Config{
		Dir:      dir,
		APIURL:   strings.TrimRight(v.GetString(KeyAPIURL), "/"),
		Timeout:  timeout,
		LogFile:  v.GetString(KeyLogFile),
		LogLevel: v.GetString(KeyLogLevel),
		Rollback: policy,
	}, nil
}

// CredentialPath returns the path of the stored credential.
func (c *Config) CredentialPath() string {
	return filepath.Join(c.Dir, CredentialFile)
}
