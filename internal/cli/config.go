package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	apperrors "github.com/jmerkel/nodepad/pkg/errors"
)

// Config mirrors ~/.config/nodepad/config.toml. Zero values mean "use the
// built-in default"; command-line flags override file values.
type Config struct {
	Layout  LayoutConfig  `toml:"layout"`
	View    ViewConfig    `toml:"view"`
	Cache   CacheConfig   `toml:"cache"`
	Session SessionConfig `toml:"session"`
	Server  ServerConfig  `toml:"server"`
}

// LayoutConfig overrides the default force-simulation knobs.
type LayoutConfig struct {
	Iterations int     `toml:"iterations"`
	Seed       uint64  `toml:"seed"`
	RestLength float64 `toml:"rest_length"`
	Repulsion  float64 `toml:"repulsion"`
	Attraction float64 `toml:"attraction"`
	Scatter    float64 `toml:"scatter"`
}

// ViewConfig seeds the view transform stored with new sessions.
type ViewConfig struct {
	Scale float64 `toml:"scale"`
}

// CacheConfig selects the layout cache backend: "file" (default), "redis"
// or "none".
type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// SessionConfig selects the session store backend: "file" (default) or
// "mongo".
type SessionConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// ServerConfig holds defaults for the serve command.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// LoadConfig reads the config file at path, or the default location when
// path is empty. A missing default file yields a zero config; a missing
// explicit file is an error, because the user asked for that exact file.
func LoadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := defaultConfigPath()
		if err != nil {
			return Config{}, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Config{}, nil
		}
		return Config{}, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "config %s", path)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "config %s", path)
	}
	return cfg, nil
}

// defaultConfigPath returns the config file location under the user config
// directory.
func defaultConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// configDir returns the config directory using XDG standard
// (~/.config/nodepad/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
