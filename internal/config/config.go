// Package config loads taskboard settings from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"taskboard/internal/util"
)

// ServerConfig controls the REST backend.
type ServerConfig struct {
	Addr      string `mapstructure:"addr" yaml:"addr"`
	StaticDir string `mapstructure:"static_dir" yaml:"static_dir"`
}

// DatabaseConfig selects the SQLite file and driver ("sqlite3" or "sqlite").
type DatabaseConfig struct {
	Path   string `mapstructure:"path" yaml:"path"`
	Driver string `mapstructure:"driver" yaml:"driver"`
}

// ClientConfig controls how CLI commands reach the backend.
type ClientConfig struct {
	BaseURL    string `mapstructure:"base_url" yaml:"base_url"`
	TimeoutSec int    `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// Timeout returns TimeoutSec as a duration.
func (c ClientConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// MCPConfig controls the tool server.
type MCPConfig struct {
	// Transport is "http" or "stdio".
	Transport string `mapstructure:"transport" yaml:"transport"`
	Addr      string `mapstructure:"addr" yaml:"addr"`

	// UpstreamURL overrides the GitHub and npm endpoints; empty uses the
	// public registries.
	UpstreamURL string `mapstructure:"upstream_url" yaml:"upstream_url"`
}

// LogConfig selects the slog level: debug, info, warn or error.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Client   ClientConfig   `mapstructure:"client" yaml:"client"`
	MCP      MCPConfig      `mapstructure:"mcp" yaml:"mcp"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// DefaultPath returns ~/.config/taskboard/config.yaml, or ./config.yaml when
// the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "taskboard", "config.yaml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":3000")
	v.SetDefault("server.static_dir", "")
	v.SetDefault("database.path", "data/taskboard.db")
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("client.base_url", "http://localhost:3000/api")
	v.SetDefault("client.timeout_sec", 10)
	v.SetDefault("mcp.transport", "http")
	v.SetDefault("mcp.addr", ":8081")
	v.SetDefault("mcp.upstream_url", "")
	v.SetDefault("log.level", "info")
}

// Load reads the YAML file at path. A missing file yields the defaults.
// TASKBOARD_* environment variables override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.Server.Addr = util.EnvOrDefault("TASKBOARD_ADDR", cfg.Server.Addr)
	cfg.Server.StaticDir = util.EnvOrDefault("TASKBOARD_STATIC_DIR", cfg.Server.StaticDir)
	cfg.Database.Path = util.EnvOrDefault("TASKBOARD_DB_PATH", cfg.Database.Path)
	cfg.Database.Driver = util.EnvOrDefault("TASKBOARD_DB_DRIVER", cfg.Database.Driver)
	cfg.Client.BaseURL = util.EnvOrDefault("TASKBOARD_API_URL", cfg.Client.BaseURL)
	cfg.Client.TimeoutSec = util.EnvIntOrDefault("TASKBOARD_API_TIMEOUT", cfg.Client.TimeoutSec)
	cfg.MCP.Addr = util.EnvOrDefault("TASKBOARD_MCP_ADDR", cfg.MCP.Addr)
	cfg.Log.Level = util.EnvOrDefault("TASKBOARD_LOG_LEVEL", cfg.Log.Level)

	return cfg, nil
}
