// Package config handles the configuration directory, file paths and the
// settings loaded from config.yaml.
package config

import (
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	// AppName is the application directory name.
	AppName = "todo"

	// ConfigFile is the settings filename inside the config directory.
	ConfigFile = "config.yaml"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"
)

// Backend names accepted in the backend setting.
const (
	BackendREST        = "rest"
	BackendGoogleTasks = "googletasks"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `mapstructure:"-" yaml:"-"`

	// Debug enables debug logging.
	Debug bool `mapstructure:"-" yaml:"-"`

	// Quiet suppresses informational output.
	Quiet bool `mapstructure:"-" yaml:"-"`

	// Backend selects the remote task service: "rest" or "googletasks".
	Backend string `mapstructure:"backend" yaml:"backend"`

	Remote      RemoteConfig      `mapstructure:"remote" yaml:"remote"`
	GoogleTasks GoogleTasksConfig `mapstructure:"google_tasks" yaml:"google_tasks"`
	Server      ServerConfig      `mapstructure:"server" yaml:"server"`
}

// RemoteConfig locates the REST to-do service.
type RemoteConfig struct {
	Scheme   string        `mapstructure:"scheme" yaml:"scheme"`
	Host     string        `mapstructure:"host" yaml:"host"`
	Port     int           `mapstructure:"port" yaml:"port"`
	BasePath string        `mapstructure:"base_path" yaml:"base_path"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`

	// Token is sent as a bearer token when non-empty.
	Token string `mapstructure:"token" yaml:"token,omitempty"`
}

// GoogleTasksConfig selects the Google Tasks list used as the collection.
type GoogleTasksConfig struct {
	ListID string `mapstructure:"list_id" yaml:"list_id"`
}

// ServerConfig configures the reference server started by `todo serve`.
type ServerConfig struct {
	Addr   string `mapstructure:"addr" yaml:"addr"`
	Driver string `mapstructure:"driver" yaml:"driver"`
	DSN    string `mapstructure:"dsn" yaml:"dsn,omitempty"`
	Token  string `mapstructure:"token" yaml:"token,omitempty"`
}

// DefaultConfig returns the default settings with no directory set.
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendREST,
		Remote: RemoteConfig{
			Scheme:   "http",
			Host:     "localhost",
			Port:     3000,
			BasePath: "/todo",
			Timeout:  5 * time.Second,
		},
		GoogleTasks: GoogleTasksConfig{
			ListID: "@default",
		},
		Server: ServerConfig{
			Addr:   ":3000",
			Driver: "memory",
		},
	}
}

// New creates a Config for the default or specified config directory and
// loads config.yaml from it if present.
// If configDir is empty, uses XDG_CONFIG_HOME/todo or $HOME/.config/todo.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := DefaultConfig()
	cfg.Dir = dir
	if err := Load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// BaseURL returns the root URL of the REST collection, e.g.
// http://localhost:3000/todo.
func (r RemoteConfig) BaseURL() string {
	scheme := r.Scheme
	if scheme == "" {
		scheme = "http"
	}
	u := url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(r.Host, strconv.Itoa(r.Port)),
		Path:   r.BasePath,
	}
	return u.String()
}

// ConfigPath returns the path to config.yaml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasConfigFile checks if config.yaml exists.
func (c *Config) HasConfigFile() bool {
	_, err := os.Stat(c.ConfigPath())
	return err == nil
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
