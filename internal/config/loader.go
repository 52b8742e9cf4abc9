package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. TODO_REMOTE_HOST.
const EnvPrefix = "TODO"

// Load overlays config.yaml from cfg.Dir and TODO_* environment variables
// onto cfg. A missing file is not an error.
func Load(cfg *Config) error {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Env lookups only happen for keys viper already knows about.
	setDefaults(v, cfg)

	if cfg.Dir != "" && cfg.HasConfigFile() {
		v.SetConfigFile(cfg.ConfigPath())
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading %s: %w", cfg.ConfigPath(), err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", cfg.ConfigPath(), err)
	}

	switch cfg.Backend {
	case BackendREST, BackendGoogleTasks:
	default:
		return fmt.Errorf("unknown backend: %s", cfg.Backend)
	}
	return nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("backend", cfg.Backend)
	v.SetDefault("remote.scheme", cfg.Remote.Scheme)
	v.SetDefault("remote.host", cfg.Remote.Host)
	v.SetDefault("remote.port", cfg.Remote.Port)
	v.SetDefault("remote.base_path", cfg.Remote.BasePath)
	v.SetDefault("remote.timeout", cfg.Remote.Timeout)
	v.SetDefault("remote.token", cfg.Remote.Token)
	v.SetDefault("google_tasks.list_id", cfg.GoogleTasks.ListID)
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.driver", cfg.Server.Driver)
	v.SetDefault("server.dsn", cfg.Server.DSN)
	v.SetDefault("server.token", cfg.Server.Token)
}

const fileHeader = `# todo configuration
# backend: "rest" talks to the /todo HTTP service, "googletasks" to a Google Tasks list.
# Every key can be overridden with TODO_<SECTION>_<KEY>, e.g. TODO_REMOTE_PORT.
`

// WriteDefault writes the default settings to path with mode 0600.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, append([]byte(fileHeader), data...), 0600)
}
