// Package config loads server settings from a YAML file, a dotenv file and
// UNIFORMADMIN_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// EnvPrefix is prepended to every environment override, e.g.
// UNIFORMADMIN_DATABASE_DSN for database.dsn.
const EnvPrefix = "UNIFORMADMIN"

type Config struct {
	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Database struct {
		Driver string
		DSN    string
	} `mapstructure:"database"`

	Log struct {
		Level string
		Path  string
	} `mapstructure:"log"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	Auth struct {
		TokenTTL  time.Duration `mapstructure:"token_ttl"`
		JWTSecret string        `mapstructure:"jwt_secret"`
	} `mapstructure:"auth"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "uniformadmin.sqlite3")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", "")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("auth.jwt_secret", "")
}

// Load reads the configuration. path may be empty to use defaults and the
// environment only. Missing dotenv files are skipped; variables already
// present in the environment win over dotenv values.
func Load(path string, dotenv ...string) (Config, error) {
	var c Config

	for _, f := range dotenv {
		if err := gotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return c, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	v := viper.New()
	defaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return c, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decoding config: %w", err)
	}
	if err := c.validate(); err != nil {
		return c, err
	}
	return c, nil
}

func (c Config) validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database.dsn is required")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive, got %s", c.Auth.TokenTTL)
	}
	return nil
}

// LogLevel parses log.level (debug, info, warn, error).
func (c Config) LogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return l, fmt.Errorf("log.level: %w", err)
	}
	return l, nil
}
