package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configFileName = "inquisition"
	configFileType = "yaml"
	envPrefix      = "INQUISITION"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var (
	ErrDriverUnknown     = errors.New("unknown database driver")
	ErrDSNEmpty          = errors.New("database dsn must not be empty")
	ErrCollectionUnknown = errors.New("unknown collection")
)

// DefaultSQLiteDSN is the database file used when db.dsn is not set,
// relative to the working directory.
const DefaultSQLiteDSN = "inquisition.db?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

// KnownCollections lists the child collections the server can expose.
var KnownCollections = []string{"images", "options"}

type Config struct {
	Addr        string   `mapstructure:"addr"`
	DB          Database `mapstructure:"db"`
	Log         Log      `mapstructure:"log"`
	Collections []string `mapstructure:"collections"`
}

type Database struct {
	Driver       string `mapstructure:"driver"`
	DSN          string `mapstructure:"dsn"`
	LogLevel     string `mapstructure:"log_level"` // silent | error | warn | info
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type Log struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"` // empty means stdout
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("db.driver", DriverSQLite)
	v.SetDefault("db.dsn", DefaultSQLiteDSN)
	v.SetDefault("db.log_level", "warn")
	v.SetDefault("db.max_open_conns", 100)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("collections", KnownCollections)
}

// Load reads .env (if present), then the config file, then INQUISITION_*
// environment variables. With an empty path the file is looked up as
// inquisition.yaml in the working directory and in ~/.inquisition; not
// finding one there is fine. An explicit path must exist.
func Load(path string) (Config, error) {
	// Missing .env is the normal case outside development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".inquisition"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DB.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("%w: %q", ErrDriverUnknown, c.DB.Driver)
	}
	if strings.TrimSpace(c.DB.DSN) == "" {
		return ErrDSNEmpty
	}
	for _, name := range c.Collections {
		if !isKnownCollection(name) {
			return fmt.Errorf("%w: %q", ErrCollectionUnknown, name)
		}
	}
	return nil
}

func isKnownCollection(name string) bool {
	for _, k := range KnownCollections {
		if k == name {
			return true
		}
	}
	return false
}
