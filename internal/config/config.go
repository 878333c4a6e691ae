// Package config loads graf's settings.
//
// Settings come from three layers, later layers winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file, by default $XDG_CONFIG_HOME/graf/config.toml
//  3. GRAF_* environment variables, including those set by a .env file in
//     the working directory
//
// A missing config file is not an error. Example file:
//
//	format = "yaml"
//
//	[store]
//	backend = "sqlite"
//	sqlite_path = "/var/lib/graf/graf.db"
//
//	[server]
//	addr = ":8080"
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/Grant-Giesbrecht/graf/pkg/errors"
	"github.com/Grant-Giesbrecht/graf/pkg/fonts"
	"github.com/Grant-Giesbrecht/graf/pkg/io"
)

// appName names the config directory.
const appName = "graf"

// Store backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Backends lists every supported store backend.
var Backends = []string{BackendFile, BackendMemory, BackendSQLite, BackendRedis, BackendMongo}

// Config holds every setting.
type Config struct {
	// Format is the default encoding for exported documents.
	Format string       `toml:"format"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
	Fonts  FontsConfig  `toml:"fonts"`
}

// StoreConfig selects and configures the document store.
type StoreConfig struct {
	Backend    string      `toml:"backend"`
	Dir        string      `toml:"dir"` // file backend; empty selects ~/.config/graf/documents
	SQLitePath string      `toml:"sqlite_path"`
	Redis      RedisConfig `toml:"redis"`
	Mongo      MongoConfig `toml:"mongo"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type FontsConfig struct {
	// Table is a TOML font table; empty selects the embedded portable table.
	Table string `toml:"table"`
}

// Default returns the built-in settings.
func Default() *Config {
	cfg := &Config{
		Format: string(io.FormatJSON),
		Store: StoreConfig{
			Backend: BackendFile,
			Redis:   RedisConfig{Addr: "localhost:6379"},
			Mongo:   MongoConfig{URI: "mongodb://localhost:27017"},
		},
		Server: ServerConfig{Addr: ":8080"},
	}
	if dir, err := Dir(); err == nil {
		cfg.Store.SQLitePath = filepath.Join(dir, "graf.db")
	}
	return cfg
}

// Dir returns the config directory using the XDG convention
// (~/.config/graf/).
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "get home dir")
	}
	return filepath.Join(home, ".config", appName), nil
}

// DefaultPath returns the default config file path.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file at path (or [DefaultPath] when empty), applies
// environment overrides and validates the result. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	// .env is optional.
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	for env, dst := range map[string]*string{
		"GRAF_FORMAT":         &c.Format,
		"GRAF_STORE":          &c.Store.Backend,
		"GRAF_STORE_DIR":      &c.Store.Dir,
		"GRAF_SQLITE_PATH":    &c.Store.SQLitePath,
		"GRAF_REDIS_ADDR":     &c.Store.Redis.Addr,
		"GRAF_REDIS_PASSWORD": &c.Store.Redis.Password,
		"GRAF_MONGO_URI":      &c.Store.Mongo.URI,
		"GRAF_FONT_TABLE":     &c.Fonts.Table,
		"GRAF_SERVER_ADDR":    &c.Server.Addr,
	} {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}
	if v := os.Getenv("GRAF_REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "GRAF_REDIS_DB")
		}
		c.Store.Redis.DB = db
	}
	return nil
}

// Validate checks that the selected backend is known and configured.
func (c *Config) Validate() error {
	if _, err := io.ParseFormat(c.Format); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "format")
	}

	switch c.Store.Backend {
	case BackendMemory:
	case BackendFile:
		if c.Store.Dir != "" {
			if err := errors.ValidatePath(c.Store.Dir); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidConfig, err, "store.dir")
			}
		}
	case BackendSQLite:
		if c.Store.SQLitePath == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store.sqlite_path is required for the sqlite backend")
		}
		if err := errors.ValidatePath(c.Store.SQLitePath); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "store.sqlite_path")
		}
	case BackendRedis:
		if c.Store.Redis.Addr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store.redis.addr is required for the redis backend")
		}
	case BackendMongo:
		if c.Store.Mongo.URI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store.mongo.uri is required for the mongo backend")
		}
		if err := errors.ValidateURL(c.Store.Mongo.URI, "mongodb", "mongodb+srv"); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "store.mongo.uri")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q (want one of %v)", c.Store.Backend, Backends)
	}

	if c.Fonts.Table != "" {
		if err := errors.ValidatePath(c.Fonts.Table); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "fonts.table")
		}
	}

	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr cannot be empty")
	}
	return nil
}

// FontTable loads the configured font table.
func (c *Config) FontTable() (*fonts.Table, error) {
	if c.Fonts.Table == "" {
		return fonts.Default(), nil
	}
	t, err := fonts.Load(c.Fonts.Table)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "font table")
	}
	return t, nil
}

// OutputFormat returns the validated default export format.
func (c *Config) OutputFormat() io.Format {
	f, err := io.ParseFormat(c.Format)
	if err != nil {
		return io.FormatJSON
	}
	return f
}
