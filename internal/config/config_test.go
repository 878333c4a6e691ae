package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Grant-Giesbrecht/graf/pkg/errors"
	"github.com/Grant-Giesbrecht/graf/pkg/io"
)

// isolate points the config directory at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, env := range []string{
		"GRAF_FORMAT", "GRAF_STORE", "GRAF_STORE_DIR", "GRAF_SQLITE_PATH",
		"GRAF_REDIS_ADDR", "GRAF_REDIS_PASSWORD", "GRAF_REDIS_DB",
		"GRAF_MONGO_URI", "GRAF_FONT_TABLE", "GRAF_SERVER_ADDR",
	} {
		t.Setenv(env, "")
	}
	return dir
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, BackendFile, cfg.Store.Backend)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, filepath.Join(dir, "graf", "graf.db"), cfg.Store.SQLitePath)
	assert.Equal(t, io.FormatJSON, cfg.OutputFormat())

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "graf", "config.toml"), path)
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
format = "yaml"

[store]
backend = "redis"

[store.redis]
addr = "cache:6379"
db = 2

[server]
addr = "127.0.0.1:9000"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, io.FormatYAML, cfg.OutputFormat())
	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "cache:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, 2, cfg.Store.Redis.DB)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	// Unset keys keep their defaults.
	assert.Equal(t, "mongodb://localhost:27017", cfg.Store.Mongo.URI)
}

func TestEnvOverridesFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
[store]
backend = "redis"
`)
	t.Setenv("GRAF_STORE", "mongo")
	t.Setenv("GRAF_MONGO_URI", "mongodb://db:27017")
	t.Setenv("GRAF_SERVER_ADDR", ":9999")
	t.Setenv("GRAF_REDIS_DB", "5")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendMongo, cfg.Store.Backend)
	assert.Equal(t, "mongodb://db:27017", cfg.Store.Mongo.URI)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, 5, cfg.Store.Redis.DB)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
	}{
		{name: "malformed toml", body: "store = ["},
		{name: "unknown backend", body: "[store]\nbackend = \"etcd\""},
		{name: "unknown format", body: "format = \"xml\""},
		{name: "bad redis db", env: map[string]string{"GRAF_REDIS_DB": "two"}},
		{name: "empty redis addr", body: "[store]\nbackend = \"redis\"\n[store.redis]\naddr = \"\""},
		{name: "http mongo uri", body: "[store]\nbackend = \"mongo\"\n[store.mongo]\nuri = \"http://localhost:27017\""},
		{name: "mongo uri from env", env: map[string]string{"GRAF_STORE": "mongo", "GRAF_MONGO_URI": "localhost:27017"}},
		{name: "control char in store dir", env: map[string]string{"GRAF_STORE_DIR": "docs\x01"}},
		{name: "control char in sqlite path", env: map[string]string{"GRAF_STORE": "sqlite", "GRAF_SQLITE_PATH": "graf\n.db"}},
		{name: "control char in font table", env: map[string]string{"GRAF_FONT_TABLE": "fonts\t.toml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "got %v", err)
		})
	}
}

func TestValidate(t *testing.T) {
	isolate(t)
	for _, b := range Backends {
		cfg := Default()
		cfg.Store.Backend = b
		assert.NoError(t, cfg.Validate(), b)
	}

	cfg := Default()
	cfg.Store.Backend = BackendSQLite
	cfg.Store.SQLitePath = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Server.Addr = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Store.Backend = BackendMongo
	cfg.Store.Mongo.URI = "mongodb+srv://cluster0.example.net"
	assert.NoError(t, cfg.Validate())
	cfg.Store.Mongo.URI = "redis://localhost:6379"
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	cfg = Default()
	cfg.Store.Dir = filepath.Join(t.TempDir(), "docs")
	cfg.Fonts.Table = filepath.Join(t.TempDir(), "fonts.toml")
	assert.NoError(t, cfg.Validate())
}

func TestFontTable(t *testing.T) {
	isolate(t)
	cfg := Default()
	table, err := cfg.FontTable()
	require.NoError(t, err)
	assert.NotEmpty(t, table.Names())

	cfg.Fonts.Table = filepath.Join(t.TempDir(), "missing.toml")
	_, err = cfg.FontTable()
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}
