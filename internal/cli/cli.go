// Package cli implements the graf command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Grant-Giesbrecht/graf/internal/config"
	"github.com/Grant-Giesbrecht/graf/pkg/buildinfo"
	"github.com/Grant-Giesbrecht/graf/pkg/errors"
	"github.com/Grant-Giesbrecht/graf/pkg/pack"
	"github.com/Grant-Giesbrecht/graf/pkg/store"
	"github.com/Grant-Giesbrecht/graf/pkg/store/mongo"
	"github.com/Grant-Giesbrecht/graf/pkg/store/redis"
	"github.com/Grant-Giesbrecht/graf/pkg/store/sqlite"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "graf"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance. The logger also becomes the codec logger,
// so unpack diagnostics share the CLI's output and level.
func New(w io.Writer, level log.Level) *CLI {
	logger := newLogger(w, level)
	pack.SetLogger(logger)
	return &CLI{Logger: logger}
}

// SetLogLevel updates the logger's level. At debug level, codec and store
// events are logged too.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		installLogHooks(c.Logger)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "graf stores, converts and inspects GrAF figure documents",
		Long:         `graf works with GrAF documents: portable, plotting-library independent descriptions of figures, their axes, traces and surfaces.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/graf/config.toml)")

	// Documents
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.queryCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.convertCommand())

	// Store
	root.AddCommand(c.pushCommand())
	root.AddCommand(c.pullCommand())
	root.AddCommand(c.lsCommand())
	root.AddCommand(c.rmCommand())
	root.AddCommand(c.serveCommand())

	// Setup
	root.AddCommand(c.fontsCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Store Factory
// =============================================================================

// config loads the configuration once per process.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// openStore opens the configured backend, instrumented for observability.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	st, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("store opened", "backend", cfg.Store.Backend)
	return store.Instrument(st, cfg.Store.Backend), nil
}

func openBackend(ctx context.Context, cfg *config.Config) (store.Store, error) {
	sc := cfg.Store
	switch sc.Backend {
	case config.BackendMemory:
		return store.NewMemoryStore(), nil
	case config.BackendFile:
		return store.NewFileStore(sc.Dir)
	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(sc.SQLitePath), 0755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "create sqlite dir")
		}
		return sqlite.Open(ctx, sc.SQLitePath)
	case config.BackendRedis:
		return redis.NewStore(ctx, redis.Config{
			Addr:     sc.Redis.Addr,
			Password: sc.Redis.Password,
			DB:       sc.Redis.DB,
			Prefix:   sc.Redis.Prefix,
		})
	case config.BackendMongo:
		return mongo.NewStore(ctx, mongo.Config{
			URI:        sc.Mongo.URI,
			Database:   sc.Mongo.Database,
			Collection: sc.Mongo.Collection,
		})
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", sc.Backend)
}

// isRemote reports whether operations on the backend may take noticeable
// time, which is when a spinner is shown.
func isRemote(backend string) bool {
	return backend == config.BackendRedis || backend == config.BackendMongo
}
