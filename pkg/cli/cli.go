package cli

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/arseniiv/relwatch/pkg/cli/config"
	"github.com/arseniiv/relwatch/pkg/domain/model"
	"github.com/arseniiv/relwatch/pkg/domain/types"
)

// appConfig holds the file path configuration shared by all commands
type appConfig struct {
	ConfigPath string
	CachePath  string
}

// Flags returns CLI flags for the configuration and cache file paths
func (c *appConfig) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to the TOML configuration file",
			Value:       "relwatch.toml",
			Destination: &c.ConfigPath,
			Sources:     cli.EnvVars("RELWATCH_CONFIG"),
		},
		&cli.StringFlag{
			Name:        "cache",
			Usage:       "Path to the seen-state cache file (default: next to the configuration file)",
			Destination: &c.CachePath,
			Sources:     cli.EnvVars("RELWATCH_CACHE"),
		},
	}
}

// cachePath derives the cache file path from the configuration path unless
// overridden
func (c *appConfig) cachePath() string {
	if c.CachePath != "" {
		return c.CachePath
	}
	return strings.TrimSuffix(c.ConfigPath, ".toml") + ".cache.toml"
}

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	var (
		loggerCfg config.Logger
		appCfg    appConfig
		logger    *slog.Logger
	)

	app := &cli.Command{
		Name:    types.AppName,
		Usage:   "Release watcher and asset downloader for GitHub repositories",
		Version: types.Version,
		Flags:   append(loggerCfg.Flags(), appCfg.Flags()...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			logger, err = loggerCfg.Configure()
			if err != nil {
				return nil, err
			}
			logger = logger.With(slog.String("session_id", uuid.NewString()))

			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)
			return ctx, nil
		},
		// Manual mode: interactive group/release/asset picking
		Action: func(ctx context.Context, c *cli.Command) error {
			return runSession(ctx, &appCfg, false, nil)
		},
		Commands: []*cli.Command{
			cmdAuto(&appCfg),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("CLI execution failed", slog.Any("error", err))
		return err
	}

	return nil
}

// resolveGroups maps auto-mode group arguments to group specs. A single
// "*" selects everything; otherwise each argument must name a configured
// group. A "*" mixed in with real names is ignored with a note.
func resolveGroups(ctx context.Context, cfg *config.File, args []string) ([]model.GroupSpec, error) {
	if len(args) == 1 && args[0] == "*" {
		return cfg.Groups, nil
	}

	var groups []model.GroupSpec
	for _, name := range args {
		if name == "*" {
			ctxlog.From(ctx).Warn("'*' found among real group names and ignored")
			continue
		}
		g, ok := cfg.Group(name)
		if !ok {
			return nil, goerr.New("unknown group",
				goerr.V("group", name),
				goerr.V("known", cfg.GroupNames()),
				goerr.T(types.ErrTagConfig))
		}
		groups = append(groups, g)
	}
	return groups, nil
}
