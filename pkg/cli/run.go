package cli

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/arseniiv/relwatch/pkg/cli/config"
	"github.com/arseniiv/relwatch/pkg/controller/term"
	"github.com/arseniiv/relwatch/pkg/infra/cachefile"
	githubinfra "github.com/arseniiv/relwatch/pkg/infra/github"
	"github.com/arseniiv/relwatch/pkg/infra/notify"
	"github.com/arseniiv/relwatch/pkg/usecase"
)

func cmdAuto(appCfg *appConfig) *cli.Command {
	return &cli.Command{
		Name:      "auto",
		Aliases:   []string{"a"},
		Usage:     "Automatically acknowledge and download the newest release of everything",
		ArgsUsage: "group... | '*'",
		Action: func(ctx context.Context, c *cli.Command) error {
			args := c.Args().Slice()
			if len(args) == 0 {
				return goerr.New("auto mode needs at least one group name, or '*'")
			}
			return runSession(ctx, appCfg, true, args)
		},
	}
}

// runSession wires the infrastructure to the watch use case and runs one
// terminal session over the selected groups.
func runSession(ctx context.Context, appCfg *appConfig, auto bool, groupArgs []string) error {
	logger := ctxlog.From(ctx)

	cfg, err := config.Load(appCfg.ConfigPath)
	if err != nil {
		return err
	}

	store, err := cachefile.Open(appCfg.cachePath())
	if err != nil {
		return err
	}

	// The source handle is built once per run and threaded through
	// explicitly; nothing holds it as ambient state.
	source := githubinfra.New(cfg.APIToken)

	uc := usecase.NewWatch(source, store,
		usecase.WithAssumeDecreasing(cfg.AssumeReleasesDecreasing),
		usecase.WithCompareCommits(cfg.CompareCommits),
	)

	groups := cfg.Groups
	if auto {
		if groups, err = resolveGroups(ctx, cfg, groupArgs); err != nil {
			return err
		}
	}

	opts := []term.Option{term.WithAuto(auto)}
	if cfg.SlackWebhook != "" {
		opts = append(opts, term.WithNotifier(notify.NewSlack(cfg.SlackWebhook)))
	}

	logger.Info("starting run",
		"config", appCfg.ConfigPath,
		"cache", appCfg.cachePath(),
		"downloads_root", cfg.DownloadsRoot,
		"groups", len(groups),
		"auto", auto,
	)

	return term.New(uc, cfg.DownloadsRoot, opts...).Run(ctx, groups)
}
