package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/CarlosCampa21/aura-api/pkg/cli/config"
	"github.com/CarlosCampa21/aura-api/pkg/utils/logging"
)

func Run(ctx context.Context, args []string, version string) error {
	var loggerCfg config.Logger

	app := &cli.Command{
		Name:    "aura",
		Usage:   "Institutional assistant retrieval and orchestration engine",
		Version: version,
		Flags:   loggerCfg.Flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if err := loggerCfg.Configure(); err != nil {
				return ctx, err
			}
			logging.Default().Info("Starting aura", "logger", loggerCfg.LogValue())
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdIngest(),
			cmdAsk(),
			cmdSearch(),
			cmdMigrate(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		logging.Default().Error("failed to run app", "error", err)
		return err
	}

	return nil
}
