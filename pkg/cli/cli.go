package cli

import (
	"context"

	"github.com/m-mizutani/augur/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

type Error struct {
	Code    int
	Message string
}

func Run(ctx context.Context, argv []string) *Error {
	var cfg config

	cmd := &cli.Command{
		Name:  "augur",
		Usage: "Enterprise decision agent for business data analysis",
		Flags: globalFlags(&cfg),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger := logging.New(cfg.logLevel, nil)
			logging.SetDefault(logger)
			return logging.With(ctx, logger), nil
		},
		Commands: []*cli.Command{
			askCommand(&cfg),
			chatCommand(&cfg),
			statsCommand(&cfg),
			historyCommand(&cfg),
			toolsCommand(&cfg),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}
