package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/augur/pkg/tool"
	"github.com/m-mizutani/augur/pkg/tool/source"
	"github.com/urfave/cli/v3"
)

func historyCommand(cfg *config) *cli.Command {
	var (
		offset int64
		limit  int64
	)

	return &cli.Command{
		Name:  "history",
		Usage: "List archived interactions",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "offset",
				Usage:       "Number of interactions to skip",
				Destination: &offset,
			},
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Usage:       "Maximum number of interactions to show",
				Value:       20,
				Destination: &limit,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			interactions, err := repo.ListInteractions(ctx, int(offset), int(limit))
			if err != nil {
				return err
			}

			if len(interactions) == 0 {
				fmt.Println("No archived interactions")
				return nil
			}

			for _, x := range interactions {
				tools := make([]string, 0, len(x.ToolsUsed))
				for _, n := range x.ToolsUsed {
					tools = append(tools, string(n))
				}

				fmt.Printf("%s  %s\n", x.CreatedAt.Format("2006-01-02 15:04:05"), x.ID)
				fmt.Printf("  Q: %s\n", x.Query)
				if len(tools) > 0 {
					fmt.Printf("  Sources: %s\n", strings.Join(tools, ", "))
				}
			}

			return nil
		},
	}
}

func toolsCommand(cfg *config) *cli.Command {
	return &cli.Command{
		Name:  "tools",
		Usage: "List available data retrieval tools",
		Action: func(ctx context.Context, c *cli.Command) error {
			tools := source.DefaultConfig().Build()
			if err := cfg.applySources(tools); err != nil {
				return err
			}

			printTools(tool.New(tools...))
			return nil
		},
	}
}
