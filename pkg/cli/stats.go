package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/m-mizutani/augur/pkg/model"
	"github.com/urfave/cli/v3"
)

func statsCommand(cfg *config) *cli.Command {
	var limit int64

	return &cli.Command{
		Name:  "stats",
		Usage: "Aggregate statistics over archived interactions",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Usage:       "Maximum number of archived interactions to aggregate",
				Value:       1000,
				Destination: &limit,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			interactions, err := repo.ListInteractions(ctx, 0, int(limit))
			if err != nil {
				return err
			}

			if len(interactions) == 0 {
				fmt.Println("No archived interactions")
				return nil
			}

			kinds := make(map[model.QueryKind]int)
			tools := make(map[model.ToolName]int)
			for _, x := range interactions {
				kinds[model.ClassifyQuery(x.Query)]++
				for _, name := range x.ToolsUsed {
					tools[name]++
				}
			}

			fmt.Printf("Archived interactions: %d\n", len(interactions))

			fmt.Println("Query kinds:")
			for _, kind := range sortedKeys(kinds) {
				fmt.Printf("  %-20s %d\n", kind, kinds[model.QueryKind(kind)])
			}

			if len(tools) > 0 {
				fmt.Println("Data source usage:")
				for _, name := range sortedKeys(tools) {
					fmt.Printf("  %-20s %d\n", name, tools[model.ToolName(name)])
				}
			}

			// Latency and confidence aggregates live in the session tracker;
			// use 'stats' inside chat for the live summary and grade
			return nil
		},
	}
}

func sortedKeys[K ~string, V any](m map[K]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	return keys
}
