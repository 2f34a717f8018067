package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/m-mizutani/augur/pkg/model"
	"github.com/m-mizutani/augur/pkg/tool"
	"github.com/m-mizutani/augur/pkg/tool/source"
	"github.com/m-mizutani/augur/pkg/usecase/agent"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func askCommand(cfg *config) *cli.Command {
	tools := source.DefaultConfig().Build()
	registry := tool.New(tools...)

	flags := append(llmFlags(cfg), memoryFlags(cfg)...)
	flags = append(flags, registry.Flags()...)

	return &cli.Command{
		Name:      "ask",
		Usage:     "Answer a single business question",
		ArgsUsage: "<query>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if query == "" {
				return goerr.New("query is required")
			}

			if err := cfg.applySources(tools); err != nil {
				return err
			}

			ag, err := cfg.newAgent(ctx, registry)
			if err != nil {
				return err
			}
			defer ag.Wait()

			ans, err := ask(ctx, ag, query)
			if err != nil {
				return err
			}

			printAnswer(ans)
			return nil
		},
	}
}

// ask runs one query with a progress spinner
func ask(ctx context.Context, ag *agent.Agent, query string) (*model.Answer, error) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " analyzing..."
	s.Start()
	defer s.Stop()

	return ag.Invoke(ctx, query)
}

func printAnswer(ans *model.Answer) {
	fmt.Println()
	fmt.Println(ans.Analysis)
	fmt.Println()

	if len(ans.Drivers) > 0 {
		fmt.Println("Key drivers:")
		for _, d := range ans.Drivers {
			fmt.Printf("  - %s\n", d)
		}
	}
	if len(ans.Actions) > 0 {
		fmt.Println("Recommended actions:")
		for _, a := range ans.Actions {
			fmt.Printf("  - %s\n", a)
		}
	}

	fmt.Printf("Confidence: %.0f%%\n", ans.Confidence)

	if len(ans.DataSources) > 0 {
		names := make([]string, 0, len(ans.DataSources))
		for _, n := range ans.DataSources {
			names = append(names, string(n))
		}
		fmt.Printf("Data sources: %s\n", strings.Join(names, ", "))
	}

	fmt.Printf("Execution time: %.2fs (memory context: %d)\n",
		ans.Performance.ExecutionTime.Seconds(),
		ans.Performance.MemoryContextSize)

	if ans.Degraded {
		fmt.Printf("Degraded: %s\n", strings.Join(ans.DegradedReasons, ", "))
	}
}
