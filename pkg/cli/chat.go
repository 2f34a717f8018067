package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/chzyer/readline"
	"github.com/m-mizutani/augur/pkg/model"
	"github.com/m-mizutani/augur/pkg/performance"
	"github.com/m-mizutani/augur/pkg/tool"
	"github.com/m-mizutani/augur/pkg/tool/source"
	"github.com/m-mizutani/augur/pkg/usecase/agent"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func chatCommand(cfg *config) *cli.Command {
	tools := source.DefaultConfig().Build()
	registry := tool.New(tools...)

	flags := append(llmFlags(cfg), memoryFlags(cfg)...)
	flags = append(flags, registry.Flags()...)

	return &cli.Command{
		Name:  "chat",
		Usage: "Interactive question and answer session",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cfg.applySources(tools); err != nil {
				return err
			}

			ag, err := cfg.newAgent(ctx, registry)
			if err != nil {
				return err
			}
			defer ag.Wait()

			return runChat(ctx, ag, registry)
		},
	}
}

// runChat drives the REPL. The agent persists across queries, so memory,
// cache and performance statistics accumulate over the session.
func runChat(ctx context.Context, ag *agent.Agent, registry *tool.Registry) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "augur> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return goerr.Wrap(err, "failed to initialize readline")
	}
	defer rl.Close()

	fmt.Println("Enterprise decision agent. Ask a business question, or type 'stats', 'tools', 'exit'.")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to read input")
		}

		query := strings.TrimSpace(line)
		switch strings.ToLower(query) {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "stats":
			printSummary(ag.Summary(), ag.MemorySize())
			continue
		case "tools":
			printTools(registry)
			continue
		}

		ans, err := ask(ctx, ag, query)
		if err != nil {
			fmt.Printf("error: %s\n", err)
			continue
		}

		printAnswer(ans)
	}

	return nil
}

func printSummary(s *performance.Summary, memorySize int) {
	fmt.Printf("Queries: %d  Success rate: %.0f%%  Grade: %s\n",
		s.TotalQueries, s.SuccessRate*100, s.Grade())
	fmt.Printf("Latency: avg %.2fs, stddev %.2fs  Confidence: avg %.0f%%\n",
		s.AvgLatency.Seconds(), s.LatencyStdDev.Seconds(), s.AvgConfidence)
	fmt.Printf("Memory: %d interactions\n", memorySize)

	if len(s.Tools) > 0 {
		names := make([]string, 0, len(s.Tools))
		for name := range s.Tools {
			names = append(names, string(name))
		}
		sort.Strings(names)

		fmt.Println("Tools:")
		for _, name := range names {
			ts := s.Tools[model.ToolName(name)]
			fmt.Printf("  %-20s uses=%d errors=%.0f%% latency=%.2fs efficiency=%.0f\n",
				name, ts.Uses, ts.ErrorRate*100, ts.AvgLatency.Seconds(), ts.EfficiencyScore())
		}
	}

	for _, rec := range s.Recommendations() {
		if rec.Priority != "" {
			fmt.Printf("[%s/%s] %s: %s\n", rec.Type, rec.Priority, rec.Issue, rec.Action)
		} else {
			fmt.Printf("[%s] %s\n", rec.Type, rec.Action)
		}
	}
}

func printTools(registry *tool.Registry) {
	for _, t := range registry.Tools() {
		fmt.Printf("%-20s %s\n", t.Name(), t.Description())
	}
}
