package source

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/augur/pkg/model"
	"github.com/urfave/cli/v3"
)

// SupportTickets analyzes support ticket exports from the ticketing system
type SupportTickets struct {
	file     string
	keywords []string
	severity string
}

// NewSupportTickets creates the support retrieval tool reading dir/support.csv
func NewSupportTickets(dir string) *SupportTickets {
	return &SupportTickets{
		file:     filepath.Join(dir, "support.csv"),
		keywords: []string{"support", "ticket", "issue", "problem", "resolution", "complaint"},
	}
}

func (x *SupportTickets) Name() model.ToolName {
	return "support_analysis"
}

func (x *SupportTickets) Description() string {
	return "Support tickets, issues, resolution times"
}

func (x *SupportTickets) Keywords() []string {
	return x.keywords
}

func (x *SupportTickets) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "support-severity",
			Usage:       "Only include tickets with this severity",
			Sources:     cli.EnvVars("AUGUR_SUPPORT_SEVERITY"),
			Destination: &x.severity,
		},
	}
}

func (x *SupportTickets) Fetch(ctx context.Context) (map[string]any, error) {
	records, err := loadCSV(x.file)
	if err != nil {
		return nil, err
	}

	if x.severity != "" {
		var filtered []map[string]string
		for _, r := range records {
			if strings.EqualFold(r["severity"], x.severity) {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}

	return map[string]any{
		"tool": string(x.Name()),
		"data": records,
	}, nil
}
