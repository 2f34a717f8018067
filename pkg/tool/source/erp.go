package source

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/augur/pkg/model"
	"github.com/urfave/cli/v3"
)

// FinancialMetrics retrieves revenue and payment data from the ERP export
type FinancialMetrics struct {
	file     string
	keywords []string
	period   string
}

// NewFinancialMetrics creates the ERP retrieval tool reading dir/erp.json
func NewFinancialMetrics(dir string) *FinancialMetrics {
	return &FinancialMetrics{
		file:     filepath.Join(dir, "erp.json"),
		keywords: []string{"revenue", "financial", "payment", "billing", "cost", "profit", "invoice"},
	}
}

func (x *FinancialMetrics) Name() model.ToolName {
	return "financial_metrics"
}

func (x *FinancialMetrics) Description() string {
	return "Revenue, payments, financial performance"
}

func (x *FinancialMetrics) Keywords() []string {
	return x.keywords
}

func (x *FinancialMetrics) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "erp-period",
			Usage:       "Only include ERP records for this period (e.g. 2025-Q4)",
			Sources:     cli.EnvVars("AUGUR_ERP_PERIOD"),
			Destination: &x.period,
		},
	}
}

func (x *FinancialMetrics) Fetch(ctx context.Context) (map[string]any, error) {
	records, err := loadJSON(x.file)
	if err != nil {
		return nil, err
	}

	if x.period != "" {
		var filtered []map[string]any
		for _, r := range records {
			if period, ok := r["period"].(string); ok && strings.EqualFold(period, x.period) {
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
