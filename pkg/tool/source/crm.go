package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/augur/pkg/model"
	"github.com/urfave/cli/v3"
)

// CustomerData retrieves customer records from the CRM export
type CustomerData struct {
	file     string
	keywords []string
	filter   string
}

// NewCustomerData creates the CRM retrieval tool reading dir/crm.json
func NewCustomerData(dir string) *CustomerData {
	return &CustomerData{
		file:     filepath.Join(dir, "crm.json"),
		keywords: []string{"customer", "churn", "retention", "client", "account", "satisfaction"},
	}
}

func (x *CustomerData) Name() model.ToolName {
	return "customer_data"
}

func (x *CustomerData) Description() string {
	return "Customer information, churn rates, satisfaction scores"
}

func (x *CustomerData) Keywords() []string {
	return x.keywords
}

func (x *CustomerData) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "crm-filter",
			Usage:       "Substring filter applied to CRM records",
			Sources:     cli.EnvVars("AUGUR_CRM_FILTER"),
			Destination: &x.filter,
		},
	}
}

func (x *CustomerData) Fetch(ctx context.Context) (map[string]any, error) {
	records, err := loadJSON(x.file)
	if err != nil {
		return nil, err
	}

	if x.filter != "" {
		var filtered []map[string]any
		for _, r := range records {
			if strings.Contains(strings.ToLower(fmt.Sprint(r)), strings.ToLower(x.filter)) {
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
