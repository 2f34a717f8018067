package source

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
)

func TestCustomerDataFetch(t *testing.T) {
	ctx := context.Background()

	crm := NewCustomerData("testdata")
	out, err := crm.Fetch(ctx)
	gt.NoError(t, err)
	gt.Equal(t, out["tool"], "customer_data")

	records := gt.Cast[[]map[string]any](t, out["data"])
	gt.A(t, records).Length(2)
	gt.Equal(t, records[0]["name"], "Acme")
}

func TestCustomerDataFilter(t *testing.T) {
	ctx := context.Background()

	crm := NewCustomerData("testdata")
	crm.filter = "globex"

	out, err := crm.Fetch(ctx)
	gt.NoError(t, err)

	records := gt.Cast[[]map[string]any](t, out["data"])
	gt.A(t, records).Length(1)
	gt.Equal(t, records[0]["customer_id"], "C-2")
}

func TestSupportTicketsFetch(t *testing.T) {
	ctx := context.Background()

	support := NewSupportTickets("testdata")
	out, err := support.Fetch(ctx)
	gt.NoError(t, err)

	records := gt.Cast[[]map[string]string](t, out["data"])
	gt.A(t, records).Length(3)
	gt.Equal(t, records[0]["ticket_id"], "T-1")
	gt.Equal(t, records[0]["severity"], "critical")
}

func TestSupportTicketsSeverityFilter(t *testing.T) {
	ctx := context.Background()

	support := NewSupportTickets("testdata")
	support.severity = "critical"

	out, err := support.Fetch(ctx)
	gt.NoError(t, err)

	records := gt.Cast[[]map[string]string](t, out["data"])
	gt.A(t, records).Length(2)
}

func TestFinancialMetricsFetch(t *testing.T) {
	ctx := context.Background()

	erp := NewFinancialMetrics("testdata")
	out, err := erp.Fetch(ctx)
	gt.NoError(t, err)

	records := gt.Cast[[]map[string]any](t, out["data"])
	gt.A(t, records).Length(2)
}

func TestFinancialMetricsPeriodFilter(t *testing.T) {
	ctx := context.Background()

	erp := NewFinancialMetrics("testdata")
	erp.period = "2026-q2"

	out, err := erp.Fetch(ctx)
	gt.NoError(t, err)

	records := gt.Cast[[]map[string]any](t, out["data"])
	gt.A(t, records).Length(1)
	gt.Equal(t, records[0]["period"], "2026-Q2")
}

func TestFetchMissingFile(t *testing.T) {
	ctx := context.Background()

	crm := NewCustomerData("no_such_dir")
	_, err := crm.Fetch(ctx)
	gt.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig("testdata/config.yml")
	gt.NoError(t, err)
	gt.Equal(t, cfg.DataDir, "testdata")
	gt.Equal(t, cfg.Sources["customer_data"].File, "crm.json")

	tools := cfg.Build()
	gt.A(t, tools).Length(3)

	crm := gt.Cast[*CustomerData](t, tools[0])
	gt.Equal(t, crm.file, "testdata/crm.json")

	// Config keywords extend the built-in set
	found := false
	for _, kw := range crm.Keywords() {
		if kw == "upsell" {
			found = true
		}
	}
	gt.True(t, found)
}

func TestConfigApply(t *testing.T) {
	tools := DefaultConfig().Build()

	override := DefaultConfig()
	override.DataDir = "testdata"
	override.Apply(tools)

	crm := gt.Cast[*CustomerData](t, tools[0])
	gt.Equal(t, crm.file, "testdata/crm.json")

	ctx := context.Background()
	out, err := crm.Fetch(ctx)
	gt.NoError(t, err)
	gt.Equal(t, out["tool"], "customer_data")
}

func TestLoadConfigMissing(t *testing.T) {
	_, err := LoadConfig("testdata/no_such_config.yml")
	gt.Error(t, err)
}
