package source

import (
	"os"
	"path/filepath"

	"github.com/m-mizutani/augur/pkg/tool"
	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

// Config describes where the enterprise data exports live. It is loaded from
// an optional YAML file; without one the defaults below apply.
type Config struct {
	DataDir string `yaml:"data_dir"`

	// Sources overrides per-tool settings, keyed by tool name
	Sources map[string]SourceConfig `yaml:"sources"`
}

// SourceConfig customizes a single retrieval tool
type SourceConfig struct {
	// File replaces the default data file name, resolved against DataDir
	File string `yaml:"file"`

	// Keywords extends the tool's keyword set used by the deterministic
	// classifier
	Keywords []string `yaml:"keywords"`
}

// DefaultConfig returns the configuration used when no file is given
func DefaultConfig() *Config {
	return &Config{DataDir: "sample_data"}
}

// LoadConfig reads a source configuration YAML file
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read source config", goerr.V("path", path))
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse source config", goerr.V("path", path))
	}

	if cfg.DataDir == "" {
		cfg.DataDir = DefaultConfig().DataDir
	}

	return cfg, nil
}

// Build constructs the retrieval tools described by the config
func (cfg *Config) Build() []tool.Tool {
	crm := NewCustomerData(cfg.DataDir)
	support := NewSupportTickets(cfg.DataDir)
	erp := NewFinancialMetrics(cfg.DataDir)

	for name, sc := range cfg.Sources {
		switch name {
		case string(crm.Name()):
			crm.apply(cfg.DataDir, sc)
		case string(support.Name()):
			support.apply(cfg.DataDir, sc)
		case string(erp.Name()):
			erp.apply(cfg.DataDir, sc)
		}
	}

	return []tool.Tool{crm, support, erp}
}

// Apply overlays this configuration onto already constructed tools. CLI flag
// destinations point into tool instances, so the tools exist before flag
// parsing; the file locations are only final afterwards.
func (cfg *Config) Apply(tools []tool.Tool) {
	for _, t := range tools {
		sc := cfg.Sources[string(t.Name())]
		switch x := t.(type) {
		case *CustomerData:
			x.apply(cfg.DataDir, sc)
		case *SupportTickets:
			x.apply(cfg.DataDir, sc)
		case *FinancialMetrics:
			x.apply(cfg.DataDir, sc)
		}
	}
}

func (x *CustomerData) apply(dir string, sc SourceConfig) {
	name := filepath.Base(x.file)
	if sc.File != "" {
		name = sc.File
	}
	x.file = filepath.Join(dir, name)
	x.keywords = append(x.keywords, sc.Keywords...)
}

func (x *SupportTickets) apply(dir string, sc SourceConfig) {
	name := filepath.Base(x.file)
	if sc.File != "" {
		name = sc.File
	}
	x.file = filepath.Join(dir, name)
	x.keywords = append(x.keywords, sc.Keywords...)
}

func (x *FinancialMetrics) apply(dir string, sc SourceConfig) {
	name := filepath.Base(x.file)
	if sc.File != "" {
		name = sc.File
	}
	x.file = filepath.Join(dir, name)
	x.keywords = append(x.keywords, sc.Keywords...)
}
