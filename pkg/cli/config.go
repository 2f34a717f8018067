package cli

import (
	"context"
	"time"

	"github.com/m-mizutani/augur/pkg/adapter"
	"github.com/m-mizutani/augur/pkg/memory"
	"github.com/m-mizutani/augur/pkg/performance"
	"github.com/m-mizutani/augur/pkg/repository"
	"github.com/m-mizutani/augur/pkg/tool"
	"github.com/m-mizutani/augur/pkg/tool/source"
	"github.com/m-mizutani/augur/pkg/usecase/agent"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// config holds configuration values shared across commands
type config struct {
	logLevel string

	// Completion backend
	backend        string
	geminiProject  string
	geminiLocation string
	anthropicKey   string

	// Selection
	selectorMode string

	// Data sources
	sourceConfig string
	dataDir      string

	// Memory
	maxContextSize int64
	window         int64
	threshold      float64
	embeddingTTL   time.Duration

	// Execution
	toolTimeout time.Duration
	toolTTL     time.Duration
	timeout     time.Duration

	// Archive
	project  string
	database string
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("AUGUR_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
		&cli.StringFlag{
			Name:        "source-config",
			Usage:       "Path to data source configuration YAML",
			Sources:     cli.EnvVars("AUGUR_SOURCE_CONFIG"),
			Destination: &cfg.sourceConfig,
		},
		&cli.StringFlag{
			Name:        "data-dir",
			Usage:       "Directory containing enterprise data exports",
			Sources:     cli.EnvVars("AUGUR_DATA_DIR"),
			Destination: &cfg.dataDir,
		},
		&cli.StringFlag{
			Name:        "project",
			Aliases:     []string{"p"},
			Usage:       "Google Cloud project ID for the Firestore archive (archive disabled if empty)",
			Sources:     cli.EnvVars("GOOGLE_CLOUD_PROJECT"),
			Destination: &cfg.project,
		},
		&cli.StringFlag{
			Name:        "database",
			Aliases:     []string{"d"},
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("FIRESTORE_DATABASE_ID"),
			Destination: &cfg.database,
		},
	}
}

// llmFlags returns flags for the completion and embedding backends
func llmFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "backend",
			Usage:       "Completion backend (gemini or claude)",
			Value:       "gemini",
			Sources:     cli.EnvVars("AUGUR_BACKEND"),
			Destination: &cfg.backend,
		},
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini",
			Sources:     cli.EnvVars("GEMINI_PROJECT_ID"),
			Destination: &cfg.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini",
			Value:       "us-central1",
			Sources:     cli.EnvVars("GEMINI_LOCATION"),
			Destination: &cfg.geminiLocation,
		},
		&cli.StringFlag{
			Name:        "anthropic-api-key",
			Usage:       "Anthropic API key",
			Sources:     cli.EnvVars("ANTHROPIC_API_KEY"),
			Destination: &cfg.anthropicKey,
		},
		&cli.StringFlag{
			Name:        "selector",
			Usage:       "Tool selection strategy (llm or keyword)",
			Value:       "llm",
			Sources:     cli.EnvVars("AUGUR_SELECTOR"),
			Destination: &cfg.selectorMode,
		},
	}
}

// memoryFlags returns flags tuning the semantic memory and tool execution
func memoryFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "max-context-size",
			Usage:       "Maximum number of interactions kept in memory",
			Value:       100,
			Sources:     cli.EnvVars("AUGUR_MAX_CONTEXT_SIZE"),
			Destination: &cfg.maxContextSize,
		},
		&cli.IntFlag{
			Name:        "context-window",
			Usage:       "Maximum number of past interactions supplied as context",
			Value:       3,
			Sources:     cli.EnvVars("AUGUR_CONTEXT_WINDOW"),
			Destination: &cfg.window,
		},
		&cli.FloatFlag{
			Name:        "similarity-threshold",
			Usage:       "Minimum cosine similarity for memory retrieval (0.0-1.0)",
			Value:       0.7,
			Sources:     cli.EnvVars("AUGUR_SIMILARITY_THRESHOLD"),
			Destination: &cfg.threshold,
		},
		&cli.DurationFlag{
			Name:        "embedding-ttl",
			Usage:       "How long computed embeddings are reused",
			Value:       time.Hour,
			Sources:     cli.EnvVars("AUGUR_EMBEDDING_TTL"),
			Destination: &cfg.embeddingTTL,
		},
		&cli.DurationFlag{
			Name:        "tool-cache-ttl",
			Usage:       "How long tool results are served from cache",
			Value:       5 * time.Minute,
			Sources:     cli.EnvVars("AUGUR_TOOL_CACHE_TTL"),
			Destination: &cfg.toolTTL,
		},
		&cli.DurationFlag{
			Name:        "tool-timeout",
			Usage:       "Per-tool execution timeout",
			Value:       3 * time.Second,
			Sources:     cli.EnvVars("AUGUR_TOOL_TIMEOUT"),
			Destination: &cfg.toolTimeout,
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Usage:       "Overall orchestration timeout per query",
			Value:       30 * time.Second,
			Sources:     cli.EnvVars("AUGUR_TIMEOUT"),
			Destination: &cfg.timeout,
		},
	}
}

// newSourceConfig loads the data source configuration
func (cfg *config) newSourceConfig() (*source.Config, error) {
	sc := source.DefaultConfig()
	if cfg.sourceConfig != "" {
		loaded, err := source.LoadConfig(cfg.sourceConfig)
		if err != nil {
			return nil, err
		}
		sc = loaded
	}
	if cfg.dataDir != "" {
		sc.DataDir = cfg.dataDir
	}
	return sc, nil
}

// applySources overlays the loaded source configuration onto tools built
// before flag parsing
func (cfg *config) applySources(tools []tool.Tool) error {
	sc, err := cfg.newSourceConfig()
	if err != nil {
		return err
	}
	sc.Apply(tools)
	return nil
}

// newLLM creates the completion and embedding backends. Claude has no
// embedding endpoint, so Gemini always serves as the embedder.
func (cfg *config) newLLM(ctx context.Context) (adapter.Completion, adapter.Embedder, error) {
	if cfg.geminiProject == "" {
		return nil, nil, goerr.New("gemini-project is required")
	}

	gemini, err := adapter.NewGemini(ctx, cfg.geminiProject, cfg.geminiLocation)
	if err != nil {
		return nil, nil, err
	}

	switch cfg.backend {
	case "gemini":
		return gemini, gemini, nil
	case "claude":
		if cfg.anthropicKey == "" {
			return nil, nil, goerr.New("anthropic-api-key is required for the claude backend")
		}
		return adapter.NewClaude(cfg.anthropicKey), gemini, nil
	default:
		return nil, nil, goerr.New("unknown completion backend", goerr.V("backend", cfg.backend))
	}
}

// newRepository creates the interaction archive. Without a project ID the
// archive stays in-process.
func (cfg *config) newRepository(ctx context.Context) (repository.Repository, error) {
	if cfg.project == "" {
		return repository.NewMemory(), nil
	}
	return repository.NewFirestore(ctx, cfg.project, cfg.database)
}

// newAgent assembles the orchestrator with all collaborators
func (cfg *config) newAgent(ctx context.Context, registry *tool.Registry) (*agent.Agent, error) {
	llm, embedder, err := cfg.newLLM(ctx)
	if err != nil {
		return nil, err
	}

	repo, err := cfg.newRepository(ctx)
	if err != nil {
		return nil, err
	}

	tracker := performance.NewTracker()

	var classifier tool.Classifier
	switch cfg.selectorMode {
	case "llm":
		classifier = tool.NewLLMClassifier(llm, registry)
	case "keyword":
		classifier = tool.NewKeywordClassifier(registry)
	default:
		return nil, goerr.New("unknown selector mode", goerr.V("selector", cfg.selectorMode))
	}

	mem := memory.New(embedder,
		memory.WithMaxContextSize(int(cfg.maxContextSize)),
		memory.WithWindow(int(cfg.window)),
		memory.WithThreshold(cfg.threshold),
		memory.WithEmbeddingTTL(cfg.embeddingTTL),
	)

	runner := tool.NewRunner(registry,
		tool.WithToolTimeout(cfg.toolTimeout),
		tool.WithCacheTTL(cfg.toolTTL),
	)

	return agent.New(agent.Input{
		LLM:      llm,
		Selector: tool.NewSelector(registry, classifier, tracker),
		Runner:   runner,
		Memory:   mem,
		Tracker:  tracker,
		Repo:     repo,
		Timeout:  cfg.timeout,
	}), nil
}
