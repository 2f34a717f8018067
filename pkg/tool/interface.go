package tool

import (
	"context"

	"github.com/m-mizutani/augur/pkg/model"
	"github.com/urfave/cli/v3"
)

// Tool represents a retrieval collaborator that fetches one category of
// enterprise data
type Tool interface {
	// Name returns the tool identifier used in selection results and answers
	Name() model.ToolName

	// Description explains what data the tool retrieves. It is shown to the
	// classification backend when selecting tools for a query.
	Description() string

	// Keywords returns terms that signal the tool is relevant to a query,
	// used by the deterministic classifier
	Keywords() []string

	// Fetch retrieves the structured record from the data source
	Fetch(ctx context.Context) (map[string]any, error)

	// Flags returns CLI flags for this tool
	// Returns nil if no flags are needed
	Flags() []cli.Flag
}
