package tool

import (
	"strings"

	"github.com/m-mizutani/augur/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

var errToolNotFound = goerr.New("tool not found")

// Registry manages the set of available data-retrieval tools
type Registry struct {
	tools map[model.ToolName]Tool
	order []Tool
}

// New creates a new tool registry with the given tools. Registration order is
// preserved for catalogs and selection output.
func New(tools ...Tool) *Registry {
	r := &Registry{
		tools: make(map[model.ToolName]Tool),
		order: tools,
	}

	for _, t := range tools {
		r.tools[t.Name()] = t
	}

	return r
}

// Get returns the tool registered under name
func (r *Registry) Get(name model.ToolName) (Tool, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, goerr.Wrap(errToolNotFound, "unknown tool", goerr.V("name", name))
	}
	return t, nil
}

// Names returns all registered tool identifiers in registration order
func (r *Registry) Names() []model.ToolName {
	names := make([]model.ToolName, 0, len(r.order))
	for _, t := range r.order {
		names = append(names, t.Name())
	}
	return names
}

// Tools returns all registered tools in registration order
func (r *Registry) Tools() []Tool {
	return r.order
}

// Catalog returns a "name: description" listing for classification prompts
func (r *Registry) Catalog() string {
	var lines []string
	for _, t := range r.order {
		lines = append(lines, "- "+string(t.Name())+": "+t.Description())
	}
	return strings.Join(lines, "\n")
}

// Flags returns all tool flags combined
func (r *Registry) Flags() []cli.Flag {
	var flags []cli.Flag
	for _, t := range r.order {
		if toolFlags := t.Flags(); toolFlags != nil {
			flags = append(flags, toolFlags...)
		}
	}
	return flags
}
