package adapter

import "context"

// Completion is the language-completion collaborator. The core treats it as a
// black box that turns an assembled prompt into prose.
type Completion interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Embedder computes a fixed-length semantic vector for a text
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)

	// Model identifies the embedding model version. Vectors from different
	// versions must not be compared.
	Model() string
}
