package repository

import (
	"context"

	"github.com/m-mizutani/augur/pkg/model"
)

// Repository archives completed interactions outside the in-process memory
// store. Archival is best-effort: the response path never waits on it.
type Repository interface {
	// PutInteraction saves an interaction to the archive
	PutInteraction(ctx context.Context, x *model.Interaction) error

	// GetInteraction retrieves an interaction by ID
	GetInteraction(ctx context.Context, id model.InteractionID) (*model.Interaction, error)

	// ListInteractions retrieves archived interactions, newest first
	ListInteractions(ctx context.Context, offset, limit int) ([]*model.Interaction, error)
}
