package repository

import (
	"context"
	"sync"

	"github.com/m-mizutani/augur/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

var errInteractionNotFound = goerr.New("interaction not found")

// memoryRepo is the in-process archive used when no Firestore project is
// configured
type memoryRepo struct {
	mu           sync.RWMutex
	interactions []*model.Interaction
}

// NewMemory creates an in-process interaction archive
func NewMemory() Repository {
	return &memoryRepo{}
}

func (r *memoryRepo) PutInteraction(ctx context.Context, x *model.Interaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.interactions = append(r.interactions, x)
	return nil
}

func (r *memoryRepo) GetInteraction(ctx context.Context, id model.InteractionID) (*model.Interaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, x := range r.interactions {
		if x.ID == id {
			return x, nil
		}
	}

	return nil, goerr.Wrap(errInteractionNotFound, "no such interaction", goerr.V("id", id))
}

func (r *memoryRepo) ListInteractions(ctx context.Context, offset, limit int) ([]*model.Interaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Newest first
	n := len(r.interactions)
	var out []*model.Interaction
	for i := n - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.interactions[i])
	}

	return out, nil
}
