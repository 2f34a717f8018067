package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/augur/pkg/model"
	"github.com/m-mizutani/augur/pkg/repository"
	"github.com/m-mizutani/gt"
)

func TestMemoryRepoPutGet(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()

	x := &model.Interaction{
		ID:        model.NewInteractionID(),
		Query:     "why is churn up",
		Response:  "enterprise renewals slipped",
		ToolsUsed: []model.ToolName{"customer_data"},
		CreatedAt: time.Now(),
	}
	gt.NoError(t, repo.PutInteraction(ctx, x))

	got, err := repo.GetInteraction(ctx, x.ID)
	gt.NoError(t, err)
	gt.Equal(t, got.Query, x.Query)

	_, err = repo.GetInteraction(ctx, model.InteractionID("missing"))
	gt.Error(t, err)
}

func TestMemoryRepoList(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()

	for i := 0; i < 5; i++ {
		gt.NoError(t, repo.PutInteraction(ctx, &model.Interaction{
			ID:        model.NewInteractionID(),
			Query:     "q",
			CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
		}))
	}

	newest := &model.Interaction{ID: model.NewInteractionID(), Query: "latest", CreatedAt: time.Now().Add(time.Minute)}
	gt.NoError(t, repo.PutInteraction(ctx, newest))

	out, err := repo.ListInteractions(ctx, 0, 3)
	gt.NoError(t, err)
	gt.A(t, out).Length(3)
	gt.Equal(t, out[0].ID, newest.ID)

	rest, err := repo.ListInteractions(ctx, 3, 10)
	gt.NoError(t, err)
	gt.A(t, rest).Length(3)
}
