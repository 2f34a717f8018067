package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/augur/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

const interactionCollection = "interactions"

// firestoreRepo implements Repository using Firestore
type firestoreRepo struct {
	client *firestore.Client
}

// NewFirestore creates a Firestore-backed interaction archive
func NewFirestore(ctx context.Context, projectID, databaseID string) (Repository, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project", projectID), goerr.V("database", databaseID))
	}

	return &firestoreRepo{client: client}, nil
}

func (r *firestoreRepo) PutInteraction(ctx context.Context, x *model.Interaction) error {
	_, err := r.client.Collection(interactionCollection).Doc(string(x.ID)).Set(ctx, x)
	if err != nil {
		return goerr.Wrap(err, "failed to save interaction", goerr.V("id", x.ID))
	}
	return nil
}

func (r *firestoreRepo) GetInteraction(ctx context.Context, id model.InteractionID) (*model.Interaction, error) {
	doc, err := r.client.Collection(interactionCollection).Doc(string(id)).Get(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get interaction", goerr.V("id", id))
	}

	var x model.Interaction
	if err := doc.DataTo(&x); err != nil {
		return nil, goerr.Wrap(err, "failed to decode interaction", goerr.V("id", id))
	}

	return &x, nil
}

func (r *firestoreRepo) ListInteractions(ctx context.Context, offset, limit int) ([]*model.Interaction, error) {
	iter := r.client.Collection(interactionCollection).
		OrderBy("CreatedAt", firestore.Desc).
		Offset(offset).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var out []*model.Interaction
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list interactions")
		}

		var x model.Interaction
		if err := doc.DataTo(&x); err != nil {
			return nil, goerr.Wrap(err, "failed to decode interaction", goerr.V("doc", doc.Ref.ID))
		}
		out = append(out, &x)
	}

	return out, nil
}
