package model

import (
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

type InteractionID string

// NewInteractionID generates a new unique InteractionID
func NewInteractionID() InteractionID {
	return InteractionID(uuid.New().String())
}

// Interaction represents one completed query/response cycle. It is immutable
// after creation except for attaching a late quality score.
type Interaction struct {
	ID       InteractionID
	Query    string
	Response string

	// Embedding is the semantic vector of Query and Response. It is computed
	// once by the memory store and must match EmbeddingModel; vectors produced
	// by another model are recomputed before use.
	Embedding      firestore.Vector32
	EmbeddingModel string

	ToolsUsed []ToolName
	CreatedAt time.Time

	// Quality is optional feedback in [0, 1]. Nil until feedback arrives.
	Quality *float64
}

// AttachQuality records late-arriving feedback for the interaction
func (x *Interaction) AttachQuality(score float64) error {
	if score < 0 || score > 1 {
		return goerr.New("quality score out of range", goerr.V("score", score))
	}
	x.Quality = &score
	return nil
}

// EmbeddedText returns the text the embedding vector is computed from
func (x *Interaction) EmbeddedText() string {
	return x.Query + "\n" + x.Response
}
