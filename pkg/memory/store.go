package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/augur/pkg/adapter"
	"github.com/m-mizutani/augur/pkg/cache"
	"github.com/m-mizutani/augur/pkg/model"
	"github.com/m-mizutani/augur/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

const (
	defaultMaxContextSize = 100
	defaultWindow         = 3
	defaultThreshold      = 0.7
	defaultEmbeddingTTL   = time.Hour

	// recentCentroidSize bounds how many of the latest query embeddings form
	// the centroid used by the eviction score
	recentCentroidSize = 5
)

// Eviction weights. An interaction survives pruning when it is recent, close
// to what the store is currently being asked about, or rated high quality.
// Unrated interactions count as neutral quality.
const (
	evictRecencyWeight  = 0.5
	evictCentroidWeight = 0.3
	evictQualityWeight  = 0.2
	neutralQuality      = 0.5
)

// Store is the process-wide semantic memory of past interactions. Reads run
// concurrently; insert and prune take the exclusive lock.
type Store struct {
	embedder   adapter.Embedder
	embedCache *cache.Cache[[]float32]

	maxContextSize int
	window         int
	threshold      float64

	mu            sync.RWMutex
	interactions  []*model.Interaction
	recentQueries [][]float32
}

type Option func(*Store)

// WithMaxContextSize bounds how many interactions the store retains
func WithMaxContextSize(n int) Option {
	return func(s *Store) {
		s.maxContextSize = n
	}
}

// WithWindow sets how many interactions a search returns at most
func WithWindow(n int) Option {
	return func(s *Store) {
		s.window = n
	}
}

// WithThreshold sets the minimum cosine similarity for a search candidate
func WithThreshold(v float64) Option {
	return func(s *Store) {
		s.threshold = v
	}
}

// WithEmbeddingTTL sets how long computed embeddings are reused per exact text
func WithEmbeddingTTL(d time.Duration) Option {
	return func(s *Store) {
		s.embedCache = cache.New[[]float32](d)
	}
}

func New(embedder adapter.Embedder, opts ...Option) *Store {
	s := &Store{
		embedder:       embedder,
		embedCache:     cache.New[[]float32](defaultEmbeddingTTL),
		maxContextSize: defaultMaxContextSize,
		window:         defaultWindow,
		threshold:      defaultThreshold,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// embed computes or reuses the embedding for the exact text. The cache key
// carries the model version so vectors never leak across model changes.
func (s *Store) embed(ctx context.Context, text string) ([]float32, error) {
	key := s.embedder.Model() + "\x00" + text
	if vec, ok := s.embedCache.Get(key); ok {
		return vec, nil
	}

	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to compute embedding")
	}

	s.embedCache.Set(key, vec)
	return vec, nil
}

// Add appends the interaction and prunes when the size bound would be
// exceeded. Embedding failure is absorbed: the interaction is stored without
// a vector and repaired on a later search.
func (s *Store) Add(ctx context.Context, x *model.Interaction) {
	if len(x.Embedding) == 0 || x.EmbeddingModel != s.embedder.Model() {
		vec, err := s.embed(ctx, x.EmbeddedText())
		if err != nil {
			logging.From(ctx).Warn("failed to embed interaction, storing without vector",
				"id", x.ID, "error", err)
			x.Embedding = nil
			x.EmbeddingModel = ""
		} else {
			x.Embedding = vec
			x.EmbeddingModel = s.embedder.Model()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.interactions = append(s.interactions, x)
	if len(x.Embedding) > 0 {
		s.recentQueries = append(s.recentQueries, x.Embedding)
		if len(s.recentQueries) > recentCentroidSize {
			s.recentQueries = s.recentQueries[1:]
		}
	}

	for len(s.interactions) > s.maxContextSize {
		s.evict()
	}
}

// evict removes the stored interaction with the lowest combined score of
// recency, similarity to the recent-query centroid, and quality. The newest
// entry is never the victim. Caller holds the write lock.
func (s *Store) evict() {
	center := centroid(s.recentQueries)

	n := len(s.interactions)
	victim := 0
	lowest := 2.0 // above any reachable score

	for i, x := range s.interactions[:n-1] {
		recency := float64(i+1) / float64(n)

		sim := 0.0
		if center != nil && len(x.Embedding) > 0 {
			// Map cosine from [-1, 1] into [0, 1]
			sim = (Cosine(x.Embedding, center) + 1) / 2
		}

		quality := neutralQuality
		if x.Quality != nil {
			quality = *x.Quality
		}

		score := evictRecencyWeight*recency + evictCentroidWeight*sim + evictQualityWeight*quality
		if score < lowest {
			lowest = score
			victim = i
		}
	}

	s.interactions = append(s.interactions[:victim], s.interactions[victim+1:]...)
}

// Search returns the stored interactions most similar to the query, most
// relevant first, capped at the context window. Any embedding failure
// degrades to an empty result, never an error.
func (s *Store) Search(ctx context.Context, query string) []*model.Interaction {
	qvec, err := s.embed(ctx, query)
	if err != nil {
		logging.From(ctx).Warn("embedding unavailable, returning empty memory context", "error", err)
		return nil
	}

	s.refreshStale(ctx)

	type scored struct {
		x   *model.Interaction
		sim float64
	}

	s.mu.RLock()
	var candidates []scored
	for _, x := range s.interactions {
		if len(x.Embedding) == 0 || x.EmbeddingModel != s.embedder.Model() {
			continue
		}
		sim := Cosine(qvec, x.Embedding)
		if sim < s.threshold {
			continue
		}
		candidates = append(candidates, scored{x: x, sim: sim})
	}
	s.mu.RUnlock()

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].sim != candidates[j].sim {
			return candidates[i].sim > candidates[j].sim
		}
		return candidates[i].x.CreatedAt.After(candidates[j].x.CreatedAt)
	})

	if len(candidates) > s.window {
		candidates = candidates[:s.window]
	}

	results := make([]*model.Interaction, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, c.x)
	}

	return results
}

// refreshStale recomputes vectors that are missing or were produced by a
// previous embedding model. Stale vectors are never compared against current
// ones.
func (s *Store) refreshStale(ctx context.Context) {
	current := s.embedder.Model()

	s.mu.RLock()
	var stale []*model.Interaction
	for _, x := range s.interactions {
		if len(x.Embedding) == 0 || x.EmbeddingModel != current {
			stale = append(stale, x)
		}
	}
	s.mu.RUnlock()

	for _, x := range stale {
		vec, err := s.embed(ctx, x.EmbeddedText())
		if err != nil {
			logging.From(ctx).Warn("failed to refresh stale embedding", "id", x.ID, "error", err)
			return
		}

		s.mu.Lock()
		x.Embedding = vec
		x.EmbeddingModel = current
		s.mu.Unlock()
	}
}

// Latest returns up to n most recent interactions in chronological order
func (s *Store) Latest(n int) []*model.Interaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n > len(s.interactions) {
		n = len(s.interactions)
	}

	out := make([]*model.Interaction, n)
	copy(out, s.interactions[len(s.interactions)-n:])
	return out
}

// Size returns the number of stored interactions
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.interactions)
}
