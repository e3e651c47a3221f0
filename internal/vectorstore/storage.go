package vectorstore

import (
	"context"

	"medichat/internal/domain"
)

// Entry is one embedded chunk as stored in the index.
type Entry struct {
	ID       string
	Values   []float32
	Metadata map[string]string
}

// Store persists chunk embeddings and answers similarity queries.
// Query results are ordered most relevant first, as ranked by the store.
type Store interface {
	Upsert(ctx context.Context, entries []Entry) error
	Query(ctx context.Context, vector []float32, topK int) ([]domain.ScoredChunk, error)
}
