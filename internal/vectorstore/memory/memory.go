package memory

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"

	"medichat/internal/domain"
	"medichat/internal/vectorstore"
)

// Store is an in-memory vector store using brute-force cosine similarity.
// It backs tests and local development; entries upserted twice with the
// same ID are overwritten, mirroring the remote index semantics.
type Store struct {
	mu        sync.RWMutex
	dimension int
	entries   map[string]vectorstore.Entry
	order     []string
}

func NewStore(dimension int) *Store {
	return &Store{
		dimension: dimension,
		entries:   make(map[string]vectorstore.Entry),
	}
}

func (s *Store) Upsert(_ context.Context, entries []vectorstore.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		if len(e.Values) != s.dimension {
			return errors.New("vector dimension mismatch")
		}
		if _, ok := s.entries[e.ID]; !ok {
			s.order = append(s.order, e.ID)
		}
		s.entries[e.ID] = e
	}
	return nil
}

func (s *Store) Query(_ context.Context, vector []float32, topK int) ([]domain.ScoredChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 {
		topK = 3
	}

	scored := make([]domain.ScoredChunk, 0, len(s.order))
	for _, id := range s.order {
		e := s.entries[id]
		meta := make(map[string]string, len(e.Metadata))
		var content string
		for k, v := range e.Metadata {
			if k == "text" {
				content = v
				continue
			}
			meta[k] = v
		}
		scored = append(scored, domain.ScoredChunk{
			Document: domain.Document{Content: content, Metadata: meta},
			ID:       id,
			Score:    cosine(e.Values, vector),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if topK > len(scored) {
		topK = len(scored)
	}
	return scored[:topK], nil
}

// Len reports the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func cosine(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
