package embedding

import "context"

// Embedder converts text into fixed-dimension numeric vectors.
// Implementations must be deterministic: same model and input, same vector.
type Embedder interface {
	Dimension() int
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
