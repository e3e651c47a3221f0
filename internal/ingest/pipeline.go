package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"medichat/internal/chunker"
	"medichat/internal/config"
	"medichat/internal/domain"
	"medichat/internal/embedding/openai"
	"medichat/internal/loader"
	"medichat/internal/vectorstore"
	"medichat/internal/vectorstore/pinecone"
)

// Pipeline is the batch index builder: it loads PDFs, strips metadata,
// chunks, embeds, and upserts everything into the Pinecone index. Any
// failure aborts the run; partial uploads are not rolled back.
type Pipeline struct {
	cfg    *config.AppConfig
	logger *logrus.Logger
}

func New(cfg *config.AppConfig, logger *logrus.Logger) *Pipeline {
	if logger == nil {
		logger = logrus.New()
	}
	return &Pipeline{cfg: cfg, logger: logger}
}

// Run executes the full ingestion pipeline once.
func (p *Pipeline) Run(ctx context.Context) error {
	apiKey := os.Getenv(p.cfg.Pinecone.APIKeyEnv)
	if apiKey == "" {
		return fmt.Errorf("%s is not set", p.cfg.Pinecone.APIKeyEnv)
	}

	docs, err := loader.LoadPDFDirectory(p.cfg.Ingest.DataDir)
	if err != nil {
		return fmt.Errorf("failed to load documents: %w", err)
	}
	p.logger.WithField("documents", len(docs)).Info("Loaded PDF pages")
	if len(docs) == 0 {
		return fmt.Errorf("no PDF documents found in %s", p.cfg.Ingest.DataDir)
	}

	minimal := domain.FilterToMinimal(docs)
	splitter := chunker.NewRecursiveSplitter(p.cfg.Chunker.ChunkSize, p.cfg.Chunker.ChunkOverlap)
	chunks := splitter.SplitDocuments(minimal)
	p.logger.WithField("chunks", len(chunks)).Info("Split documents into chunks")

	embedder, err := openai.NewClient(openai.Config{
		BaseURL:   p.cfg.Embedder.BaseURL,
		APIKeyEnv: p.cfg.Embedder.APIKeyEnv,
		Model:     p.cfg.Embedder.Model,
		Dimension: p.cfg.Embedder.Dimension,
		BatchSize: p.cfg.Embedder.BatchSize,
		Timeout:   time.Duration(p.cfg.Embedder.TimeoutSecs) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to load embeddings: %w", err)
	}

	store, err := pinecone.NewClient(&pinecone.Config{
		APIKey:          apiKey,
		IndexName:       p.cfg.Pinecone.IndexName,
		Dimension:       p.cfg.Embedder.Dimension,
		Metric:          p.cfg.Pinecone.Metric,
		Cloud:           p.cfg.Pinecone.Cloud,
		Region:          p.cfg.Pinecone.Region,
		ControlPlaneURL: p.cfg.Pinecone.ControlPlaneURL,
		Timeout:         time.Duration(p.cfg.Pinecone.TimeoutSecs) * time.Second,
	}, p.logger)
	if err != nil {
		return err
	}
	if err := store.EnsureIndex(ctx); err != nil {
		return err
	}
	if err := store.Connect(ctx); err != nil {
		return err
	}

	entries, err := p.embedChunks(ctx, embedder, chunks)
	if err != nil {
		return err
	}
	if err := store.Upsert(ctx, entries); err != nil {
		return err
	}
	p.logger.WithField("vectors", len(entries)).Info("Uploaded chunk embeddings")
	return nil
}

func (p *Pipeline) embedChunks(ctx context.Context, embedder *openai.Client, chunks []domain.Document) ([]vectorstore.Entry, error) {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	vectors, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}

	entries := make([]vectorstore.Entry, len(chunks))
	ordinals := make(map[string]int, len(chunks))
	for i, c := range chunks {
		source := c.Source()
		ordinal := ordinals[source]
		ordinals[source] = ordinal + 1
		entries[i] = vectorstore.Entry{
			ID:     EntryID(source, ordinal),
			Values: vectors[i],
			Metadata: map[string]string{
				domain.MetaSource: source,
				"text":            c.Content,
			},
		}
	}
	return entries, nil
}

// EntryID derives a stable vector identifier from the source path and the
// chunk's ordinal within that source, so re-ingesting the same corpus
// overwrites entries instead of duplicating them.
func EntryID(source string, ordinal int) string {
	sum := sha256.Sum256([]byte(source + "#" + strconv.Itoa(ordinal)))
	return hex.EncodeToString(sum[:16])
}
