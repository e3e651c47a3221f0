package chain

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"medichat/internal/config"
	"medichat/internal/embedding/openai"
	"medichat/internal/llm/groq"
	"medichat/internal/vectorstore/pinecone"
)

// NewBuilder returns the production chain builder: embeddings client,
// Pinecone retriever over the existing index, and the Groq chat model.
// Each step fails fast with a descriptive configuration error; there is no
// fallback chat model.
func NewBuilder(cfg *config.AppConfig, logger *logrus.Logger) Builder {
	return func(ctx context.Context) (*Chain, error) {
		apiKey := os.Getenv(cfg.Pinecone.APIKeyEnv)
		if apiKey == "" {
			return nil, fmt.Errorf("%s is not set", cfg.Pinecone.APIKeyEnv)
		}

		embedder, err := openai.NewClient(openai.Config{
			BaseURL:   cfg.Embedder.BaseURL,
			APIKeyEnv: cfg.Embedder.APIKeyEnv,
			Model:     cfg.Embedder.Model,
			Dimension: cfg.Embedder.Dimension,
			BatchSize: cfg.Embedder.BatchSize,
			Timeout:   time.Duration(cfg.Embedder.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load embeddings: %w", err)
		}

		store, err := pinecone.NewClient(&pinecone.Config{
			APIKey:          apiKey,
			IndexName:       cfg.Pinecone.IndexName,
			Dimension:       cfg.Embedder.Dimension,
			Metric:          cfg.Pinecone.Metric,
			Cloud:           cfg.Pinecone.Cloud,
			Region:          cfg.Pinecone.Region,
			ControlPlaneURL: cfg.Pinecone.ControlPlaneURL,
			Timeout:         time.Duration(cfg.Pinecone.TimeoutSecs) * time.Second,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Pinecone index %q: %w", cfg.Pinecone.IndexName, err)
		}
		if err := store.Connect(ctx); err != nil {
			return nil, fmt.Errorf("failed to connect to Pinecone index %q: %w", cfg.Pinecone.IndexName, err)
		}

		if capability := groq.Check(cfg.Groq.APIKeyEnv); !capability.Available {
			return nil, fmt.Errorf("Groq chat model is not available: %s", capability.Reason)
		}
		chat, err := groq.NewClient(groq.Config{
			BaseURL:     cfg.Groq.BaseURL,
			APIKeyEnv:   cfg.Groq.APIKeyEnv,
			Model:       cfg.Groq.Model,
			Temperature: cfg.Groq.Temperature,
			Timeout:     time.Duration(cfg.Groq.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Groq chat model: %w", err)
		}

		return New(Config{
			Embedder: embedder,
			Store:    store,
			Chat:     chat,
			TopK:     cfg.Retrieval.TopK,
		})
	}
}
