package chain

import (
	"context"
	"errors"
	"fmt"

	"medichat/internal/embedding"
	"medichat/internal/llm"
	"medichat/internal/vectorstore"
)

// Chain is the composed retrieval-augmented answering pipeline: it embeds a
// question, retrieves the most similar chunks, and conditions the chat model
// on them. Once constructed it is stateless across requests and safe for
// concurrent use.
type Chain struct {
	embedder embedding.Embedder
	store    vectorstore.Store
	chat     llm.ChatModel
	topK     int
}

// Config wires the chain's collaborators. TopK defaults to 3.
type Config struct {
	Embedder embedding.Embedder
	Store    vectorstore.Store
	Chat     llm.ChatModel
	TopK     int
}

func New(cfg Config) (*Chain, error) {
	if cfg.Embedder == nil {
		return nil, errors.New("chain requires an embedder")
	}
	if cfg.Store == nil {
		return nil, errors.New("chain requires a vector store")
	}
	if cfg.Chat == nil {
		return nil, errors.New("chain requires a chat model")
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 3
	}
	return &Chain{
		embedder: cfg.Embedder,
		store:    cfg.Store,
		chat:     cfg.Chat,
		topK:     cfg.TopK,
	}, nil
}

// Answer embeds the question, retrieves the topK most similar chunks, and
// returns the chat model's answer grounded on them. A failing remote call
// fails only this request; the chain stays usable.
func (c *Chain) Answer(ctx context.Context, question string) (string, error) {
	vector, err := c.embedder.Embed(ctx, question)
	if err != nil {
		return "", fmt.Errorf("failed to embed question: %w", err)
	}
	chunks, err := c.store.Query(ctx, vector, c.topK)
	if err != nil {
		return "", fmt.Errorf("retrieval failed: %w", err)
	}
	answer, err := c.chat.Generate(ctx, renderSystemPrompt(chunks), question)
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}
	return answer, nil
}
