package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"candidate-rag/internal/config"
	"candidate-rag/internal/models"
)

// ErrEmbedding marks a chunking/embedding failure. Ingestion of the owning
// document is all-or-nothing, so callers abort the whole document on it.
var ErrEmbedding = errors.New("embedding failed")

// Embedder is the pluggable embedding provider. langchaingo's EmbedderImpl
// satisfies it; tests use fakes.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// NewEmbedder builds the configured provider's embedder.
func NewEmbedder(cfg *config.LLMConfig) (*embeddings.EmbedderImpl, error) {
	switch cfg.Provider {
	case "ollama":
		return newOllamaEmbedder(cfg)
	case "openai", "":
		return newOpenAIEmbedder(cfg)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}
}

func newOpenAIEmbedder(cfg *config.LLMConfig) (*embeddings.EmbedderImpl, error) {
	opts := []openai.Option{
		openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")),
		openai.WithModel(cfg.Model),
		openai.WithEmbeddingModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, err
	}
	return embeddings.NewEmbedder(llm)
}

func newOllamaEmbedder(cfg *config.LLMConfig) (*embeddings.EmbedderImpl, error) {
	opts := []ollama.Option{ollama.WithModel(cfg.Model)}
	if cfg.BaseURL != "" {
		opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
	}
	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, err
	}
	return embeddings.NewEmbedder(llm)
}

// EmbedChunks fills in the embedding of every chunk in place. The first
// provider failure aborts the batch so a document is never partially
// embedded.
func EmbedChunks(ctx context.Context, embedder Embedder, chunks []models.Chunk) error {
	for i := range chunks {
		vector, err := embedder.EmbedQuery(ctx, chunks[i].Content)
		if err != nil {
			return fmt.Errorf("%w: chunk %s: %v", ErrEmbedding, chunks[i].ID, err)
		}
		if len(vector) == 0 {
			return fmt.Errorf("%w: chunk %s: provider returned empty vector", ErrEmbedding, chunks[i].ID)
		}
		chunks[i].Embedding = vector
	}
	return nil
}
