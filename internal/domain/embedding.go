package domain

import "context"

// DefaultEmbeddingModel matches the model the transcript index was built with.
// A query embedded with another model is not comparable to stored chunks.
const DefaultEmbeddingModel = "text-embedding-3-small"

// Embedder turns a search query into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult is one query vector plus billed usage. Cache hits report zero tokens.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}
