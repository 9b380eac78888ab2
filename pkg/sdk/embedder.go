package petmatch

import "context"

// Embedder converts text (breed captions) to vector embeddings.
// Optional; without it breeds are compared exactly.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// ImageEmbedder converts an image reference (URL or data URI) to a vector in the
// same space as Embedder. Without it no image signal exists and, under the
// default hard gate, nothing matches.
type ImageEmbedder interface {
	EmbedImage(ctx context.Context, ref string) (EmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token counts.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}
