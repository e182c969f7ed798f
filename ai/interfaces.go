package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// The corpus and live queries must be embedded by the same model.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Responder generates a natural-language answer from a fully built prompt.
// Callers treat it as best-effort: failures are retried and then replaced
// by a template answer.
// Implementations must be thread-safe for concurrent use.
type Responder interface {
	// Respond returns the model's reply to prompt.
	Respond(ctx context.Context, prompt string) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
type AIProvider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Responder returns the answer generation service, or nil when none is
	// configured.
	Responder() Responder

	// Close releases resources held by the provider and its services.
	Close() error
}
