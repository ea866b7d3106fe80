package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails; rate limiting by the
	// provider is reported as an error matching ErrRateLimited.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// QuestionGenerator produces synthetic questions whose answer is the given text.
// The questions are embedded and indexed as question-bridge vectors to improve
// recall for indirectly phrased queries.
// Implementations must be thread-safe for concurrent use.
type QuestionGenerator interface {
	// GenerateQuestions returns up to n short questions answerable by text.
	// Returns an empty slice when no sensible question can be formed.
	GenerateQuestions(ctx context.Context, text string, n int) ([]string, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages Embedder and QuestionGenerator
// instances, ensuring they share configuration and resources appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// QuestionGenerator returns the question generation service.
	// May return nil when the provider is configured without a generation model.
	QuestionGenerator() QuestionGenerator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
