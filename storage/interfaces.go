package storage

import (
	"context"
	"time"

	"github.com/veridian-systems/recollect/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// MessageRepository provides operations for managing archived chat messages.
type MessageRepository interface {
	Repository

	// AddMessages adds one or more chat messages to storage.
	// Existing (chatID, messageID) pairs are overwritten (edits).
	// Messages with non-empty text are also enrolled in the pending-embedding
	// indices for the message and question embedding kinds.
	AddMessages(ctx context.Context, msgs ...*core.ChatMessage) error

	// GetMessage retrieves a single message.
	// Returns ErrNotFound if the message doesn't exist.
	GetMessage(ctx context.Context, chatID, messageID int64) (*core.ChatMessage, error)

	// GetMessagesAround returns up to `before` non-empty-text messages preceding
	// the target, the target itself, and up to `after` following it, all within
	// the same chat, ordered by DateUTC ascending.
	// Returns ErrNotFound if the target message doesn't exist.
	GetMessagesAround(ctx context.Context, chatID, messageID int64, before, after int) ([]*core.ChatMessage, error)

	// GetMessagesByDateRange retrieves a chat's messages with start <= DateUTC < end,
	// ordered by DateUTC ascending.
	GetMessagesByDateRange(ctx context.Context, chatID int64, start, end time.Time) ([]*core.ChatMessage, error)

	// DistinctChatIDs enumerates every chat that has at least one stored message.
	DistinctChatIDs(ctx context.Context) ([]int64, error)

	// CountMessages returns the number of stored messages with non-empty text.
	CountMessages(ctx context.Context) (int, error)

	// LatestMessageTime returns the DateUTC of the chat's most recent message,
	// or the zero time if the chat has no messages.
	LatestMessageTime(ctx context.Context, chatID int64) (time.Time, error)

	// GetPendingEmbedding returns up to limit messages that still lack an
	// embedding of the given kind, oldest first.
	GetPendingEmbedding(ctx context.Context, kind core.EmbeddingKind, limit int) ([]*core.ChatMessage, error)

	// CountPendingEmbedding counts messages still lacking an embedding of the
	// given kind.
	CountPendingEmbedding(ctx context.Context, kind core.EmbeddingKind) (int, error)

	// MarkEmbedded clears the pending-embedding index entry for a message
	// without storing a vector. Used when a message produces no embeddings
	// of the given kind (for example, no sensible question to generate).
	MarkEmbedded(ctx context.Context, kind core.EmbeddingKind, chatID, messageID int64) error

	// SearchText returns messages of the chat whose text contains every keyword
	// (case-folded substring match), most recent first, up to limit results.
	// chatID == 0 searches all chats.
	SearchText(ctx context.Context, chatID int64, keywords []string, limit int) ([]*core.SearchResult, error)
}

// EmbeddingRepository provides operations for stored vectors.
type EmbeddingRepository interface {
	Repository

	// UpsertEmbeddings stores embedding records, overwriting by Key.
	// Storing an embedding clears the pending-embedding index entry for its
	// (kind, chat, message) coordinates.
	UpsertEmbeddings(ctx context.Context, embs ...*core.Embedding) error

	// FindSimilar returns embedding records with cosine similarity to the query
	// vector of at least minSimilarity, highest first, up to limit results.
	// chatID == 0 searches all chats. Stored vectors are assumed normalized.
	FindSimilar(ctx context.Context, chatID int64, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error)

	// CountByKind counts stored embeddings of the given kind.
	CountByKind(ctx context.Context, kind core.EmbeddingKind) (int, error)
}

// CheckpointRepository persists per-chat sweep positions for the
// window-embedding indexer so restarts resume instead of rebuilding.
type CheckpointRepository interface {
	// WindowCheckpoint returns the DateUTC of the newest message covered by the
	// chat's window embeddings, or the zero time if the chat was never swept.
	WindowCheckpoint(ctx context.Context, chatID int64) (time.Time, error)

	// SaveWindowCheckpoint records the newest message time covered for a chat.
	SaveWindowCheckpoint(ctx context.Context, chatID int64, covered time.Time) error
}
