package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for stored embedding records.
// It is generated deterministically from the record's coordinates so that
// re-indexing the same content overwrites rather than duplicates.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Identical content always produces the same ID.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// EmbeddingKind identifies what a stored vector was computed from.
type EmbeddingKind int

const (
	// EmbeddingKindMessage is a vector over a single message's own text.
	EmbeddingKindMessage EmbeddingKind = iota + 1
	// EmbeddingKindWindow is a vector over a sliding window of consecutive messages.
	EmbeddingKindWindow
	// EmbeddingKindQuestion is a vector over a synthetically generated question
	// whose answer is the message (a question-bridge embedding).
	EmbeddingKindQuestion
)

// ChatMessage is a single message in a chat archive.
// ChatID and MessageID come from the chat platform and together identify the message.
type ChatMessage struct {
	ChatID        int64
	MessageID     int64
	FromUserID    int64
	Author        string
	Text          string
	DateUTC       time.Time
	IsForwarded   bool
	ForwardedFrom string
	IsNewsDump    bool
}

// Embedding is a stored vector plus the metadata needed to trace it back
// to the message (or window of messages) it was computed from.
//
// ChunkIndex < 0 marks a question-bridge embedding; the negative value is
// the 1-based ordinal of the generated question, negated.
type Embedding struct {
	Key        ID
	Kind       EmbeddingKind
	ChatID     int64
	MessageID  int64
	ChunkIndex int
	Text       string
	Vector     []float32
	IsNewsDump bool
	CreatedAt  time.Time
}

// EmbeddingKey derives the deterministic storage ID for an embedding record.
func EmbeddingKey(kind EmbeddingKind, chatID, messageID int64, chunkIndex int) ID {
	return IDFromContent(fmt.Sprintf("%d:%d:%d:%d", kind, chatID, messageID, chunkIndex))
}

// SearchResult is one raw hit from a single similarity or full-text query.
// At most one of similarity/distance is authoritative per store; this store
// reports cosine similarity in [0,1].
type SearchResult struct {
	ChatID              int64
	MessageID           int64
	ChunkIndex          int
	ChunkText           string
	Similarity          float32
	IsNewsDump          bool
	IsContextWindow     bool
	IsQuestionEmbedding bool
}

// QuestionEmbedding reports whether the result was retrieved via a
// question-bridge embedding. ChunkIndex < 0 is the store's alternate
// encoding of the same fact.
func (r *SearchResult) QuestionEmbedding() bool {
	return r.IsQuestionEmbedding || r.ChunkIndex < 0
}

// FusedSearchResult is a SearchResult after reciprocal-rank fusion across
// multiple query variants.
type FusedSearchResult struct {
	SearchResult
	FusedScore          float64
	MatchedQueryCount   int
	MatchedQueryIndices []int
}

// ClassifiedQuery is an optional upstream classification of the question.
// The fusion engine consumes it to choose search filters; it never produces one.
type ClassifiedQuery struct {
	Intent      string
	Entities    []string
	TemporalRef string
}

// Confidence grades how trustworthy a search response is.
// Ordering: None < Low < Medium < High.
type Confidence int

const (
	ConfidenceNone Confidence = iota
	ConfidenceLow
	ConfidenceMedium
	ConfidenceHigh
)

// String returns the lowercase name of the confidence level.
func (c Confidence) String() string {
	switch c {
	case ConfidenceNone:
		return "none"
	case ConfidenceLow:
		return "low"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceHigh:
		return "high"
	default:
		return "unknown"
	}
}

// SearchResponse is the ranked, deduplicated, confidence-scored answer to one question.
//
// Confidence is a hard gate for the caller: None means the results must not
// be handed to an answer generator; Low means the caller should attach an
// uncertainty caveat.
type SearchResponse struct {
	Results          []*FusedSearchResult
	Confidence       Confidence
	ConfidenceReason string
	BestScore        float32
	ScoreGap         float32
	HasFullTextMatch bool
}

// ContextWindow is the stretch of conversation surrounding one or more
// matched messages. Messages are sorted by DateUTC ascending with no
// duplicate MessageID, and every matched message is present.
type ContextWindow struct {
	ChatID            int64
	CenterMessageID   int64
	MatchedMessageIDs []int64
	Messages          []*ChatMessage
}

// Contains reports whether the window includes the given message.
func (w *ContextWindow) Contains(messageID int64) bool {
	for _, m := range w.Messages {
		if m.MessageID == messageID {
			return true
		}
	}
	return false
}

// IndexingStats summarises one handler's backlog.
// Invariant: Pending = max(0, Total-Indexed), and Pending == 0 means the
// handler's next ProcessBatch call will find no work.
type IndexingStats struct {
	Total   int
	Indexed int
	Pending int
}

// IndexingResult reports the outcome of a single ProcessBatch call.
// ProcessedCount == 0 implies HasMoreWork == false.
type IndexingResult struct {
	ProcessedCount int
	Elapsed        time.Duration
	HasMoreWork    bool
}
