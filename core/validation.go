package core

import (
	"fmt"
	"time"
)

// clockSkewTolerance allows for modest clock drift between the chat platform
// and this process when rejecting future-dated messages.
const clockSkewTolerance = 5 * time.Minute

// ValidateChatMessage checks that a message is storable.
// Empty text is allowed (service messages); zero identifiers are not.
func ValidateChatMessage(m *ChatMessage) error {
	if m == nil {
		return ErrInvalidChatMessage
	}
	if m.ChatID == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChatMessage, ErrZeroChatID)
	}
	if m.MessageID == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChatMessage, ErrZeroMessageID)
	}
	if m.DateUTC.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidChatMessage)
	}
	if m.DateUTC.After(time.Now().UTC().Add(clockSkewTolerance)) {
		return fmt.Errorf("%w: %w", ErrInvalidChatMessage, ErrInvalidTimestamp)
	}
	return nil
}

// ValidateEmbedding checks that an embedding record is storable.
func ValidateEmbedding(e *Embedding) error {
	if e == nil {
		return ErrInvalidEmbedding
	}
	if e.Key == 0 {
		return fmt.Errorf("%w: key is required", ErrInvalidEmbedding)
	}
	switch e.Kind {
	case EmbeddingKindMessage, EmbeddingKindWindow, EmbeddingKindQuestion:
	default:
		return fmt.Errorf("%w: %w", ErrInvalidEmbedding, ErrInvalidEmbeddingKind)
	}
	if e.ChatID == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidEmbedding, ErrZeroChatID)
	}
	if e.MessageID == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidEmbedding, ErrZeroMessageID)
	}
	if len(e.Vector) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidEmbedding, ErrEmptyVector)
	}
	return nil
}
