// Copyright 2026 Veridian Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package indexing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/veridian-systems/recollect/ai"
	"github.com/veridian-systems/recollect/core"
	"github.com/veridian-systems/recollect/storage"
)

// MessageHandler indexes per-message embeddings: each batch fetches messages
// still lacking one, embeds their text in a single provider call, and stores
// the normalized vectors.
type MessageHandler struct {
	messages   storage.MessageRepository
	embeddings storage.EmbeddingRepository
	embedder   ai.Embedder
	logger     *slog.Logger
}

// NewMessageHandler creates the message-embedding handler.
func NewMessageHandler(
	messages storage.MessageRepository,
	embeddings storage.EmbeddingRepository,
	embedder ai.Embedder,
	logger *slog.Logger,
) *MessageHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MessageHandler{
		messages:   messages,
		embeddings: embeddings,
		embedder:   embedder,
		logger:     logger.With("handler", "messages"),
	}
}

func (h *MessageHandler) Name() string { return "messages" }

func (h *MessageHandler) Enabled() bool { return h.embedder != nil }

// Stats counts total messages against the pending-embedding index.
func (h *MessageHandler) Stats(ctx context.Context) (*core.IndexingStats, error) {
	total, err := h.messages.CountMessages(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := h.messages.CountPendingEmbedding(ctx, core.EmbeddingKindMessage)
	if err != nil {
		return nil, err
	}
	return &core.IndexingStats{
		Total:   total,
		Indexed: total - pending,
		Pending: pending,
	}, nil
}

// ProcessBatch embeds one batch of unindexed messages.
// HasMoreWork is true when the batch came back full.
func (h *MessageHandler) ProcessBatch(ctx context.Context, batchSize int) (*core.IndexingResult, error) {
	start := time.Now()

	pending, err := h.messages.GetPendingEmbedding(ctx, core.EmbeddingKindMessage, batchSize)
	if err != nil {
		return nil, fmt.Errorf("fetching pending messages: %w", err)
	}
	if len(pending) == 0 {
		return &core.IndexingResult{Elapsed: time.Since(start)}, nil
	}

	// An edit can blank a message after it was enrolled as pending.
	batch := make([]*core.ChatMessage, 0, len(pending))
	texts := make([]string, 0, len(pending))
	for _, msg := range pending {
		if strings.TrimSpace(msg.Text) == "" {
			if err := h.messages.MarkEmbedded(ctx, core.EmbeddingKindMessage, msg.ChatID, msg.MessageID); err != nil {
				return nil, err
			}
			continue
		}
		batch = append(batch, msg)
		texts = append(texts, msg.Text)
	}
	if len(batch) == 0 {
		return &core.IndexingResult{
			ProcessedCount: len(pending),
			Elapsed:        time.Since(start),
			HasMoreWork:    len(pending) == batchSize,
		}, nil
	}

	var vectors [][]float32
	err = RetryWithBackoff(ctx, func() error {
		var embErr error
		vectors, embErr = h.embedder.EmbedTexts(ctx, texts)
		return embErr
	}, embedRetryAttempts, embedRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("embedding %d messages: %w", len(texts), err)
	}
	if len(vectors) != len(batch) {
		return nil, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(batch), len(vectors))
	}

	embs := make([]*core.Embedding, len(batch))
	now := time.Now().UTC()
	for i, msg := range batch {
		embs[i] = &core.Embedding{
			Key:        core.EmbeddingKey(core.EmbeddingKindMessage, msg.ChatID, msg.MessageID, 0),
			Kind:       core.EmbeddingKindMessage,
			ChatID:     msg.ChatID,
			MessageID:  msg.MessageID,
			ChunkIndex: 0,
			Text:       msg.Text,
			Vector:     NormalizeVector(vectors[i]),
			IsNewsDump: msg.IsNewsDump,
			CreatedAt:  now,
		}
	}

	if err := h.embeddings.UpsertEmbeddings(ctx, embs...); err != nil {
		return nil, fmt.Errorf("storing %d embeddings: %w", len(embs), err)
	}

	h.logger.Debug("indexed message batch", "count", len(embs), "elapsed", time.Since(start))

	return &core.IndexingResult{
		ProcessedCount: len(pending),
		Elapsed:        time.Since(start),
		HasMoreWork:    len(pending) == batchSize,
	}, nil
}
