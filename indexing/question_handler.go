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

// QuestionHandler indexes question-bridge embeddings: for each message it
// asks the generator for short questions the message answers, embeds those
// questions, and stores them with negative chunk indices pointing back at
// the message. A query phrased like one of the questions then retrieves the
// message even when the message text itself is phrased very differently.
type QuestionHandler struct {
	messages   storage.MessageRepository
	embeddings storage.EmbeddingRepository
	embedder   ai.Embedder
	generator  ai.QuestionGenerator
	perMessage int
	logger     *slog.Logger
}

// NewQuestionHandler creates the question-bridge handler. The handler is
// disabled when generator is nil or perMessage is zero.
func NewQuestionHandler(
	messages storage.MessageRepository,
	embeddings storage.EmbeddingRepository,
	embedder ai.Embedder,
	generator ai.QuestionGenerator,
	perMessage int,
	logger *slog.Logger,
) *QuestionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuestionHandler{
		messages:   messages,
		embeddings: embeddings,
		embedder:   embedder,
		generator:  generator,
		perMessage: perMessage,
		logger:     logger.With("handler", "questions"),
	}
}

func (h *QuestionHandler) Name() string { return "questions" }

func (h *QuestionHandler) Enabled() bool {
	return h.embedder != nil && h.generator != nil && h.perMessage > 0
}

func (h *QuestionHandler) Stats(ctx context.Context) (*core.IndexingStats, error) {
	total, err := h.messages.CountMessages(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := h.messages.CountPendingEmbedding(ctx, core.EmbeddingKindQuestion)
	if err != nil {
		return nil, err
	}
	return &core.IndexingStats{
		Total:   total,
		Indexed: total - pending,
		Pending: pending,
	}, nil
}

// ProcessBatch generates and embeds bridge questions for one batch of
// messages. Messages that yield no questions are marked done so they are
// not revisited every run.
func (h *QuestionHandler) ProcessBatch(ctx context.Context, batchSize int) (*core.IndexingResult, error) {
	start := time.Now()

	pending, err := h.messages.GetPendingEmbedding(ctx, core.EmbeddingKindQuestion, batchSize)
	if err != nil {
		return nil, fmt.Errorf("fetching pending messages: %w", err)
	}
	if len(pending) == 0 {
		return &core.IndexingResult{Elapsed: time.Since(start)}, nil
	}

	processed := 0
	for _, msg := range pending {
		if err := h.processMessage(ctx, msg); err != nil {
			return nil, fmt.Errorf("message %d/%d: %w", msg.ChatID, msg.MessageID, err)
		}
		processed++
	}

	return &core.IndexingResult{
		ProcessedCount: processed,
		Elapsed:        time.Since(start),
		HasMoreWork:    len(pending) == batchSize,
	}, nil
}

func (h *QuestionHandler) processMessage(ctx context.Context, msg *core.ChatMessage) error {
	// An edit can blank a message after it was enrolled as pending.
	if strings.TrimSpace(msg.Text) == "" {
		return h.messages.MarkEmbedded(ctx, core.EmbeddingKindQuestion, msg.ChatID, msg.MessageID)
	}

	questions, err := h.generator.GenerateQuestions(ctx, msg.Text, h.perMessage)
	if err != nil {
		return fmt.Errorf("generating questions: %w", err)
	}
	if len(questions) == 0 {
		h.logger.Debug("no bridge questions for message", "chatID", msg.ChatID, "messageID", msg.MessageID)
		return h.messages.MarkEmbedded(ctx, core.EmbeddingKindQuestion, msg.ChatID, msg.MessageID)
	}

	var vectors [][]float32
	err = RetryWithBackoff(ctx, func() error {
		var embErr error
		vectors, embErr = h.embedder.EmbedTexts(ctx, questions)
		return embErr
	}, embedRetryAttempts, embedRetryDelay)
	if err != nil {
		return fmt.Errorf("embedding questions: %w", err)
	}
	if len(vectors) != len(questions) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(questions), len(vectors))
	}

	now := time.Now().UTC()
	embs := make([]*core.Embedding, len(questions))
	for i, q := range questions {
		// Negative chunk index is the store's marker for a bridge question;
		// -(i+1) preserves the question's ordinal.
		chunk := -(i + 1)
		embs[i] = &core.Embedding{
			Key:        core.EmbeddingKey(core.EmbeddingKindQuestion, msg.ChatID, msg.MessageID, chunk),
			Kind:       core.EmbeddingKindQuestion,
			ChatID:     msg.ChatID,
			MessageID:  msg.MessageID,
			ChunkIndex: chunk,
			Text:       q,
			Vector:     NormalizeVector(vectors[i]),
			IsNewsDump: msg.IsNewsDump,
			CreatedAt:  now,
		}
	}

	return h.embeddings.UpsertEmbeddings(ctx, embs...)
}
