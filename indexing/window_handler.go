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

// WindowHandler indexes sliding-window embeddings: overlapping spans of
// consecutive messages joined into one text and embedded as a unit, so a
// question about a conversation burst can match the burst rather than a
// single line.
//
// The handler sweeps chats one per ProcessBatch call, tracking its position
// in a cursor that resets once every dirty chat has been visited. A chat is
// dirty when it has messages newer than its window checkpoint.
type WindowHandler struct {
	messages    storage.MessageRepository
	embeddings  storage.EmbeddingRepository
	checkpoints storage.CheckpointRepository
	embedder    ai.Embedder
	span        int
	stride      int
	logger      *slog.Logger

	// sweep cursor; nil when no sweep is in progress
	sweep    []int64
	sweepPos int
}

// NewWindowHandler creates the window-embedding handler.
func NewWindowHandler(
	messages storage.MessageRepository,
	embeddings storage.EmbeddingRepository,
	checkpoints storage.CheckpointRepository,
	embedder ai.Embedder,
	span, stride int,
	logger *slog.Logger,
) *WindowHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WindowHandler{
		messages:    messages,
		embeddings:  embeddings,
		checkpoints: checkpoints,
		embedder:    embedder,
		span:        span,
		stride:      stride,
		logger:      logger.With("handler", "windows"),
	}
}

func (h *WindowHandler) Name() string { return "windows" }

func (h *WindowHandler) Enabled() bool { return h.embedder != nil }

// Stats counts chats: a chat is pending while its newest message postdates
// its window checkpoint.
func (h *WindowHandler) Stats(ctx context.Context) (*core.IndexingStats, error) {
	chats, err := h.messages.DistinctChatIDs(ctx)
	if err != nil {
		return nil, err
	}

	pending := 0
	for _, chatID := range chats {
		dirty, err := h.isDirty(ctx, chatID)
		if err != nil {
			return nil, err
		}
		if dirty {
			pending++
		}
	}

	return &core.IndexingStats{
		Total:   len(chats),
		Indexed: len(chats) - pending,
		Pending: pending,
	}, nil
}

// ProcessBatch advances the sweep by exactly one chat. On a per-chat failure
// the cursor still moves past the failing chat before the error is returned,
// so the next call makes forward progress.
func (h *WindowHandler) ProcessBatch(ctx context.Context, batchSize int) (*core.IndexingResult, error) {
	start := time.Now()

	if h.sweep == nil {
		if err := h.beginSweep(ctx); err != nil {
			return nil, err
		}
	}

	if h.sweepPos >= len(h.sweep) {
		h.resetSweep()
		return &core.IndexingResult{Elapsed: time.Since(start)}, nil
	}

	chatID := h.sweep[h.sweepPos]
	h.sweepPos++
	last := h.sweepPos >= len(h.sweep)
	if last {
		// Cursor state is cleared before processing so a failure in the
		// final chat cannot leave a stale sweep behind.
		h.resetSweep()
	}

	if err := h.processChat(ctx, chatID); err != nil {
		h.logger.Error("window sweep failed for chat, skipping", "chatID", chatID, "err", err)
		return nil, fmt.Errorf("chat %d: %w", chatID, err)
	}

	return &core.IndexingResult{
		ProcessedCount: 1,
		Elapsed:        time.Since(start),
		HasMoreWork:    !last,
	}, nil
}

func (h *WindowHandler) beginSweep(ctx context.Context) error {
	chats, err := h.messages.DistinctChatIDs(ctx)
	if err != nil {
		return err
	}

	dirty := make([]int64, 0, len(chats))
	for _, chatID := range chats {
		isDirty, err := h.isDirty(ctx, chatID)
		if err != nil {
			return err
		}
		if isDirty {
			dirty = append(dirty, chatID)
		}
	}

	h.sweep = dirty
	h.sweepPos = 0
	return nil
}

func (h *WindowHandler) resetSweep() {
	h.sweep = nil
	h.sweepPos = 0
}

func (h *WindowHandler) isDirty(ctx context.Context, chatID int64) (bool, error) {
	latest, err := h.messages.LatestMessageTime(ctx, chatID)
	if err != nil {
		return false, err
	}
	if latest.IsZero() {
		return false, nil
	}
	checkpoint, err := h.checkpoints.WindowCheckpoint(ctx, chatID)
	if err != nil {
		return false, err
	}
	return latest.After(checkpoint), nil
}

// processChat rebuilds the sliding-window embeddings that cover messages
// newer than the chat's checkpoint and then advances the checkpoint.
func (h *WindowHandler) processChat(ctx context.Context, chatID int64) error {
	msgs, err := h.messages.GetMessagesByDateRange(ctx, chatID, time.Time{}, farFuture())
	if err != nil {
		return fmt.Errorf("fetching messages: %w", err)
	}

	textual := msgs[:0]
	for _, m := range msgs {
		if strings.TrimSpace(m.Text) != "" {
			textual = append(textual, m)
		}
	}
	if len(textual) == 0 {
		return h.checkpoints.SaveWindowCheckpoint(ctx, chatID, time.Now().UTC())
	}

	checkpoint, err := h.checkpoints.WindowCheckpoint(ctx, chatID)
	if err != nil {
		return err
	}

	// Collect the windows that touch at least one message newer than the
	// checkpoint. Overlap with older messages is intended: the new message
	// should be embedded inside its surrounding context.
	type window struct {
		startOrdinal int
		messages     []*core.ChatMessage
	}
	var windows []window
	for begin := 0; begin < len(textual); begin += h.stride {
		end := begin + h.span
		if end > len(textual) {
			end = len(textual)
		}
		span := textual[begin:end]

		fresh := false
		for _, m := range span {
			if m.DateUTC.After(checkpoint) {
				fresh = true
				break
			}
		}
		if fresh {
			windows = append(windows, window{startOrdinal: begin, messages: span})
		}
		if end == len(textual) {
			break
		}
	}

	latest := textual[len(textual)-1].DateUTC
	if len(windows) == 0 {
		return h.checkpoints.SaveWindowCheckpoint(ctx, chatID, latest)
	}

	texts := make([]string, len(windows))
	for i, w := range windows {
		lines := make([]string, len(w.messages))
		for j, m := range w.messages {
			lines[j] = m.Author + ": " + m.Text
		}
		texts[i] = strings.Join(lines, "\n")
	}

	var vectors [][]float32
	err = RetryWithBackoff(ctx, func() error {
		var embErr error
		vectors, embErr = h.embedder.EmbedTexts(ctx, texts)
		return embErr
	}, embedRetryAttempts, embedRetryDelay)
	if err != nil {
		return fmt.Errorf("embedding %d windows: %w", len(texts), err)
	}
	if len(vectors) != len(windows) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(windows), len(vectors))
	}

	now := time.Now().UTC()
	embs := make([]*core.Embedding, len(windows))
	for i, w := range windows {
		anchor := w.messages[len(w.messages)-1]
		embs[i] = &core.Embedding{
			Key:        core.EmbeddingKey(core.EmbeddingKindWindow, chatID, anchor.MessageID, w.startOrdinal),
			Kind:       core.EmbeddingKindWindow,
			ChatID:     chatID,
			MessageID:  anchor.MessageID,
			ChunkIndex: w.startOrdinal,
			Text:       texts[i],
			Vector:     NormalizeVector(vectors[i]),
			CreatedAt:  now,
		}
	}

	if err := h.embeddings.UpsertEmbeddings(ctx, embs...); err != nil {
		return fmt.Errorf("storing %d window embeddings: %w", len(embs), err)
	}

	h.logger.Debug("indexed chat windows", "chatID", chatID, "windows", len(embs))

	return h.checkpoints.SaveWindowCheckpoint(ctx, chatID, latest)
}

func farFuture() time.Time {
	return time.Date(2100, 12, 31, 23, 59, 59, 0, time.UTC)
}
