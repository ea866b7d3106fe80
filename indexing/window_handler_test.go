package indexing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veridian-systems/recollect/ai"
	"github.com/veridian-systems/recollect/ai/mock"
	"github.com/veridian-systems/recollect/core"
)

func TestWindowHandler_SweepOneChatPerCall(t *testing.T) {
	msgRepo, embRepo, ckptRepo := newTestRepos(t)
	seedMessages(t, msgRepo, 1, 10)
	seedMessages(t, msgRepo, 2, 10)

	handler := NewWindowHandler(msgRepo, embRepo, ckptRepo, mock.NewMockEmbedder(), 4, 2, nil)
	ctx := context.Background()

	stats, err := handler.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.Pending)

	first, err := handler.ProcessBatch(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, first.ProcessedCount)
	assert.True(t, first.HasMoreWork)

	second, err := handler.ProcessBatch(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, second.ProcessedCount)
	assert.False(t, second.HasMoreWork)

	// Sweep complete: both chats checkpointed, nothing pending.
	stats, err = handler.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Pending)

	third, err := handler.ProcessBatch(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, third.ProcessedCount)
	assert.False(t, third.HasMoreWork)

	count, err := embRepo.CountByKind(ctx, core.EmbeddingKindWindow)
	require.NoError(t, err)
	assert.Positive(t, count)
}

func TestWindowHandler_CheckpointSkipsCleanChats(t *testing.T) {
	msgRepo, embRepo, ckptRepo := newTestRepos(t)
	seedMessages(t, msgRepo, 1, 6)

	handler := NewWindowHandler(msgRepo, embRepo, ckptRepo, mock.NewMockEmbedder(), 4, 2, nil)
	ctx := context.Background()

	_, err := handler.ProcessBatch(ctx, 1)
	require.NoError(t, err)

	// No new messages: the chat is clean and the next sweep is empty.
	result, err := handler.ProcessBatch(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, result.ProcessedCount)
	assert.False(t, result.HasMoreWork)

	// A fresh message dirties the chat again.
	require.NoError(t, msgRepo.AddMessages(ctx, &core.ChatMessage{
		ChatID:    1,
		MessageID: 99,
		Author:    "user",
		Text:      "brand new message",
		DateUTC:   time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	}))

	stats, err := handler.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Pending)

	result, err = handler.ProcessBatch(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ProcessedCount)
}

func TestWindowHandler_FailureAdvancesCursor(t *testing.T) {
	msgRepo, embRepo, ckptRepo := newTestRepos(t)
	seedMessages(t, msgRepo, 1, 6)
	seedMessages(t, msgRepo, 2, 6)

	// The first embedding call is rejected, later calls succeed: the first
	// chat in the sweep errors out but the second still gets processed.
	calls := 0
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		calls++
		if calls == 1 {
			return nil, fmt.Errorf("embed: %w", ai.ErrRateLimited)
		}
		vectors := make([][]float32, len(texts))
		for i, text := range texts {
			vectors[i] = mock.DeterministicVector(text, 8)
		}
		return vectors, nil
	}

	handler := NewWindowHandler(msgRepo, embRepo, ckptRepo, embedder, 4, 2, nil)
	ctx := context.Background()

	_, err := handler.ProcessBatch(ctx, 1)
	require.Error(t, err)

	result, err := handler.ProcessBatch(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ProcessedCount)
	assert.False(t, result.HasMoreWork)

	// The failed chat is still dirty and gets retried on the next sweep.
	stats, err := handler.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Pending)

	result, err = handler.ProcessBatch(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ProcessedCount)

	stats, err = handler.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Pending)
}

func TestWindowHandler_WindowEmbeddingsAreMarked(t *testing.T) {
	msgRepo, embRepo, ckptRepo := newTestRepos(t)
	seedMessages(t, msgRepo, 1, 6)

	unit := []float32{1, 0, 0}
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = unit
		}
		return vectors, nil
	}

	handler := NewWindowHandler(msgRepo, embRepo, ckptRepo, embedder, 4, 2, nil)
	ctx := context.Background()

	_, err := handler.ProcessBatch(ctx, 1)
	require.NoError(t, err)

	results, err := embRepo.FindSimilar(ctx, 1, unit, 0.9, 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.True(t, r.IsContextWindow)
		assert.False(t, r.QuestionEmbedding())
	}
}
