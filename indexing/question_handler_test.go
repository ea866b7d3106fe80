package indexing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veridian-systems/recollect/ai/mock"
	"github.com/veridian-systems/recollect/core"
)

func TestQuestionHandler_Enabled(t *testing.T) {
	msgRepo, embRepo, _ := newTestRepos(t)

	t.Run("with generator", func(t *testing.T) {
		handler := NewQuestionHandler(msgRepo, embRepo, mock.NewMockEmbedder(), mock.NewMockQuestionGenerator(), 3, nil)
		assert.True(t, handler.Enabled())
	})

	t.Run("nil generator disables", func(t *testing.T) {
		handler := NewQuestionHandler(msgRepo, embRepo, mock.NewMockEmbedder(), nil, 3, nil)
		assert.False(t, handler.Enabled())
	})

	t.Run("zero questions per message disables", func(t *testing.T) {
		handler := NewQuestionHandler(msgRepo, embRepo, mock.NewMockEmbedder(), mock.NewMockQuestionGenerator(), 0, nil)
		assert.False(t, handler.Enabled())
	})
}

func TestQuestionHandler_ProcessBatch(t *testing.T) {
	msgRepo, embRepo, _ := newTestRepos(t)
	seedMessages(t, msgRepo, 1, 4)

	handler := NewQuestionHandler(msgRepo, embRepo, mock.NewMockEmbedder(), mock.NewMockQuestionGenerator(), 2, nil)
	ctx := context.Background()

	result, err := handler.ProcessBatch(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 4, result.ProcessedCount)
	assert.False(t, result.HasMoreWork)

	// Two bridge questions per message, all flagged as question embeddings
	// through their negative chunk index.
	count, err := embRepo.CountByKind(ctx, core.EmbeddingKindQuestion)
	require.NoError(t, err)
	assert.Equal(t, 8, count)

	stats, err := handler.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Pending)
}

func TestQuestionHandler_QuestionResultsCarryNegativeChunk(t *testing.T) {
	msgRepo, embRepo, _ := newTestRepos(t)
	seedMessages(t, msgRepo, 1, 1)

	unit := []float32{0, 1, 0}
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = unit
		}
		return vectors, nil
	}

	handler := NewQuestionHandler(msgRepo, embRepo, embedder, mock.NewMockQuestionGenerator(), 3, nil)
	ctx := context.Background()

	_, err := handler.ProcessBatch(ctx, 10)
	require.NoError(t, err)

	results, err := embRepo.FindSimilar(ctx, 1, unit, 0.9, 10)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.Negative(t, r.ChunkIndex)
		assert.True(t, r.QuestionEmbedding())
		assert.Equal(t, int64(1), r.MessageID)
	}
}

func TestQuestionHandler_NoQuestionsMarksDone(t *testing.T) {
	msgRepo, embRepo, _ := newTestRepos(t)
	seedMessages(t, msgRepo, 1, 2)

	generator := mock.NewMockQuestionGenerator()
	generator.GenerateQuestionsFunc = func(ctx context.Context, text string, n int) ([]string, error) {
		return nil, nil
	}

	handler := NewQuestionHandler(msgRepo, embRepo, mock.NewMockEmbedder(), generator, 3, nil)
	ctx := context.Background()

	result, err := handler.ProcessBatch(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, result.ProcessedCount)

	// No embeddings stored, but the messages are not revisited.
	count, err := embRepo.CountByKind(ctx, core.EmbeddingKindQuestion)
	require.NoError(t, err)
	assert.Zero(t, count)

	stats, err := handler.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Pending)
}

func TestQuestionHandler_GeneratorErrorPropagates(t *testing.T) {
	msgRepo, embRepo, _ := newTestRepos(t)
	seedMessages(t, msgRepo, 1, 1)

	generator := mock.NewMockQuestionGenerator()
	generator.GenerateQuestionsFunc = func(ctx context.Context, text string, n int) ([]string, error) {
		return nil, assert.AnError
	}

	handler := NewQuestionHandler(msgRepo, embRepo, mock.NewMockEmbedder(), generator, 3, nil)
	_, err := handler.ProcessBatch(context.Background(), 10)
	assert.ErrorIs(t, err, assert.AnError)
}
