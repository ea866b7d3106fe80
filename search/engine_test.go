package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veridian-systems/recollect/ai/mock"
	"github.com/veridian-systems/recollect/core"
	"github.com/veridian-systems/recollect/storage/badger"
)

func TestNewEngine(t *testing.T) {
	msgRepo, embRepo, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		embRepo.Close()
		msgRepo.Close()
		backend.Close()
	}()

	provider := mock.NewMockProvider()

	t.Run("valid configuration", func(t *testing.T) {
		engine, err := NewEngine(msgRepo, embRepo, provider)
		require.NoError(t, err)
		assert.NotNil(t, engine)
	})

	t.Run("nil message repository", func(t *testing.T) {
		_, err := NewEngine(nil, embRepo, provider)
		assert.Equal(t, ErrMessageRepositoryRequired, err)
	})

	t.Run("nil embedding repository", func(t *testing.T) {
		_, err := NewEngine(msgRepo, nil, provider)
		assert.Equal(t, ErrEmbeddingRepositoryRequired, err)
	})

	t.Run("nil provider", func(t *testing.T) {
		_, err := NewEngine(msgRepo, embRepo, nil)
		assert.Equal(t, ErrAIProviderRequired, err)
	})

	t.Run("invalid config rejected", func(t *testing.T) {
		_, err := NewEngine(msgRepo, embRepo, provider, WithConfig(&Config{}))
		assert.Error(t, err)
	})
}

func TestSearch_EmptyQuestion(t *testing.T) {
	msgRepo, embRepo, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		embRepo.Close()
		msgRepo.Close()
		backend.Close()
	}()

	engine, err := NewEngine(msgRepo, embRepo, mock.NewMockProvider())
	require.NoError(t, err)

	for _, q := range []string{"", "   ", "\t\n"} {
		response, err := engine.Search(context.Background(), 1, q)
		require.NoError(t, err)
		assert.Equal(t, core.ConfidenceNone, response.Confidence)
		assert.Empty(t, response.Results)
		assert.NotEmpty(t, response.ConfidenceReason)
	}
}

func TestSearch_EmptyArchive(t *testing.T) {
	msgRepo, embRepo, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		embRepo.Close()
		msgRepo.Close()
		backend.Close()
	}()

	engine, err := NewEngine(msgRepo, embRepo, mock.NewMockProvider())
	require.NoError(t, err)

	response, err := engine.Search(context.Background(), 1, "where is the office")
	require.NoError(t, err)
	assert.Equal(t, core.ConfidenceNone, response.Confidence)
	assert.Empty(t, response.Results)
}

func TestSearch_EmbedderFailureDegradesToKeywordPath(t *testing.T) {
	msgRepo, embRepo, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		embRepo.Close()
		msgRepo.Close()
		backend.Close()
	}()

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("provider down")
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockQuestionGenerator())

	engine, err := NewEngine(msgRepo, embRepo, provider)
	require.NoError(t, err)

	// The message store still answers the keyword path, so a dead embedder
	// degrades recall instead of failing the search.
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, msgRepo.AddMessages(context.Background(), &core.ChatMessage{
		ChatID: 1, MessageID: 1, Author: "bot",
		Text: "ты создан чтобы отвечать на вопросы", DateUTC: base,
	}))

	response, err := engine.Search(context.Background(), 1, "для чего ты создан?")
	require.NoError(t, err)
	require.NotEmpty(t, response.Results)
	assert.True(t, response.HasFullTextMatch)
}

func TestSearch_RussianEndToEnd(t *testing.T) {
	msgRepo, embRepo, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		embRepo.Close()
		msgRepo.Close()
		backend.Close()
	}()

	// Same unit vector for every text: every stored embedding matches every
	// query with similarity 1, which makes the lexical path decisive.
	unit := []float32{1, 0, 0}
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return unit, nil
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockQuestionGenerator())

	engine, err := NewEngine(msgRepo, embRepo, provider)
	require.NoError(t, err)

	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	answer := &core.ChatMessage{
		ChatID: 1, MessageID: 7, Author: "bot",
		Text: "ты создан чтобы отвечать на вопросы", DateUTC: base,
	}
	other := &core.ChatMessage{
		ChatID: 1, MessageID: 8, Author: "alice",
		Text: "совсем другое сообщение про погоду", DateUTC: base.Add(time.Minute),
	}
	require.NoError(t, msgRepo.AddMessages(ctx, answer, other))

	require.NoError(t, embRepo.UpsertEmbeddings(ctx, &core.Embedding{
		Key:       core.EmbeddingKey(core.EmbeddingKindMessage, 1, 7, 0),
		Kind:      core.EmbeddingKindMessage,
		ChatID:    1, MessageID: 7, ChunkIndex: 0,
		Text:   answer.Text,
		Vector: unit, CreatedAt: base,
	}))

	response, err := engine.Search(ctx, 1, "для чего ты создан?")
	require.NoError(t, err)
	require.NotEmpty(t, response.Results)

	top := response.Results[0]
	assert.Equal(t, int64(7), top.MessageID)
	assert.True(t, response.HasFullTextMatch)
	assert.GreaterOrEqual(t, top.MatchedQueryCount, 2)
	assert.Equal(t, core.ConfidenceHigh, response.Confidence)
}

func TestSearchClassified_EntitiesExtendKeywords(t *testing.T) {
	msgRepo, embRepo, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		embRepo.Close()
		msgRepo.Close()
		backend.Close()
	}()

	engine, err := NewEngine(msgRepo, embRepo, mock.NewMockProvider())
	require.NoError(t, err)

	var captured keywordCapture
	classified := &core.ClassifiedQuery{Entities: []string{"Oak Street", "создан"}}
	_, err = engine.SearchWithMonitor(context.Background(), 1, "где офис", classified, &captured)
	require.NoError(t, err)

	assert.Contains(t, captured.keywords, "офис")
	assert.Contains(t, captured.keywords, "oak street")
}

type keywordCapture struct {
	noopMonitor
	keywords string
}

func (k *keywordCapture) AfterExpansion(_ []string, keywords string) {
	k.keywords = keywords
}
