package ingest

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veridian-systems/recollect/core"
	"github.com/veridian-systems/recollect/storage/badger"
)

const sampleExport = `{
  "chat_id": 77,
  "chat_name": "team chat",
  "messages": [
    {"id": 1, "from_user_id": 10, "author": "alice", "text": "we moved office", "date": "2026-03-01T12:00:00Z"},
    {"id": 2, "from_user_id": 11, "author": "bob", "text": "noted", "date": "2026-03-01T12:01:00Z"},
    {"id": 3, "from_user_id": 10, "author": "alice", "text": "forwarding the address", "date": "2026-03-01T12:02:00Z", "forwarded": true, "forwarded_from": "office-bot"}
  ]
}`

func TestReadExport(t *testing.T) {
	t.Run("valid export", func(t *testing.T) {
		export, err := ReadExport(strings.NewReader(sampleExport))
		require.NoError(t, err)
		assert.Equal(t, int64(77), export.ChatID)
		require.Len(t, export.Messages, 3)
		assert.True(t, export.Messages[2].Forwarded)
		assert.Equal(t, "office-bot", export.Messages[2].ForwardedFrom)
	})

	t.Run("missing chat id", func(t *testing.T) {
		_, err := ReadExport(strings.NewReader(`{"messages": []}`))
		assert.ErrorIs(t, err, ErrMissingChatID)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := ReadExport(strings.NewReader(`{"chat_id": 1,`))
		assert.Error(t, err)
	})
}

func TestImport(t *testing.T) {
	msgRepo, embRepo, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		embRepo.Close()
		msgRepo.Close()
		backend.Close()
	}()

	importer, err := NewImporter(msgRepo)
	require.NoError(t, err)
	defer importer.Release()

	export, err := ReadExport(strings.NewReader(sampleExport))
	require.NoError(t, err)

	ctx := context.Background()
	stored, err := importer.Import(ctx, export)
	require.NoError(t, err)
	assert.Equal(t, 3, stored)

	msg, err := msgRepo.GetMessage(ctx, 77, 3)
	require.NoError(t, err)
	assert.True(t, msg.IsForwarded)
	assert.Equal(t, "office-bot", msg.ForwardedFrom)

	// Imported messages wait for the indexing pipeline.
	pending, err := msgRepo.CountPendingEmbedding(ctx, core.EmbeddingKindMessage)
	require.NoError(t, err)
	assert.Equal(t, 3, pending)
}

func TestImport_ManyBatches(t *testing.T) {
	msgRepo, embRepo, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		embRepo.Close()
		msgRepo.Close()
		backend.Close()
	}()

	importer, err := NewImporter(msgRepo, WithBatchSize(10), WithPoolSize(4))
	require.NoError(t, err)
	defer importer.Release()

	export := &ExportFile{ChatID: 5}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 95; i++ {
		export.Messages = append(export.Messages, ExportMessage{
			ID:         int64(i + 1),
			FromUserID: 1,
			Author:     "user",
			Text:       fmt.Sprintf("message %d", i+1),
			Date:       base.Add(time.Duration(i) * time.Second),
		})
	}

	stored, err := importer.Import(context.Background(), export)
	require.NoError(t, err)
	assert.Equal(t, 95, stored)

	count, err := msgRepo.CountMessages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 95, count)
}

func TestNewImporter_NilRepository(t *testing.T) {
	_, err := NewImporter(nil)
	assert.ErrorIs(t, err, ErrMessageRepositoryRequired)
}
