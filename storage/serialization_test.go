package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veridian-systems/recollect/core"
)

func TestChatMessageSerialization(t *testing.T) {
	msg := &core.ChatMessage{
		ChatID:        -100123,
		MessageID:     456,
		FromUserID:    789,
		Author:        "алиса",
		Text:          "привет, как дела?",
		DateUTC:       time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
		IsForwarded:   true,
		ForwardedFrom: "боб",
		IsNewsDump:    true,
	}

	got, err := UnmarshalChatMessage(MarshalChatMessage(msg))
	require.NoError(t, err)
	assert.Equal(t, msg.ChatID, got.ChatID)
	assert.Equal(t, msg.MessageID, got.MessageID)
	assert.Equal(t, msg.Author, got.Author)
	assert.Equal(t, msg.Text, got.Text)
	assert.True(t, got.DateUTC.Equal(msg.DateUTC))
	assert.Equal(t, msg.ForwardedFrom, got.ForwardedFrom)
	assert.True(t, got.IsNewsDump)
}

func TestEmbeddingSerialization(t *testing.T) {
	emb := &core.Embedding{
		Key:        core.EmbeddingKey(core.EmbeddingKindQuestion, 1, 2, -1),
		Kind:       core.EmbeddingKindQuestion,
		ChatID:     1,
		MessageID:  2,
		ChunkIndex: -1,
		Text:       "what was decided?",
		Vector:     []float32{0.25, -0.5, 0.75},
		CreatedAt:  time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
	}

	got, err := UnmarshalEmbedding(MarshalEmbedding(emb))
	require.NoError(t, err)
	assert.Equal(t, emb.Key, got.Key)
	assert.Equal(t, emb.Kind, got.Kind)
	assert.Equal(t, emb.ChunkIndex, got.ChunkIndex)
	assert.Equal(t, emb.Vector, got.Vector)
	assert.True(t, got.CreatedAt.Equal(emb.CreatedAt))
}

func TestUnmarshalCorruptData(t *testing.T) {
	_, err := UnmarshalChatMessage([]byte{0xff, 0x01})
	assert.Error(t, err)

	_, err = UnmarshalEmbedding(nil)
	assert.Error(t, err)
}
