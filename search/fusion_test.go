package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veridian-systems/recollect/core"
)

func result(messageID int64, similarity float32, question bool) *core.SearchResult {
	return &core.SearchResult{
		ChatID:              1,
		MessageID:           messageID,
		ChunkIndex:          0,
		Similarity:          similarity,
		IsQuestionEmbedding: question,
	}
}

func TestSelectBetterResult_NonQuestionWinsUnconditionally(t *testing.T) {
	question := result(42, 0.9, true)
	original := result(42, 0.7, false)

	assert.Same(t, original, SelectBetterResult(question, original))
	assert.Same(t, original, SelectBetterResult(original, question))
}

func TestSelectBetterResult_NegativeChunkIndexIsQuestion(t *testing.T) {
	question := result(42, 0.95, false)
	question.ChunkIndex = -1
	original := result(42, 0.5, false)

	assert.Same(t, original, SelectBetterResult(question, original))
	assert.Same(t, original, SelectBetterResult(original, question))
}

func TestSelectBetterResult_SameFlagHigherSimilarityWins(t *testing.T) {
	weak := result(7, 0.6, false)
	strong := result(7, 0.8, false)

	assert.Same(t, strong, SelectBetterResult(weak, strong))
	assert.Same(t, strong, SelectBetterResult(strong, weak))

	weakQ := result(7, 0.6, true)
	strongQ := result(7, 0.8, true)
	assert.Same(t, strongQ, SelectBetterResult(weakQ, strongQ))
}

func TestSelectBetterResult_TiesAreStable(t *testing.T) {
	first := result(7, 0.6, false)
	second := result(7, 0.6, false)

	// Equal similarity keeps the first-seen result.
	assert.Same(t, first, SelectBetterResult(first, second))
	assert.Same(t, second, SelectBetterResult(second, first))
}

func TestFuseResults_SingleList(t *testing.T) {
	lists := [][]*core.SearchResult{
		{result(1, 0.9, false), result(2, 0.8, false)},
	}

	fused := FuseResults(lists, 60, 10)
	require.Len(t, fused, 2)

	assert.Equal(t, int64(1), fused[0].MessageID)
	assert.InDelta(t, 1.0/61.0, fused[0].FusedScore, 1e-9)
	assert.Equal(t, 1, fused[0].MatchedQueryCount)
	assert.Equal(t, []int{0}, fused[0].MatchedQueryIndices)

	assert.Equal(t, int64(2), fused[1].MessageID)
	assert.InDelta(t, 1.0/62.0, fused[1].FusedScore, 1e-9)
}

func TestFuseResults_CorroborationOutranksSingleHit(t *testing.T) {
	// Message 5 appears at rank 2 in both lists; message 1 and 9 lead one
	// list each. 2/62 > 1/61, so the corroborated message wins.
	lists := [][]*core.SearchResult{
		{result(1, 0.9, false), result(5, 0.8, false)},
		{result(9, 0.85, false), result(5, 0.8, false)},
	}

	fused := FuseResults(lists, 60, 10)
	require.Len(t, fused, 3)
	assert.Equal(t, int64(5), fused[0].MessageID)
	assert.Equal(t, 2, fused[0].MatchedQueryCount)
	assert.Equal(t, []int{0, 1}, fused[0].MatchedQueryIndices)
}

func TestFuseResults_DedupPrefersOriginalEmbedding(t *testing.T) {
	lists := [][]*core.SearchResult{
		{result(42, 0.9, true)},
		{result(42, 0.7, false)},
	}

	fused := FuseResults(lists, 60, 10)
	require.Len(t, fused, 1)

	// Both appearances contribute to the fused score, but the surviving
	// representative is the message's own embedding.
	assert.False(t, fused[0].QuestionEmbedding())
	assert.InDelta(t, float32(0.7), fused[0].Similarity, 1e-6)
	assert.Equal(t, 2, fused[0].MatchedQueryCount)
}

func TestFuseResults_Idempotent(t *testing.T) {
	lists := [][]*core.SearchResult{
		{result(1, 0.9, false), result(2, 0.85, true), result(3, 0.8, false)},
		{result(3, 0.82, false), result(2, 0.8, false)},
	}

	first := FuseResults(lists, 60, 10)
	second := FuseResults(lists, 60, 10)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].MessageID, second[i].MessageID)
		assert.Equal(t, first[i].FusedScore, second[i].FusedScore)
		assert.Equal(t, first[i].MatchedQueryIndices, second[i].MatchedQueryIndices)
	}
}

func TestFuseResults_LimitCapsOutput(t *testing.T) {
	list := make([]*core.SearchResult, 20)
	for i := range list {
		list[i] = result(int64(i+1), 0.9, false)
	}

	fused := FuseResults([][]*core.SearchResult{list}, 60, 5)
	assert.Len(t, fused, 5)
}

func TestFuseResults_TieBreakBySimilarityThenKind(t *testing.T) {
	// Same rank in separate lists gives identical fused scores.
	lists := [][]*core.SearchResult{
		{result(10, 0.6, false)},
		{result(20, 0.9, false)},
		{result(30, 0.9, true)},
	}

	fused := FuseResults(lists, 60, 10)
	require.Len(t, fused, 3)
	assert.Equal(t, int64(20), fused[0].MessageID)
	assert.Equal(t, int64(30), fused[1].MessageID)
	assert.Equal(t, int64(10), fused[2].MessageID)
}

func TestFuseResults_EmptyInput(t *testing.T) {
	assert.Empty(t, FuseResults(nil, 60, 10))
	assert.Empty(t, FuseResults([][]*core.SearchResult{{}, {}}, 60, 10))
}
