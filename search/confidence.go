package search

import (
	"fmt"
	"slices"

	"github.com/veridian-systems/recollect/core"
)

// AssessConfidence grades a fused result list into a SearchResponse.
//
// The verdict is a hard gate for the caller: None means the results must not
// reach the answer generator, Low means an uncertainty caveat should be
// attached. bestScore is the top result's raw similarity; scoreGap is the
// distance to the 5th-best similarity and signals whether the top match
// dominates or the field is ambiguous.
func AssessConfidence(results []*core.FusedSearchResult, keywordQueryIndex int, config *Config) *core.SearchResponse {
	if len(results) == 0 {
		return &core.SearchResponse{
			Results:          []*core.FusedSearchResult{},
			Confidence:       core.ConfidenceNone,
			ConfidenceReason: "no results matched the query",
		}
	}

	top := results[0]
	bestScore := top.Similarity

	var scoreGap float32
	if len(results) >= 5 {
		scoreGap = bestScore - results[4].Similarity
	}

	hasFullTextMatch := keywordQueryIndex >= 0 &&
		slices.Contains(top.MatchedQueryIndices, keywordQueryIndex)

	confidence, reason := gradeConfidence(bestScore, top.MatchedQueryCount, config)

	return &core.SearchResponse{
		Results:          results,
		Confidence:       confidence,
		ConfidenceReason: reason,
		BestScore:        bestScore,
		ScoreGap:         scoreGap,
		HasFullTextMatch: hasFullTextMatch,
	}
}

func gradeConfidence(bestScore float32, topMatchedQueries int, config *Config) (core.Confidence, string) {
	if bestScore < config.LowThreshold {
		return core.ConfidenceLow,
			fmt.Sprintf("best similarity %.2f below threshold %.2f", bestScore, config.LowThreshold)
	}
	if topMatchedQueries <= 1 {
		return core.ConfidenceLow, "top result matched only one query variant"
	}
	if bestScore >= config.HighThreshold {
		return core.ConfidenceHigh,
			fmt.Sprintf("best similarity %.2f with corroboration from %d query variants", bestScore, topMatchedQueries)
	}
	return core.ConfidenceMedium,
		fmt.Sprintf("moderate similarity %.2f corroborated by %d query variants", bestScore, topMatchedQueries)
}
