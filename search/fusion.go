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


package search

import (
	"slices"

	"github.com/veridian-systems/recollect/core"
)

// SelectBetterResult picks which of two results for the same message should
// represent it after deduplication.
//
// A question-bridge embedding exists to widen recall for indirect phrasings.
// Once the message is found, downstream consumers need the original text and
// context, so a non-question result wins unconditionally over a question
// result, regardless of similarity. When both sides carry the same flag the
// higher similarity wins; ties keep the first-seen result, which makes the
// choice deterministic.
func SelectBetterResult(current, candidate *core.SearchResult) *core.SearchResult {
	if current == nil {
		return candidate
	}
	if candidate == nil {
		return current
	}

	curQuestion := current.QuestionEmbedding()
	candQuestion := candidate.QuestionEmbedding()
	if curQuestion != candQuestion {
		if candQuestion {
			return current
		}
		return candidate
	}

	if candidate.Similarity > current.Similarity {
		return candidate
	}
	return current
}

// FuseResults merges the per-query ranked lists into one deduplicated list
// using reciprocal rank fusion: each appearance of a message contributes
// 1/(k+rank) to its fused score, where rank is the 1-based position within
// that query's list. Messages surfacing in several lists therefore
// accumulate higher scores than single-list hits at the same ranks.
//
// The output holds one entry per distinct message, sorted by fused score
// descending and capped at limit. Fusing the same lists twice yields the
// same output.
func FuseResults(lists [][]*core.SearchResult, rrfK int, limit int) []*core.FusedSearchResult {
	if rrfK <= 0 {
		rrfK = 60
	}

	fused := make(map[int64]*core.FusedSearchResult)
	order := make([]int64, 0)

	for queryIndex, list := range lists {
		for rank, result := range list {
			if result == nil {
				continue
			}
			score := 1.0 / float64(rrfK+rank+1)

			entry, ok := fused[result.MessageID]
			if !ok {
				entry = &core.FusedSearchResult{SearchResult: *result}
				fused[result.MessageID] = entry
				order = append(order, result.MessageID)
			} else {
				entry.SearchResult = *SelectBetterResult(&entry.SearchResult, result)
			}

			entry.FusedScore += score
			if !slices.Contains(entry.MatchedQueryIndices, queryIndex) {
				entry.MatchedQueryIndices = append(entry.MatchedQueryIndices, queryIndex)
				entry.MatchedQueryCount++
			}
		}
	}

	results := make([]*core.FusedSearchResult, 0, len(fused))
	for _, messageID := range order {
		entry := fused[messageID]
		slices.Sort(entry.MatchedQueryIndices)
		results = append(results, entry)
	}

	slices.SortStableFunc(results, compareFused)

	if len(results) > limit && limit > 0 {
		results = results[:limit]
	}
	return results
}

// compareFused orders fused results: higher fused score first, then higher
// raw similarity, then non-question over question results, then lower
// message id for a deterministic final order.
func compareFused(a, b *core.FusedSearchResult) int {
	switch {
	case a.FusedScore > b.FusedScore:
		return -1
	case a.FusedScore < b.FusedScore:
		return 1
	}
	switch {
	case a.Similarity > b.Similarity:
		return -1
	case a.Similarity < b.Similarity:
		return 1
	}
	aq, bq := a.QuestionEmbedding(), b.QuestionEmbedding()
	if aq != bq {
		if aq {
			return 1
		}
		return -1
	}
	switch {
	case a.MessageID < b.MessageID:
		return -1
	case a.MessageID > b.MessageID:
		return 1
	}
	return 0
}
