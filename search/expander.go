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

import "strings"

// Expander turns one question into several structural query variants plus a
// keyword set for full-text filtering.
//
// Expansion is purely structural (word-order permutations and truncations
// over significant words). It never adds terms that are not already in the
// question, so direct questions about the assistant itself are under-served
// unless identity-related words appear verbatim. That is accepted behavior;
// semantic expansion is a separate feature.
type Expander struct {
	maxVariants int
}

// NewExpander creates an expander producing at most maxVariants variants.
func NewExpander(maxVariants int) *Expander {
	if maxVariants < 0 {
		maxVariants = 0
	}
	if maxVariants > 3 {
		maxVariants = 3
	}
	return &Expander{maxVariants: maxVariants}
}

// Expand returns the structural variants of the question, most specific
// first. An empty or whitespace-only question yields no variants.
func (e *Expander) Expand(question string) []string {
	words := significantWords(question)
	if len(words) == 0 || e.maxVariants == 0 {
		return []string{}
	}

	variants := make([]string, 0, e.maxVariants)
	seen := make(map[string]bool, e.maxVariants)
	add := func(v string) {
		if v == "" || seen[v] || len(variants) >= e.maxVariants {
			return
		}
		seen[v] = true
		variants = append(variants, v)
	}

	// Significant words in original order.
	add(strings.Join(words, " "))

	// Reversed word order surfaces matches where the salient term comes last.
	if len(words) >= 2 {
		reversed := make([]string, len(words))
		for i, w := range words {
			reversed[len(words)-1-i] = w
		}
		add(strings.Join(reversed, " "))
	}

	// Truncation drops the last word to loosen an over-constrained question.
	if len(words) >= 3 {
		add(strings.Join(words[:len(words)-1], " "))
	}

	return variants
}

// ExtractKeywords returns the space-joined significant words of the original
// question, for the lexical/full-text search path. It draws only from the
// question itself: no stemming, no semantic expansion.
// Returns "" when the question has no significant words.
func (e *Expander) ExtractKeywords(question string) string {
	words := significantWords(question)
	if len(words) == 0 {
		return ""
	}

	// Deduplicate while preserving first-seen order.
	seen := make(map[string]bool, len(words))
	unique := words[:0]
	for _, w := range words {
		if seen[w] {
			continue
		}
		seen[w] = true
		unique = append(unique, w)
	}
	return strings.Join(unique, " ")
}
