package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand_Empty(t *testing.T) {
	e := NewExpander(3)

	assert.Empty(t, e.Expand(""))
	assert.Empty(t, e.Expand("   \t\n"))
	assert.Empty(t, e.Expand("ты и я"))
}

func TestExpand_VariantCap(t *testing.T) {
	e := NewExpander(3)

	questions := []string{
		"где находится офис компании после переезда",
		"what database does the backend use",
		"когда собрание",
		"deploy",
	}
	for _, q := range questions {
		variants := e.Expand(q)
		assert.LessOrEqual(t, len(variants), 3, "question %q", q)
	}
}

func TestExpand_VariantsUseOnlyQuestionWords(t *testing.T) {
	e := NewExpander(3)

	question := "Где находится офис компании после переезда?"
	allowed := make(map[string]bool)
	for _, w := range significantWords(question) {
		allowed[w] = true
	}

	for _, variant := range e.Expand(question) {
		for _, w := range strings.Fields(variant) {
			assert.True(t, allowed[w], "variant word %q not from question", w)
		}
	}
}

func TestExpand_Permutations(t *testing.T) {
	e := NewExpander(3)

	variants := e.Expand("офис компании переезд")
	require.Len(t, variants, 3)
	assert.Equal(t, "офис компании переезд", variants[0])
	assert.Equal(t, "переезд компании офис", variants[1])
	assert.Equal(t, "офис компании", variants[2])
}

func TestExpand_SingleSignificantWord(t *testing.T) {
	e := NewExpander(3)

	// "для", "чего" and "ты" are stop words; only "создан" is significant.
	variants := e.Expand("для чего ты создан?")
	require.Len(t, variants, 1)
	assert.Equal(t, "создан", variants[0])
}

func TestExtractKeywords(t *testing.T) {
	e := NewExpander(3)

	t.Run("russian question", func(t *testing.T) {
		keywords := e.ExtractKeywords("для чего ты создан?")
		assert.Equal(t, "создан", keywords)
	})

	t.Run("no stemming or semantic expansion", func(t *testing.T) {
		keywords := e.ExtractKeywords("цели существования")
		assert.NotContains(t, keywords, "создан")
		assert.Equal(t, "цели существования", keywords)
	})

	t.Run("deduplicates repeated words", func(t *testing.T) {
		keywords := e.ExtractKeywords("deploy deploy deploy now")
		assert.Equal(t, "deploy now", keywords)
	})

	t.Run("empty question", func(t *testing.T) {
		assert.Equal(t, "", e.ExtractKeywords(""))
		assert.Equal(t, "", e.ExtractKeywords("ты и я"))
	})
}

func TestExpand_NoIdentityTermsInjected(t *testing.T) {
	e := NewExpander(3)

	// Self-referential questions only surface identity terms when the
	// question itself contains them verbatim.
	for _, variant := range e.Expand("какие у тебя цели") {
		assert.NotContains(t, variant, "бот")
		assert.NotContains(t, variant, "bot")
	}
}
