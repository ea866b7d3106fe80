package search

import (
	"strings"
	"unicode/utf8"
)

// Stop words to skip when extracting significant words. Covers common
// Russian and English pronouns, conjunctions, and particles since the
// archives this engine serves mix both languages.
var stopWords = map[string]bool{
	// English
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true, "what": true, "who": true, "how": true, "why": true,
	"when": true, "where": true, "which": true,
	// Russian
	"и": true, "в": true, "не": true, "на": true, "я": true, "ты": true,
	"он": true, "она": true, "оно": true, "они": true, "мы": true, "вы": true,
	"что": true, "чего": true, "кто": true, "как": true, "где": true, "когда": true,
	"почему": true, "зачем": true, "для": true, "из": true, "за": true, "по": true,
	"был": true, "была": true, "было": true, "были": true, "это": true, "этот": true,
	"эта": true, "эти": true, "тот": true, "так": true, "же": true, "бы": true,
	"ли": true, "то": true, "у": true, "к": true, "о": true, "а": true, "но": true,
	"или": true, "если": true, "чтобы": true, "есть": true, "нет": true, "да": true,
	"все": true, "всё": true, "его": true, "ее": true, "её": true, "их": true,
	"мне": true, "тебе": true, "меня": true, "тебя": true, "себя": true,
}

const minSignificantRunes = 3

// significantWords splits text into words, case-folds and trims punctuation,
// and keeps only words long enough and absent from the stop-word list.
// Order and duplicates follow the input.
func significantWords(text string) []string {
	words := strings.Fields(text)
	filtered := make([]string, 0, len(words))

	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}«»—"))

		if cleaned == "" || stopWords[cleaned] {
			continue
		}
		if utf8.RuneCountInString(cleaned) < minSignificantRunes {
			continue
		}
		filtered = append(filtered, cleaned)
	}

	return filtered
}

// truncateRunes cuts s to at most limit runes, appending an ellipsis when
// anything was removed.
func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "…"
}
