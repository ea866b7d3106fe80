package mock

import (
	"context"
	"fmt"
	"strings"
)

// MockQuestionGenerator is a test double for ai.QuestionGenerator.
// It allows custom behavior injection via a function field.
type MockQuestionGenerator struct {
	// GenerateQuestionsFunc is called by GenerateQuestions if set.
	// If nil, uses default deterministic behavior.
	GenerateQuestionsFunc func(ctx context.Context, text string, n int) ([]string, error)

	callCount int
}

// NewMockQuestionGenerator creates a mock question generator with default
// deterministic behavior.
// Note: Returns concrete type to allow test assertions via GetMockQuestions().
func NewMockQuestionGenerator() *MockQuestionGenerator {
	return &MockQuestionGenerator{}
}

// GenerateQuestions returns deterministic questions derived from the text.
func (m *MockQuestionGenerator) GenerateQuestions(ctx context.Context, text string, n int) ([]string, error) {
	m.callCount++

	if m.GenerateQuestionsFunc != nil {
		return m.GenerateQuestionsFunc(ctx, text, n)
	}

	// Default: one question per requested slot, built from the first words
	// of the text so the output is stable across runs.
	words := strings.Fields(text)
	subject := "this"
	if len(words) > 0 {
		subject = words[0]
		if len(words) > 1 {
			subject += " " + words[1]
		}
	}

	questions := make([]string, 0, n)
	for i := 0; i < n; i++ {
		questions = append(questions, fmt.Sprintf("What about %s (%d)?", subject, i+1))
	}
	return questions, nil
}

// CallCount returns the number of times GenerateQuestions was called.
func (m *MockQuestionGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and any injected behavior.
func (m *MockQuestionGenerator) Reset() {
	m.callCount = 0
	m.GenerateQuestionsFunc = nil
}
