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


package mock

import "github.com/veridian-systems/recollect/ai"

// MockProvider is a test double for ai.Provider.
// It aggregates mock embedder and question generator instances.
type MockProvider struct {
	embedder  *MockEmbedder
	questions *MockQuestionGenerator
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.Provider interface for consistency with production constructors.
// Use GetMockEmbedder()/GetMockQuestions() to access concrete types for test assertions.
func NewMockProvider() ai.Provider {
	return &MockProvider{
		embedder:  NewMockEmbedder(),
		questions: NewMockQuestionGenerator(),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
// This allows full control over the behavior of each service. A nil questions
// argument models a provider configured without a generation model.
func NewMockProviderWithServices(embedder *MockEmbedder, questions *MockQuestionGenerator) ai.Provider {
	return &MockProvider{
		embedder:  embedder,
		questions: questions,
	}
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// QuestionGenerator returns the mock question generator.
func (p *MockProvider) QuestionGenerator() ai.QuestionGenerator {
	if p.questions == nil {
		return nil
	}
	return p.questions
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
// This allows tests to check call counts and inject custom behavior.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockQuestions returns the underlying mock question generator for test
// assertions.
func (p *MockProvider) GetMockQuestions() *MockQuestionGenerator {
	return p.questions
}
