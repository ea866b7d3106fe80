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


package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/veridian-systems/recollect/ai"
)

const questionSystemPrompt = `You generate retrieval questions for a chat-history search index.
Given a message from a group chat, produce short natural questions that this
message answers. Write each question in the same language as the message.
Respond with a JSON object of the form {"questions": ["...", "..."]} and
nothing else. If the message answers no sensible question, return
{"questions": []}.`

// questionSet is the wrapper structure for the LLM's JSON response.
type questionSet struct {
	Questions []string `json:"questions"`
}

// QuestionGenerator implements ai.QuestionGenerator using OpenAI-compatible
// chat APIs.
type QuestionGenerator struct {
	client llms.Model
	logger *slog.Logger
}

// newQuestionGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newQuestionGenerator(config *ai.Config) (*QuestionGenerator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for chat/generation
	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.GeneratorHost),
		openai.WithToken("none"),
		openai.WithModel(config.GeneratorModel),
	)
	if err != nil {
		return nil, err
	}

	return &QuestionGenerator{
		client: client,
		logger: slog.Default().With("component", "openai-questions"),
	}, nil
}

// NewQuestionGenerator creates a new question generator using the provided
// configuration.
//
// Returns ai.QuestionGenerator interface to enforce abstraction.
func NewQuestionGenerator(config *ai.Config) (ai.QuestionGenerator, error) {
	return newQuestionGenerator(config)
}

// GenerateQuestions returns up to n short questions answerable by text.
func (g *QuestionGenerator) GenerateQuestions(ctx context.Context, text string, n int) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ai.ErrEmptyInput
	}
	if n <= 0 {
		return []string{}, nil
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(fmt.Sprintf("%s\nGenerate at most %d questions.", questionSystemPrompt, n)),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(text),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result questionSet
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := g.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			g.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, classifyError(err)
		}

		if len(response.Choices) < 1 {
			g.logger.Debug("no choices returned from model")
			return []string{}, nil
		}

		// Strip markdown code fences if present
		responseText := strings.TrimSpace(response.Choices[0].Content)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			g.logger.Warn("error parsing question response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		g.logger.Error("failed to parse question response after retries", "err", lastErr)
		return nil, lastErr
	}

	questions := make([]string, 0, n)
	for _, q := range result.Questions {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		questions = append(questions, q)
		if len(questions) == n {
			break
		}
	}
	return questions, nil
}
