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
	"context"
	"log/slog"
	"strings"

	"github.com/veridian-systems/recollect/ai"
	"github.com/veridian-systems/recollect/core"
	"github.com/veridian-systems/recollect/storage"
)

// Engine is the fusion search engine: it expands a question into query
// variants, fans retrieval out against the store, fuses the ranked lists
// with reciprocal rank fusion, and grades the merged result with a
// confidence verdict.
type Engine struct {
	messages   storage.MessageRepository
	embeddings storage.EmbeddingRepository
	expander   *Expander
	retriever  *Retriever
	assembler  *WindowAssembler
	config     *Config
	logger     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithConfig replaces the default configuration.
func WithConfig(config *Config) Option {
	return func(e *Engine) error {
		if config == nil {
			config = DefaultConfig()
		}
		if err := config.Validate(); err != nil {
			return err
		}
		e.config = config
		return nil
	}
}

// NewEngine creates a new fusion search engine.
func NewEngine(
	messages storage.MessageRepository,
	embeddings storage.EmbeddingRepository,
	provider ai.Provider,
	opts ...Option,
) (*Engine, error) {
	if messages == nil {
		return nil, ErrMessageRepositoryRequired
	}
	if embeddings == nil {
		return nil, ErrEmbeddingRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	e := &Engine{
		messages:   messages,
		embeddings: embeddings,
		config:     DefaultConfig(),
		logger:     slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	e.expander = NewExpander(e.config.MaxVariants)
	e.retriever = newRetriever(messages, embeddings, provider.Embedder(), e.config, e.logger)
	e.assembler = newWindowAssembler(messages, e.logger)

	return e, nil
}

// Search answers a free-text question against one chat's archive.
// chatID 0 searches across all chats.
//
// A failed search never propagates retrieval errors: the response degrades
// to confidence None with a reason string so the caller can pick a safe
// fallback. The returned error is non-nil only for context cancellation.
func (e *Engine) Search(ctx context.Context, chatID int64, question string) (*core.SearchResponse, error) {
	return e.SearchWithMonitor(ctx, chatID, question, nil, nil)
}

// SearchClassified is Search with an optional upstream query classification.
// Entities from the classification join the keyword filter; classification
// is never required for fusion to function.
func (e *Engine) SearchClassified(ctx context.Context, chatID int64, question string, classified *core.ClassifiedQuery) (*core.SearchResponse, error) {
	return e.SearchWithMonitor(ctx, chatID, question, classified, nil)
}

// SearchWithMonitor runs a search with monitoring callbacks at each stage.
func (e *Engine) SearchWithMonitor(ctx context.Context, chatID int64, question string, classified *core.ClassifiedQuery, monitor SearchMonitor) (*core.SearchResponse, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(question)

	question = strings.TrimSpace(question)
	if question == "" {
		response := noneResponse("empty question")
		monitor.Finish(response)
		return response, nil
	}

	// 1. Expand the question into variants and a keyword filter
	variants := e.expander.Expand(question)
	keywords := e.expander.ExtractKeywords(question)
	keywords = mergeEntities(keywords, classified)
	monitor.AfterExpansion(variants, keywords)

	if len(variants) == 0 && keywords == "" {
		response := noneResponse("question has no significant words")
		monitor.Finish(response)
		return response, nil
	}

	// 2. Fan retrieval out over all contributing queries
	set, err := e.retriever.Retrieve(ctx, chatID, question, variants, keywords)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		e.logger.Error("retrieval failed", "chatID", chatID, "err", err)
		response := noneResponse("retrieval failed: " + err.Error())
		monitor.Finish(response)
		return response, nil
	}
	for i, list := range set.lists {
		monitor.AfterRetrieval(i, list)
	}

	// 3. Fuse and deduplicate
	fused := FuseResults(set.lists, e.config.RRFConstant, e.config.ResultLimit)
	monitor.AfterFusion(fused)

	// 4. Grade confidence
	response := AssessConfidence(fused, set.keywordIndex, e.config)
	monitor.Finish(response)

	e.logger.Debug("search complete",
		"chatID", chatID,
		"variants", len(variants),
		"results", len(response.Results),
		"confidence", response.Confidence.String())

	return response, nil
}

// GetMergedContextWindows expands matched messages into merged conversation
// windows. windowSize <= 0 falls back to the configured default.
func (e *Engine) GetMergedContextWindows(ctx context.Context, chatID int64, messageIDs []int64, windowSize int) ([]*core.ContextWindow, error) {
	if windowSize <= 0 {
		windowSize = e.config.WindowSize
	}
	return e.assembler.GetMergedContextWindows(ctx, chatID, messageIDs, windowSize)
}

// FormatWindows renders windows with the configured text budgets.
func (e *Engine) FormatWindows(windows []*core.ContextWindow) string {
	return e.assembler.FormatWindows(windows, e.config.CenterTextLimit, e.config.ContextTextLimit)
}

func noneResponse(reason string) *core.SearchResponse {
	return &core.SearchResponse{
		Results:          []*core.FusedSearchResult{},
		Confidence:       core.ConfidenceNone,
		ConfidenceReason: reason,
	}
}

// mergeEntities appends classification entities to the keyword filter,
// skipping duplicates and empty strings.
func mergeEntities(keywords string, classified *core.ClassifiedQuery) string {
	if classified == nil || len(classified.Entities) == 0 {
		return keywords
	}

	existing := make(map[string]bool)
	parts := strings.Fields(keywords)
	for _, p := range parts {
		existing[p] = true
	}
	for _, entity := range classified.Entities {
		entity = strings.ToLower(strings.TrimSpace(entity))
		if entity == "" || existing[entity] {
			continue
		}
		existing[entity] = true
		parts = append(parts, entity)
	}
	return strings.Join(parts, " ")
}
