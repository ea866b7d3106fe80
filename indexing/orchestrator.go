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


package indexing

import (
	"context"
	"log/slog"

	"github.com/veridian-systems/recollect/ai"
	"github.com/veridian-systems/recollect/core"
	"github.com/veridian-systems/recollect/storage"
)

// Orchestrator runs the indexing handlers once per tick, in dependency
// order: message embeddings come first because window and question
// embeddings are derived from already-stored messages. A failing handler is
// logged and skipped; it never stalls the remaining handlers.
type Orchestrator struct {
	handlers  []Handler
	processor *BatchProcessor
	config    *Config
	logger    *slog.Logger
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// WithConfig replaces the default configuration.
func WithConfig(config *Config) OrchestratorOption {
	return func(o *Orchestrator) error {
		if config == nil {
			config = DefaultConfig()
		}
		if err := config.Validate(); err != nil {
			return err
		}
		o.config = config
		return nil
	}
}

// NewOrchestrator wires the standard handler set in dependency order.
// The question handler joins the set only when the provider carries a
// question generator and the configuration allows bridge questions.
func NewOrchestrator(
	messages storage.MessageRepository,
	embeddings storage.EmbeddingRepository,
	checkpoints storage.CheckpointRepository,
	provider ai.Provider,
	opts ...OrchestratorOption,
) (*Orchestrator, error) {
	o := &Orchestrator{
		config: DefaultConfig(),
		logger: slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	processor, err := NewBatchProcessor(o.config, o.logger)
	if err != nil {
		return nil, err
	}
	o.processor = processor

	embedder := provider.Embedder()
	o.handlers = []Handler{
		NewMessageHandler(messages, embeddings, embedder, o.logger),
		NewWindowHandler(messages, embeddings, checkpoints, embedder,
			o.config.WindowSpan, o.config.WindowStride, o.logger),
		NewQuestionHandler(messages, embeddings, embedder,
			provider.QuestionGenerator(), o.config.QuestionsPerMessage, o.logger),
	}

	return o, nil
}

// NewOrchestratorWithHandlers builds an orchestrator over an explicit
// handler list, preserving the given order. Used by tests and callers with
// custom handler sets.
func NewOrchestratorWithHandlers(handlers []Handler, opts ...OrchestratorOption) (*Orchestrator, error) {
	o := &Orchestrator{
		handlers: handlers,
		config:   DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	processor, err := NewBatchProcessor(o.config, o.logger)
	if err != nil {
		return nil, err
	}
	o.processor = processor
	return o, nil
}

// RunTick runs every enabled handler once and reports whether any handler
// still has work. The caller uses the report to pick the next tick delay.
func (o *Orchestrator) RunTick(ctx context.Context) bool {
	anyMore := false

	for _, handler := range o.handlers {
		if !handler.Enabled() {
			continue
		}
		if ctx.Err() != nil {
			return anyMore
		}

		more, err := o.processor.Run(ctx, handler)
		if err != nil {
			if ctx.Err() != nil {
				return anyMore || more
			}
			o.logger.Error("handler run failed", "handler", handler.Name(), "err", err)
		}
		if more {
			anyMore = true
		}
	}

	return anyMore
}

// Run loops RunTick until the context is cancelled, sleeping ActiveInterval
// between ticks while work remains and IdleInterval once caught up.
func (o *Orchestrator) Run(ctx context.Context) error {
	for {
		hasMore := o.RunTick(ctx)

		delay := o.config.IdleInterval
		if hasMore {
			delay = o.config.ActiveInterval
		}

		if err := sleepContext(ctx, delay); err != nil {
			return err
		}
	}
}

// GetStats collects per-handler indexing stats keyed by handler name.
// Disabled handlers are reported too so operators see the full set.
func (o *Orchestrator) GetStats(ctx context.Context) (map[string]*core.IndexingStats, error) {
	stats := make(map[string]*core.IndexingStats, len(o.handlers))
	for _, handler := range o.handlers {
		s, err := handler.Stats(ctx)
		if err != nil {
			return nil, err
		}
		stats[handler.Name()] = s
	}
	return stats, nil
}
