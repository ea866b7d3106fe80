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


// Package recollect is the retrieval backbone of a chat-grounded assistant:
// an archive of chat messages, a fusion search engine over it, and an
// indexing pipeline keeping the vector index current.
package recollect

import (
	"context"
	"log/slog"

	"github.com/veridian-systems/recollect/ai"
	"github.com/veridian-systems/recollect/ai/openai"
	"github.com/veridian-systems/recollect/core"
	"github.com/veridian-systems/recollect/indexing"
	"github.com/veridian-systems/recollect/ingest"
	"github.com/veridian-systems/recollect/search"
	"github.com/veridian-systems/recollect/storage"
	"github.com/veridian-systems/recollect/storage/badger"
)

// Archive bundles the storage backend, AI provider, search engine, and
// indexing orchestrator behind one handle.
type Archive struct {
	backend      *badger.Backend
	messageRepo  storage.MessageRepository
	embedRepo    storage.EmbeddingRepository
	ckptRepo     storage.CheckpointRepository
	provider     ai.Provider
	engine       *search.Engine
	orchestrator *indexing.Orchestrator
	logger       *slog.Logger
}

// ArchiveOption configures an Archive.
type ArchiveOption func(*archiveOptions)

type archiveOptions struct {
	aiConfig       *ai.Config
	searchConfig   *search.Config
	indexingConfig *indexing.Config
	provider       ai.Provider
	logger         *slog.Logger
}

// WithAIConfig sets the AI provider configuration.
func WithAIConfig(config *ai.Config) ArchiveOption {
	return func(o *archiveOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithSearchConfig sets the search engine configuration.
func WithSearchConfig(config *search.Config) ArchiveOption {
	return func(o *archiveOptions) {
		if config != nil {
			o.searchConfig = config
		}
	}
}

// WithIndexingConfig sets the indexing pipeline configuration.
func WithIndexingConfig(config *indexing.Config) ArchiveOption {
	return func(o *archiveOptions) {
		if config != nil {
			o.indexingConfig = config
		}
	}
}

// WithProvider replaces the OpenAI-compatible provider, bypassing
// WithAIConfig. Used by tests to inject mocks.
func WithProvider(provider ai.Provider) ArchiveOption {
	return func(o *archiveOptions) {
		o.provider = provider
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ArchiveOption {
	return func(o *archiveOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Open opens (creating if needed) the archive at filePath. An empty
// filePath opens an in-memory archive, useful for tests.
func Open(filePath string, opts ...ArchiveOption) (*Archive, error) {
	options := &archiveOptions{
		aiConfig:       ai.DefaultConfig(),
		searchConfig:   search.DefaultConfig(),
		indexingConfig: indexing.DefaultConfig(),
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, filePath == "")
	if err != nil {
		return nil, err
	}

	messageRepo, err := badger.NewMessageRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	embedRepo, err := badger.NewEmbeddingRepository(backend)
	if err != nil {
		messageRepo.Close()
		backend.Close()
		return nil, err
	}

	ckptRepo := badger.NewCheckpointRepository(backend)

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			messageRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	engine, err := search.NewEngine(messageRepo, embedRepo, provider,
		search.WithConfig(options.searchConfig),
		search.WithLogger(options.logger))
	if err != nil {
		provider.Close()
		messageRepo.Close()
		backend.Close()
		return nil, err
	}

	orchestrator, err := indexing.NewOrchestrator(messageRepo, embedRepo, ckptRepo, provider,
		indexing.WithConfig(options.indexingConfig),
		indexing.WithLogger(options.logger))
	if err != nil {
		provider.Close()
		messageRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Archive{
		backend:      backend,
		messageRepo:  messageRepo,
		embedRepo:    embedRepo,
		ckptRepo:     ckptRepo,
		provider:     provider,
		engine:       engine,
		orchestrator: orchestrator,
		logger:       options.logger,
	}, nil
}

// Search answers a question against the archive. chatID 0 searches all chats.
func (a *Archive) Search(ctx context.Context, chatID int64, question string) (*core.SearchResponse, error) {
	return a.engine.Search(ctx, chatID, question)
}

// SearchClassified is Search with an optional upstream query classification.
func (a *Archive) SearchClassified(ctx context.Context, chatID int64, question string, classified *core.ClassifiedQuery) (*core.SearchResponse, error) {
	return a.engine.SearchClassified(ctx, chatID, question, classified)
}

// GetMergedContextWindows expands matched messages into merged windows.
func (a *Archive) GetMergedContextWindows(ctx context.Context, chatID int64, messageIDs []int64, windowSize int) ([]*core.ContextWindow, error) {
	return a.engine.GetMergedContextWindows(ctx, chatID, messageIDs, windowSize)
}

// FormatWindows renders windows as the text handed to an answer generator.
func (a *Archive) FormatWindows(windows []*core.ContextWindow) string {
	return a.engine.FormatWindows(windows)
}

// RunIndexingTick runs every enabled indexing handler once and reports
// whether more work remains.
func (a *Archive) RunIndexingTick(ctx context.Context) bool {
	return a.orchestrator.RunTick(ctx)
}

// RunIndexing loops indexing ticks until the context is cancelled, with
// short delays while work remains and long ones when idle.
func (a *Archive) RunIndexing(ctx context.Context) error {
	return a.orchestrator.Run(ctx)
}

// GetIndexingStats reports per-handler indexing stats keyed by handler name.
func (a *Archive) GetIndexingStats(ctx context.Context) (map[string]*core.IndexingStats, error) {
	return a.orchestrator.GetStats(ctx)
}

// NewImporter creates a bulk importer writing into this archive.
func (a *Archive) NewImporter(opts ...ingest.Option) (*ingest.Importer, error) {
	return ingest.NewImporter(a.messageRepo, opts...)
}

// MessageRepository exposes the underlying message store.
func (a *Archive) MessageRepository() storage.MessageRepository {
	return a.messageRepo
}

// EmbeddingRepository exposes the underlying vector store.
func (a *Archive) EmbeddingRepository() storage.EmbeddingRepository {
	return a.embedRepo
}

// Close releases the provider, repositories, and backend.
func (a *Archive) Close() error {
	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing AI provider", "err", err)
	}

	if err := a.embedRepo.Close(); err != nil {
		a.logger.Error("error closing embedding repository", "err", err)
		return err
	}
	if err := a.messageRepo.Close(); err != nil {
		a.logger.Error("error closing message repository", "err", err)
		return err
	}
	if err := a.backend.Close(); err != nil {
		a.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}
