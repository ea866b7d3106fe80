package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/veridian-systems/recollect/ai"
	"github.com/veridian-systems/recollect/core"
	"github.com/veridian-systems/recollect/storage"
	"golang.org/x/sync/errgroup"
)

// retrievalSet holds the raw per-query ranked lists produced by one fan-out,
// keyed by a stable zero-based query index: 0 is the original question,
// 1..n are the expansion variants, and the last index (when keywords are
// present) is the full-text path. Fusion uses the indices to track which
// queries corroborated each message.
type retrievalSet struct {
	lists        [][]*core.SearchResult
	keywordIndex int
}

// Retriever fans similarity and keyword searches out against the store.
type Retriever struct {
	messages   storage.MessageRepository
	embeddings storage.EmbeddingRepository
	embedder   ai.Embedder
	config     *Config
	logger     *slog.Logger
}

func newRetriever(
	messages storage.MessageRepository,
	embeddings storage.EmbeddingRepository,
	embedder ai.Embedder,
	config *Config,
	logger *slog.Logger,
) *Retriever {
	return &Retriever{
		messages:   messages,
		embeddings: embeddings,
		embedder:   embedder,
		config:     config,
		logger:     logger,
	}
}

// Retrieve runs all contributing queries concurrently and collects their
// ranked lists. A failure on one query degrades that query to an empty list
// rather than aborting the others; only context cancellation stops the
// whole fan-out.
func (r *Retriever) Retrieve(ctx context.Context, chatID int64, question string, variants []string, keywords string) (*retrievalSet, error) {
	queries := make([]string, 0, len(variants)+1)
	queries = append(queries, question)
	queries = append(queries, variants...)

	keywordIndex := -1
	total := len(queries)
	if keywords != "" {
		keywordIndex = total
		total++
	}

	set := &retrievalSet{
		lists:        make([][]*core.SearchResult, total),
		keywordIndex: keywordIndex,
	}

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, r.config.Parallelism)

	for i, q := range queries {
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-gctx.Done():
				return gctx.Err()
			}

			results, err := r.similaritySearch(gctx, chatID, q)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				r.logger.Warn("similarity query failed, degrading", "queryIndex", i, "err", err)
				results = nil
			}
			set.lists[i] = results
			return nil
		})
	}

	if keywordIndex >= 0 {
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-gctx.Done():
				return gctx.Err()
			}

			results, err := r.messages.SearchText(gctx, chatID, strings.Fields(keywords), r.config.TopK)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				r.logger.Warn("full-text query failed, degrading", "queryIndex", keywordIndex, "err", err)
				results = nil
			}
			set.lists[keywordIndex] = results
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return set, nil
}

func (r *Retriever) similaritySearch(ctx context.Context, chatID int64, query string) ([]*core.SearchResult, error) {
	vector, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(vector) == 0 {
		return nil, nil
	}
	return r.embeddings.FindSimilar(ctx, chatID, vector, r.config.MinSimilarity, r.config.TopK)
}
