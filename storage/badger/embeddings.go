package badger

import (
	"context"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/veridian-systems/recollect/core"
	"github.com/veridian-systems/recollect/storage"
)

// EmbeddingRepository implements storage.EmbeddingRepository for BadgerDB.
//
// Similarity search is a brute-force scan over stored vectors. The archive
// sizes this store targets (single-digit millions of short messages) keep the
// scan well inside interactive latency on local disks.
type EmbeddingRepository struct {
	backend *Backend
}

var _ storage.EmbeddingRepository = (*EmbeddingRepository)(nil)

// NewEmbeddingRepository creates an embedding repository over the given backend.
func NewEmbeddingRepository(backend *Backend) (storage.EmbeddingRepository, error) {
	if backend == nil {
		return nil, storage.ErrInvalidQuery
	}
	return &EmbeddingRepository{backend: backend}, nil
}

// Close releases repository resources. The backend is closed separately.
func (r *EmbeddingRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *EmbeddingRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// UpsertEmbeddings stores embedding records and clears their pending entries.
func (r *EmbeddingRepository) UpsertEmbeddings(ctx context.Context, embs ...*core.Embedding) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, emb := range embs {
			if err := core.ValidateEmbedding(emb); err != nil {
				return err
			}
			if err := tx.Set(makeEmbeddingKey(emb.Key), storage.MarshalEmbedding(emb)); err != nil {
				return err
			}
			if err := tx.Set(makeEmbeddingKindKey(emb.Kind, emb.Key), nil); err != nil {
				return err
			}
			if err := tx.Delete(makePendingKey(emb.Kind, emb.ChatID, emb.MessageID)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// FindSimilar returns stored embeddings ranked by cosine similarity to the query.
func (r *EmbeddingRepository) FindSimilar(ctx context.Context, chatID int64, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error) {
	if len(vector) == 0 || limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	var results []*core.SearchResult
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(embeddingPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var emb *core.Embedding
			if err := iter.Item().Value(func(val []byte) error {
				var umErr error
				emb, umErr = storage.UnmarshalEmbedding(val)
				return umErr
			}); err != nil {
				return err
			}
			if chatID != 0 && emb.ChatID != chatID {
				continue
			}
			if len(emb.Vector) != len(vector) {
				continue
			}

			// Dot product equals cosine similarity for normalized vectors.
			similarity := dotProduct(vector, emb.Vector)
			if similarity < minSimilarity {
				continue
			}

			results = append(results, &core.SearchResult{
				ChatID:              emb.ChatID,
				MessageID:           emb.MessageID,
				ChunkIndex:          emb.ChunkIndex,
				ChunkText:           emb.Text,
				Similarity:          similarity,
				IsNewsDump:          emb.IsNewsDump,
				IsContextWindow:     emb.Kind == core.EmbeddingKindWindow,
				IsQuestionEmbedding: emb.Kind == core.EmbeddingKindQuestion || emb.ChunkIndex < 0,
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b *core.SearchResult) int {
		if a.Similarity > b.Similarity {
			return -1
		}
		if a.Similarity < b.Similarity {
			return 1
		}
		return 0
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// CountByKind counts stored embeddings of the given kind.
func (r *EmbeddingRepository) CountByKind(ctx context.Context, kind core.EmbeddingKind) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeEmbeddingKindPrefix(kind)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()
		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// dotProduct computes the dot product of two equal-length vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
