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


package badger

import (
	"context"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/veridian-systems/recollect/core"
	"github.com/veridian-systems/recollect/storage"
)

// MessageRepository implements storage.MessageRepository for BadgerDB.
type MessageRepository struct {
	backend *Backend
}

var _ storage.MessageRepository = (*MessageRepository)(nil)

// NewMessageRepository creates a message repository over the given backend.
func NewMessageRepository(backend *Backend) (storage.MessageRepository, error) {
	if backend == nil {
		return nil, storage.ErrInvalidQuery
	}
	return &MessageRepository{backend: backend}, nil
}

// Close releases repository resources. The backend is closed separately.
func (r *MessageRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *MessageRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddMessages adds one or more chat messages to storage.
func (r *MessageRepository) AddMessages(ctx context.Context, msgs ...*core.ChatMessage) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, msg := range msgs {
			if err := core.ValidateChatMessage(msg); err != nil {
				return err
			}

			key := makeMessageKey(msg.ChatID, msg.MessageID)
			if err := tx.Set(key, storage.MarshalChatMessage(msg)); err != nil {
				return err
			}

			dateKey := makeMessageDateKey(msg.ChatID, msg.DateUTC, msg.MessageID)
			if err := tx.Set(dateKey, key); err != nil {
				return err
			}

			if err := tx.Set(makeChatMarkerKey(msg.ChatID), nil); err != nil {
				return err
			}

			// Only messages with text are embeddable.
			if msg.Text != "" {
				for _, kind := range []core.EmbeddingKind{core.EmbeddingKindMessage, core.EmbeddingKindQuestion} {
					if err := tx.Set(makePendingKey(kind, msg.ChatID, msg.MessageID), nil); err != nil {
						return err
					}
				}
			}
		}
		return tx.Commit()
	}, true)
}

// GetMessage retrieves a single message.
func (r *MessageRepository) GetMessage(ctx context.Context, chatID, messageID int64) (*core.ChatMessage, error) {
	var msg *core.ChatMessage
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeMessageKey(chatID, messageID))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var umErr error
			msg, umErr = storage.UnmarshalChatMessage(val)
			return umErr
		})
	}, false)
	return msg, err
}

// chatMessagesOrdered loads every message of a chat via the date index,
// ordered by DateUTC ascending.
func (r *MessageRepository) chatMessagesOrdered(tx *badger.Txn, chatID int64) ([]*core.ChatMessage, error) {
	prefix := makeMessageDatePrefix(chatID)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix

	var msgs []*core.ChatMessage
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		var msgKey []byte
		if err := iter.Item().Value(func(val []byte) error {
			msgKey = append([]byte(nil), val...)
			return nil
		}); err != nil {
			return nil, err
		}

		item, err := tx.Get(msgKey)
		if err != nil {
			if err == badger.ErrKeyNotFound {
				// Stale index entry from an edit; skip.
				continue
			}
			return nil, err
		}
		var msg *core.ChatMessage
		if err := item.Value(func(val []byte) error {
			var umErr error
			msg, umErr = storage.UnmarshalChatMessage(val)
			return umErr
		}); err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// GetMessagesAround returns the target message with its surrounding
// non-empty-text neighbours, ordered by DateUTC ascending.
func (r *MessageRepository) GetMessagesAround(ctx context.Context, chatID, messageID int64, before, after int) ([]*core.ChatMessage, error) {
	var result []*core.ChatMessage
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		msgs, err := r.chatMessagesOrdered(tx, chatID)
		if err != nil {
			return err
		}

		target := -1
		textual := make([]*core.ChatMessage, 0, len(msgs))
		for _, m := range msgs {
			if m.MessageID == messageID {
				target = len(textual)
				textual = append(textual, m)
				continue
			}
			if m.Text != "" {
				textual = append(textual, m)
			}
		}
		if target < 0 {
			return storage.ErrNotFound
		}

		lo := target - before
		if lo < 0 {
			lo = 0
		}
		hi := target + after + 1
		if hi > len(textual) {
			hi = len(textual)
		}
		result = append(result, textual[lo:hi]...)
		return nil
	}, false)
	return result, err
}

// GetMessagesByDateRange retrieves a chat's messages with start <= DateUTC < end.
func (r *MessageRepository) GetMessagesByDateRange(ctx context.Context, chatID int64, start, end time.Time) ([]*core.ChatMessage, error) {
	var result []*core.ChatMessage
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		msgs, err := r.chatMessagesOrdered(tx, chatID)
		if err != nil {
			return err
		}
		for _, m := range msgs {
			if m.DateUTC.Before(start) || !m.DateUTC.Before(end) {
				continue
			}
			result = append(result, m)
		}
		return nil
	}, false)
	return result, err
}

// DistinctChatIDs enumerates every chat with at least one stored message.
func (r *MessageRepository) DistinctChatIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chatMarkerPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()
		for iter.Rewind(); iter.Valid(); iter.Next() {
			if raw, ok := parseUint64Suffix(iter.Item().Key()); ok {
				ids = append(ids, int64(raw))
			}
		}
		return nil
	}, false)
	return ids, err
}

// CountMessages returns the number of stored messages with non-empty text.
func (r *MessageRepository) CountMessages(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(messagePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()
		for iter.Rewind(); iter.Valid(); iter.Next() {
			var msg *core.ChatMessage
			if err := iter.Item().Value(func(val []byte) error {
				var umErr error
				msg, umErr = storage.UnmarshalChatMessage(val)
				return umErr
			}); err != nil {
				return err
			}
			if msg.Text != "" {
				count++
			}
		}
		return nil
	}, false)
	return count, err
}

// LatestMessageTime returns the DateUTC of the chat's most recent message.
func (r *MessageRepository) LatestMessageTime(ctx context.Context, chatID int64) (time.Time, error) {
	var latest time.Time
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		msgs, err := r.chatMessagesOrdered(tx, chatID)
		if err != nil {
			return err
		}
		if len(msgs) > 0 {
			latest = msgs[len(msgs)-1].DateUTC
		}
		return nil
	}, false)
	return latest, err
}

// GetPendingEmbedding returns up to limit messages lacking an embedding of the kind.
func (r *MessageRepository) GetPendingEmbedding(ctx context.Context, kind core.EmbeddingKind, limit int) ([]*core.ChatMessage, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}
	var result []*core.ChatMessage
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePendingPrefix(kind)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()
		for iter.Rewind(); iter.Valid() && len(result) < limit; iter.Next() {
			chatID, messageID, ok := parsePendingKey(iter.Item().Key())
			if !ok {
				continue
			}
			item, err := tx.Get(makeMessageKey(chatID, messageID))
			if err != nil {
				if err == badger.ErrKeyNotFound {
					continue
				}
				return err
			}
			var msg *core.ChatMessage
			if err := item.Value(func(val []byte) error {
				var umErr error
				msg, umErr = storage.UnmarshalChatMessage(val)
				return umErr
			}); err != nil {
				return err
			}
			result = append(result, msg)
		}
		return nil
	}, false)
	return result, err
}

// CountPendingEmbedding counts messages lacking an embedding of the kind.
func (r *MessageRepository) CountPendingEmbedding(ctx context.Context, kind core.EmbeddingKind) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePendingPrefix(kind)
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

// MarkEmbedded clears the pending-embedding entry without storing a vector.
func (r *MessageRepository) MarkEmbedded(ctx context.Context, kind core.EmbeddingKind, chatID, messageID int64) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		err := tx.Delete(makePendingKey(kind, chatID, messageID))
		if err != nil && err != badger.ErrKeyNotFound {
			return err
		}
		return tx.Commit()
	}, true)
}

// SearchText returns the chat's messages containing every keyword, most recent first.
func (r *MessageRepository) SearchText(ctx context.Context, chatID int64, keywords []string, limit int) ([]*core.SearchResult, error) {
	if len(keywords) == 0 || limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}
	folded := make([]string, len(keywords))
	for i, kw := range keywords {
		folded[i] = strings.ToLower(kw)
	}

	var chats []int64
	if chatID != 0 {
		chats = []int64{chatID}
	} else {
		var err error
		chats, err = r.DistinctChatIDs(ctx)
		if err != nil {
			return nil, err
		}
	}

	var results []*core.SearchResult
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, cid := range chats {
			msgs, err := r.chatMessagesOrdered(tx, cid)
			if err != nil {
				return err
			}
			// Most recent first
			for i := len(msgs) - 1; i >= 0 && len(results) < limit; i-- {
				msg := msgs[i]
				if msg.Text == "" || !matchesAllKeywords(msg.Text, folded) {
					continue
				}
				results = append(results, &core.SearchResult{
					ChatID:     msg.ChatID,
					MessageID:  msg.MessageID,
					ChunkText:  msg.Text,
					Similarity: 1.0,
					IsNewsDump: msg.IsNewsDump,
				})
			}
		}
		return nil
	}, false)
	return results, err
}

// matchesAllKeywords reports whether the case-folded text contains every keyword.
func matchesAllKeywords(text string, foldedKeywords []string) bool {
	folded := strings.ToLower(text)
	for _, kw := range foldedKeywords {
		if !strings.Contains(folded, kw) {
			return false
		}
	}
	return true
}
