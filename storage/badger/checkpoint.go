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
	"encoding/binary"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/veridian-systems/recollect/storage"
)

// CheckpointRepository implements storage.CheckpointRepository for BadgerDB.
type CheckpointRepository struct {
	backend *Backend
}

var _ storage.CheckpointRepository = (*CheckpointRepository)(nil)

// NewCheckpointRepository creates a new CheckpointRepository.
func NewCheckpointRepository(backend *Backend) *CheckpointRepository {
	return &CheckpointRepository{backend: backend}
}

// WindowCheckpoint retrieves the chat's window-sweep checkpoint.
// Returns the zero time if the chat was never swept.
func (r *CheckpointRepository) WindowCheckpoint(ctx context.Context, chatID int64) (time.Time, error) {
	var covered time.Time
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeCheckpointKey(chatID))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) != 8 {
				return storage.ErrSerializationFailed
			}
			covered = time.UnixMicro(int64(binary.BigEndian.Uint64(val))).UTC()
			return nil
		})
	}, false)
	return covered, err
}

// SaveWindowCheckpoint persists the chat's window-sweep checkpoint.
func (r *CheckpointRepository) SaveWindowCheckpoint(ctx context.Context, chatID int64, covered time.Time) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], uint64(covered.UnixMicro()))
		if err := tx.Set(makeCheckpointKey(chatID), buf[:]); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
