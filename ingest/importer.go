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


package ingest

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/veridian-systems/recollect/storage"
)

// Importer bulk-loads exported chat history into storage. Batches are
// written concurrently through a worker pool. Importing never embeds
// anything: the indexing pipeline picks the new messages up on its next
// tick.
type Importer struct {
	messages  storage.MessageRepository
	pool      *ants.Pool
	batchSize int
	logger    *slog.Logger
}

// Option configures an Importer.
type Option func(*Importer) error

// WithPoolSize sets the worker pool size for concurrent batch writes.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(i *Importer) error {
		if size < 1 {
			size = 1
		}
		if i.pool != nil {
			i.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		i.pool = pool
		return nil
	}
}

// WithBatchSize sets how many messages each storage write carries.
func WithBatchSize(size int) Option {
	return func(i *Importer) error {
		if size > 0 {
			i.batchSize = size
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(i *Importer) error {
		if logger == nil {
			logger = slog.Default()
		}
		i.logger = logger
		return nil
	}
}

// NewImporter creates a new importer.
func NewImporter(messages storage.MessageRepository, opts ...Option) (*Importer, error) {
	if messages == nil {
		return nil, ErrMessageRepositoryRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	i := &Importer{
		messages:  messages,
		pool:      pool,
		batchSize: 500,
		logger:    slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(i); err != nil {
			i.Release()
			return nil, err
		}
	}

	return i, nil
}

// Import writes the export's messages and returns how many were stored.
// Batches run concurrently; the first write error is returned after all
// in-flight batches finish, so a failed import never leaves the pool busy.
func (i *Importer) Import(ctx context.Context, export *ExportFile) (int, error) {
	msgs := export.toMessages()
	if len(msgs) == 0 {
		return 0, nil
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		stored   int
	)

	for start := 0; start < len(msgs); start += i.batchSize {
		end := start + i.batchSize
		if end > len(msgs) {
			end = len(msgs)
		}
		batch := msgs[start:end]

		wg.Add(1)
		submitErr := i.pool.Submit(func() {
			defer wg.Done()

			if err := i.messages.AddMessages(ctx, batch...); err != nil {
				i.logger.Error("failed to store import batch", "size", len(batch), "err", err)
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}

			mu.Lock()
			stored += len(batch)
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = submitErr
			}
			mu.Unlock()
			break
		}
	}

	wg.Wait()

	if firstErr != nil {
		return stored, firstErr
	}

	i.logger.Info("import complete", "chatID", export.ChatID, "messages", stored)
	return stored, nil
}

// Release releases the worker pool.
// The importer should not be used after calling Release.
func (i *Importer) Release() {
	if i.pool != nil {
		i.pool.Release()
	}
}
