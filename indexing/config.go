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
	"fmt"
	"time"
)

// Config holds configuration for the indexing pipeline.
type Config struct {
	// BatchSize is the number of messages processed per batch.
	BatchSize int

	// MaxBatchesPerRun bounds how many batches one handler run may process.
	MaxBatchesPerRun int

	// InterBatchDelay is the courtesy pause between successful batches,
	// the coarse rate limit toward the embedding provider.
	InterBatchDelay time.Duration

	// RateLimitDelay is the base backoff after a rate-limit error.
	// The delay doubles per consecutive rate-limit retry, capped at ten
	// times the base.
	RateLimitDelay time.Duration

	// MaxRateLimitRetries bounds consecutive rate-limit retries of one batch.
	MaxRateLimitRetries int

	// ActiveInterval and IdleInterval are the orchestrator tick delays when
	// work remains versus when the pipeline is caught up.
	ActiveInterval time.Duration
	IdleInterval   time.Duration

	// WindowSpan is the number of messages joined into one sliding-window
	// embedding; WindowStride is how far the window advances between chunks.
	WindowSpan   int
	WindowStride int

	// QuestionsPerMessage caps generated bridge questions per message.
	// Zero disables the question handler.
	QuestionsPerMessage int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:           50,
		MaxBatchesPerRun:    10,
		InterBatchDelay:     500 * time.Millisecond,
		RateLimitDelay:      5 * time.Second,
		MaxRateLimitRetries: 8,
		ActiveInterval:      5 * time.Second,
		IdleInterval:        2 * time.Minute,
		WindowSpan:          6,
		WindowStride:        3,
		QuestionsPerMessage: 3,
	}
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("indexing config: BatchSize must be positive, got %d", c.BatchSize)
	}
	if c.MaxBatchesPerRun <= 0 {
		return fmt.Errorf("indexing config: MaxBatchesPerRun must be positive, got %d", c.MaxBatchesPerRun)
	}
	if c.InterBatchDelay < 0 || c.RateLimitDelay < 0 {
		return fmt.Errorf("indexing config: delays must be non-negative")
	}
	if c.MaxRateLimitRetries <= 0 {
		return fmt.Errorf("indexing config: MaxRateLimitRetries must be positive, got %d", c.MaxRateLimitRetries)
	}
	if c.ActiveInterval <= 0 || c.IdleInterval <= 0 {
		return fmt.Errorf("indexing config: tick intervals must be positive")
	}
	if c.WindowSpan <= 0 {
		return fmt.Errorf("indexing config: WindowSpan must be positive, got %d", c.WindowSpan)
	}
	if c.WindowStride <= 0 || c.WindowStride > c.WindowSpan {
		return fmt.Errorf("indexing config: WindowStride must be in [1,WindowSpan], got %d", c.WindowStride)
	}
	if c.QuestionsPerMessage < 0 {
		return fmt.Errorf("indexing config: QuestionsPerMessage must be non-negative, got %d", c.QuestionsPerMessage)
	}
	return nil
}
