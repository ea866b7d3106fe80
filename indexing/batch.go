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
	"fmt"
	"log/slog"
	"time"
)

// BatchProcessor drives one handler through repeated batches with rate
// limiting and error classification.
//
// The run loop: fetch stats; a zero pending count stops immediately.
// Otherwise batches run up to MaxBatchesPerRun, pausing InterBatchDelay
// between successful ones. A rate-limit error retries the same batch after
// a longer, doubling delay without advancing the batch counter; any other
// error aborts the run for this handler only.
type BatchProcessor struct {
	config *Config
	logger *slog.Logger
}

// NewBatchProcessor creates a batch processor with the given configuration.
func NewBatchProcessor(config *Config, logger *slog.Logger) (*BatchProcessor, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchProcessor{config: config, logger: logger}, nil
}

// Run processes the handler's pending work and reports whether more work
// may remain after the run.
func (p *BatchProcessor) Run(ctx context.Context, handler Handler) (bool, error) {
	if handler == nil {
		return false, ErrHandlerRequired
	}

	stats, err := handler.Stats(ctx)
	if err != nil {
		return false, fmt.Errorf("%s: fetching stats: %w", handler.Name(), err)
	}
	if stats.Pending == 0 {
		p.logger.Debug("no pending work", "handler", handler.Name())
		return false, nil
	}

	p.logger.Info("starting indexing run",
		"handler", handler.Name(),
		"pending", stats.Pending,
		"total", stats.Total)

	rateLimitRetries := 0

	for batch := 0; batch < p.config.MaxBatchesPerRun; {
		if err := ctx.Err(); err != nil {
			return true, err
		}

		result, err := handler.ProcessBatch(ctx, p.config.BatchSize)
		if err != nil {
			if !IsRateLimited(err) {
				return true, fmt.Errorf("%s: batch %d: %w", handler.Name(), batch+1, err)
			}

			// Same batch retries after backoff; the batch counter stays put.
			rateLimitRetries++
			if rateLimitRetries > p.config.MaxRateLimitRetries {
				return true, fmt.Errorf("%s: batch %d: %w", handler.Name(), batch+1, ErrRateLimitBudgetExhausted)
			}
			delay := p.rateLimitBackoff(rateLimitRetries)
			p.logger.Warn("rate limited, backing off",
				"handler", handler.Name(),
				"batch", batch+1,
				"retry", rateLimitRetries,
				"delay", delay)
			if err := sleepContext(ctx, delay); err != nil {
				return true, err
			}
			continue
		}

		rateLimitRetries = 0
		batch++

		p.logger.Debug("batch complete",
			"handler", handler.Name(),
			"batch", batch,
			"processed", result.ProcessedCount,
			"elapsed", result.Elapsed)

		if result.ProcessedCount == 0 || !result.HasMoreWork {
			return false, nil
		}
		if batch == p.config.MaxBatchesPerRun {
			break
		}
		if err := sleepContext(ctx, p.config.InterBatchDelay); err != nil {
			return true, err
		}
	}

	// Batch budget spent with the handler still reporting work.
	return true, nil
}

// rateLimitBackoff doubles the base delay per consecutive retry, capped at
// ten times the base.
func (p *BatchProcessor) rateLimitBackoff(retry int) time.Duration {
	delay := p.config.RateLimitDelay
	for i := 1; i < retry; i++ {
		delay *= 2
		if delay >= 10*p.config.RateLimitDelay {
			return 10 * p.config.RateLimitDelay
		}
	}
	return delay
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
