package indexing

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veridian-systems/recollect/ai"
	"github.com/veridian-systems/recollect/core"
)

// stubHandler drives the batch processor in tests via injected behavior.
type stubHandler struct {
	name        string
	stats       core.IndexingStats
	processFunc func(call int) (*core.IndexingResult, error)

	calls int
}

func (s *stubHandler) Name() string  { return s.name }
func (s *stubHandler) Enabled() bool { return true }

func (s *stubHandler) Stats(ctx context.Context) (*core.IndexingStats, error) {
	stats := s.stats
	return &stats, nil
}

func (s *stubHandler) ProcessBatch(ctx context.Context, batchSize int) (*core.IndexingResult, error) {
	s.calls++
	return s.processFunc(s.calls)
}

func testConfig() *Config {
	config := DefaultConfig()
	config.InterBatchDelay = time.Millisecond
	config.RateLimitDelay = time.Millisecond
	return config
}

func TestRun_NoPendingWorkIsNoOp(t *testing.T) {
	handler := &stubHandler{
		name:  "stub",
		stats: core.IndexingStats{Total: 100, Indexed: 100, Pending: 0},
		processFunc: func(int) (*core.IndexingResult, error) {
			t.Fatal("ProcessBatch must not run when pending is zero")
			return nil, nil
		},
	}

	processor, err := NewBatchProcessor(testConfig(), nil)
	require.NoError(t, err)

	more, err := processor.Run(context.Background(), handler)
	require.NoError(t, err)
	assert.False(t, more)
	assert.Zero(t, handler.calls)
}

func TestRun_StopsWhenHandlerRunsOut(t *testing.T) {
	handler := &stubHandler{
		name:  "stub",
		stats: core.IndexingStats{Total: 10, Indexed: 5, Pending: 5},
		processFunc: func(call int) (*core.IndexingResult, error) {
			if call < 3 {
				return &core.IndexingResult{ProcessedCount: 2, HasMoreWork: true}, nil
			}
			return &core.IndexingResult{ProcessedCount: 1, HasMoreWork: false}, nil
		},
	}

	processor, err := NewBatchProcessor(testConfig(), nil)
	require.NoError(t, err)

	more, err := processor.Run(context.Background(), handler)
	require.NoError(t, err)
	assert.False(t, more)
	assert.Equal(t, 3, handler.calls)
}

func TestRun_RateLimitRetriesSameBatch(t *testing.T) {
	// Batches 1 and 2 succeed; batch 3 is rate limited twice, then succeeds.
	// The retry must re-run batch 3, not skip to batch 4.
	var sequence []string
	batchNo := 0
	handler := &stubHandler{
		name:  "stub",
		stats: core.IndexingStats{Total: 100, Indexed: 0, Pending: 100},
		processFunc: func(call int) (*core.IndexingResult, error) {
			if call == 3 || call == 4 {
				sequence = append(sequence, fmt.Sprintf("rate-limit on batch %d", batchNo+1))
				return nil, fmt.Errorf("embed: %w", ai.ErrRateLimited)
			}
			batchNo++
			sequence = append(sequence, fmt.Sprintf("batch %d", batchNo))
			if batchNo == 4 {
				return &core.IndexingResult{ProcessedCount: 1, HasMoreWork: false}, nil
			}
			return &core.IndexingResult{ProcessedCount: 10, HasMoreWork: true}, nil
		},
	}

	processor, err := NewBatchProcessor(testConfig(), nil)
	require.NoError(t, err)

	more, err := processor.Run(context.Background(), handler)
	require.NoError(t, err)
	assert.False(t, more)
	assert.Equal(t, []string{
		"batch 1",
		"batch 2",
		"rate-limit on batch 3",
		"rate-limit on batch 3",
		"batch 3",
		"batch 4",
	}, sequence)
}

func TestRun_RateLimitBudgetExhausted(t *testing.T) {
	handler := &stubHandler{
		name:  "stub",
		stats: core.IndexingStats{Total: 10, Indexed: 0, Pending: 10},
		processFunc: func(int) (*core.IndexingResult, error) {
			return nil, ai.ErrRateLimited
		},
	}

	config := testConfig()
	config.MaxRateLimitRetries = 3

	processor, err := NewBatchProcessor(config, nil)
	require.NoError(t, err)

	more, err := processor.Run(context.Background(), handler)
	assert.True(t, more)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRateLimitBudgetExhausted)
	assert.Equal(t, 4, handler.calls)
}

func TestRun_OtherErrorAborts(t *testing.T) {
	boom := errors.New("store gone")
	handler := &stubHandler{
		name:  "stub",
		stats: core.IndexingStats{Total: 10, Indexed: 0, Pending: 10},
		processFunc: func(int) (*core.IndexingResult, error) {
			return nil, boom
		},
	}

	processor, err := NewBatchProcessor(testConfig(), nil)
	require.NoError(t, err)

	more, err := processor.Run(context.Background(), handler)
	assert.True(t, more)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, handler.calls)
}

func TestRun_MaxBatchesPerRun(t *testing.T) {
	handler := &stubHandler{
		name:  "stub",
		stats: core.IndexingStats{Total: 1000, Indexed: 0, Pending: 1000},
		processFunc: func(int) (*core.IndexingResult, error) {
			return &core.IndexingResult{ProcessedCount: 10, HasMoreWork: true}, nil
		},
	}

	config := testConfig()
	config.MaxBatchesPerRun = 5

	processor, err := NewBatchProcessor(config, nil)
	require.NoError(t, err)

	more, err := processor.Run(context.Background(), handler)
	require.NoError(t, err)
	assert.True(t, more)
	assert.Equal(t, 5, handler.calls)
}

func TestRun_CancelledBetweenBatches(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	handler := &stubHandler{
		name:  "stub",
		stats: core.IndexingStats{Total: 10, Indexed: 0, Pending: 10},
		processFunc: func(int) (*core.IndexingResult, error) {
			cancel()
			return &core.IndexingResult{ProcessedCount: 1, HasMoreWork: true}, nil
		},
	}

	processor, err := NewBatchProcessor(testConfig(), nil)
	require.NoError(t, err)

	more, err := processor.Run(ctx, handler)
	assert.True(t, more)
	assert.ErrorIs(t, err, context.Canceled)
	// In-flight batch finished; no new batch started after cancellation.
	assert.Equal(t, 1, handler.calls)
}

func TestRun_NilHandler(t *testing.T) {
	processor, err := NewBatchProcessor(testConfig(), nil)
	require.NoError(t, err)

	_, err = processor.Run(context.Background(), nil)
	assert.ErrorIs(t, err, ErrHandlerRequired)
}

func TestRateLimitBackoffCapped(t *testing.T) {
	config := DefaultConfig()
	config.RateLimitDelay = time.Second

	processor, err := NewBatchProcessor(config, nil)
	require.NoError(t, err)

	assert.Equal(t, time.Second, processor.rateLimitBackoff(1))
	assert.Equal(t, 2*time.Second, processor.rateLimitBackoff(2))
	assert.Equal(t, 4*time.Second, processor.rateLimitBackoff(3))
	assert.Equal(t, 8*time.Second, processor.rateLimitBackoff(4))
	assert.Equal(t, 10*time.Second, processor.rateLimitBackoff(5))
	assert.Equal(t, 10*time.Second, processor.rateLimitBackoff(9))
}
