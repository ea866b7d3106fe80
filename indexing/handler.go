package indexing

import (
	"context"

	"github.com/veridian-systems/recollect/core"
)

// Handler is a self-contained unit of indexing work for one embedding kind.
// The orchestrator selects handlers into an ordered collection and drives
// each through the batch processor.
//
// Handlers may keep cursor state between ProcessBatch calls (the window
// handler tracks which chat it is sweeping). That state is not safe for
// concurrent use: a handler must be invoked sequentially, one call at a time.
type Handler interface {
	// Name identifies the handler in stats and logs.
	Name() string

	// Enabled reports whether the handler has the services it needs.
	// Disabled handlers are skipped by the orchestrator.
	Enabled() bool

	// Stats reports how much of the handler's work is done. pending == 0
	// means the next ProcessBatch call has nothing to do.
	Stats(ctx context.Context) (*core.IndexingStats, error)

	// ProcessBatch performs one bounded unit of work. processedCount == 0
	// implies HasMoreWork == false; that is the terminal signal for a run.
	ProcessBatch(ctx context.Context, batchSize int) (*core.IndexingResult, error)
}
