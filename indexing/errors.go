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
	"errors"

	"github.com/veridian-systems/recollect/ai"
)

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrHandlerRequired is returned when a nil handler is passed to the
	// batch processor.
	ErrHandlerRequired = errors.New("handler required")

	// ErrRateLimitBudgetExhausted is returned when one batch stays
	// rate-limited through every allowed retry.
	ErrRateLimitBudgetExhausted = errors.New("rate limit retry budget exhausted")
)

// IsRateLimited reports whether err is a rate-limit-class provider error,
// the one error class the batch processor retries instead of aborting on.
func IsRateLimited(err error) bool {
	return errors.Is(err, ai.ErrRateLimited)
}
