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


package search

import "fmt"

// Config holds the tunables of the fusion search engine.
//
// The similarity thresholds and the RRF constant are empirically tuned
// starting points. Calibrate them against a labeled evaluation set before
// trusting the confidence verdicts in production.
type Config struct {
	// TopK is the per-query similarity search depth.
	TopK int

	// ResultLimit caps the fused result list handed back to the caller.
	ResultLimit int

	// RRFConstant is the smoothing constant k in the 1/(k+rank) formula.
	RRFConstant int

	// MinSimilarity filters out weak vector matches before fusion.
	MinSimilarity float32

	// LowThreshold and HighThreshold split the confidence bands.
	// Below LowThreshold the verdict is Low; at or above HighThreshold,
	// with corroboration from a second query variant, it is High.
	LowThreshold  float32
	HighThreshold float32

	// MaxVariants caps structural query expansion to bound fan-out.
	MaxVariants int

	// Parallelism bounds concurrent per-variant store queries.
	Parallelism int

	// WindowSize is the number of messages fetched on each side of a
	// matched message when assembling context windows.
	WindowSize int

	// CenterTextLimit and ContextTextLimit are per-line rune budgets used
	// when rendering windows. The matched message gets the larger budget.
	CenterTextLimit  int
	ContextTextLimit int
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() *Config {
	return &Config{
		TopK:             20,
		ResultLimit:      10,
		RRFConstant:      60,
		MinSimilarity:    0.30,
		LowThreshold:     0.45,
		HighThreshold:    0.75,
		MaxVariants:      3,
		Parallelism:      4,
		WindowSize:       5,
		CenterTextLimit:  500,
		ContextTextLimit: 200,
	}
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.TopK <= 0 {
		return fmt.Errorf("search config: TopK must be positive, got %d", c.TopK)
	}
	if c.ResultLimit <= 0 {
		return fmt.Errorf("search config: ResultLimit must be positive, got %d", c.ResultLimit)
	}
	if c.RRFConstant <= 0 {
		return fmt.Errorf("search config: RRFConstant must be positive, got %d", c.RRFConstant)
	}
	if c.MinSimilarity < 0 || c.MinSimilarity > 1 {
		return fmt.Errorf("search config: MinSimilarity must be in [0,1], got %v", c.MinSimilarity)
	}
	if c.LowThreshold < 0 || c.HighThreshold > 1 || c.LowThreshold > c.HighThreshold {
		return fmt.Errorf("search config: thresholds must satisfy 0 <= low <= high <= 1, got low=%v high=%v",
			c.LowThreshold, c.HighThreshold)
	}
	if c.MaxVariants < 0 || c.MaxVariants > 3 {
		return fmt.Errorf("search config: MaxVariants must be in [0,3], got %d", c.MaxVariants)
	}
	if c.Parallelism <= 0 {
		return fmt.Errorf("search config: Parallelism must be positive, got %d", c.Parallelism)
	}
	if c.WindowSize < 0 {
		return fmt.Errorf("search config: WindowSize must be non-negative, got %d", c.WindowSize)
	}
	if c.CenterTextLimit <= 0 || c.ContextTextLimit <= 0 {
		return fmt.Errorf("search config: text limits must be positive")
	}
	return nil
}
