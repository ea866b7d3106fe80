package ai

import "errors"

var (
	// ErrRateLimited indicates the provider rejected a request because of rate
	// limiting. Callers are expected to back off and retry.
	ErrRateLimited = errors.New("rate limited by provider")

	// ErrEmptyInput indicates an empty text was passed for embedding.
	ErrEmptyInput = errors.New("input text is empty")
)
