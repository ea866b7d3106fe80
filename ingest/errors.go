package ingest

import "errors"

var (
	// ErrMessageRepositoryRequired is returned when a message repository is not provided.
	ErrMessageRepositoryRequired = errors.New("message repository required")

	// ErrMissingChatID is returned when an export file has no chat id.
	ErrMissingChatID = errors.New("export file missing chat id")
)
