package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/veridian-systems/recollect/core"
)

// ExportFile is one chat's exported history, the interchange format the
// importer consumes. Dates are RFC 3339.
type ExportFile struct {
	ChatID   int64           `json:"chat_id"`
	ChatName string          `json:"chat_name,omitempty"`
	Messages []ExportMessage `json:"messages"`
}

// ExportMessage is a single exported message.
type ExportMessage struct {
	ID            int64     `json:"id"`
	FromUserID    int64     `json:"from_user_id"`
	Author        string    `json:"author"`
	Text          string    `json:"text"`
	Date          time.Time `json:"date"`
	Forwarded     bool      `json:"forwarded,omitempty"`
	ForwardedFrom string    `json:"forwarded_from,omitempty"`
	NewsDump      bool      `json:"news_dump,omitempty"`
}

// ReadExport decodes an export file from r.
func ReadExport(r io.Reader) (*ExportFile, error) {
	var export ExportFile
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&export); err != nil {
		return nil, fmt.Errorf("decoding export: %w", err)
	}
	if export.ChatID == 0 {
		return nil, ErrMissingChatID
	}
	return &export, nil
}

// toMessages converts the export into storage messages.
func (e *ExportFile) toMessages() []*core.ChatMessage {
	msgs := make([]*core.ChatMessage, 0, len(e.Messages))
	for _, m := range e.Messages {
		msgs = append(msgs, &core.ChatMessage{
			ChatID:        e.ChatID,
			MessageID:     m.ID,
			FromUserID:    m.FromUserID,
			Author:        m.Author,
			Text:          m.Text,
			DateUTC:       m.Date.UTC(),
			IsForwarded:   m.Forwarded,
			ForwardedFrom: m.ForwardedFrom,
			IsNewsDump:    m.NewsDump,
		})
	}
	return msgs
}
