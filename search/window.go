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

import (
	"context"
	"log/slog"
	"slices"

	"github.com/veridian-systems/recollect/core"
	"github.com/veridian-systems/recollect/storage"
)

// WindowAssembler expands matched messages into their surrounding
// conversation windows and merges windows that overlap.
type WindowAssembler struct {
	messages storage.MessageRepository
	logger   *slog.Logger
}

func newWindowAssembler(messages storage.MessageRepository, logger *slog.Logger) *WindowAssembler {
	return &WindowAssembler{messages: messages, logger: logger}
}

// GetMergedContextWindows fetches up to windowSize non-empty-text messages
// on each side of every target message and merges windows whose message-id
// sets intersect. The merge is transitive: if A overlaps B and B overlaps C,
// all three become one window. A store error while fetching one window drops
// that window with a log line; partial context beats total failure.
//
// Returned windows never share a message id, their messages are sorted by
// DateUTC ascending, and every window contains its center message.
func (a *WindowAssembler) GetMergedContextWindows(ctx context.Context, chatID int64, messageIDs []int64, windowSize int) ([]*core.ContextWindow, error) {
	windows := make([]*core.ContextWindow, 0, len(messageIDs))

	for _, messageID := range messageIDs {
		messages, err := a.messages.GetMessagesAround(ctx, chatID, messageID, windowSize, windowSize)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			a.logger.Warn("dropping context window after fetch error",
				"chatID", chatID, "messageID", messageID, "err", err)
			continue
		}
		if len(messages) == 0 {
			continue
		}

		windows = append(windows, &core.ContextWindow{
			ChatID:            chatID,
			CenterMessageID:   messageID,
			MatchedMessageIDs: []int64{messageID},
			Messages:          messages,
		})
	}

	return mergeOverlapping(windows), nil
}

// mergeOverlapping collapses windows with intersecting message-id sets.
// It loops until a full pass makes no merge, which gives the transitive
// closure over chains of overlaps.
func mergeOverlapping(windows []*core.ContextWindow) []*core.ContextWindow {
	if len(windows) <= 1 {
		return windows
	}

	for {
		merged := false
		for i := 0; i < len(windows) && !merged; i++ {
			for j := i + 1; j < len(windows); j++ {
				if !windowsOverlap(windows[i], windows[j]) {
					continue
				}
				windows[i] = mergeWindows(windows[i], windows[j])
				windows = slices.Delete(windows, j, j+1)
				merged = true
				break
			}
		}
		if !merged {
			return windows
		}
	}
}

func windowsOverlap(a, b *core.ContextWindow) bool {
	ids := make(map[int64]bool, len(a.Messages))
	for _, m := range a.Messages {
		ids[m.MessageID] = true
	}
	for _, m := range b.Messages {
		if ids[m.MessageID] {
			return true
		}
	}
	return false
}

// mergeWindows unions two overlapping windows into one, keeping the earlier
// center as the window's center and recording both matched messages.
func mergeWindows(a, b *core.ContextWindow) *core.ContextWindow {
	seen := make(map[int64]bool, len(a.Messages)+len(b.Messages))
	messages := make([]*core.ChatMessage, 0, len(a.Messages)+len(b.Messages))
	for _, m := range a.Messages {
		if !seen[m.MessageID] {
			seen[m.MessageID] = true
			messages = append(messages, m)
		}
	}
	for _, m := range b.Messages {
		if !seen[m.MessageID] {
			seen[m.MessageID] = true
			messages = append(messages, m)
		}
	}

	slices.SortStableFunc(messages, func(x, y *core.ChatMessage) int {
		if c := x.DateUTC.Compare(y.DateUTC); c != 0 {
			return c
		}
		switch {
		case x.MessageID < y.MessageID:
			return -1
		case x.MessageID > y.MessageID:
			return 1
		}
		return 0
	})

	matched := append(append([]int64{}, a.MatchedMessageIDs...), b.MatchedMessageIDs...)
	slices.Sort(matched)
	matched = slices.Compact(matched)

	return &core.ContextWindow{
		ChatID:            a.ChatID,
		CenterMessageID:   a.CenterMessageID,
		MatchedMessageIDs: matched,
		Messages:          messages,
	}
}
