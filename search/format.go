package search

import (
	"fmt"
	"strings"

	"github.com/veridian-systems/recollect/core"
)

const windowTimeLayout = "2006-01-02 15:04"

// FormatWindow renders one context window as the text block handed to the
// answer generator. Each line is time-stamped and attributed; the originally
// matched messages are marked, forwarded messages carry their provenance,
// and overlong text is truncated. The matched message keeps a larger rune
// budget than its surrounding context so the quote that earned the hit
// survives truncation.
func (a *WindowAssembler) FormatWindow(window *core.ContextWindow, centerLimit, contextLimit int) string {
	var b strings.Builder

	for _, msg := range window.Messages {
		matched := false
		for _, id := range window.MatchedMessageIDs {
			if msg.MessageID == id {
				matched = true
				break
			}
		}

		limit := contextLimit
		marker := "   "
		if matched {
			limit = centerLimit
			marker = ">>>"
		}

		author := msg.Author
		if author == "" {
			author = fmt.Sprintf("user %d", msg.FromUserID)
		}

		line := fmt.Sprintf("%s [%s] %s", marker, msg.DateUTC.UTC().Format(windowTimeLayout), author)
		if msg.IsForwarded {
			source := msg.ForwardedFrom
			if source == "" {
				source = "unknown"
			}
			line += fmt.Sprintf(" (forwarded from %s)", source)
		}
		line += ": " + truncateRunes(strings.TrimSpace(msg.Text), limit)

		b.WriteString(line)
		b.WriteByte('\n')
	}

	return b.String()
}

// FormatWindows renders all windows separated by blank lines, in order.
func (a *WindowAssembler) FormatWindows(windows []*core.ContextWindow, centerLimit, contextLimit int) string {
	blocks := make([]string, 0, len(windows))
	for _, w := range windows {
		blocks = append(blocks, a.FormatWindow(w, centerLimit, contextLimit))
	}
	return strings.Join(blocks, "\n")
}
