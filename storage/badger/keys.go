package badger

import (
	"encoding/binary"
	"time"

	"github.com/veridian-systems/recollect/core"
)

// Key prefixes for different data types
const (
	messagePrefix     = "msg"
	messageDatePrefix = "msgd"
	chatMarkerPrefix  = "chat"
	pendingPrefix     = "pend"
	embeddingPrefix   = "emb"
	embeddingKindIdx  = "embk"
	checkpointPrefix  = "ckptwin"
)

func appendUint64(buf []byte, v uint64) []byte {
	var b [8]byte
	// BigEndian so lexicographic sort matches numeric sort
	binary.BigEndian.PutUint64(b[:], v)
	return append(buf, b[:]...)
}

// makeMessageKey generates a key for a message by (chatID, messageID).
func makeMessageKey(chatID, messageID int64) []byte {
	buf := []byte(messagePrefix + ":")
	buf = appendUint64(buf, uint64(chatID))
	return appendUint64(buf, uint64(messageID))
}

// makeChatMessagePrefix generates the prefix covering all of a chat's messages.
func makeChatMessagePrefix(chatID int64) []byte {
	buf := []byte(messagePrefix + ":")
	return appendUint64(buf, uint64(chatID))
}

// makeMessageDateKey generates a composite key for the per-chat date index.
// Format: prefix:chatID:timestamp:messageID
func makeMessageDateKey(chatID int64, ts time.Time, messageID int64) []byte {
	buf := []byte(messageDatePrefix + ":")
	buf = appendUint64(buf, uint64(chatID))
	buf = appendUint64(buf, uint64(ts.UnixMicro()))
	return appendUint64(buf, uint64(messageID))
}

// makeMessageDatePrefix generates the date-index prefix for one chat.
func makeMessageDatePrefix(chatID int64) []byte {
	buf := []byte(messageDatePrefix + ":")
	return appendUint64(buf, uint64(chatID))
}

// makeChatMarkerKey generates the distinct-chat marker key.
func makeChatMarkerKey(chatID int64) []byte {
	buf := []byte(chatMarkerPrefix + ":")
	return appendUint64(buf, uint64(chatID))
}

// makePendingKey generates a pending-embedding index key.
// Format: prefix:kind:chatID:messageID
func makePendingKey(kind core.EmbeddingKind, chatID, messageID int64) []byte {
	buf := []byte(pendingPrefix + ":")
	buf = append(buf, byte(kind))
	buf = appendUint64(buf, uint64(chatID))
	return appendUint64(buf, uint64(messageID))
}

// makePendingPrefix generates the pending-index prefix for one embedding kind.
func makePendingPrefix(kind core.EmbeddingKind) []byte {
	buf := []byte(pendingPrefix + ":")
	return append(buf, byte(kind))
}

// parsePendingKey extracts (chatID, messageID) from a pending-index key.
func parsePendingKey(key []byte) (chatID, messageID int64, ok bool) {
	suffix := key[len(pendingPrefix)+2:] // past "pend:" and the kind byte
	if len(suffix) != 16 {
		return 0, 0, false
	}
	chatID = int64(binary.BigEndian.Uint64(suffix[:8]))
	messageID = int64(binary.BigEndian.Uint64(suffix[8:]))
	return chatID, messageID, true
}

// makeEmbeddingKey generates a key for an embedding record.
func makeEmbeddingKey(id core.ID) []byte {
	buf := []byte(embeddingPrefix + ":")
	return appendUint64(buf, uint64(id))
}

// makeEmbeddingKindKey generates a kind-index key for an embedding record.
func makeEmbeddingKindKey(kind core.EmbeddingKind, id core.ID) []byte {
	buf := []byte(embeddingKindIdx + ":")
	buf = append(buf, byte(kind))
	return appendUint64(buf, uint64(id))
}

// makeEmbeddingKindPrefix generates the kind-index prefix.
func makeEmbeddingKindPrefix(kind core.EmbeddingKind) []byte {
	buf := []byte(embeddingKindIdx + ":")
	return append(buf, byte(kind))
}

// makeCheckpointKey generates the window-sweep checkpoint key for a chat.
func makeCheckpointKey(chatID int64) []byte {
	buf := []byte(checkpointPrefix + ":")
	return appendUint64(buf, uint64(chatID))
}

// parseUint64Suffix reads the trailing 8 bytes of a key as a big-endian value.
func parseUint64Suffix(key []byte) (uint64, bool) {
	if len(key) < 8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(key[len(key)-8:]), true
}
