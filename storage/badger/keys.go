package badger

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/poiesic/memorag/core"
)

// Key prefixes for different data types
const (
	historyPrefix = "hist:"
	historyIDSeq  = "histseq"
	aliasPrefix   = "alias:"
	metaPrefix    = "meta:"
)

// makeHistoryKey generates a composite key for a history record.
// Format: prefix:timestamp:id, so prefix iteration is chronological.
func makeHistoryKey(timestamp time.Time, id core.ID) []byte {
	buf := make([]byte, len(historyPrefix)+16)
	offset := copy(buf, historyPrefix)
	// BigEndian keeps lexicographic order equal to numeric order
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialHistoryKey generates a seek key for records at or after timestamp.
func makePartialHistoryKey(timestamp time.Time) []byte {
	buf := make([]byte, len(historyPrefix)+8)
	offset := copy(buf, historyPrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	return buf
}

// historyEndKey sorts after every history key.
func historyEndKey() []byte {
	return append([]byte(historyPrefix), 0xFF)
}

// makeAliasKey generates a key for an alias pair from its case-folded identity.
func makeAliasKey(alias core.Alias) []byte {
	return []byte(aliasPrefix + alias.Key())
}

// makeMetaKey generates a key for a setting.
func makeMetaKey(name string) []byte {
	return []byte(metaPrefix + strings.ToLower(strings.TrimSpace(name)))
}
