package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/blogdex/core"
)

// Key prefixes for different data types
const (
	chunkRecordPrefix = "chunk"
	chunkOrderPrefix  = "chunkord"
	chunkSeqName      = "chunkseq"
	manifestKey       = "manifest"
)

// makeChunkKey generates a key for a chunk by content ID.
func makeChunkKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", chunkRecordPrefix, id))
}

// makeChunkOrderKey generates a key for the insertion-order index.
// Format: prefix:seq
func makeChunkOrderKey(seq uint64) []byte {
	prefix := []byte(chunkOrderPrefix + ":")
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// chunkPrefix matches every primary chunk key.
func chunkPrefix() []byte {
	return []byte(chunkRecordPrefix + ":")
}

// chunkOrderPrefixKey matches every insertion-order index key.
func chunkOrderPrefixKey() []byte {
	return []byte(chunkOrderPrefix + ":")
}
