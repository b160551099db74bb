package pipeline

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// Run IDs are ULIDs: a 48-bit millisecond timestamp followed by 80 random
// bits, Crockford base32 encoded, so they sort by start time.

var (
	runIDMu sync.Mutex
	lastMS  uint64
	lastSeq uint16
)

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

func newRunID() string {
	return runIDAt(time.Now())
}

func runIDAt(t time.Time) string {
	runIDMu.Lock()
	defer runIDMu.Unlock()

	ms := uint64(t.UnixMilli())
	if ms == lastMS {
		lastSeq++
	} else {
		lastMS = ms
		lastSeq = 0
	}

	var b [16]byte
	b[0] = byte(ms >> 40)
	b[1] = byte(ms >> 32)
	binary.BigEndian.PutUint32(b[2:6], uint32(ms))
	rand.Read(b[6:])
	// Sequence in the leading random bytes keeps IDs ordered within a millisecond.
	binary.BigEndian.PutUint16(b[6:8], lastSeq)

	return encodeCrockford(b)
}

// encodeCrockford packs 128 bits into 26 base32 characters, most significant
// first; the leading character carries the top 3 bits.
func encodeCrockford(b [16]byte) string {
	hi := binary.BigEndian.Uint64(b[0:8])
	lo := binary.BigEndian.Uint64(b[8:16])

	var out [26]byte
	for i := 25; i >= 0; i-- {
		out[i] = crockford[lo&31]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out[:])
}
