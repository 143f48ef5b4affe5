package blocks

import (
	"strconv"
	"sync/atomic"
)

// BlockID identifies a placed block. A block is either temporary, created in
// the current session and never persisted, or permanent, carrying the
// identifier assigned by the page store. The zero value is neither.
type BlockID struct {
	temp      uint64
	permanent string
}

// TempID returns a session-local identifier. n must be non zero.
func TempID(n uint64) BlockID {
	return BlockID{temp: n}
}

// PermanentID wraps a store assigned identifier.
func PermanentID(id string) BlockID {
	return BlockID{permanent: id}
}

// IsTemp reports whether the block was never persisted.
func (id BlockID) IsTemp() bool {
	return id.temp != 0
}

// IsZero reports whether id was never assigned.
func (id BlockID) IsZero() bool {
	return id.temp == 0 && id.permanent == ""
}

// Permanent returns the store identifier, or "" for temporary ids.
func (id BlockID) Permanent() string {
	return id.permanent
}

// Temp returns the session counter value, or 0 for permanent ids.
func (id BlockID) Temp() uint64 {
	return id.temp
}

// String renders the id for logs and cache keys only.
func (id BlockID) String() string {
	if id.temp != 0 {
		return "tmp-" + strconv.FormatUint(id.temp, 10)
	}
	return id.permanent
}

// TempIDSource hands out increasing temporary identifiers. It is safe for
// concurrent use.
type TempIDSource struct {
	next atomic.Uint64
}

// Next returns a fresh temporary id.
func (s *TempIDSource) Next() BlockID {
	return TempID(s.next.Add(1))
}
