package block

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator hands out block identifiers. Implementations must be safe for
// concurrent use and never repeat an identifier within a process.
type IDGenerator interface {
	NextID() string
}

// UUIDGenerator generates random (version 4) UUIDs.
type UUIDGenerator struct{}

// NextID implements IDGenerator.
func (UUIDGenerator) NextID() string { return uuid.NewString() }

// Sequence is a deterministic IDGenerator producing prefix-1, prefix-2, ...
type Sequence struct {
	prefix string
	n      atomic.Uint64
}

// NewSequence returns a Sequence with the given prefix.
func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

// NextID implements IDGenerator.
func (s *Sequence) NextID() string {
	return s.prefix + "-" + strconv.FormatUint(s.n.Add(1), 10)
}
