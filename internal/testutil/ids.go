package testutil

import (
	"fmt"
	"sync"
)

// SequenceIDs generates predictable snapshot IDs: "<prefix>-0001", "<prefix>-0002", ...
//
// Satisfies store.IDGenerator so golden output does not depend on UUIDv7
// timestamps. Safe for concurrent use.
type SequenceIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequenceIDs creates a generator. An empty prefix becomes "snap".
func NewSequenceIDs(prefix string) *SequenceIDs {
	if prefix == "" {
		prefix = "snap"
	}
	return &SequenceIDs{prefix: prefix}
}

// Generate returns the next ID.
func (g *SequenceIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}
