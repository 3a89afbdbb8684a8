// Package snowflake generates time-ordered 64-bit report IDs.
//
// Layout, high to low: 1 unused sign bit, 41 bits of milliseconds since
// 2025-01-01 UTC, 10 bits of node ID, 12 bits of per-millisecond sequence.
package snowflake

import (
	"errors"
	"hash/fnv"
	"sync"
	"time"
)

const (
	epoch int64 = 1735689600000 // 2025-01-01T00:00:00Z

	nodeBits     = 10
	sequenceBits = 12

	MaxNode     = (1 << nodeBits) - 1
	maxSequence = (1 << sequenceBits) - 1

	timeShift = nodeBits + sequenceBits
	nodeShift = sequenceBits
)

var (
	ErrInvalidNode    = errors.New("snowflake: node must be between 0 and 1023")
	ErrClockMovedBack = errors.New("snowflake: clock moved backwards")
)

// Generator hands out unique IDs for one node. Safe for concurrent use.
type Generator struct {
	mu   sync.Mutex
	node int64
	seq  int64
	last int64
	now  func() int64
}

// NewGenerator creates a generator for node.
func NewGenerator(node int64) (*Generator, error) {
	if node < 0 || node > MaxNode {
		return nil, ErrInvalidNode
	}
	return &Generator{node: node, now: func() int64 { return time.Now().UnixMilli() }}, nil
}

// NodeFromName derives a stable node ID from a host or pod name.
func NodeFromName(name string) int64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return int64(h.Sum32() % (MaxNode + 1))
}

// NextID returns a new ID. IDs from one generator increase strictly.
func (g *Generator) NextID() (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now()
	if ms < g.last {
		return 0, ErrClockMovedBack
	}

	if ms == g.last {
		g.seq = (g.seq + 1) & maxSequence
		if g.seq == 0 {
			for ms <= g.last {
				time.Sleep(100 * time.Microsecond)
				ms = g.now()
			}
		}
	} else {
		g.seq = 0
	}
	g.last = ms

	return (ms-epoch)<<timeShift | g.node<<nodeShift | g.seq, nil
}

// Decompose splits an ID into its creation time, node and sequence.
func Decompose(id int64) (created time.Time, node, seq int64) {
	created = time.UnixMilli((id >> timeShift) + epoch)
	node = (id >> nodeShift) & MaxNode
	seq = id & maxSequence
	return created, node, seq
}
