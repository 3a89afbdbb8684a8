package snowflake

import (
	"sync"
	"testing"
	"time"
)

func TestNewGenerator(t *testing.T) {
	tests := []struct {
		name    string
		node    int64
		wantErr bool
	}{
		{"node 0", 0, false},
		{"max node", MaxNode, false},
		{"negative", -1, true},
		{"too large", MaxNode + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGenerator(tt.node)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewGenerator(%d) error = %v, wantErr %v", tt.node, err, tt.wantErr)
			}
		})
	}
}

func TestNextID_UniqueAcrossGoroutines(t *testing.T) {
	gen, err := NewGenerator(7)
	if err != nil {
		t.Fatal(err)
	}

	var (
		wg  sync.WaitGroup
		ids sync.Map
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				id, err := gen.NextID()
				if err != nil {
					t.Errorf("NextID() error = %v", err)
					return
				}
				if _, dup := ids.LoadOrStore(id, struct{}{}); dup {
					t.Errorf("duplicate ID %d", id)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestNextID_Increasing(t *testing.T) {
	gen, _ := NewGenerator(1)

	prev := int64(-1)
	for i := 0; i < 5000; i++ {
		id, err := gen.NextID()
		if err != nil {
			t.Fatal(err)
		}
		if id <= prev {
			t.Fatalf("id %d not greater than %d", id, prev)
		}
		prev = id
	}
}

func TestNextID_SequenceOverflowWaits(t *testing.T) {
	gen, _ := NewGenerator(1)
	fixed := time.Now().UnixMilli()
	calls := 0
	gen.now = func() int64 {
		calls++
		if calls > maxSequence+2 {
			return fixed + 1
		}
		return fixed
	}

	var last int64
	for i := 0; i <= maxSequence+1; i++ {
		id, err := gen.NextID()
		if err != nil {
			t.Fatal(err)
		}
		last = id
	}
	created, _, seq := Decompose(last)
	if seq != 0 || created.UnixMilli() != fixed+1 {
		t.Errorf("after overflow: created=%d seq=%d, want %d/0", created.UnixMilli(), seq, fixed+1)
	}
}

func TestNextID_ClockMovedBack(t *testing.T) {
	gen, _ := NewGenerator(1)
	ms := time.Now().UnixMilli()
	gen.now = func() int64 { return ms }
	if _, err := gen.NextID(); err != nil {
		t.Fatal(err)
	}

	gen.now = func() int64 { return ms - 5 }
	if _, err := gen.NextID(); err != ErrClockMovedBack {
		t.Errorf("err = %v, want ErrClockMovedBack", err)
	}
}

func TestDecompose(t *testing.T) {
	gen, _ := NewGenerator(42)
	before := time.Now()
	id, _ := gen.NextID()

	created, node, seq := Decompose(id)
	if node != 42 || seq != 0 {
		t.Errorf("node=%d seq=%d, want 42/0", node, seq)
	}
	if d := created.Sub(before); d < -time.Second || d > time.Second {
		t.Errorf("created %v too far from %v", created, before)
	}
}

func TestNodeFromName(t *testing.T) {
	a := NodeFromName("skincheck-api-7f9c")
	if a < 0 || a > MaxNode {
		t.Fatalf("node %d out of range", a)
	}
	if a != NodeFromName("skincheck-api-7f9c") {
		t.Error("NodeFromName is not stable")
	}
}
