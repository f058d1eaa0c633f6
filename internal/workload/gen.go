// Package workload generates insert/delete streams and applies them to a
// tree, auditing the red-black invariants as it goes.
package workload

import (
	"errors"
	"fmt"
	"math/rand"
)

type OpKind byte

const (
	Insert OpKind = iota
	Delete
)

func (k OpKind) String() string {
	if k == Delete {
		return "delete"
	}
	return "insert"
}

type Op struct {
	Kind OpKind
	Key  int
}

func (o Op) String() string {
	return fmt.Sprintf("%s %d", o.Kind, o.Key)
}

type Pattern string

const (
	Ascending  Pattern = "ascending"
	Descending Pattern = "descending"
	Random     Pattern = "random"
	Duplicates Pattern = "duplicates"
)

var ErrUnknownPattern = errors.New("unknown pattern")

// Generator describes an operation stream
type Generator struct {
	Pattern     Pattern
	Count       int
	KeySpace    int // 0 - same as Count
	DeleteRatio float64
	Seed        int64
}

// Ops builds the whole stream, the same generator always gives the same stream.
//
// Ascending and descending streams insert every key once in order and delete
// keys already inserted. Random and duplicate streams draw both inserts and
// deletes from the key space, so they hit duplicates and absent keys.
func (g Generator) Ops() ([]Op, error) {
	rnd := rand.New(rand.NewSource(g.Seed))
	keySpace := g.KeySpace
	if keySpace <= 0 {
		keySpace = g.Count
	}

	ops := make([]Op, 0, g.Count)
	switch g.Pattern {
	case Ascending, Descending:
		live := make([]int, 0, g.Count)
		next := 0
		for len(ops) < g.Count {
			if len(live) > 0 && rnd.Float64() < g.DeleteRatio {
				i := rnd.Intn(len(live))
				ops = append(ops, Op{Kind: Delete, Key: live[i]})
				live[i] = live[len(live)-1]
				live = live[:len(live)-1]
				continue
			}
			key := next
			if g.Pattern == Descending {
				key = g.Count - next
			}
			next++
			ops = append(ops, Op{Kind: Insert, Key: key})
			live = append(live, key)
		}
	case Random, Duplicates:
		if g.Pattern == Duplicates {
			keySpace = max(keySpace/64, 8)
		}
		for len(ops) < g.Count {
			op := Op{Kind: Insert, Key: rnd.Intn(keySpace)}
			if rnd.Float64() < g.DeleteRatio {
				op.Kind = Delete
			}
			ops = append(ops, op)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPattern, g.Pattern)
	}
	return ops, nil
}
