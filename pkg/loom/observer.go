package loom

import (
	"time"

	"github.com/vango-dev/loom/pkg/element"
	"github.com/vango-dev/loom/pkg/fiber"
)

// Observer receives scheduler events. Implementations must not call back
// into the Runtime.
type Observer interface {
	// OnSlice is called at the end of every WorkLoop call that did work.
	OnSlice(s SliceStats)

	// OnCommit is called after every commit attempt.
	OnCommit(r *CommitReport, d time.Duration, err error)
}

// SliceStats describes one WorkLoop call.
type SliceStats struct {
	Generation uint64
	Units      int
	Yielded    bool
	Duration   time.Duration
}

// EffectRecord is one fiber effect applied by a commit.
type EffectRecord struct {
	Effect fiber.Effect
	Type   element.Type
	Node   Node
}

// CommitReport summarises one commit.
type CommitReport struct {
	Generation uint64
	Placements int
	Updates    int
	Deletions  int

	// Mutations counts backend calls.
	Mutations int

	// Effects lists every non-None effect in the order it was applied:
	// deletions first, then walk order.
	Effects []EffectRecord
}

// Count returns the number of recorded effects of kind e.
func (r *CommitReport) Count(e fiber.Effect) int {
	n := 0
	for _, rec := range r.Effects {
		if rec.Effect == e {
			n++
		}
	}
	return n
}

func (r *CommitReport) record(e fiber.Effect, t element.Type, n Node) {
	switch e {
	case fiber.Placement:
		r.Placements++
	case fiber.Update:
		r.Updates++
	case fiber.Deletion:
		r.Deletions++
	}
	r.Effects = append(r.Effects, EffectRecord{Effect: e, Type: t, Node: n})
}
