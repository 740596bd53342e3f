package fiber

import (
	"fmt"

	"github.com/vango-dev/loom/pkg/element"
)

// Handle addresses a fiber inside one Tree.
type Handle int32

// None is the absent handle.
const None Handle = -1

// Valid reports whether h refers to a fiber.
func (h Handle) Valid() bool { return h >= 0 }

// Effect is the commit action recorded on a fiber.
type Effect uint8

const (
	NoEffect  Effect = iota // Nothing to apply
	Placement               // Create and append a retained node
	Update                  // Re-apply changed attributes
	Deletion                // Remove the retained node
)

// String returns the string representation of the Effect.
func (e Effect) String() string {
	switch e {
	case NoEffect:
		return "None"
	case Placement:
		return "Placement"
	case Update:
		return "Update"
	case Deletion:
		return "Deletion"
	default:
		return "Unknown"
	}
}

// Fiber is one tree position in one generation.
type Fiber struct {
	Type  element.Type
	Attrs element.Attrs

	// Elements are the child descriptions to reconcile when this fiber is
	// processed. Only set for primitive fibers; components render theirs.
	Elements []*element.Element

	// Node is the retained node this fiber exclusively owns, if any.
	Node any

	Parent    Handle
	Child     Handle
	Sibling   Handle
	Alternate Handle // in Tree.Prev

	Effect Effect

	// Hooks is only used by component fibers.
	Hooks []*Hook
}

// String returns a compact description for debugging.
func (f *Fiber) String() string {
	return fmt.Sprintf("fiber(%s %s)", f.Type, f.Effect)
}

// Hook is one local-state slot of a component fiber.
type Hook struct {
	Kind  string
	State any
	queue []func(any) any
}

// NewHook returns a hook holding state with an empty update queue.
func NewHook(kind string, state any) *Hook {
	return &Hook{Kind: kind, State: state}
}

// Enqueue records an update to fold in on the next render.
func (h *Hook) Enqueue(fn func(any) any) {
	h.queue = append(h.queue, fn)
}

// Pending returns the number of queued updates.
func (h *Hook) Pending() int { return len(h.queue) }

// Fold applies the queued updates to State in the order they were
// recorded and returns the result. The hook itself is left unchanged.
func (h *Hook) Fold() any {
	state := h.State
	for _, fn := range h.queue {
		state = fn(state)
	}
	return state
}
