package loom

import (
	lerrors "github.com/vango-dev/loom/internal/errors"
	"github.com/vango-dev/loom/pkg/element"
	"github.com/vango-dev/loom/pkg/fiber"
)

// Hook kinds recorded for order validation.
const (
	hookState   = "state"
	hookReducer = "reducer"
	hookRef     = "ref"
)

// scope is the element.Scope of one component render.
type scope struct {
	rt    *Runtime
	fiber *fiber.Fiber
	alt   *fiber.Fiber
	index int
	done  bool
}

var _ element.Scope = (*scope)(nil)

// Slot implements element.Scope. The state is the previous hook's state with
// its queued updates folded in FIFO order, or initial() on first render.
func (s *scope) Slot(kind string, initial func() any) (any, func(func(any) any)) {
	if s.done {
		panic(lerrors.New("L004").WithDetailf("%s hook called after %s returned", kind, s.fiber.Type))
	}

	var old *fiber.Hook
	if s.alt != nil {
		if s.index >= len(s.alt.Hooks) {
			panic(lerrors.New("L001").WithDetailf("%s: extra %s hook at index %d, previous render had %d",
				s.fiber.Type, kind, s.index, len(s.alt.Hooks)))
		}
		old = s.alt.Hooks[s.index]
		if old.Kind != kind {
			panic(lerrors.New("L002").WithDetailf("%s: hook %d was %s, now %s",
				s.fiber.Type, s.index, old.Kind, kind))
		}
	}

	var state any
	if old != nil {
		state = old.Fold()
	} else {
		state = initial()
	}

	hook := fiber.NewHook(kind, state)
	s.fiber.Hooks = append(s.fiber.Hooks, hook)
	s.index++

	rt := s.rt
	return state, func(fn func(any) any) {
		hook.Enqueue(fn)
		rt.scheduleUpdate()
	}
}

// finish validates the hook count against the previous render.
func (s *scope) finish() {
	s.done = true
	if s.alt != nil && len(s.fiber.Hooks) != len(s.alt.Hooks) {
		panic(lerrors.New("L001").WithDetailf("%s: %d hooks, previous render had %d",
			s.fiber.Type, len(s.fiber.Hooks), len(s.alt.Hooks)))
	}
}

// UseState returns the component's state for this call index and a
// function that queues an update. Every update schedules a full
// reconciliation pass from the root.
func UseState[T any](s element.Scope, initial T) (T, func(func(T) T)) {
	v, enqueue := s.Slot(hookState, func() any { return initial })
	return as[T](v), func(fn func(T) T) {
		enqueue(func(a any) any { return fn(as[T](a)) })
	}
}

// UseReducer is UseState with updates expressed as actions.
func UseReducer[S, A any](s element.Scope, reducer func(S, A) S, initial S) (S, func(A)) {
	v, enqueue := s.Slot(hookReducer, func() any { return initial })
	return as[S](v), func(action A) {
		enqueue(func(a any) any { return reducer(as[S](a), action) })
	}
}

// as converts hook state back to T. A nil interface, stored for an
// interface-typed T, becomes T's zero value.
func as[T any](v any) T {
	t, _ := v.(T)
	return t
}

// Ref is a mutable box that survives renders without triggering them.
type Ref[T any] struct {
	Current T
}

// UseRef returns the same *Ref on every render of a component.
func UseRef[T any](s element.Scope, initial T) *Ref[T] {
	v, _ := s.Slot(hookRef, func() any { return &Ref[T]{Current: initial} })
	return v.(*Ref[T])
}
