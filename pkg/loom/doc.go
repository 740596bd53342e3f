// Package loom is an incremental UI-tree reconciliation engine.
//
// A Runtime turns an element tree into a retained tree held by an injected
// Backend, and on every later render computes the positional diff against
// the last committed generation and applies only what changed.
//
// # Phases
//
// Render (or a state updater) creates a work-in-progress fiber tree rooted
// at the container. WorkLoop then processes one fiber per unit of work:
// components are called, children are reconciled against the alternate
// generation, and the walk advances with fiber.Tree.Next. After every unit
// the host Deadline is checked; when the budget drops below the yield
// threshold the loop returns and resumes from the same fiber on the next
// call. Once no unit remains the generation is committed to the backend in
// one go (deletions first, then placements and updates in walk order) and
// becomes current.
//
//	doc := dom.NewDocument()
//	rt := loom.New(doc)
//	rt.Render(app, doc.Container())
//	rt.Start(idleHost) // or rt.Flush() to run synchronously
//
// # State
//
// Components keep local state with UseState, UseReducer and UseRef. Hooks
// are identified by call order only; changing the number or kind of hook
// calls between renders panics with a structured error.
//
// Any state update schedules a full reconciliation pass from the root of
// the last committed tree, not a re-render of the owning component alone.
// This keeps the scheduler free of per-component dirty tracking; the diff
// still touches only what changed.
//
// # Threading
//
// A Runtime is not safe for concurrent use. Render, WorkLoop, Flush and
// every updater must run on one goroutine; host.Loop provides that.
package loom
