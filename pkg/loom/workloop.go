package loom

import (
	"time"

	"github.com/vango-dev/loom/pkg/fiber"
	"github.com/vango-dev/loom/pkg/host"
)

// WorkLoop processes units of work until none remain or d reports less
// than the yield threshold. At least one unit runs per call. When the last
// unit is done the generation is committed; a commit error is returned and
// the generation is dropped.
func (r *Runtime) WorkLoop(d host.Deadline) error {
	if r.wip == nil {
		return nil
	}

	start := time.Now()
	gen := r.wip.Gen
	units := 0
	yielded := false

	for r.next.Valid() {
		r.step()
		units++
		if r.next.Valid() && d.TimeRemaining() < r.cfg.YieldThreshold {
			yielded = true
			break
		}
	}

	stats := SliceStats{Generation: gen, Units: units, Yielded: yielded, Duration: time.Since(start)}
	if r.cfg.Observer != nil && units > 0 {
		r.cfg.Observer.OnSlice(stats)
	}
	if yielded {
		r.log.Debug("loom: yield", "generation", gen, "units", units)
		return nil
	}

	if !r.next.Valid() && r.wip != nil {
		return r.commitRoot()
	}
	return nil
}

// Flush runs the work loop until the pending generation is committed.
func (r *Runtime) Flush() error {
	for r.wip != nil {
		if err := r.WorkLoop(host.Forever); err != nil {
			return err
		}
	}
	return nil
}

// step performs the next unit of work and advances to its successor.
// An updater fired during the unit replaces the generation; its fresh root
// is kept as the next unit.
func (r *Runtime) step() {
	tree := r.wip
	h := r.next
	r.performUnitOfWork(tree, h)
	if r.wip == tree {
		r.next = tree.Next(h)
	}
}

// performUnitOfWork reconciles the children of one fiber.
func (r *Runtime) performUnitOfWork(tree *fiber.Tree, h fiber.Handle) {
	f := tree.At(h)
	if f.Type.IsComponent() {
		r.updateComponent(tree, h)
		return
	}
	r.reconcileChildren(tree, h, f.Elements)
}

// Start registers the work loop with an idle host. After every invocation
// the loop re-registers itself until Stop is called.
func (r *Runtime) Start(h host.IdleHost) {
	r.stopped = false
	var loop func(host.Deadline)
	loop = func(d host.Deadline) {
		if r.stopped {
			return
		}
		if err := r.WorkLoop(d); err != nil {
			r.handleError(err)
		}
		if !r.stopped {
			h.RequestIdleCallback(loop)
		}
	}
	h.RequestIdleCallback(loop)
}

// Stop makes the Start loop stop re-registering.
func (r *Runtime) Stop() {
	r.stopped = true
}

func (r *Runtime) handleError(err error) {
	if r.cfg.OnError != nil {
		r.cfg.OnError(err)
		return
	}
	r.log.Error("loom: work loop failed", "error", err)
}
