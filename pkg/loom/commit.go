package loom

import (
	"time"

	lerrors "github.com/vango-dev/loom/internal/errors"
	"github.com/vango-dev/loom/pkg/element"
	"github.com/vango-dev/loom/pkg/fiber"
)

// commitRoot applies the finished generation to the backend and promotes it
// to current. Deletions are applied before any insertion or update.
func (r *Runtime) commitRoot() error {
	r.phase = PhaseCommitting
	tree := r.wip
	start := time.Now()

	report := &CommitReport{Generation: tree.Gen}
	err := r.commit(tree, report)
	d := time.Since(start)

	r.wip = nil
	r.next = fiber.None
	r.deletions = nil
	r.phase = PhaseIdle

	if r.cfg.Observer != nil {
		r.cfg.Observer.OnCommit(report, d, err)
	}
	if err != nil {
		r.log.Error("loom: commit failed", "generation", tree.Gen, "error", err)
		return err
	}

	// The generation before the old current is now two behind.
	if tree.Prev != nil {
		tree.Prev.Detach()
	}
	r.current = tree

	r.log.Debug("loom: commit",
		"generation", tree.Gen,
		"placements", report.Placements,
		"updates", report.Updates,
		"deletions", report.Deletions,
		"mutations", report.Mutations,
		"duration", d)
	return nil
}

func (r *Runtime) commit(tree *fiber.Tree, report *CommitReport) error {
	prev := tree.Prev
	for _, h := range r.deletions {
		if err := r.commitDeletion(prev, h, report); err != nil {
			return err
		}
	}

	root := tree.Root()
	var err error
	tree.Walk(root, func(h fiber.Handle, f *fiber.Fiber) bool {
		if h == root {
			return true
		}
		switch f.Effect {
		case fiber.Placement:
			err = r.commitPlacement(tree, h, f, report)
		case fiber.Update:
			err = r.commitUpdate(tree, h, f, report)
		}
		return err == nil
	})
	return err
}

// commitDeletion removes the retained node of a fiber from the current
// generation. A fiber without a node (a component) has its node-owning
// descendants removed instead.
func (r *Runtime) commitDeletion(prev *fiber.Tree, h fiber.Handle, report *CommitReport) error {
	f := prev.At(h)
	parentNode, ok := prev.NodeAncestor(h)
	if !ok {
		return lerrors.New("L011").WithDetailf("deleting %s", f.Type)
	}
	report.record(fiber.Deletion, f.Type, f.Node)
	return r.removeNodes(prev, h, parentNode, report)
}

func (r *Runtime) removeNodes(prev *fiber.Tree, h fiber.Handle, parentNode Node, report *CommitReport) error {
	f := prev.At(h)
	if f.Node != nil {
		report.Mutations++
		if err := r.backend.RemoveChild(parentNode, f.Node); err != nil {
			return commitError("RemoveChild", err)
		}
		return nil
	}
	for c := f.Child; c.Valid(); c = prev.At(c).Sibling {
		if err := r.removeNodes(prev, c, parentNode, report); err != nil {
			return err
		}
	}
	return nil
}

// commitPlacement creates the node of a primitive fiber and appends it to
// the nearest node-owning ancestor. Components own no node.
func (r *Runtime) commitPlacement(tree *fiber.Tree, h fiber.Handle, f *fiber.Fiber, report *CommitReport) error {
	if f.Type.IsComponent() {
		report.record(fiber.Placement, f.Type, nil)
		return nil
	}

	parentNode, ok := tree.NodeAncestor(h)
	if !ok {
		return lerrors.New("L011").WithDetailf("placing %s", f.Type)
	}

	var (
		n   Node
		err error
	)
	if f.Type.IsText() {
		n, err = r.backend.CreateTextNode()
		report.Mutations++
		if err != nil {
			return commitError("CreateTextNode", err)
		}
	} else {
		n, err = r.backend.CreateNode(f.Type.Tag())
		report.Mutations++
		if err != nil {
			return commitError("CreateNode", err)
		}
	}
	f.Node = n

	if err := r.applyAttrs(n, nil, f.Attrs, report); err != nil {
		return err
	}
	report.Mutations++
	if err := r.backend.AppendChild(parentNode, n); err != nil {
		return commitError("AppendChild", err)
	}
	report.record(fiber.Placement, f.Type, n)
	return nil
}

// commitUpdate re-applies the attribute delta against the alternate.
func (r *Runtime) commitUpdate(tree *fiber.Tree, h fiber.Handle, f *fiber.Fiber, report *CommitReport) error {
	report.record(fiber.Update, f.Type, f.Node)
	if f.Node == nil {
		return nil
	}
	var prevAttrs element.Attrs
	if alt := tree.Alternate(h); alt != nil {
		prevAttrs = alt.Attrs
	}
	return r.applyAttrs(f.Node, prevAttrs, f.Attrs, report)
}

// applyAttrs applies the delta between prev and next to n: stale handlers
// are detached, removed attributes cleared, changed or added attributes
// set, then new handlers attached. Keys are visited in sorted order.
func (r *Runtime) applyAttrs(n Node, prev, next element.Attrs, report *CommitReport) error {
	prevKeys := prev.Keys()
	nextKeys := next.Keys()

	for _, k := range prevKeys {
		if !element.IsEventKey(k) {
			continue
		}
		nv, ok := next[k]
		if ok && element.ValueEqual(prev[k], nv) {
			continue
		}
		report.Mutations++
		if err := r.backend.RemoveHandler(n, element.EventName(k), prev[k]); err != nil {
			return commitError("RemoveHandler", err)
		}
	}

	for _, k := range prevKeys {
		if element.IsEventKey(k) {
			continue
		}
		if _, ok := next[k]; ok {
			continue
		}
		report.Mutations++
		if err := r.backend.RemoveAttribute(n, k); err != nil {
			return commitError("RemoveAttribute", err)
		}
	}

	for _, k := range nextKeys {
		if element.IsEventKey(k) {
			continue
		}
		if pv, ok := prev[k]; ok && element.ValueEqual(pv, next[k]) {
			continue
		}
		report.Mutations++
		if err := r.backend.SetAttribute(n, k, next[k]); err != nil {
			return commitError("SetAttribute", err)
		}
	}

	for _, k := range nextKeys {
		if !element.IsEventKey(k) {
			continue
		}
		if pv, ok := prev[k]; ok && element.ValueEqual(pv, next[k]) {
			continue
		}
		report.Mutations++
		if err := r.backend.AddHandler(n, element.EventName(k), next[k]); err != nil {
			return commitError("AddHandler", err)
		}
	}
	return nil
}
