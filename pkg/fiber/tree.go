package fiber

// Tree is the fiber arena of one render generation.
type Tree struct {
	// Gen is the generation number, assigned by the runtime.
	Gen uint64

	// Prev is the committed generation Alternate handles point into.
	Prev *Tree

	fibers []*Fiber
}

// NewTree returns an empty arena whose alternates resolve in prev.
func NewTree(gen uint64, prev *Tree) *Tree {
	return &Tree{Gen: gen, Prev: prev}
}

// Add appends a fiber and returns its handle. Unset links must be None.
func (t *Tree) Add(f *Fiber) Handle {
	t.fibers = append(t.fibers, f)
	return Handle(len(t.fibers) - 1)
}

// New appends a fresh unlinked fiber.
func (t *Tree) New() (Handle, *Fiber) {
	f := &Fiber{Parent: None, Child: None, Sibling: None, Alternate: None}
	return t.Add(f), f
}

// At returns the fiber for h, or nil when h is out of range.
func (t *Tree) At(h Handle) *Fiber {
	if t == nil || h < 0 || int(h) >= len(t.fibers) {
		return nil
	}
	return t.fibers[h]
}

// Len returns the number of fibers in the arena.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.fibers)
}

// Root returns the handle of the root fiber, None for an empty tree.
func (t *Tree) Root() Handle {
	if t.Len() == 0 {
		return None
	}
	return 0
}

// Alternate returns the previous generation's fiber for h, or nil.
func (t *Tree) Alternate(h Handle) *Fiber {
	f := t.At(h)
	if f == nil || t.Prev == nil {
		return nil
	}
	return t.Prev.At(f.Alternate)
}

// Next returns the traversal successor of h: its first child, else the
// next sibling of the nearest ancestor-or-self. None once the walk climbs
// past the root.
func (t *Tree) Next(h Handle) Handle {
	return t.NextWithin(h, None)
}

// NextWithin is Next bounded to the subtree rooted at root: the walk never
// leaves root through its sibling or parent links.
func (t *Tree) NextWithin(h, root Handle) Handle {
	f := t.At(h)
	if f == nil {
		return None
	}
	if f.Child.Valid() {
		return f.Child
	}
	for n := h; n.Valid() && n != root; {
		cur := t.At(n)
		if cur.Sibling.Valid() {
			return cur.Sibling
		}
		n = cur.Parent
	}
	return None
}

// Walk visits the subtree rooted at root in Next order. Returning false
// from fn stops the walk.
func (t *Tree) Walk(root Handle, fn func(Handle, *Fiber) bool) {
	for h := root; h.Valid(); h = t.NextWithin(h, root) {
		if !fn(h, t.At(h)) {
			return
		}
	}
}

// Children returns the handles of h's children in sibling order.
func (t *Tree) Children(h Handle) []Handle {
	var out []Handle
	f := t.At(h)
	if f == nil {
		return nil
	}
	for c := f.Child; c.Valid(); c = t.At(c).Sibling {
		out = append(out, c)
	}
	return out
}

// NodeAncestor returns the nearest strict ancestor of h that owns a
// retained node.
func (t *Tree) NodeAncestor(h Handle) (any, bool) {
	f := t.At(h)
	if f == nil {
		return nil, false
	}
	for p := f.Parent; p.Valid(); p = t.At(p).Parent {
		if n := t.At(p).Node; n != nil {
			return n, true
		}
	}
	return nil, false
}

// Detach releases the previous generation. Alternate handles become
// unresolvable afterwards.
func (t *Tree) Detach() {
	t.Prev = nil
}
