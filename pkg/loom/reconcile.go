package loom

import (
	"github.com/vango-dev/loom/pkg/element"
	"github.com/vango-dev/loom/pkg/fiber"
)

// reconcileChildren diffs elements against the alternate's children of the
// fiber at parent, position by position.
//
// Matching is by index and type only, never by key: inserting in the middle
// of a list replaces every later sibling instead of shifting it.
func (r *Runtime) reconcileChildren(tree *fiber.Tree, parent fiber.Handle, elements []*element.Element) {
	pf := tree.At(parent)
	pf.Child = fiber.None

	prev := tree.Prev
	old := fiber.None
	if alt := tree.Alternate(parent); alt != nil {
		old = alt.Child
	}

	prevSibling := fiber.None
	for i := 0; i < len(elements) || old.Valid(); i++ {
		var el *element.Element
		if i < len(elements) {
			el = elements[i]
		}
		of := prev.At(old)

		sameType := of != nil && el != nil && el.Type == of.Type
		created := fiber.None

		if sameType {
			h, nf := tree.New()
			nf.Type = of.Type
			nf.Attrs = el.Attrs
			nf.Elements = el.Children
			nf.Node = of.Node
			nf.Parent = parent
			nf.Alternate = old
			nf.Effect = fiber.Update
			if el.Attrs.Equal(of.Attrs) {
				nf.Effect = fiber.NoEffect
			}
			created = h
		}

		if el != nil && !sameType {
			h, nf := tree.New()
			nf.Type = el.Type
			nf.Attrs = el.Attrs
			nf.Elements = el.Children
			nf.Parent = parent
			nf.Effect = fiber.Placement
			created = h
		}

		// The old fiber belongs to the committed generation and is left
		// untouched; the deletion set is the only record.
		if of != nil && !sameType {
			r.deletions = append(r.deletions, old)
		}

		if of != nil {
			old = of.Sibling
		}

		if created.Valid() {
			if prevSibling.Valid() {
				tree.At(prevSibling).Sibling = created
			} else {
				pf.Child = created
			}
			prevSibling = created
		}
	}
}

// updateComponent renders a component fiber and reconciles its output.
func (r *Runtime) updateComponent(tree *fiber.Tree, h fiber.Handle) {
	f := tree.At(h)
	f.Hooks = nil

	s := &scope{rt: r, fiber: f, alt: tree.Alternate(h)}
	out := f.Type.Component().Render(s, f.Attrs)
	s.finish()

	// An updater called during the render replaced tree with a fresh
	// generation; nothing more may be recorded for the dropped one.
	if r.wip != tree {
		return
	}

	var children []*element.Element
	if out != nil {
		children = []*element.Element{out}
	}
	r.reconcileChildren(tree, h, children)
}
