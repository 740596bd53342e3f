// Package element provides the immutable description of a UI tree.
//
// An Element says what the tree should look like: a Type, a set of Attrs
// and an ordered list of child Elements. Elements are cheap values that are
// rebuilt on every render; the loom runtime turns them into fibers and
// diffs successive versions.
//
// # Types
//
// Type is a tagged variant. A primitive Type names a retained-node tag
// ("div", "h1", or the reserved TextTag). A component Type points at a
// *Component created with Define; two component types are equal only when
// they point at the same *Component.
//
// # Construction
//
//	counter := element.Define("Counter", func(s element.Scope, a element.Attrs) *element.Element {
//	    n, set := loom.UseState(s, 0)
//	    return element.H("button", element.Merge(element.OnClick(func(any) {
//	        set(func(v int) int { return v + 1 })
//	    })), "Count: ", n)
//	})
//
//	root := element.H("div", element.Merge(element.ID("app")),
//	    element.H("h1", nil, "Hello"),
//	    element.C(counter, nil),
//	)
//
// Any child that is not an *Element is wrapped in a text element.
package element
