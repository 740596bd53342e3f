// Package fiber holds the mutable, per-generation mirror of an element tree.
//
// A Tree is an arena of fibers for one render generation. Fibers refer to
// each other by Handle: Parent, Child and Sibling index the same arena,
// Alternate indexes the previous generation's arena (Tree.Prev). Nothing
// forms a pointer cycle, and dropping Prev releases a superseded
// generation in one step.
//
// Next linearises the tree for a depth-first walk without recursion or an
// explicit stack: first child, else the nearest ancestor-or-self sibling.
package fiber
