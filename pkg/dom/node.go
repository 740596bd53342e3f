package dom

import (
	"strings"
)

const (
	// TextTag is the Tag of every text node.
	TextTag = "#text"

	// ContainerTag is the Tag of nodes made by Document.Container.
	ContainerTag = "#document"

	// textValueKey is the attribute the committer sets on text nodes.
	textValueKey = "nodeValue"
)

// Node is one retained node.
type Node struct {
	ID       int64
	Tag      string
	Text     string
	Attrs    map[string]any
	Handlers map[string]any
	Parent   *Node
	Children []*Node

	doc *Document
}

// NodeID returns n.ID.
func (n *Node) NodeID() int64 { return n.ID }

// IsText reports whether n is a text node.
func (n *Node) IsText() bool { return n.Tag == TextTag }

// IsContainer reports whether n was made by Document.Container.
func (n *Node) IsContainer() bool { return n.Tag == ContainerTag }

// Attr returns the attribute value for key, or nil.
func (n *Node) Attr(key string) any {
	return n.Attrs[key]
}

// HasHandler reports whether a handler is attached for event.
func (n *Node) HasHandler(event string) bool {
	_, ok := n.Handlers[strings.ToLower(event)]
	return ok
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.Text
	}
	var b strings.Builder
	n.Walk(func(c *Node) bool {
		if c.IsText() {
			b.WriteString(c.Text)
		}
		return true
	})
	return b.String()
}

// Walk visits n and its descendants depth-first in document order. Returning
// false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns the first node in document order, n included, for which
// match returns true.
func (n *Node) Find(match func(*Node) bool) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if match(c) {
			found = c
			return false
		}
		return true
	})
	return found
}

// FindTag returns the first element with the given tag.
func (n *Node) FindTag(tag string) *Node {
	return n.Find(func(c *Node) bool { return c.Tag == tag })
}

// FindAll returns every node below and including n for which match holds.
func (n *Node) FindAll(match func(*Node) bool) []*Node {
	var out []*Node
	n.Walk(func(c *Node) bool {
		if match(c) {
			out = append(out, c)
		}
		return true
	})
	return out
}

// indexOf returns the position of child in n.Children, or -1.
func (n *Node) indexOf(child *Node) int {
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}
	return -1
}

func (n *Node) detach() {
	if n.Parent == nil {
		return
	}
	p := n.Parent
	if i := p.indexOf(n); i >= 0 {
		p.Children = append(p.Children[:i], p.Children[i+1:]...)
	}
	n.Parent = nil
}
