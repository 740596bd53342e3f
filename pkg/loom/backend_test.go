package loom

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// fakeNode is a minimal retained node for tests.
type fakeNode struct {
	id       int
	tag      string
	attrs    map[string]any
	handlers map[string]any
	parent   *fakeNode
	children []*fakeNode
}

// fakeBackend records every call as a string and keeps a real tree so
// structure can be asserted.
type fakeBackend struct {
	nextID int
	ops    []string
	failOn string
}

func newFakeBackend() *fakeBackend { return &fakeBackend{} }

func (b *fakeBackend) container() *fakeNode {
	return b.node("#container")
}

func (b *fakeBackend) node(tag string) *fakeNode {
	b.nextID++
	return &fakeNode{id: b.nextID, tag: tag, attrs: map[string]any{}, handlers: map[string]any{}}
}

func (b *fakeBackend) fail(op string) error {
	if b.failOn == op {
		return errors.New("injected " + op + " failure")
	}
	return nil
}

func (b *fakeBackend) reset() { b.ops = nil }

func (b *fakeBackend) CreateNode(tag string) (Node, error) {
	if err := b.fail("create"); err != nil {
		return nil, err
	}
	b.ops = append(b.ops, "create "+tag)
	return b.node(tag), nil
}

func (b *fakeBackend) CreateTextNode() (Node, error) {
	if err := b.fail("create"); err != nil {
		return nil, err
	}
	b.ops = append(b.ops, "create #text")
	return b.node("#text"), nil
}

func (b *fakeBackend) SetAttribute(n Node, key string, value any) error {
	if err := b.fail("set"); err != nil {
		return err
	}
	fn := n.(*fakeNode)
	b.ops = append(b.ops, fmt.Sprintf("set %s %s=%v", fn.tag, key, value))
	fn.attrs[key] = value
	return nil
}

func (b *fakeBackend) RemoveAttribute(n Node, key string) error {
	fn := n.(*fakeNode)
	b.ops = append(b.ops, fmt.Sprintf("remove %s %s", fn.tag, key))
	delete(fn.attrs, key)
	return nil
}

func (b *fakeBackend) AddHandler(n Node, event string, h any) error {
	fn := n.(*fakeNode)
	b.ops = append(b.ops, fmt.Sprintf("listen %s %s", fn.tag, event))
	fn.handlers[event] = h
	return nil
}

func (b *fakeBackend) RemoveHandler(n Node, event string, h any) error {
	fn := n.(*fakeNode)
	b.ops = append(b.ops, fmt.Sprintf("unlisten %s %s", fn.tag, event))
	delete(fn.handlers, event)
	return nil
}

func (b *fakeBackend) AppendChild(parent, child Node) error {
	if err := b.fail("append"); err != nil {
		return err
	}
	p, c := parent.(*fakeNode), child.(*fakeNode)
	b.ops = append(b.ops, fmt.Sprintf("append %s %s", p.tag, c.tag))
	c.parent = p
	p.children = append(p.children, c)
	return nil
}

func (b *fakeBackend) RemoveChild(parent, child Node) error {
	if err := b.fail("removeChild"); err != nil {
		return err
	}
	p, c := parent.(*fakeNode), child.(*fakeNode)
	for i, k := range p.children {
		if k == c {
			p.children = append(p.children[:i], p.children[i+1:]...)
			c.parent = nil
			b.ops = append(b.ops, fmt.Sprintf("removeChild %s %s", p.tag, c.tag))
			return nil
		}
	}
	return errors.New("not a child")
}

// dump renders the subtree under n as tag(children...), text nodes as "text".
func dump(n *fakeNode) string {
	var parts []string
	for _, c := range n.children {
		parts = append(parts, dumpNode(c))
	}
	return strings.Join(parts, " ")
}

func dumpNode(n *fakeNode) string {
	if n.tag == "#text" {
		return fmt.Sprintf("%q", n.attrs["nodeValue"])
	}
	var b strings.Builder
	b.WriteString(n.tag)
	if len(n.attrs) > 0 {
		keys := make([]string, 0, len(n.attrs))
		for k := range n.attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("[")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(",")
			}
			fmt.Fprintf(&b, "%s=%v", k, n.attrs[k])
		}
		b.WriteString("]")
	}
	if len(n.children) > 0 {
		b.WriteString("(")
		b.WriteString(dump(n))
		b.WriteString(")")
	}
	return b.String()
}
