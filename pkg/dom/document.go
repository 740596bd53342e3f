package dom

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vango-dev/loom/pkg/element"
	"github.com/vango-dev/loom/pkg/loom"
)

// Errors returned for operations a real document would reject.
var (
	ErrNotChild     = errors.New("dom: node is not a child of parent")
	ErrForeignNode  = errors.New("dom: node belongs to another document")
	ErrTextChildren = errors.New("dom: text nodes cannot have children")
	ErrCycle        = errors.New("dom: node cannot be appended to its own descendant")
	ErrBadHandler   = errors.New("dom: unsupported handler type")
)

// Stats counts backend calls made on a Document.
type Stats struct {
	Nodes           int
	TextNodes       int
	Sets            int
	Removes         int
	Listens         int
	Unlistens       int
	Appends         int
	RemovedChildren int
}

// Total returns the number of mutations counted.
func (s Stats) Total() int {
	return s.Nodes + s.TextNodes + s.Sets + s.Removes + s.Listens + s.Unlistens + s.Appends + s.RemovedChildren
}

// Document is the retained tree backend.
type Document struct {
	nextID int64
	stats  Stats
}

var _ loom.Backend = (*Document)(nil)

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{}
}

// Container creates a detached root node to render into.
func (d *Document) Container() *Node {
	return d.newNode(ContainerTag)
}

// Stats returns the call counters.
func (d *Document) Stats() Stats { return d.stats }

// ResetStats zeroes the call counters.
func (d *Document) ResetStats() { d.stats = Stats{} }

func (d *Document) newNode(tag string) *Node {
	d.nextID++
	return &Node{
		ID:       d.nextID,
		Tag:      tag,
		Attrs:    make(map[string]any),
		Handlers: make(map[string]any),
		doc:      d,
	}
}

// node resolves a backend handle to one of this document's nodes.
func (d *Document) node(n loom.Node) (*Node, error) {
	dn, ok := n.(*Node)
	if !ok || dn == nil {
		return nil, fmt.Errorf("%w: %T", ErrForeignNode, n)
	}
	if dn.doc != d {
		return nil, ErrForeignNode
	}
	return dn, nil
}

// CreateNode implements loom.Backend.
func (d *Document) CreateNode(tag string) (loom.Node, error) {
	d.stats.Nodes++
	return d.newNode(tag), nil
}

// CreateTextNode implements loom.Backend.
func (d *Document) CreateTextNode() (loom.Node, error) {
	d.stats.TextNodes++
	return d.newNode(TextTag), nil
}

// SetAttribute implements loom.Backend. On a text node the nodeValue
// attribute sets its text.
func (d *Document) SetAttribute(n loom.Node, key string, value any) error {
	dn, err := d.node(n)
	if err != nil {
		return err
	}
	d.stats.Sets++
	if dn.IsText() && key == textValueKey {
		dn.Text = fmt.Sprint(value)
		return nil
	}
	dn.Attrs[key] = value
	return nil
}

// RemoveAttribute implements loom.Backend.
func (d *Document) RemoveAttribute(n loom.Node, key string) error {
	dn, err := d.node(n)
	if err != nil {
		return err
	}
	d.stats.Removes++
	if dn.IsText() && key == textValueKey {
		dn.Text = ""
		return nil
	}
	delete(dn.Attrs, key)
	return nil
}

// AddHandler implements loom.Backend. One handler is kept per event.
func (d *Document) AddHandler(n loom.Node, event string, h any) error {
	dn, err := d.node(n)
	if err != nil {
		return err
	}
	if _, ok := callable(h); !ok {
		return fmt.Errorf("%w: %T for %q", ErrBadHandler, h, event)
	}
	d.stats.Listens++
	dn.Handlers[strings.ToLower(event)] = h
	return nil
}

// RemoveHandler implements loom.Backend.
func (d *Document) RemoveHandler(n loom.Node, event string, _ any) error {
	dn, err := d.node(n)
	if err != nil {
		return err
	}
	d.stats.Unlistens++
	delete(dn.Handlers, strings.ToLower(event))
	return nil
}

// AppendChild implements loom.Backend. A child that already has a parent is
// moved.
func (d *Document) AppendChild(parent, child loom.Node) error {
	p, err := d.node(parent)
	if err != nil {
		return err
	}
	c, err := d.node(child)
	if err != nil {
		return err
	}
	if p.IsText() {
		return ErrTextChildren
	}
	for a := p; a != nil; a = a.Parent {
		if a == c {
			return ErrCycle
		}
	}
	d.stats.Appends++
	c.detach()
	c.Parent = p
	p.Children = append(p.Children, c)
	return nil
}

// RemoveChild implements loom.Backend.
func (d *Document) RemoveChild(parent, child loom.Node) error {
	p, err := d.node(parent)
	if err != nil {
		return err
	}
	c, err := d.node(child)
	if err != nil {
		return err
	}
	if c.Parent != p || p.indexOf(c) < 0 {
		return ErrNotChild
	}
	d.stats.RemovedChildren++
	c.detach()
	return nil
}

// Dispatch delivers event to target and then to each of its ancestors,
// calling every attached handler with payload. It returns the number of
// handlers invoked.
func Dispatch(target *Node, event string, payload any) int {
	event = strings.ToLower(event)
	calls := 0
	for n := target; n != nil; n = n.Parent {
		h, ok := n.Handlers[event]
		if !ok {
			continue
		}
		fn, _ := callable(h)
		fn(payload)
		calls++
	}
	return calls
}

// callable adapts the handler shapes the element package produces.
func callable(h any) (func(any), bool) {
	switch fn := h.(type) {
	case element.Handler:
		return fn, fn != nil
	case func(any):
		return fn, fn != nil
	case func():
		return func(any) { fn() }, fn != nil
	default:
		return nil, false
	}
}
