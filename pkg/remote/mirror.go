package remote

import (
	"errors"
	"fmt"
	"time"

	"github.com/vango-dev/loom/pkg/loom"
)

// Op names a recorded backend call.
type Op string

const (
	OpCreate      Op = "create"
	OpCreateText  Op = "createText"
	OpSet         Op = "set"
	OpRemove      Op = "remove"
	OpListen      Op = "listen"
	OpUnlisten    Op = "unlisten"
	OpAppend      Op = "append"
	OpRemoveChild Op = "removeChild"
)

// Mutation is one backend call. Handler values are never sent; a listen
// mutation only names the event.
type Mutation struct {
	Op     Op     `json:"op"`
	ID     int64  `json:"id"`
	Parent int64  `json:"parent,omitempty"`
	Tag    string `json:"tag,omitempty"`
	Key    string `json:"key,omitempty"`
	Value  any    `json:"value,omitempty"`
}

// Frame holds the mutations of one commit, or a full snapshot for a client
// that just connected.
type Frame struct {
	Seq        uint64     `json:"seq"`
	Generation uint64     `json:"generation,omitempty"`
	Mutations  []Mutation `json:"mutations,omitempty"`
	Snapshot   string     `json:"snapshot,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// ErrUnknownNode reports an event aimed at an id no node carries.
var ErrUnknownNode = errors.New("remote: unknown node id")

// Identified nodes supply their own ids to a Mirror.
type Identified interface {
	NodeID() int64
}

// Mirror is a recording loom.Backend decorator and a loom.Observer. Nodes
// must be comparable. It is confined to the runtime's goroutine.
type Mirror struct {
	backend loom.Backend
	sink    func(Frame)

	ids      map[loom.Node]int64
	nodes    map[int64]loom.Node
	children map[int64][]int64
	nextID   int64

	pending []Mutation
	seq     uint64
}

var (
	_ loom.Backend  = (*Mirror)(nil)
	_ loom.Observer = (*Mirror)(nil)
)

// NewMirror wraps backend. sink receives a Frame after every commit; it may
// be nil.
func NewMirror(backend loom.Backend, sink func(Frame)) *Mirror {
	return &Mirror{
		backend:  backend,
		sink:     sink,
		ids:      make(map[loom.Node]int64),
		nodes:    make(map[int64]loom.Node),
		children: make(map[int64][]int64),
	}
}

// ID returns the id of n, assigning one on first sight.
func (m *Mirror) ID(n loom.Node) int64 {
	if id, ok := m.ids[n]; ok {
		return id
	}
	var id int64
	if idn, ok := n.(Identified); ok {
		id = idn.NodeID()
	} else {
		m.nextID++
		id = m.nextID
	}
	m.ids[n] = id
	m.nodes[id] = n
	return id
}

// Lookup returns the node with id.
func (m *Mirror) Lookup(id int64) (loom.Node, bool) {
	n, ok := m.nodes[id]
	return n, ok
}

// Tracked returns the number of nodes with an id.
func (m *Mirror) Tracked() int { return len(m.nodes) }

// Seq returns the sequence number of the last frame.
func (m *Mirror) Seq() uint64 { return m.seq }

func (m *Mirror) record(mu Mutation) {
	m.pending = append(m.pending, mu)
}

// CreateNode implements loom.Backend.
func (m *Mirror) CreateNode(tag string) (loom.Node, error) {
	n, err := m.backend.CreateNode(tag)
	if err != nil {
		return nil, err
	}
	m.record(Mutation{Op: OpCreate, ID: m.ID(n), Tag: tag})
	return n, nil
}

// CreateTextNode implements loom.Backend.
func (m *Mirror) CreateTextNode() (loom.Node, error) {
	n, err := m.backend.CreateTextNode()
	if err != nil {
		return nil, err
	}
	m.record(Mutation{Op: OpCreateText, ID: m.ID(n)})
	return n, nil
}

// SetAttribute implements loom.Backend.
func (m *Mirror) SetAttribute(n loom.Node, key string, value any) error {
	if err := m.backend.SetAttribute(n, key, value); err != nil {
		return err
	}
	m.record(Mutation{Op: OpSet, ID: m.ID(n), Key: key, Value: wireValue(value)})
	return nil
}

// RemoveAttribute implements loom.Backend.
func (m *Mirror) RemoveAttribute(n loom.Node, key string) error {
	if err := m.backend.RemoveAttribute(n, key); err != nil {
		return err
	}
	m.record(Mutation{Op: OpRemove, ID: m.ID(n), Key: key})
	return nil
}

// AddHandler implements loom.Backend.
func (m *Mirror) AddHandler(n loom.Node, event string, h any) error {
	if err := m.backend.AddHandler(n, event, h); err != nil {
		return err
	}
	m.record(Mutation{Op: OpListen, ID: m.ID(n), Key: event})
	return nil
}

// RemoveHandler implements loom.Backend.
func (m *Mirror) RemoveHandler(n loom.Node, event string, h any) error {
	if err := m.backend.RemoveHandler(n, event, h); err != nil {
		return err
	}
	m.record(Mutation{Op: OpUnlisten, ID: m.ID(n), Key: event})
	return nil
}

// AppendChild implements loom.Backend.
func (m *Mirror) AppendChild(parent, child loom.Node) error {
	if err := m.backend.AppendChild(parent, child); err != nil {
		return err
	}
	pid, cid := m.ID(parent), m.ID(child)
	m.children[pid] = append(m.children[pid], cid)
	m.record(Mutation{Op: OpAppend, ID: cid, Parent: pid})
	return nil
}

// RemoveChild implements loom.Backend. The removed subtree's ids are
// forgotten.
func (m *Mirror) RemoveChild(parent, child loom.Node) error {
	if err := m.backend.RemoveChild(parent, child); err != nil {
		return err
	}
	pid, cid := m.ID(parent), m.ID(child)
	kids := m.children[pid]
	for i, k := range kids {
		if k == cid {
			m.children[pid] = append(kids[:i], kids[i+1:]...)
			break
		}
	}
	m.record(Mutation{Op: OpRemoveChild, ID: cid, Parent: pid})
	m.forget(cid)
	return nil
}

func (m *Mirror) forget(id int64) {
	for _, c := range m.children[id] {
		m.forget(c)
	}
	delete(m.children, id)
	if n, ok := m.nodes[id]; ok {
		delete(m.ids, n)
		delete(m.nodes, id)
	}
}

// OnSlice implements loom.Observer.
func (m *Mirror) OnSlice(loom.SliceStats) {}

// OnCommit implements loom.Observer. The mutations recorded since the last
// commit become one frame. A failed commit still ships what reached the
// backend so clients stay in step with it.
func (m *Mirror) OnCommit(r *loom.CommitReport, _ time.Duration, err error) {
	m.seq++
	f := Frame{Seq: m.seq, Generation: r.Generation, Mutations: m.pending}
	if err != nil {
		f.Error = err.Error()
	}
	m.pending = nil
	if m.sink != nil {
		m.sink(f)
	}
}

// wireValue keeps JSON-friendly values and stringifies the rest.
func wireValue(v any) any {
	switch v.(type) {
	case nil, string, bool, int, int32, int64, uint, uint32, uint64, float32, float64:
		return v
	default:
		return fmt.Sprint(v)
	}
}
