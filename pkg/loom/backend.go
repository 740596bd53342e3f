package loom

// Node is an opaque handle to a retained-tree node owned by a Backend.
type Node = any

// Backend is the retained-tree capability the committer drives.
type Backend interface {
	CreateNode(tag string) (Node, error)
	CreateTextNode() (Node, error)
	SetAttribute(n Node, key string, value any) error
	RemoveAttribute(n Node, key string) error
	AddHandler(n Node, event string, fn any) error
	RemoveHandler(n Node, event string, fn any) error
	AppendChild(parent, child Node) error
	RemoveChild(parent, child Node) error
}
