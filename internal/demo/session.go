package demo

import (
	"errors"

	"github.com/vango-dev/loom/pkg/dom"
	"github.com/vango-dev/loom/pkg/loom"
)

// ErrNoCounter is returned when the counter heading is not in the tree.
var ErrNoCounter = errors.New("demo: counter heading not found")

// Session is a headless run of the demo on an in-memory document.
type Session struct {
	Doc     *dom.Document
	Root    *dom.Node
	Runtime *loom.Runtime
}

// NewSession renders App into doc and commits it. Mutations go through
// backend when it is not nil, e.g. a mirror wrapping doc.
func NewSession(doc *dom.Document, backend loom.Backend, opts ...loom.Option) (*Session, error) {
	if backend == nil {
		backend = doc
	}
	s := &Session{Doc: doc, Root: doc.Container(), Runtime: loom.New(backend, opts...)}
	if err := s.Runtime.Render(App(), s.Root); err != nil {
		return nil, err
	}
	if err := s.Runtime.Flush(); err != nil {
		return nil, err
	}
	return s, nil
}

// Heading returns the clickable counter heading.
func (s *Session) Heading() *dom.Node {
	return s.Root.FindTag("h1")
}

// Click clicks the counter n times, committing after each click.
func (s *Session) Click(n int) error {
	for i := 0; i < n; i++ {
		h := s.Heading()
		if h == nil {
			return ErrNoCounter
		}
		dom.Dispatch(h, "click", nil)
		if err := s.Runtime.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// HTML renders the current document.
func (s *Session) HTML(opts dom.RenderOptions) (string, error) {
	return dom.RenderString(s.Root, opts)
}
