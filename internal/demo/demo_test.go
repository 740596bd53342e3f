package demo

import (
	"testing"
	"time"

	"github.com/vango-dev/loom/pkg/dom"
	"github.com/vango-dev/loom/pkg/loom"
)

type commitLog struct {
	reports []*loom.CommitReport
}

func (c *commitLog) OnSlice(loom.SliceStats) {}

func (c *commitLog) OnCommit(r *loom.CommitReport, _ time.Duration, _ error) {
	c.reports = append(c.reports, r)
}

func TestInitialRender(t *testing.T) {
	s, err := NewSession(dom.NewDocument(), nil)
	if err != nil {
		t.Fatal(err)
	}
	html, err := s.HTML(dom.RenderOptions{})
	if err != nil {
		t.Fatal(err)
	}
	want := `<div id="CounterWrapperOne"><b>CounterWrapperOne</b>` +
		`<div id="CounterWrapperTwo"><b>CounterWrapperTwo</b>` +
		`<div data-second="1" id="level 2"><h1 style="user-select: none">Count: 1</h1></div>` +
		`</div></div>`
	if html != want {
		t.Errorf("html =\n%s\nwant\n%s", html, want)
	}
}

func TestClicksToggleEven(t *testing.T) {
	log := &commitLog{}
	s, err := NewSession(dom.NewDocument(), nil, loom.WithObserver(log))
	if err != nil {
		t.Fatal(err)
	}
	heading := s.Heading()

	if err := s.Click(1); err != nil {
		t.Fatal(err)
	}
	even := s.Root.Find(func(n *dom.Node) bool { return n.Tag == "b" && n.TextContent() == "Even" })
	if even == nil {
		t.Fatal("Even marker missing at count 2")
	}
	if heading.TextContent() != "Count: 2" {
		t.Errorf("heading = %q", heading.TextContent())
	}

	last := log.reports[len(log.reports)-1]
	if last.Placements != 2 {
		t.Errorf("placements at count 2 = %d, want 2", last.Placements)
	}

	if err := s.Click(1); err != nil {
		t.Fatal(err)
	}
	if s.Heading() != heading {
		t.Error("heading node replaced")
	}
	if even.Parent != nil {
		t.Error("Even marker still attached at count 3")
	}
	last = log.reports[len(log.reports)-1]
	if last.Deletions != 1 {
		t.Errorf("deletions = %d, want 1", last.Deletions)
	}
}

func TestClickMany(t *testing.T) {
	s, err := NewSession(dom.NewDocument(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Click(9); err != nil {
		t.Fatal(err)
	}
	if got := s.Heading().TextContent(); got != "Count: 10" {
		t.Errorf("heading = %q, want Count: 10", got)
	}
	level2 := s.Heading().Parent
	if level2.Attr("data-second") != "1" {
		t.Errorf("second hook changed: %v", level2.Attr("data-second"))
	}
}
