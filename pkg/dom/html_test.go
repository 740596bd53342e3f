package dom

import (
	"errors"
	"strings"
	"testing"
)

// build creates a tree from a compact description for HTML tests.
func build(doc *Document, parent *Node, tag string, attrs map[string]any, children ...*Node) *Node {
	n := doc.newNode(tag)
	for k, v := range attrs {
		n.Attrs[k] = v
	}
	for _, c := range children {
		doc.AppendChild(n, c)
	}
	if parent != nil {
		doc.AppendChild(parent, n)
	}
	return n
}

func text(doc *Document, s string) *Node {
	n := doc.newNode(TextTag)
	n.Text = s
	return n
}

func TestRenderHTML(t *testing.T) {
	doc := NewDocument()
	root := doc.Container()
	build(doc, root, "div", map[string]any{"class": "box", "id": "a"},
		build(doc, nil, "h1", nil, text(doc, "Hello")),
		build(doc, nil, "input", map[string]any{"disabled": true, "required": false, "value": 3}),
	)

	got, err := RenderString(root, RenderOptions{})
	if err != nil {
		t.Fatal(err)
	}
	want := `<div class="box" id="a"><h1>Hello</h1><input disabled value="3"></div>`
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestRenderHTMLEscapes(t *testing.T) {
	doc := NewDocument()
	p := build(doc, nil, "p", map[string]any{"title": "a\"b\n"}, text(doc, "<script>alert('x')</script>"))

	got, _ := RenderString(p, RenderOptions{})
	if strings.Contains(got, "<script>") {
		t.Errorf("text not escaped: %s", got)
	}
	if !strings.Contains(got, `title="a&quot;b&#10;"`) {
		t.Errorf("attribute not escaped: %s", got)
	}
	if !strings.Contains(got, "&lt;script&gt;alert(&#39;x&#39;)&lt;/script&gt;") {
		t.Errorf("text escaping wrong: %s", got)
	}
}

func TestRenderHTMLPretty(t *testing.T) {
	doc := NewDocument()
	div := build(doc, nil, "div", nil,
		build(doc, nil, "h1", nil, text(doc, "Hi")),
		build(doc, nil, "span", nil, text(doc, "a")),
	)

	got, _ := RenderString(div, RenderOptions{Pretty: true})
	want := "<div>\n  <h1>Hi</h1>\n  <span>a</span>\n</div>\n"
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestRenderHTMLMarkers(t *testing.T) {
	doc := NewDocument()
	b := build(doc, nil, "button", nil)
	doc.AddHandler(b, "click", func() {})

	got, _ := RenderString(b, RenderOptions{EventMarkers: true, IDs: true})
	want := `<button data-on-click="true" data-lid="1"></button>`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRenderHTMLWriteError(t *testing.T) {
	doc := NewDocument()
	if err := RenderHTML(failWriter{}, build(doc, nil, "p", nil), RenderOptions{}); err == nil {
		t.Error("expected write error")
	}
}
