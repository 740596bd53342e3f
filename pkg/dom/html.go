package dom

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// RenderOptions configures RenderHTML.
type RenderOptions struct {
	// Pretty indents nested block elements, one per line.
	Pretty bool

	// Indent is the string used for each level in pretty mode.
	// Defaults to two spaces.
	Indent string

	// EventMarkers adds a data-on-<event> attribute for each attached
	// handler so a remote client can forward the event back.
	EventMarkers bool

	// IDs adds a data-lid attribute holding the node ID to every element.
	IDs bool
}

// RenderHTML writes n as HTML. A container or text node at the top renders
// its content only.
func RenderHTML(w io.Writer, n *Node, opts RenderOptions) error {
	if opts.Indent == "" {
		opts.Indent = "  "
	}
	hw := &htmlWriter{w: w, opts: opts}
	if n.IsContainer() {
		for _, c := range n.Children {
			hw.node(c, 0, true)
		}
	} else {
		hw.node(n, 0, true)
	}
	return hw.err
}

// RenderString is RenderHTML into a string.
func RenderString(n *Node, opts RenderOptions) (string, error) {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, n, opts); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// htmlWriter keeps the first write error and drops everything after it.
type htmlWriter struct {
	w    io.Writer
	opts RenderOptions
	err  error
}

func (hw *htmlWriter) str(s string) {
	if hw.err != nil {
		return
	}
	_, hw.err = io.WriteString(hw.w, s)
}

func (hw *htmlWriter) indent(depth int) {
	if hw.opts.Pretty && depth > 0 {
		hw.str(strings.Repeat(hw.opts.Indent, depth))
	}
}

func (hw *htmlWriter) newline() {
	if hw.opts.Pretty {
		hw.str("\n")
	}
}

// node writes n. When line is set n sits on its own line in pretty mode.
func (hw *htmlWriter) node(n *Node, depth int, line bool) {
	if line {
		hw.indent(depth)
	}
	if n.IsText() {
		hw.str(escapeText(n.Text))
		if line {
			hw.newline()
		}
		return
	}

	hw.str("<" + n.Tag)
	hw.attrs(n)
	hw.str(">")
	if voidElements[n.Tag] {
		if line {
			hw.newline()
		}
		return
	}

	block := len(n.Children) > 0 && !inlineElements[n.Tag] && !onlyText(n)
	if block {
		hw.newline()
	}
	for _, c := range n.Children {
		hw.node(c, depth+1, block)
	}
	if block {
		hw.indent(depth)
	}
	hw.str("</" + n.Tag + ">")
	if line {
		hw.newline()
	}
}

func (hw *htmlWriter) attrs(n *Node) {
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := n.Attrs[key]
		switch key {
		case "className":
			key = "class"
		case "htmlFor":
			key = "for"
		}

		if booleanAttrs[key] {
			if b, ok := value.(bool); ok {
				if b {
					hw.str(" " + key)
				}
				continue
			}
		}

		s := attrString(value)
		if s == "" {
			continue
		}
		hw.str(fmt.Sprintf(` %s="%s"`, key, escapeAttr(s)))
	}

	if hw.opts.EventMarkers {
		events := make([]string, 0, len(n.Handlers))
		for ev := range n.Handlers {
			events = append(events, ev)
		}
		sort.Strings(events)
		for _, ev := range events {
			hw.str(fmt.Sprintf(` data-on-%s="true"`, ev))
		}
	}
	if hw.opts.IDs {
		hw.str(` data-lid="` + strconv.FormatInt(n.ID, 10) + `"`)
	}
}

func onlyText(n *Node) bool {
	for _, c := range n.Children {
		if !c.IsText() {
			return false
		}
	}
	return true
}

func attrString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

var (
	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
		"\n", "&#10;",
		"\r", "&#13;",
		"\t", "&#9;",
	)
)

func escapeText(s string) string { return textEscaper.Replace(s) }

func escapeAttr(s string) string { return attrEscaper.Replace(s) }

// voidElements have no closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// inlineElements stay on their parent's line in pretty mode.
var inlineElements = map[string]bool{
	"a": true, "abbr": true, "b": true, "br": true, "cite": true,
	"code": true, "em": true, "i": true, "kbd": true, "mark": true,
	"q": true, "s": true, "small": true, "span": true, "strong": true,
	"sub": true, "sup": true, "time": true, "u": true, "var": true,
}

var booleanAttrs = map[string]bool{
	"checked": true, "disabled": true, "hidden": true, "multiple": true,
	"readonly": true, "required": true, "selected": true, "autofocus": true,
	"open": true,
}
