package element

import (
	"fmt"
	"strconv"
)

// Create builds an Element. Children may be *Element, []*Element, nil
// (dropped), or any other value, which is wrapped in a text element.
func Create(t Type, attrs Attrs, children ...any) *Element {
	el := &Element{
		Type:     t,
		Attrs:    attrs,
		Children: make([]*Element, 0, len(children)),
	}
	if el.Attrs == nil {
		el.Attrs = Attrs{}
	}

	for _, child := range children {
		switch v := child.(type) {
		case nil:
			// Ignore nil (allows conditional children)
			continue
		case *Element:
			if v != nil {
				el.Children = append(el.Children, v)
			}
		case []*Element:
			for _, c := range v {
				if c != nil {
					el.Children = append(el.Children, c)
				}
			}
		default:
			el.Children = append(el.Children, Text(v))
		}
	}
	return el
}

// H builds a primitive element for tag.
func H(tag string, attrs Attrs, children ...any) *Element {
	return Create(TagType(tag), attrs, children...)
}

// C builds a component element. Components render from attrs alone.
func C(c *Component, attrs Attrs) *Element {
	return Create(ComponentType(c), attrs)
}

// Text builds a text element. Its children are always empty.
func Text(v any) *Element {
	return &Element{
		Type:     TagType(TextTag),
		Attrs:    Attrs{TextValueKey: textOf(v)},
		Children: []*Element{},
	}
}

// Textf builds a formatted text element.
func Textf(format string, args ...any) *Element {
	return Text(fmt.Sprintf(format, args...))
}

// If returns el when cond holds, nil otherwise.
func If(cond bool, el *Element) *Element {
	if cond {
		return el
	}
	return nil
}

// textOf converts a child value to text content.
func textOf(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
