package element

import "fmt"

// TextTag is the reserved tag for leaf text content.
const TextTag = "TEXT_ELEMENT"

// TextValueKey is the attribute holding the content of a text element.
const TextValueKey = "nodeValue"

// Kind is the Type discriminator.
type Kind uint8

const (
	KindTag       Kind = iota // Primitive retained-node tag
	KindComponent             // Unit of behaviour
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindTag:
		return "Tag"
	case KindComponent:
		return "Component"
	default:
		return "Unknown"
	}
}

// Type identifies what an Element renders to. The zero Type is the empty tag.
// Type values are comparable with ==.
type Type struct {
	kind Kind
	tag  string
	comp *Component
}

// TagType returns the primitive Type for a retained-node tag.
func TagType(tag string) Type {
	return Type{kind: KindTag, tag: tag}
}

// ComponentType returns the Type for a component.
func ComponentType(c *Component) Type {
	return Type{kind: KindComponent, comp: c}
}

// Kind returns the variant of the Type.
func (t Type) Kind() Kind { return t.kind }

// Tag returns the tag name; empty for component types.
func (t Type) Tag() string { return t.tag }

// Component returns the component; nil for tag types.
func (t Type) Component() *Component { return t.comp }

// IsComponent reports whether the Type is a unit of behaviour.
func (t Type) IsComponent() bool { return t.kind == KindComponent }

// IsText reports whether the Type is the reserved text tag.
func (t Type) IsText() bool { return t.kind == KindTag && t.tag == TextTag }

// String returns the tag name or the component name.
func (t Type) String() string {
	if t.kind == KindComponent {
		if t.comp == nil {
			return "<nil component>"
		}
		return "<" + t.comp.Name + ">"
	}
	return t.tag
}

// Scope is the hook surface the runtime hands to a rendering component.
// Hooks are identified by call order; kind is used to detect misuse.
type Scope interface {
	// Slot returns the state for the next hook call index together with
	// the function that enqueues updates against it.
	Slot(kind string, initial func() any) (state any, enqueue func(func(any) any))
}

// RenderFunc renders a component from its attributes.
type RenderFunc func(s Scope, attrs Attrs) *Element

// Component is a stateful unit of behaviour. Identity is the pointer.
type Component struct {
	Name   string
	Render RenderFunc
}

// Define creates a component. Call it once per component, at package level,
// so every render refers to the same Type.
func Define(name string, render RenderFunc) *Component {
	return &Component{Name: name, Render: render}
}

// Element is an immutable tree description. Children is never nil.
type Element struct {
	Type     Type
	Attrs    Attrs
	Children []*Element
}

// Text returns the content of a text element, or "" for other elements.
func (e *Element) Text() string {
	if e == nil || !e.Type.IsText() {
		return ""
	}
	s, _ := e.Attrs[TextValueKey].(string)
	return s
}

// String returns a compact, single line description for debugging.
func (e *Element) String() string {
	if e == nil {
		return "<nil>"
	}
	if e.Type.IsText() {
		return fmt.Sprintf("%q", e.Text())
	}
	return fmt.Sprintf("%s[%d]", e.Type, len(e.Children))
}
