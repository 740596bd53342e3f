package element

import "strings"

// Attr is a single attribute used with Merge.
type Attr struct {
	Key   string
	Value any
}

// Merge combines attributes into an Attrs map; later keys win.
// Zero Attr values are skipped, so helpers can return Attr{} conditionally.
func Merge(attrs ...Attr) Attrs {
	out := make(Attrs, len(attrs))
	for _, a := range attrs {
		if a.Key == "" {
			continue
		}
		out[a.Key] = a.Value
	}
	return out
}

// ID sets the id attribute.
func ID(id string) Attr { return Attr{"id", id} }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return Attr{"class", strings.Join(classes, " ")} }

// Style sets the style attribute.
func Style(style string) Attr { return Attr{"style", style} }

// Data creates a data-* attribute.
func Data(key, value string) Attr { return Attr{"data-" + key, value} }

// Prop sets an arbitrary attribute.
func Prop(key string, value any) Attr { return Attr{key, value} }

// Handler is the signature of event handlers attached by the committer.
type Handler func(payload any)

// On attaches a handler for event ("click" -> "onclick").
func On(event string, h Handler) Attr { return Attr{"on" + strings.ToLower(event), h} }

// OnClick handles click events.
func OnClick(h Handler) Attr { return On("click", h) }

// OnInput handles input events.
func OnInput(h Handler) Attr { return On("input", h) }

// OnChange handles change events.
func OnChange(h Handler) Attr { return On("change", h) }
