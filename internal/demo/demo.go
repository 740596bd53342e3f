// Package demo holds the counter demo used by the loom command.
package demo

import (
	"strconv"

	"github.com/vango-dev/loom/pkg/element"
	"github.com/vango-dev/loom/pkg/loom"
)

// Counter shows a click counter and an "Even" marker on even counts.
var Counter = element.Define("Counter", func(s element.Scope, _ element.Attrs) *element.Element {
	count, setCount := loom.UseState(s, 1)
	// A second hook that is never updated; its state must survive every
	// re-render untouched.
	second, _ := loom.UseState(s, 1)

	return element.H("div", element.Merge(element.ID("level 2"), element.Data("second", strconv.Itoa(second))),
		element.H("h1", element.Merge(
			element.OnClick(func(any) { setCount(func(c int) int { return c + 1 }) }),
			element.Style("user-select: none"),
		), "Count: ", count),
		element.If(count%2 == 0, element.H("b", nil, "Even")),
	)
})

// WrapperTwo nests the counter one level deep.
var WrapperTwo = element.Define("CounterWrapperTwo", func(element.Scope, element.Attrs) *element.Element {
	return element.H("div", element.Merge(element.ID("CounterWrapperTwo")),
		element.H("b", nil, "CounterWrapperTwo"),
		element.C(Counter, nil),
	)
})

// WrapperOne is the demo root.
var WrapperOne = element.Define("CounterWrapperOne", func(element.Scope, element.Attrs) *element.Element {
	return element.H("div", element.Merge(element.ID("CounterWrapperOne")),
		element.H("b", nil, "CounterWrapperOne"),
		element.C(WrapperTwo, nil),
	)
})

// App returns the demo's root element.
func App() *element.Element {
	return element.C(WrapperOne, nil)
}
