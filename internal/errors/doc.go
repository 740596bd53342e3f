// Package errors provides structured, actionable error values for loom.
//
// Every error carries a short code (e.g. "L001") that maps to a registered
// template with a category, a one-line message and a longer explanation.
//
// # Error Categories
//
//   - hooks: misuse of the local-state accessor (changed call order, updates
//     before the first commit)
//   - commit: the retained-tree backend rejected an operation
//   - schedule: work loop misuse (rendering without a container, etc.)
//   - config: invalid loom.json / loom.yaml
//   - cli: command line failures
//
// # Usage
//
//	err := errors.New("L010").
//	    WithDetailf("appendChild(%v, %v)", parent, child).
//	    Wrap(backendErr)
//
//	fmt.Fprint(os.Stderr, err.Format())
//	// ERROR L010: Backend rejected a mutation during commit
//	//
//	//   appendChild(div, h1)
//	//
//	//   Hint: ...
package errors
