// Package dom is an in-memory retained node tree that implements
// loom.Backend.
//
// A Document creates nodes, keeps attributes and event handlers on them and
// links them into a tree exactly as the committer instructs. It is the
// headless stand-in for a browser document:
//
//	doc := dom.NewDocument()
//	root := doc.Container()
//	rt := loom.New(doc)
//	rt.Render(app, root)
//	rt.Flush()
//	dom.RenderHTML(os.Stdout, root, dom.RenderOptions{Pretty: true})
//
// Dispatch simulates a user event: the handler attached for the event runs
// on the target node and then on each ancestor, like DOM bubbling.
//
// A Document is not safe for concurrent use; like the runtime that drives
// it, it belongs to one goroutine.
package dom
