// Package remote mirrors a retained tree to browsers.
//
// Mirror decorates a loom.Backend: every call is forwarded and also recorded
// as a Mutation keyed by a stable node id. Registered as the runtime's
// observer, it flushes the mutations of each commit as one Frame.
//
// Hub serves the frames over WebSocket and accepts UI events back:
//
//	GET  /               live page
//	GET  /ws             frames as JSON
//	GET  /snapshot       current HTML
//	POST /events/{id}/{event}
//	GET  /metrics        Prometheus, when configured
package remote
