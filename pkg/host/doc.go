// Package host provides the idle-scheduling capability the loom runtime
// consumes, plus two implementations.
//
// An IdleHost invokes a callback when spare processing time exists and
// hands it a Deadline to query the remaining budget. The runtime processes
// units of work until the budget runs low, then re-registers itself.
//
// Loop is a real host: one goroutine owns every entry point into the
// runtime. Tasks submitted from other goroutines (UI events, network
// input) are run on it before idle callbacks, and idle callbacks get a
// per-frame budget.
//
// Manual is a deterministic host for tests: nothing runs until Tick.
package host
