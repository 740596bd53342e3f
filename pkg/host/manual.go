package host

// Manual is an IdleHost driven by explicit Tick calls. It is not safe for
// concurrent use.
type Manual struct {
	pending []func(Deadline)
	ticks   int
}

// NewManual returns an idle host with no pending callbacks.
func NewManual() *Manual {
	return &Manual{}
}

// RequestIdleCallback implements IdleHost.
func (m *Manual) RequestIdleCallback(cb func(Deadline)) {
	m.pending = append(m.pending, cb)
}

// Pending returns the number of registered callbacks.
func (m *Manual) Pending() int { return len(m.pending) }

// Ticks returns how many idle periods have been granted.
func (m *Manual) Ticks() int { return m.ticks }

// Tick grants one idle period: every callback registered before the call
// runs once with d. Callbacks registered during the tick wait for the next.
func (m *Manual) Tick(d Deadline) {
	cbs := m.pending
	m.pending = nil
	m.ticks++
	for _, cb := range cbs {
		cb(d)
	}
}

// TickUnits grants an idle period with budget for n checks.
func (m *Manual) TickUnits(n int) {
	m.Tick(Units(n))
}
