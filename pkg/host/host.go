package host

import (
	"math"
	"time"
)

// Deadline reports how much of the current idle period is left.
type Deadline interface {
	TimeRemaining() time.Duration
}

// IdleHost invokes cb once, the next time spare time exists.
type IdleHost interface {
	RequestIdleCallback(cb func(Deadline))
}

// DeadlineFunc adapts a function to Deadline.
type DeadlineFunc func() time.Duration

// TimeRemaining implements Deadline.
func (f DeadlineFunc) TimeRemaining() time.Duration { return f() }

// Forever is a Deadline that never runs out.
var Forever Deadline = DeadlineFunc(func() time.Duration { return math.MaxInt64 })

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// Until returns a Deadline expiring at end according to c.
func Until(c Clock, end time.Time) Deadline {
	return DeadlineFunc(func() time.Duration {
		if rem := end.Sub(c.Now()); rem > 0 {
			return rem
		}
		return 0
	})
}

// Units returns a Deadline that has budget for exactly n checks: the first
// n calls report an hour remaining, every later call reports zero.
func Units(n int) Deadline {
	calls := 0
	return DeadlineFunc(func() time.Duration {
		calls++
		if calls <= n {
			return time.Hour
		}
		return 0
	})
}
