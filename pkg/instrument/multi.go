package instrument

import (
	"time"

	"github.com/vango-dev/loom/pkg/loom"
)

// Multi forwards every notification to each observer in order. Nil entries
// are skipped.
type Multi []loom.Observer

var _ loom.Observer = Multi(nil)

// OnSlice implements loom.Observer.
func (m Multi) OnSlice(s loom.SliceStats) {
	for _, o := range m {
		if o != nil {
			o.OnSlice(s)
		}
	}
}

// OnCommit implements loom.Observer.
func (m Multi) OnCommit(r *loom.CommitReport, d time.Duration, err error) {
	for _, o := range m {
		if o != nil {
			o.OnCommit(r, d, err)
		}
	}
}
