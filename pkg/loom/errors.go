package loom

import (
	"errors"
	"fmt"

	lerrors "github.com/vango-dev/loom/internal/errors"
)

// ErrCommitFailed is wrapped by every commit error returned from WorkLoop.
var ErrCommitFailed = errors.New("loom: commit failed")

// commitError wraps a backend failure for op.
func commitError(op string, err error) error {
	return lerrors.New("L010").
		WithDetailf("backend %s failed", op).
		Wrap(fmt.Errorf("%w: %w", ErrCommitFailed, err))
}
