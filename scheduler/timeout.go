package scheduler

import (
	"context"
	"time"

	"github.com/tapline-dev/tapline/types"
)

// WithTimeout waits on tok with a deadline of d, converting a deadline
// expiry into a *types.TimeoutError. It does not cancel or roll back the
// underlying emission — per the engine's contract, a timed-out emit is
// indeterminate; the operator's state already mutated, if any, stands.
func WithTimeout(ctx context.Context, tok types.Token, d time.Duration) error {
	deadlineCtx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	return tok.Wait(deadlineCtx)
}
