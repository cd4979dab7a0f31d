package types

import (
	"context"

	"github.com/hashicorp/go-multierror"
)

// Token represents "this emission has been fully absorbed downstream."
// Waiting on it yields control until every downstream push it depends on
// has resolved. Awaiting a token a second time is safe and returns the same
// outcome.
type Token interface {
	// Wait blocks until the emission resolves or ctx is done, whichever
	// comes first. A ctx expiry surfaces as a *TimeoutError; the underlying
	// emission's state is not rolled back.
	Wait(ctx context.Context) error
}

// Resolved returns a token that is already complete with no error. Used by
// operators that decline to forward an element (Filter/Remove dropping,
// Partition/SlidingWindow not yet full, Collect's Push).
func Resolved() Token { return resolvedToken{} }

// Failed returns a token that is already complete carrying err.
func Failed(err error) Token { return resolvedToken{err: err} }

type resolvedToken struct{ err error }

func (t resolvedToken) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return NewTimeoutError(err)
	}
	return t.err
}

// ChanToken is a token backed by a channel that a background goroutine (or
// the pushing goroutine itself) closes once the emission settles. It is the
// building block time-driven operators use to hand a caller a token for
// work that finishes later.
type ChanToken struct {
	done chan struct{}
	err  error
}

// NewChanToken returns a pending token and the resolve function that
// settles it. The first call to resolve settles the token; later calls are
// ignored. resolve is not safe for concurrent use.
func NewChanToken() (*ChanToken, func(error)) {
	t := &ChanToken{done: make(chan struct{})}
	resolved := false
	resolve := func(err error) {
		if resolved {
			return
		}
		resolved = true
		t.err = err
		close(t.done)
	}
	return t, resolve
}

// Wait implements Token.
func (t *ChanToken) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return NewTimeoutError(ctx.Err())
	}
}

// All returns a token that resolves once every given token has resolved.
// Waits are performed in order (the caller's goroutine drives each Wait in
// turn); this is equivalent in outcome to waiting on them concurrently since
// each Wait call only blocks on its own already-in-flight work. Errors from
// more than one token are aggregated with go-multierror so no failure is lost.
func All(tokens ...Token) Token {
	switch len(tokens) {
	case 0:
		return Resolved()
	case 1:
		return tokens[0]
	}
	return fanOutToken{tokens: tokens}
}

type fanOutToken struct{ tokens []Token }

func (t fanOutToken) Wait(ctx context.Context) error {
	var result *multierror.Error
	for _, tok := range t.tokens {
		if err := tok.Wait(ctx); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if result == nil {
		return nil
	}
	if len(result.Errors) == 1 {
		return result.Errors[0]
	}
	return result
}
