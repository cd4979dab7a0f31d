// Package iox provides small I/O helpers for resource cleanup.
package iox

import "io"

// DiscardClose closes c and discards the error. Use in defer statements
// where the close error is unactionable:
//
//	defer iox.DiscardClose(resp.Body)
func DiscardClose(c io.Closer) { _ = c.Close() }

// CloseFunc returns a cleanup function that closes c, for t.Cleanup
// registration:
//
//	t.Cleanup(iox.CloseFunc(f))
func CloseFunc(c io.Closer) func() {
	return func() { _ = c.Close() }
}
