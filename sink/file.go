// Package sink provides durable terminal operators: writing every pushed
// element to a local file, a length-prefixed msgpack snapshot stream, or
// an S3 bucket. Each constructor returns a flow.SinkFunc suitable for
// (*flow.Node).Sink.
package sink

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/tapline-dev/tapline/types"
)

// FileWriter accepts one pushed element at a time. The production
// implementation (*LocalFile) appends each element's fmt.Sprint form plus a
// newline to a file; in tests, StubFileWriter records writes instead of
// touching the filesystem.
type FileWriter interface {
	WriteElement(x types.Element) error
}

// LocalFile appends every pushed element to a file on disk as one line:
// the element's fmt.Sprint form followed by a newline.
type LocalFile struct {
	mu sync.Mutex
	f  *os.File
}

// NewLocalFile opens path for appending (creating it if necessary).
func NewLocalFile(path string) (*LocalFile, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("sink: open %s: %w", path, err)
	}
	return &LocalFile{f: f}, nil
}

// WriteElement implements FileWriter.
func (l *LocalFile) WriteElement(x types.Element) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, err := fmt.Fprintln(l.f, x)
	return err
}

// Close closes the underlying file. It does not unsubscribe any sink that
// writes to it.
func (l *LocalFile) Close() error { return l.f.Close() }

// ToFile returns a flow.SinkFunc-compatible function that appends every
// pushed element to w.
func ToFile(w FileWriter) func(types.Element) error {
	return func(x types.Element) error { return w.WriteElement(x) }
}

// ToStdout returns a flow.SinkFunc-compatible function that writes every
// pushed element to stdout as a newline-delimited JSON record.
func ToStdout() func(types.Element) error {
	enc := json.NewEncoder(os.Stdout)
	var mu sync.Mutex
	return func(x types.Element) error {
		mu.Lock()
		defer mu.Unlock()
		return enc.Encode(x)
	}
}

// StubFileWriter records every WriteElement call for testing, instead of
// touching the filesystem.
type StubFileWriter struct {
	mu       sync.Mutex
	Elements []types.Element
}

// NewStubFileWriter creates an empty StubFileWriter.
func NewStubFileWriter() *StubFileWriter { return &StubFileWriter{} }

// WriteElement implements FileWriter.
func (s *StubFileWriter) WriteElement(x types.Element) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Elements = append(s.Elements, x)
	return nil
}

// Items returns a snapshot of every recorded element.
func (s *StubFileWriter) Items() []types.Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Element, len(s.Elements))
	copy(out, s.Elements)
	return out
}
