package sink

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tapline-dev/tapline/types"
)

// LengthPrefixSize is the width, in bytes, of the big-endian frame length
// prefix written before every msgpack payload.
const LengthPrefixSize = 4

// MaxFramePayloadSize caps a single encoded element, guarding against a
// runaway element silently producing an unbounded write.
const MaxFramePayloadSize = 16 * 1024 * 1024

// SnapshotWriter writes pushed elements as length-prefixed msgpack frames,
// one frame per element, to an underlying io.Writer. Safe for concurrent
// use by a single sink (writes are serialized).
type SnapshotWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewSnapshotWriter wraps w.
func NewSnapshotWriter(w io.Writer) *SnapshotWriter { return &SnapshotWriter{w: w} }

// WriteElement encodes x as msgpack, prefixes it with its big-endian
// length, and writes the frame.
func (s *SnapshotWriter) WriteElement(x types.Element) error {
	payload, err := msgpack.Marshal(x)
	if err != nil {
		return fmt.Errorf("sink: marshal snapshot element: %w", err)
	}
	if len(payload) > MaxFramePayloadSize {
		return fmt.Errorf("sink: snapshot element of %d bytes exceeds limit of %d", len(payload), MaxFramePayloadSize)
	}

	var header [LengthPrefixSize]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(payload)))

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(header[:]); err != nil {
		return fmt.Errorf("sink: write snapshot frame header: %w", err)
	}
	if _, err := s.w.Write(payload); err != nil {
		return fmt.Errorf("sink: write snapshot frame payload: %w", err)
	}
	return nil
}

// ToSnapshot returns a flow.SinkFunc-compatible function writing every
// pushed element as a length-prefixed msgpack frame to w.
func ToSnapshot(w io.Writer) func(types.Element) error {
	sw := NewSnapshotWriter(w)
	return sw.WriteElement
}

// ReadSnapshotFrame reads one length-prefixed msgpack frame from r and
// decodes it into x. Returns io.EOF when the stream is exhausted cleanly.
func ReadSnapshotFrame(r io.Reader, x any) error {
	var header [LengthPrefixSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return err
	}
	size := binary.BigEndian.Uint32(header[:])
	if size > MaxFramePayloadSize {
		return fmt.Errorf("sink: snapshot frame of %d bytes exceeds limit of %d", size, MaxFramePayloadSize)
	}
	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return fmt.Errorf("sink: read snapshot frame payload: %w", err)
	}
	return msgpack.Unmarshal(payload, x)
}
