// Package types defines the core data model shared across the dataflow
// engine: elements, node identity, and the token/error taxonomy that every
// operator package depends on.
package types

import "github.com/google/uuid"

// Element is an opaque value carried through the graph. The engine imposes
// no schema; individual operators may assert whatever shape they need.
type Element = any

// NodeKind identifies the operator kind a node was constructed as. Used for
// logging, metrics dimensions, and graph rendering — never for dispatch.
type NodeKind string

const (
	KindStream        NodeKind = "stream"
	KindCounter       NodeKind = "counter"
	KindMap           NodeKind = "map"
	KindFilter        NodeKind = "filter"
	KindRemove        NodeKind = "remove"
	KindScan          NodeKind = "scan"
	KindFrequencies   NodeKind = "frequencies"
	KindConcat        NodeKind = "concat"
	KindUnique        NodeKind = "unique"
	KindPluck         NodeKind = "pluck"
	KindSink          NodeKind = "sink"
	KindPartition     NodeKind = "partition"
	KindSlidingWindow NodeKind = "sliding_window"
	KindCollect       NodeKind = "collect"
	KindUnion         NodeKind = "union"
	KindZip           NodeKind = "zip"
	KindCombineLatest NodeKind = "combine_latest"
	KindRateLimit     NodeKind = "rate_limit"
	KindDelay         NodeKind = "delay"
	KindBuffer        NodeKind = "buffer"
	KindTimedWindow   NodeKind = "timed_window"
)

// NodeID is a stable identity assigned to a node at construction time. It is
// used for idempotent-subscription bookkeeping and for correlating log and
// metrics output with a specific vertex.
type NodeID string

// NewNodeID mints a fresh node identity.
func NewNodeID() NodeID {
	return NodeID(uuid.New().String())
}
