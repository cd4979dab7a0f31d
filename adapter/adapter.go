// Package adapter defines the downstream notification boundary: after a
// graph's sink finishes handling an element (or a graph run completes),
// an Adapter publishes a SinkCompletedEvent to an external system.
package adapter

import "context"

// SinkCompletedEvent is the payload published when a sink node finishes
// processing, or a graph run completes.
type SinkCompletedEvent struct {
	ContractVersion string `json:"contract_version"`
	EventType       string `json:"event_type"` // always "sink_completed"
	GraphID         string `json:"graph_id"`
	NodeID          string `json:"node_id"`
	NodeKind        string `json:"node_kind"`
	Outcome         string `json:"outcome"` // success, callback_error, timeout
	Timestamp       string `json:"timestamp"` // ISO 8601
	ElementCount    int64  `json:"element_count"`
	DurationMs      int64  `json:"duration_ms"`
}

// Adapter publishes sink completion events to a downstream system.
// Implementations must be safe for single-use per graph run.
type Adapter interface {
	// Publish sends event to the downstream system. Must respect context
	// cancellation and deadlines.
	Publish(ctx context.Context, event *SinkCompletedEvent) error

	// Close releases adapter resources.
	Close() error
}
