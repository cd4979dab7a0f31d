// Package config defines a YAML schema for describing a graph topology
// declaratively: a source, a linear pipeline of parameterized operator
// stages, an optional sink, and an optional downstream adapter.
package config

import (
	"fmt"
	"time"
)

// Config represents a tapline graph config file.
type Config struct {
	Source   SourceConfig   `yaml:"source"`
	Pipeline []StageConfig  `yaml:"pipeline"`
	Sink     *SinkConfig    `yaml:"sink,omitempty"`
	Adapter  *AdapterConfig `yaml:"adapter,omitempty"`
}

// SourceConfig describes the graph's entry point.
type SourceConfig struct {
	// Type is "stream" or "counter".
	Type string `yaml:"type"`
	// Interval is the counter's tick interval. Ignored for "stream".
	Interval Duration `yaml:"interval,omitempty"`
}

// StageConfig describes one operator stage in the pipeline, applied in
// sequence. Only parameterized operators are representable here; operators
// that require a user callback (map, filter, remove, scan, concat) are
// Go-API only.
type StageConfig struct {
	// Kind selects the operator: partition, sliding_window, collect,
	// unique, frequencies, pluck, rate_limit, delay, buffer, timed_window.
	Kind string `yaml:"kind"`
	// Size is used by partition, sliding_window, buffer.
	Size int `yaml:"size,omitempty"`
	// Interval is used by rate_limit, delay, timed_window.
	Interval Duration `yaml:"interval,omitempty"`
	// Index is used by pluck (a slice index or map key).
	Index string `yaml:"index,omitempty"`
	// History bounds unique's dedup window (0 means unbounded).
	History int `yaml:"history,omitempty"`
}

// SinkConfig describes the graph's terminal node.
type SinkConfig struct {
	// Type is "stdout", "file", or "list".
	Type string `yaml:"type"`
	// Path is the destination file for the "file" sink.
	Path string `yaml:"path,omitempty"`
}

// AdapterConfig describes an optional downstream notification adapter.
type AdapterConfig struct {
	// Type is "webhook" or "redis".
	Type    string            `yaml:"type"`
	URL     string            `yaml:"url"`
	Channel string            `yaml:"channel,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty"`
	Timeout Duration          `yaml:"timeout,omitempty"`
	Retries *int              `yaml:"retries,omitempty"`
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}
