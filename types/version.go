package types

// Version is the canonical project version, reported by `tapline version`
// and embedded in SinkCompletedEvent's ContractVersion field.
const Version = "0.1.0"
