// Package types defines shared Go types used by both the agent and server:
// the raw Observation parsed from a telemetry CSV row, the StressRecord
// persisted for high-stress observations, and the error taxonomy used across
// component boundaries.
package types
