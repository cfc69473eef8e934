// Package otel bridges membergate counters into OpenTelemetry as
// observable counters. The exporter registers a single callback that
// snapshots the engine on each collection; it holds no state of its own.
package otel
