// Package oteladapters implements the registry observability interfaces with OpenTelemetry.
//
// Wire them into a LendingRegistry with registry.WithContextualLogger, registry.WithMetrics, and registry.WithTracing.
package oteladapters
