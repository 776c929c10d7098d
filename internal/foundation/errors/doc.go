// Package errors provides the classified error primitives used across sidebyside.
//
// Every fatal condition of a run is surfaced as a ClassifiedError so the CLI
// can pick an exit code and a log level without inspecting message strings.
//
// Key features:
//   - ErrorCategory: what failed (config, not_found, transform, contract, filesystem, internal)
//   - ErrorSeverity: impact level (fatal or error)
//   - ClassifiedError: structured error with category, severity, context and cause
//   - ErrorBuilder: fluent API for creating classified errors
//   - CLIErrorAdapter: exit code mapping and user-facing formatting
//
// Example usage:
//
//	err := errors.TransformError("transform failed").
//		WithContext("file", path).
//		WithCause(invErr).
//		Build()
package errors
