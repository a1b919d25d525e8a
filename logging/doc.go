// Package logging provides structured logging using Go's standard library log/slog.
// It outputs JSON by default, or logfmt-style text for interactive tools, and the
// resulting logger is supplied to Uber's Fx container and to config objects.
package logging
