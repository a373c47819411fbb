// Package logging provides structured logging for Tagcast.
//
// It wraps log/slog with configuration-driven level, format, and output
// selection, plus default service/version fields on every record. Logs go
// to stderr by default so they stay out of the interactive feed on stdout.
package logging
