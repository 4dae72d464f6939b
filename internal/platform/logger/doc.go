// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured JSON logging
// with configurable log levels. Sensitive attributes (passwords, tokens, invitation
// links) are masked by the handler before they are written.
package logger
