// Package middleware provides the HTTP middleware of the API: request
// tracing and bearer token authentication with role checks.
package middleware
