// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package, together with the
// embedded schema migrations and the mapping of driver errors onto store
// errors.
package postgres
