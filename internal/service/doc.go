// Package service contains the application use cases for todo items and user
// administration. It orchestrates domain objects and the repositories defined
// in internal/store, and reports failures using the error taxonomy of
// internal/domain so the API layer can map them onto status codes.
//
// Authentication lives in the auth subpackage.
package service
