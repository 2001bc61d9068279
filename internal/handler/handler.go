// Package handler is the HTTP entry point for business logic.
//
// Handlers are typed functions wrapped by Handle, HandleNoContent and
// HandleFile. The wrapper binds and validates the request model, so a
// handler only reads the caller from the token and calls its service.
package handler
