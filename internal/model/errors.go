package model

import "errors"

// Sentinel errors shared by stores and services. Handlers map them to HTTP
// status codes in response.WriteServiceError.
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("already exists")
	ErrInvalid           = errors.New("invalid request")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDefaultFolder     = errors.New("default folder cannot be modified")
	ErrNotConfigured     = errors.New("integration not configured")
)
