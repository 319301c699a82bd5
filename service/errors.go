package service

import "errors"

// Failure taxonomy surfaced to callers. Handlers map these to HTTP
// status codes with errors.Is; everything else is treated as internal.
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidState    = errors.New("invalid state")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("conflict")
	ErrUnauthorized    = errors.New("unauthorized")
)
