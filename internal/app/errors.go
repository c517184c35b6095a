package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted = errors.New("service not started")
	ErrNotFound   = errors.New("member not found")
	ErrInvalidID  = errors.New("member id must not be empty")
)
