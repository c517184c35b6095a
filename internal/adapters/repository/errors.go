package repository

import "errors"

// Sentinel kinds for registry errors.
var (
	ErrNotFound  = errors.New("member not found")
	ErrInvalidID = errors.New("group and member ids must not be empty")
)
