package seed

import "errors"

// Sentinel kinds for seed errors.
var (
	ErrInvalidConfig = errors.New("invalid seed config")
	ErrUnhealthy     = errors.New("service unhealthy")
	ErrVerification  = errors.New("verification failed")
)
