package matching

import "errors"

// Sentinel kinds for matching errors.
var (
	ErrEmptyCatalog = errors.New("no roles to match against")
)
