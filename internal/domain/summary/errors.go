package summary

import "errors"

// Sentinel kinds for summary errors.
var (
	ErrEmptyGroup = errors.New("no members to summarize")
)
