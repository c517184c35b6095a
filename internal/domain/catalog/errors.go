package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for catalog errors.
var (
	ErrConfig = errors.New("invalid role catalog")
)

// ConfigError reports why a role catalog could not be loaded. It matches
// ErrConfig with errors.Is and unwraps to the underlying I/O or parse cause.
type ConfigError struct {
	Source string // file path or "<reader>"
	Role   string // offending role, empty for document-level problems
	Reason string
	More   int // additional error issues beyond the one reported
	Err    error
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString(ErrConfig.Error())
	if e.Source != "" {
		b.WriteString(": ")
		b.WriteString(e.Source)
	}
	if e.Role != "" {
		fmt.Fprintf(&b, ": role %q", e.Role)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if e.More > 0 {
		fmt.Fprintf(&b, " (and %d more)", e.More)
	}
	return b.String()
}

// Is reports whether target is ErrConfig.
func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

func (e *ConfigError) Unwrap() error { return e.Err }
