package trait

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for trait errors.
var (
	ErrOutOfRange   = errors.New("trait score out of range")
	ErrUnknownTrait = errors.New("unknown trait")
)

// OutOfRangeError lists every trait whose raw score falls outside [MinRaw, MaxRaw].
type OutOfRangeError struct {
	Traits []Trait
}

func (e *OutOfRangeError) Error() string {
	codes := make([]string, len(e.Traits))
	for i, t := range e.Traits {
		codes[i] = t.Code()
	}
	return fmt.Sprintf("%s: %s must be between %g and %g", ErrOutOfRange, strings.Join(codes, ", "), MinRaw, MaxRaw)
}

// Is reports whether target is ErrOutOfRange.
func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}
