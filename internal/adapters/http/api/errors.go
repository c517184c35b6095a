package api

import (
	"errors"
	"net/http"

	service "github.com/okian/persona/internal/app"
	"github.com/okian/persona/internal/domain/matching"
	"github.com/okian/persona/internal/domain/summary"
	"github.com/okian/persona/internal/domain/trait"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrBodyTooLarge = errors.New("request body too large")
	ErrTooStrong    = errors.New("all traits at 120: scores look inflated, answer again honestly")
	ErrBadMode      = errors.New("mode must be concise or detailed")
)

// writeServiceError maps service and domain errors onto status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	var oor *trait.OutOfRangeError
	switch {
	case errors.As(err, &oor):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Code:    "out_of_range",
			Message: err.Error(),
			Traits:  traitCodes(oor.Traits),
		})
	case errors.Is(err, service.ErrInvalidID):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, summary.ErrEmptyGroup):
		writeError(w, http.StatusNotFound, "no_members", err)
	case errors.Is(err, service.ErrNotStarted), errors.Is(err, matching.ErrEmptyCatalog):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

func traitCodes(ts []trait.Trait) []string {
	codes := make([]string, len(ts))
	for i, t := range ts {
		codes[i] = t.Code()
	}
	return codes
}
