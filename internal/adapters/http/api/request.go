package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/okian/persona/internal/domain/trait"
)

// traitRequest mirrors the OpenAPI schema for a body of raw scores. JSON keys
// match case-insensitively, so {"o": 90} is accepted as well.
type traitRequest struct {
	O *float64 `json:"O" validate:"required,gte=0,lte=120"`
	C *float64 `json:"C" validate:"required,gte=0,lte=120"`
	E *float64 `json:"E" validate:"required,gte=0,lte=120"`
	A *float64 `json:"A" validate:"required,gte=0,lte=120"`
	N *float64 `json:"N" validate:"required,gte=0,lte=120"`
}

func (r traitRequest) vector() trait.Vector {
	return trait.Vector{O: *r.O, C: *r.C, E: *r.E, A: *r.A, N: *r.N}
}

// tooStrong reports the all-120 answer sheet, which is rejected as implausible.
func (r traitRequest) tooStrong() bool {
	v := r.vector()
	for _, t := range trait.All {
		if v.Get(t) != trait.MaxRaw {
			return false
		}
	}
	return true
}

// requestError is a rejected body, ready to be written.
type requestError struct {
	status int
	body   errorResponse
}

func (e *requestError) write(w http.ResponseWriter) {
	writeJSON(w, e.status, e.body)
}

// decodeTraits reads and validates a trait body capped at maxBytes.
func decodeTraits(w http.ResponseWriter, r *http.Request, v *validator.Validate, maxBytes int64) (trait.Vector, *requestError) {
	var req traitRequest
	if rerr := decodeBody(w, r, maxBytes, &req); rerr != nil {
		return trait.Vector{}, rerr
	}

	if err := v.Struct(req); err != nil {
		codes := invalidFields(err)
		return trait.Vector{}, &requestError{
			status: http.StatusBadRequest,
			body: errorResponse{
				Code:    "invalid_traits",
				Message: fmt.Sprintf("%s: %s must be numbers between 0 and 120", ErrBadRequest, strings.Join(codes, ", ")),
				Traits:  codes,
			},
		}
	}
	if req.tooStrong() {
		return trait.Vector{}, &requestError{
			status: http.StatusUnprocessableEntity,
			body:   errorResponse{Code: "too_strong", Message: ErrTooStrong.Error()},
		}
	}
	return req.vector(), nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) *requestError {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &requestError{
				status: http.StatusRequestEntityTooLarge,
				body:   errorResponse{Code: "body_too_large", Message: fmt.Sprintf("%s: limit is %d bytes", ErrBodyTooLarge, tooLarge.Limit)},
			}
		}
		return &requestError{
			status: http.StatusBadRequest,
			body:   errorResponse{Code: "bad_request", Message: fmt.Sprintf("%s: %v", ErrBadRequest, err)},
		}
	}
	return nil
}

// invalidFields lists the failing trait codes in field order.
func invalidFields(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	codes := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		codes = append(codes, fe.Field())
	}
	return codes
}
