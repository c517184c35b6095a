package api

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/okian/persona/internal/domain/matching"
)

// MatchHandler handles stateless match requests.
type MatchHandler struct {
	deps         MatchDependencies
	validator    *validator.Validate
	maxBodyBytes int64
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler(deps MatchDependencies, maxBodyBytes int64) *MatchHandler {
	return &MatchHandler{deps: deps, validator: validator.New(), maxBodyBytes: maxBodyBytes}
}

type explainResponse struct {
	matching.Result
	Candidates []matching.Candidate `json:"candidates"`
}

// HandleMatch handles POST /match[?explain=true] requests.
func (h *MatchHandler) HandleMatch(w http.ResponseWriter, r *http.Request) {
	raw, rerr := decodeTraits(w, r, h.validator, h.maxBodyBytes)
	if rerr != nil {
		rerr.write(w)
		return
	}

	explain, _ := strconv.ParseBool(r.URL.Query().Get("explain"))
	if !explain {
		res, err := h.deps.Match(r.Context(), raw)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
		return
	}

	res, cands, err := h.deps.Explain(r.Context(), raw)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, explainResponse{Result: res, Candidates: cands})
}
