package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
)

// MembersHandler handles the per-member routes of a group.
type MembersHandler struct {
	deps         MemberDependencies
	validator    *validator.Validate
	maxBodyBytes int64
}

// NewMembersHandler creates a new members handler.
func NewMembersHandler(deps MemberDependencies, maxBodyBytes int64) *MembersHandler {
	return &MembersHandler{deps: deps, validator: validator.New(), maxBodyBytes: maxBodyBytes}
}

type forgetResponse struct {
	GroupID  string `json:"group_id"`
	MemberID string `json:"member_id"`
	Removed  bool   `json:"removed"`
}

// HandleSubmit handles PUT /groups/{group}/members/{member}. A new member
// answers 201, a replaced record 200.
func (h *MembersHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	raw, rerr := decodeTraits(w, r, h.validator, h.maxBodyBytes)
	if rerr != nil {
		rerr.write(w)
		return
	}
	sub, err := h.deps.Submit(r.Context(), r.PathValue("group"), r.PathValue("member"), raw)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	status := http.StatusOK
	if sub.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, sub)
}

// HandleProfile handles GET /groups/{group}/members/{member}.
func (h *MembersHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	rec, err := h.deps.Profile(r.Context(), r.PathValue("group"), r.PathValue("member"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// HandleForget handles DELETE /groups/{group}/members/{member}. Forgetting an
// unknown member is not an error; Removed is false.
func (h *MembersHandler) HandleForget(w http.ResponseWriter, r *http.Request) {
	group, member := r.PathValue("group"), r.PathValue("member")
	removed, err := h.deps.Forget(r.Context(), group, member)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, forgetResponse{GroupID: group, MemberID: member, Removed: removed})
}
