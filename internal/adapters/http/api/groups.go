package api

import (
	"net/http"
	"strings"

	"github.com/okian/persona/internal/domain/model"
	"github.com/okian/persona/internal/domain/summary"
	"github.com/okian/persona/pkg/metrics"
)

// Summary modes.
const (
	ModeConcise  = "concise"
	ModeDetailed = "detailed"
)

func validSummaryMode(mode string) bool {
	return mode == ModeConcise || mode == ModeDetailed
}

// GroupsHandler handles the group-wide views.
type GroupsHandler struct {
	deps        GroupDependencies
	defaultMode string
}

// NewGroupsHandler creates a new groups handler.
func NewGroupsHandler(deps GroupDependencies, defaultMode string) *GroupsHandler {
	if !validSummaryMode(defaultMode) {
		defaultMode = ModeConcise
	}
	return &GroupsHandler{deps: deps, defaultMode: defaultMode}
}

type membersResponse struct {
	GroupID string               `json:"group_id"`
	Count   int                  `json:"count"`
	Members []model.MemberRecord `json:"members"`
}

type departmentsResponse struct {
	GroupID     string                    `json:"group_id"`
	Departments []summary.DepartmentGroup `json:"departments"`
}

// HandleMembers handles GET /groups/{group}/members. An empty group is 404.
func (h *GroupsHandler) HandleMembers(w http.ResponseWriter, r *http.Request) {
	group := r.PathValue("group")
	records, err := h.deps.Members(r.Context(), group)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if len(records) == 0 {
		writeServiceError(w, summary.ErrEmptyGroup)
		return
	}
	writeJSON(w, http.StatusOK, membersResponse{GroupID: group, Count: len(records), Members: records})
}

// HandleDepartments handles GET /groups/{group}/departments.
func (h *GroupsHandler) HandleDepartments(w http.ResponseWriter, r *http.Request) {
	group := r.PathValue("group")
	depts, err := h.deps.Departments(r.Context(), group)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, departmentsResponse{GroupID: group, Departments: depts})
}

// HandleSummary handles GET /groups/{group}/summary?mode=concise|detailed.
func (h *GroupsHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	mode := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("mode")))
	if mode == "" {
		mode = h.defaultMode
	}
	if !validSummaryMode(mode) {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadMode)
		return
	}

	group := r.PathValue("group")
	sum, err := h.deps.Summary(r.Context(), group)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	metrics.RecordSummary(mode)
	writeJSON(w, http.StatusOK, renderSummary(group, mode, sum))
}
