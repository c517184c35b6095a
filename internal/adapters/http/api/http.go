// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/okian/persona/internal/app"
	"github.com/okian/persona/internal/domain/catalog"
	"github.com/okian/persona/internal/domain/facets"
	"github.com/okian/persona/internal/domain/matching"
	"github.com/okian/persona/internal/domain/model"
	"github.com/okian/persona/internal/domain/summary"
	"github.com/okian/persona/internal/domain/trait"
	"github.com/okian/persona/pkg/logger"
)

const (
	defaultMaxBodyBytes = 64 << 10
	defaultSummaryMode  = "concise"
)

// MatchDependencies covers stateless matching.
type MatchDependencies interface {
	Match(ctx context.Context, raw trait.Vector) (matching.Result, error)
	Explain(ctx context.Context, raw trait.Vector) (matching.Result, []matching.Candidate, error)
}

// MemberDependencies covers the per-member operations of a group.
type MemberDependencies interface {
	Submit(ctx context.Context, groupID, memberID string, raw trait.Vector) (service.Submission, error)
	Profile(ctx context.Context, groupID, memberID string) (model.MemberRecord, error)
	Forget(ctx context.Context, groupID, memberID string) (bool, error)
}

// GroupDependencies covers the group-wide views.
type GroupDependencies interface {
	Members(ctx context.Context, groupID string) ([]model.MemberRecord, error)
	Departments(ctx context.Context, groupID string) ([]summary.DepartmentGroup, error)
	Summary(ctx context.Context, groupID string) (summary.Summary, error)
}

// CatalogDependencies covers the read-only catalog and facet preview.
type CatalogDependencies interface {
	Roles(ctx context.Context) ([]catalog.RolePattern, error)
	ImportFacets(ctx context.Context, payload map[string]any) ([]facets.Facet, error)
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	MatchDependencies
	MemberDependencies
	GroupDependencies
	CatalogDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	matchHandler   *MatchHandler
	membersHandler *MembersHandler
	groupsHandler  *GroupsHandler
	catalogHandler *CatalogHandler

	maxBodyBytes int64
	summaryMode  string
	logger       logger.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithMaxBodyBytes caps request bodies. Non-positive values are ignored.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// WithDefaultSummaryMode sets the summary mode used when the query omits it.
func WithDefaultSummaryMode(mode string) Option {
	return func(s *Server) {
		if validSummaryMode(mode) {
			s.summaryMode = mode
		}
	}
}

// WithLogger sets the logger used by the handlers.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		maxBodyBytes: defaultMaxBodyBytes,
		summaryMode:  defaultSummaryMode,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("api")
	}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.matchHandler = NewMatchHandler(deps, s.maxBodyBytes)
	s.membersHandler = NewMembersHandler(deps, s.maxBodyBytes)
	s.groupsHandler = NewGroupsHandler(deps, s.summaryMode)
	s.catalogHandler = NewCatalogHandler(deps, s.maxBodyBytes)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, RequestIDMiddleware(MetricsMiddleware(h, endpoint)))
	}

	route("GET /healthz", "healthz", s.healthHandler.HandleHealth)
	route("GET /stats", "stats", s.statsHandler.HandleStats)

	route("POST /match", "match", s.matchHandler.HandleMatch)
	route("GET /roles", "roles", s.catalogHandler.HandleRoles)
	route("POST /import/facets", "import_facets", s.catalogHandler.HandleImportFacets)

	route("PUT /groups/{group}/members/{member}", "submit", s.membersHandler.HandleSubmit)
	route("GET /groups/{group}/members/{member}", "profile", s.membersHandler.HandleProfile)
	route("DELETE /groups/{group}/members/{member}", "forget", s.membersHandler.HandleForget)

	route("GET /groups/{group}/members", "members", s.groupsHandler.HandleMembers)
	route("GET /groups/{group}/departments", "departments", s.groupsHandler.HandleDepartments)
	route("GET /groups/{group}/summary", "summary", s.groupsHandler.HandleSummary)

	s.logger.Debug(ctx, "api routes registered",
		logger.Any("max_body_bytes", s.maxBodyBytes),
		logger.String("summary_mode", s.summaryMode),
	)
}

type errorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Traits  []string `json:"traits,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
