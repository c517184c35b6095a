// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	repository "github.com/okian/persona/internal/adapters/repository"
	"github.com/okian/persona/internal/domain/catalog"
	"github.com/okian/persona/internal/domain/facets"
	"github.com/okian/persona/internal/domain/matching"
	"github.com/okian/persona/internal/domain/model"
	"github.com/okian/persona/internal/domain/summary"
	"github.com/okian/persona/internal/domain/trait"
	"github.com/okian/persona/pkg/logger"
	"github.com/okian/persona/pkg/metrics"
)

const defaultRolesPath = "roles.yaml"

// Submission is the outcome of Submit. Stored is false when no group was
// given; the match is still computed.
type Submission struct {
	matching.Result
	GroupID  string `json:"group_id,omitempty"`
	MemberID string `json:"member_id,omitempty"`
	Stored   bool   `json:"stored"`
	Created  bool   `json:"created"`
}

// Service wires the role catalog, the member registry and the aggregator.
type Service struct {
	mu sync.RWMutex

	// Core components
	catalog  *catalog.Catalog
	registry repository.Registry

	// Configuration
	rolesPath       string
	metricsInterval time.Duration
	now             func() time.Time

	// State
	started      bool
	ownsRegistry bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRolesPath sets the catalog file loaded by Start.
func WithRolesPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.rolesPath = path
		}
	}
}

// WithCatalog supplies an already-loaded catalog; Start then skips the file.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithRegistry supplies the member registry. Without it Start creates an
// in-memory one and closes it on Stop.
func WithRegistry(r repository.Registry) Option {
	return func(s *Service) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithRegistryMetricsInterval sets how often the owned registry publishes
// size gauges. Zero disables it.
func WithRegistryMetricsInterval(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.metricsInterval = d
		}
	}
}

// WithClock overrides the time source for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		rolesPath:       defaultRolesPath,
		metricsInterval: 5 * time.Second,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the catalog (unless one was supplied) and prepares the
// registry. It is idempotent.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.catalog == nil {
		c, err := catalog.LoadFile(s.rolesPath)
		if err != nil {
			metrics.RecordErrorByComponent("catalog", "load")
			return fmt.Errorf("start: %w", err)
		}
		s.catalog = c
	}
	if s.registry == nil {
		s.registry = repository.NewInMemoryRegistry(ctx,
			repository.WithMetricsUpdateInterval(s.metricsInterval),
			repository.WithClock(s.now),
		)
		s.ownsRegistry = true
	}

	metrics.UpdateCatalogRoles(s.catalog.Len())
	s.started = true
	s.logger.Info(ctx, "persona service started",
		logger.Int("roles", s.catalog.Len()),
		logger.String("roles_path", s.rolesPath),
	)
	return nil
}

// Stop releases the registry if the service created it.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.ownsRegistry {
		if closer, ok := s.registry.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
		s.registry = nil
		s.ownsRegistry = false
	}
	s.started = false
	s.logger.Info(context.Background(), "persona service stopped")
}

func (s *Service) deps() (*catalog.Catalog, repository.Registry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, ErrNotStarted
	}
	return s.catalog, s.registry, nil
}

// Match returns the best role for raw without storing anything.
func (s *Service) Match(ctx context.Context, raw trait.Vector) (matching.Result, error) {
	res, _, err := s.Explain(ctx, raw)
	return res, err
}

// Explain is Match plus every role's score in catalog order.
func (s *Service) Explain(ctx context.Context, raw trait.Vector) (matching.Result, []matching.Candidate, error) {
	cat, _, err := s.deps()
	if err != nil {
		return matching.Result{}, nil, err
	}

	start := time.Now()
	res, cands, err := matching.MatchAll(raw, cat)
	metrics.RecordMatchLatency(float64(time.Since(start).Microseconds()) / 1000)
	if err != nil {
		reason := matchErrorReason(err)
		metrics.RecordMatchError(reason)
		s.logger.Warn(ctx, "match_rejected", logger.String("reason", reason), logger.Error(err))
		return matching.Result{}, nil, err
	}
	metrics.RecordMatch(res.Department)
	return res, cands, nil
}

// Submit matches raw and, when groupID is set, stores the result for
// memberID. Identifiers are opaque: they are stored exactly as given, so
// Profile and Forget must use the same keys. Repeat submissions overwrite
// the member's earlier record.
func (s *Service) Submit(ctx context.Context, groupID, memberID string, raw trait.Vector) (Submission, error) {
	start := time.Now()
	res, err := s.Match(ctx, raw)
	if err != nil {
		return Submission{}, err
	}
	sub := Submission{Result: res, GroupID: groupID, MemberID: memberID}

	if groupID == "" {
		metrics.RecordSubmission("stateless")
		s.logger.Info(ctx, "member_matched",
			logger.String("member", memberID),
			logger.String("role", res.Role),
			logger.Duration("duration", time.Since(start)),
		)
		return sub, nil
	}
	if memberID == "" {
		return Submission{}, ErrInvalidID
	}

	_, reg, err := s.deps()
	if err != nil {
		return Submission{}, err
	}
	created, err := reg.Upsert(ctx, groupID, model.MemberRecord{
		MemberID:   memberID,
		Traits:     raw,
		Role:       res.Role,
		Department: res.Department,
		UpdatedAt:  s.now(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrInvalidID) {
			return Submission{}, fmt.Errorf("%w: %w", ErrInvalidID, err)
		}
		return Submission{}, err
	}
	sub.Stored, sub.Created = true, created

	outcome := "updated"
	if created {
		outcome = "created"
	}
	metrics.RecordSubmission(outcome)
	s.logger.Info(ctx, "member_upserted",
		logger.String("group", groupID),
		logger.String("member", memberID),
		logger.String("role", res.Role),
		logger.String("department", res.Department),
		logger.Bool("created", created),
		logger.Duration("duration", time.Since(start)),
	)
	return sub, nil
}

// Profile returns the stored record of a member.
func (s *Service) Profile(ctx context.Context, groupID, memberID string) (model.MemberRecord, error) {
	_, reg, err := s.deps()
	if err != nil {
		return model.MemberRecord{}, err
	}
	rec, err := reg.Get(ctx, groupID, memberID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.MemberRecord{}, fmt.Errorf("%w: %q in group %q", ErrNotFound, memberID, groupID)
	}
	return rec, err
}

// Forget removes a member and reports whether anything was stored.
func (s *Service) Forget(ctx context.Context, groupID, memberID string) (bool, error) {
	_, reg, err := s.deps()
	if err != nil {
		return false, err
	}
	removed := reg.Remove(ctx, groupID, memberID)
	outcome := "missing"
	if removed {
		outcome = "removed"
	}
	metrics.RecordForget(outcome)
	s.logger.Info(ctx, "member_forgotten",
		logger.String("group", groupID),
		logger.String("member", memberID),
		logger.Bool("removed", removed),
	)
	return removed, nil
}

// Members lists a group's records in insertion order.
func (s *Service) Members(ctx context.Context, groupID string) ([]model.MemberRecord, error) {
	_, reg, err := s.deps()
	if err != nil {
		return nil, err
	}
	return reg.List(ctx, groupID), nil
}

// Departments buckets a group's members per department. An empty group
// yields summary.ErrEmptyGroup.
func (s *Service) Departments(ctx context.Context, groupID string) ([]summary.DepartmentGroup, error) {
	records, err := s.Members(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, summary.ErrEmptyGroup
	}
	return summary.GroupByDepartment(records), nil
}

// Summary aggregates a group. An empty group yields summary.ErrEmptyGroup.
func (s *Service) Summary(ctx context.Context, groupID string) (summary.Summary, error) {
	start := time.Now()
	records, err := s.Members(ctx, groupID)
	if err != nil {
		return summary.Summary{}, err
	}
	sum, err := summary.Summarize(records)
	if err != nil {
		s.logger.Debug(ctx, "summary_empty", logger.String("group", groupID))
		return summary.Summary{}, err
	}
	metrics.RecordTeamworkIndex(sum.Teamwork.Index)
	s.logger.Info(ctx, "group_summarized",
		logger.String("group", groupID),
		logger.Int("members", sum.MemberCount),
		logger.Float64("teamwork", sum.Teamwork.Index),
		logger.String("vibe", sum.Vibe.Label),
		logger.Duration("duration", time.Since(start)),
	)
	return sum, nil
}

// Roles returns the catalog in declaration order.
func (s *Service) Roles(ctx context.Context) ([]catalog.RolePattern, error) {
	cat, _, err := s.deps()
	if err != nil {
		return nil, err
	}
	return cat.Patterns(), nil
}

// ImportFacets previews the facets found in a test-result payload. Nothing
// is stored.
func (s *Service) ImportFacets(ctx context.Context, payload map[string]any) ([]facets.Facet, error) {
	if _, _, err := s.deps(); err != nil {
		return nil, err
	}
	fs := facets.ParsePayload(payload)
	outcome := "ok"
	if len(fs) == 0 {
		outcome = "empty"
	}
	metrics.RecordFacetImport(outcome)
	s.logger.Info(ctx, "facets_imported", logger.Int("facet_count", len(fs)))
	return fs, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":   s.started,
		"rolesPath": s.rolesPath,
	}
	if s.started {
		rs := s.registry.Stats(context.Background())
		stats["roles"] = s.catalog.Len()
		stats["groups"] = rs.Groups
		stats["members"] = rs.Members
		metrics.UpdateRegistrySize(rs.Groups, rs.Members)
	}
	return stats
}

func matchErrorReason(err error) string {
	switch {
	case errors.Is(err, trait.ErrOutOfRange):
		return "out_of_range"
	case errors.Is(err, matching.ErrEmptyCatalog):
		return "empty_catalog"
	default:
		return "other"
	}
}
