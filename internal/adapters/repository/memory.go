package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/okian/persona/internal/domain/model"
	"github.com/okian/persona/pkg/metrics"
)

const defaultMetricsUpdateInterval = 5 * time.Second

// group is one bucket of the registry. Its lock serializes writes to the
// group's members; other groups are unaffected.
type group struct {
	mu      sync.RWMutex
	order   []string
	records map[string]model.MemberRecord
}

// InMemoryRegistry is a process-local Registry. Buckets are created on first
// write and never dropped.
//
// Locking: mu guards only the groups map. Every read or write of member data
// takes the owning bucket's lock, so upserts for different groups proceed in
// parallel and two writes to the same member are applied one after another.
type InMemoryRegistry struct {
	mu     sync.RWMutex
	groups map[string]*group

	now                   func() time.Time
	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

var _ Registry = (*InMemoryRegistry)(nil)

// NewInMemoryRegistry constructs an empty registry. When the metrics interval
// is positive a goroutine publishes size gauges until ctx ends or Close is
// called.
func NewInMemoryRegistry(ctx context.Context, opts ...Option) *InMemoryRegistry {
	r := &InMemoryRegistry{
		groups:                make(map[string]*group),
		now:                   time.Now,
		metricsUpdateInterval: defaultMetricsUpdateInterval,
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.metricsUpdateInterval > 0 {
		r.startMetricsUpdater(ctx)
	}
	return r
}

// Close stops the background metrics updater.
func (r *InMemoryRegistry) Close() error {
	r.stopOnce.Do(func() { close(r.stopChan) })
	r.wg.Wait()
	return nil
}

// Upsert implements Registry.
func (r *InMemoryRegistry) Upsert(ctx context.Context, groupID string, rec model.MemberRecord) (bool, error) {
	start := time.Now()
	defer func() { metrics.RecordRegistryUpdateLatency(msSince(start)) }()

	if strings.TrimSpace(groupID) == "" || strings.TrimSpace(rec.MemberID) == "" {
		metrics.RecordErrorByComponent("registry", "invalid_id")
		return false, ErrInvalidID
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = r.now()
	}

	g := r.bucket(groupID, true)
	g.mu.Lock()
	defer g.mu.Unlock()

	_, exists := g.records[rec.MemberID]
	if !exists {
		g.order = append(g.order, rec.MemberID)
	}
	g.records[rec.MemberID] = rec
	return !exists, nil
}

// Get implements Registry.
func (r *InMemoryRegistry) Get(ctx context.Context, groupID, memberID string) (model.MemberRecord, error) {
	start := time.Now()
	defer func() { metrics.RecordRegistryQueryLatency(msSince(start)) }()

	g := r.bucket(groupID, false)
	if g == nil {
		return model.MemberRecord{}, ErrNotFound
	}
	g.mu.RLock()
	defer g.mu.RUnlock()

	rec, ok := g.records[memberID]
	if !ok {
		return model.MemberRecord{}, ErrNotFound
	}
	return rec, nil
}

// Remove implements Registry.
func (r *InMemoryRegistry) Remove(ctx context.Context, groupID, memberID string) bool {
	start := time.Now()
	defer func() { metrics.RecordRegistryUpdateLatency(msSince(start)) }()

	g := r.bucket(groupID, false)
	if g == nil {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.records[memberID]; !ok {
		return false
	}
	delete(g.records, memberID)
	for i, id := range g.order {
		if id == memberID {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	return true
}

// List implements Registry. The returned slice is a copy.
func (r *InMemoryRegistry) List(ctx context.Context, groupID string) []model.MemberRecord {
	start := time.Now()
	defer func() { metrics.RecordRegistryQueryLatency(msSince(start)) }()

	g := r.bucket(groupID, false)
	if g == nil {
		return []model.MemberRecord{}
	}
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]model.MemberRecord, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.records[id])
	}
	return out
}

// Stats implements Registry.
func (r *InMemoryRegistry) Stats(ctx context.Context) Stats {
	r.mu.RLock()
	buckets := make([]*group, 0, len(r.groups))
	for _, g := range r.groups {
		buckets = append(buckets, g)
	}
	r.mu.RUnlock()

	s := Stats{Groups: len(buckets)}
	for _, g := range buckets {
		g.mu.RLock()
		s.Members += len(g.records)
		g.mu.RUnlock()
	}
	return s
}

// bucket returns the group's bucket, creating it when create is set.
func (r *InMemoryRegistry) bucket(groupID string, create bool) *group {
	r.mu.RLock()
	g := r.groups[groupID]
	r.mu.RUnlock()
	if g != nil || !create {
		return g
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if g = r.groups[groupID]; g == nil {
		g = &group{records: make(map[string]model.MemberRecord)}
		r.groups[groupID] = g
	}
	return g
}

// startMetricsUpdater publishes registry size gauges periodically.
func (r *InMemoryRegistry) startMetricsUpdater(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(r.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-r.stopChan:
				return
			case <-ticker.C:
				r.updateMetrics(ctx)
			}
		}
	}()
}

func (r *InMemoryRegistry) updateMetrics(ctx context.Context) {
	s := r.Stats(ctx)
	metrics.UpdateRegistrySize(s.Groups, s.Members)
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}
