package seed

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/okian/persona/pkg/logger"
	"golang.org/x/sync/errgroup"
)

type summaryBody struct {
	MemberCount int      `json:"member_count"`
	TopRoles    []string `json:"top_roles"`
}

// expectedCounts returns the number of unique members per group.
func expectedCounts(subs []Submission) map[string]int {
	seen := make(map[string]map[string]struct{})
	for _, s := range subs {
		if seen[s.Group] == nil {
			seen[s.Group] = make(map[string]struct{})
		}
		seen[s.Group][s.Member] = struct{}{}
	}
	out := make(map[string]int, len(seen))
	for g, members := range seen {
		out[g] = len(members)
	}
	return out
}

// verify reads every group's summary and compares its member count with
// the unique members submitted. Resubmissions must not add members.
func verify(ctx context.Context, cfg *Config, client *HTTPClient, subs []Submission, stats *Stats) error {
	want := expectedCounts(subs)
	logger.Get().Info(ctx, "verifying groups", logger.Int("groups", len(want)))

	var (
		mu         sync.Mutex
		mismatches []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for group, expected := range want {
		g.Go(func() error {
			var body summaryBody
			status, err := client.Get(gctx, summaryPath(group), &body)
			if err != nil {
				return err
			}
			var problem string
			switch {
			case status != http.StatusOK:
				problem = fmt.Sprintf("%s: status %d", group, status)
			case body.MemberCount != expected:
				problem = fmt.Sprintf("%s: %d members, want %d", group, body.MemberCount, expected)
			}
			mu.Lock()
			defer mu.Unlock()
			stats.GroupsChecked++
			if problem != "" {
				mismatches = append(mismatches, problem)
			} else if cfg.Verbose {
				logger.Get().Info(gctx, "group verified",
					logger.String("group", group),
					logger.Int("members", body.MemberCount),
					logger.Any("top_roles", body.TopRoles),
				)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("%w: %w", ErrVerification, err)
	}

	unique := 0
	for _, n := range want {
		unique += n
	}
	if stats.Failed == 0 && stats.Created != unique {
		mismatches = append(mismatches, fmt.Sprintf("created %d members, want %d", stats.Created, unique))
	}
	if len(mismatches) > 0 {
		sort.Strings(mismatches)
		return fmt.Errorf("%w: %s", ErrVerification, strings.Join(mismatches, "; "))
	}
	logger.Get().Info(ctx, "verification completed", logger.Int("groups", stats.GroupsChecked))
	return nil
}
