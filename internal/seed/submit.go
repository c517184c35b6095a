package seed

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/okian/persona/pkg/logger"
	"golang.org/x/sync/errgroup"
)

type outcome int

const (
	outcomeFailed outcome = iota
	outcomeCreated
	outcomeUpdated
)

// submitAll sends every submission with at most cfg.Workers in flight.
// Individual failures are counted, not returned.
func submitAll(ctx context.Context, cfg *Config, client *HTTPClient, subs []Submission, stats *Stats) error {
	logger.Get().Info(ctx, "submitting members",
		logger.Int("submissions", len(subs)),
		logger.Int("workers", cfg.Workers),
	)

	var created, updated, failed, submitted atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, s := range subs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			submitted.Add(1)
			switch submitOne(gctx, cfg, client, s) {
			case outcomeCreated:
				created.Add(1)
			case outcomeUpdated:
				updated.Add(1)
			default:
				failed.Add(1)
			}
			return nil
		})
	}
	err := g.Wait()

	stats.Submitted = int(submitted.Load())
	stats.Created = int(created.Load())
	stats.Updated = int(updated.Load())
	stats.Failed = int(failed.Load())

	logger.Get().Info(ctx, "submission completed",
		logger.Int("created", stats.Created),
		logger.Int("updated", stats.Updated),
		logger.Int("failed", stats.Failed),
	)
	return err
}

func submitOne(ctx context.Context, cfg *Config, client *HTTPClient, s Submission) outcome {
	status, err := client.Put(ctx, memberPath(s.Group, s.Member), s.Traits)
	switch {
	case err != nil:
		if cfg.Verbose {
			logger.Get().Warn(ctx, "submission failed", logger.String("member", s.Member), logger.Error(err))
		}
		return outcomeFailed
	case status == http.StatusCreated:
		return outcomeCreated
	case status == http.StatusOK:
		return outcomeUpdated
	default:
		if cfg.Verbose {
			logger.Get().Warn(ctx, "submission rejected", logger.String("member", s.Member), logger.Int("status", status))
		}
		return outcomeFailed
	}
}
