package seed

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"

	"github.com/google/uuid"
	"github.com/okian/persona/internal/domain/trait"
	"github.com/okian/persona/pkg/logger"
)

const (
	randomFloatDivisor = 1000000
	noiseSpread        = 30.0
)

// profiles are the base answer sheets members are drawn around. Each leans
// on one trait so the generated groups land in different departments.
var profiles = [...]trait.Vector{
	{O: 105, C: 55, E: 60, A: 60, N: 50}, // curious
	{O: 55, C: 105, E: 50, A: 60, N: 45}, // orderly
	{O: 60, C: 55, E: 105, A: 80, N: 50}, // outgoing
	{O: 60, C: 65, E: 55, A: 105, N: 55}, // caring
	{O: 70, C: 45, E: 50, A: 50, N: 100}, // intense
	{O: 60, C: 60, E: 60, A: 60, N: 60},  // even
}

// randomFloat returns a value in [0, 1) drawn from crypto/rand.
func randomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

func randomIndex(n int) int {
	i, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(i.Int64())
}

// generate creates cfg.Members new submissions spread round-robin over the
// groups, followed by cfg.Repeats resubmissions of random earlier members.
func generate(ctx context.Context, cfg *Config, stats *Stats) ([]Submission, error) {
	logger.Get().Info(ctx, "generating submissions",
		logger.Int("members", cfg.Members),
		logger.Int("groups", cfg.Groups),
		logger.Int("repeats", cfg.Repeats),
	)

	subs := make([]Submission, 0, cfg.Members+cfg.Repeats)
	for i := 0; i < cfg.Members; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("generation cancelled: %w", err)
		}
		subs = append(subs, Submission{
			Group:  groupName(i % cfg.Groups),
			Member: uuid.NewString(),
			Traits: randomTraits(),
		})
	}
	for i := 0; i < cfg.Repeats && cfg.Members > 0; i++ {
		again := subs[randomIndex(cfg.Members)]
		again.Traits = randomTraits()
		subs = append(subs, again)
	}

	stats.Generated = len(subs)
	return subs, nil
}

func groupName(i int) string {
	return fmt.Sprintf("seed-%d", i)
}

// randomTraits draws a whole-number sheet around a random profile. The
// all-120 sheet is refused by the API, so it is never produced.
func randomTraits() trait.Vector {
	base := profiles[randomIndex(len(profiles))]
	var v trait.Vector
	for _, t := range trait.All {
		x := base.Get(t) + (randomFloat()-0.5)*noiseSpread
		x = math.Round(math.Max(trait.MinRaw, math.Min(trait.MaxRaw, x)))
		v = v.With(t, x)
	}
	if v == (trait.Vector{O: trait.MaxRaw, C: trait.MaxRaw, E: trait.MaxRaw, A: trait.MaxRaw, N: trait.MaxRaw}) {
		v.N = trait.MidRaw
	}
	return v
}
