// Package matching selects the role archetype closest to a set of raw trait
// scores using dot-product similarity.
package matching

import (
	"fmt"

	"github.com/okian/persona/internal/domain/catalog"
	"github.com/okian/persona/internal/domain/trait"
)

// Catalog is the read side of a role catalog. Patterns must be returned in a
// stable declaration order.
type Catalog interface {
	Patterns() []catalog.RolePattern
}

// Result is the best-matching role. Score is the dot product of the
// normalized input and the role weights; it is only meaningful relative to
// other scores for the same input.
type Result struct {
	Role        string  `json:"role"`
	Description string  `json:"description"`
	Department  string  `json:"department"`
	Score       float64 `json:"score"`
}

// Candidate is the score of one role for a given input.
type Candidate struct {
	Role  string  `json:"role"`
	Score float64 `json:"score"`
}

// Match normalizes raw and returns the role with the highest score. A later
// role only wins with a strictly greater score, so ties go to the role
// declared first.
func Match(raw trait.Vector, c Catalog) (Result, error) {
	res, _, err := MatchAll(raw, c)
	return res, err
}

// MatchAll is Match that also returns every role's score in catalog order.
func MatchAll(raw trait.Vector, c Catalog) (Result, []Candidate, error) {
	if err := raw.Validate(); err != nil {
		return Result{}, nil, fmt.Errorf("match: %w", err)
	}
	var patterns []catalog.RolePattern
	if c != nil {
		patterns = c.Patterns()
	}
	if len(patterns) == 0 {
		return Result{}, nil, ErrEmptyCatalog
	}

	norm := raw.Normalized()
	candidates := make([]Candidate, len(patterns))
	best := -1
	for i, p := range patterns {
		score := norm.Dot(p.Weights)
		candidates[i] = Candidate{Role: p.Name, Score: score}
		if best < 0 || score > candidates[best].Score {
			best = i
		}
	}

	p := patterns[best]
	return Result{
		Role:        p.Name,
		Description: p.Description,
		Department:  p.Department,
		Score:       candidates[best].Score,
	}, candidates, nil
}
