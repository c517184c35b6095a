// Package catalog holds the immutable table of role archetypes that member
// trait scores are matched against.
package catalog

import (
	"fmt"
	"math"

	"github.com/okian/persona/internal/domain/trait"
)

// Weight bounds for every pattern component.
const (
	MinWeight = -1.0
	MaxWeight = 1.0
)

// RolePattern is a named archetype. Weights use the trait.Vector shape with
// each component in [MinWeight, MaxWeight].
type RolePattern struct {
	Name        string       `json:"name"`
	Weights     trait.Vector `json:"pattern"`
	Department  string       `json:"department"`
	Description string       `json:"description"`
}

// Catalog is an ordered, read-only collection of patterns keyed by name.
// Iteration order is the declaration order of the source. The zero value is
// an empty catalog.
type Catalog struct {
	patterns []RolePattern
	index    map[string]int
}

// New builds a catalog from patterns in the given order. It rejects an empty
// list, blank or duplicate names and out-of-range weights.
func New(patterns ...RolePattern) (*Catalog, error) {
	if len(patterns) == 0 {
		return nil, &ConfigError{Reason: "catalog contains no roles"}
	}
	c := &Catalog{
		patterns: make([]RolePattern, 0, len(patterns)),
		index:    make(map[string]int, len(patterns)),
	}
	for _, p := range patterns {
		if p.Name == "" {
			return nil, &ConfigError{Reason: "role name must not be empty"}
		}
		if _, dup := c.index[p.Name]; dup {
			return nil, &ConfigError{Role: p.Name, Reason: "duplicate role name"}
		}
		for _, t := range trait.All {
			if w := p.Weights.Get(t); !weightInRange(w) {
				return nil, &ConfigError{Role: p.Name, Reason: fmt.Sprintf("pattern %q out of range [-1,1]: %v", t.Code(), w)}
			}
		}
		c.index[p.Name] = len(c.patterns)
		c.patterns = append(c.patterns, p)
	}
	return c, nil
}

func weightInRange(w float64) bool {
	return !math.IsNaN(w) && w >= MinWeight && w <= MaxWeight
}

// Len returns the number of roles.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.patterns)
}

// Patterns returns a copy of the patterns in declaration order.
func (c *Catalog) Patterns() []RolePattern {
	if c == nil {
		return nil
	}
	out := make([]RolePattern, len(c.patterns))
	copy(out, c.patterns)
	return out
}

// Lookup returns the pattern registered under name.
func (c *Catalog) Lookup(name string) (RolePattern, bool) {
	if c == nil {
		return RolePattern{}, false
	}
	i, ok := c.index[name]
	if !ok {
		return RolePattern{}, false
	}
	return c.patterns[i], true
}

// Departments lists distinct departments in order of first declaration.
func (c *Catalog) Departments() []string {
	if c == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, p := range c.patterns {
		if _, ok := seen[p.Department]; ok {
			continue
		}
		seen[p.Department] = struct{}{}
		out = append(out, p.Department)
	}
	return out
}
