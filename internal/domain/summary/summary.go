// Package summary aggregates the member records of a group into department,
// role and personality statistics.
package summary

import (
	"sort"

	"github.com/okian/persona/internal/domain/model"
	"github.com/okian/persona/internal/domain/trait"
)

// TopRolesLimit caps Summary.TopRoles.
const TopRolesLimit = 3

// Count is a frequency keyed by name.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TraitScore pairs a trait with a (normalized) value.
type TraitScore struct {
	Trait trait.Trait `json:"trait"`
	Value float64     `json:"value"`
}

// Summary is the aggregate view of one group.
type Summary struct {
	MemberCount       int          `json:"member_count"`
	Departments       []Count      `json:"departments"` // first-occurrence order
	Roles             []Count      `json:"roles"`       // first-occurrence order
	TopRoles          []string     `json:"top_roles"`
	AverageTraits     trait.Vector `json:"average_traits"`
	NormalizedAverage trait.Vector `json:"normalized_average"`
	Ranking           []TraitScore `json:"ranking"` // highest first
	Dominant          TraitScore   `json:"dominant"`
	Weakest           TraitScore   `json:"weakest"`
	Spread            float64      `json:"spread"`
	Vibe              Vibe         `json:"vibe"`
	Teamwork          Teamwork     `json:"teamwork"`
}

// Summarize computes the group statistics for records. It fails with
// ErrEmptyGroup when records is empty.
func Summarize(records []model.MemberRecord) (Summary, error) {
	if len(records) == 0 {
		return Summary{}, ErrEmptyGroup
	}

	depts := make([]string, len(records))
	roles := make([]string, len(records))
	raws := make([]trait.Vector, len(records))
	for i, r := range records {
		depts[i] = r.Department
		roles[i] = r.Role
		raws[i] = r.Traits
	}

	s := Summary{
		MemberCount: len(records),
		Departments: countOrdered(depts),
		Roles:       countOrdered(roles),
	}
	s.TopRoles = topNames(s.Roles, TopRolesLimit)

	s.AverageTraits = trait.Mean(raws)
	s.NormalizedAverage = s.AverageTraits.Normalized()
	s.Ranking = Rank(s.NormalizedAverage)
	s.Dominant = s.Ranking[0]
	s.Weakest = s.Ranking[len(s.Ranking)-1]
	s.Spread = s.Dominant.Value - s.Weakest.Value
	s.Vibe = ClassifyVibe(s.Dominant, s.Weakest)

	idx := TeamworkIndex(s.AverageTraits)
	s.Teamwork = Teamwork{Index: idx, Label: ClassifyTeamwork(idx)}
	return s, nil
}

// Rank orders the traits of v from highest to lowest value. Equal values
// keep canonical trait order.
func Rank(v trait.Vector) []TraitScore {
	out := make([]TraitScore, len(trait.All))
	for i, t := range trait.All {
		out[i] = TraitScore{Trait: t, Value: v.Get(t)}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}

// DepartmentGroup lists the members of one department.
type DepartmentGroup struct {
	Department string               `json:"department"`
	Members    []model.MemberRecord `json:"members"`
}

// GroupByDepartment buckets records per department. Departments appear in
// order of first occurrence and members keep their input order.
func GroupByDepartment(records []model.MemberRecord) []DepartmentGroup {
	var out []DepartmentGroup
	pos := make(map[string]int)
	for _, r := range records {
		i, ok := pos[r.Department]
		if !ok {
			i = len(out)
			pos[r.Department] = i
			out = append(out, DepartmentGroup{Department: r.Department})
		}
		out[i].Members = append(out[i].Members, r)
	}
	return out
}

func countOrdered(keys []string) []Count {
	var out []Count
	pos := make(map[string]int)
	for _, k := range keys {
		if i, ok := pos[k]; ok {
			out[i].Count++
			continue
		}
		pos[k] = len(out)
		out = append(out, Count{Name: k, Count: 1})
	}
	return out
}

// topNames returns up to n names by descending count; ties keep the order
// of counts.
func topNames(counts []Count, n int) []string {
	sorted := make([]Count, len(counts))
	copy(sorted, counts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Count > sorted[j].Count })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	names := make([]string, len(sorted))
	for i, c := range sorted {
		names[i] = c.Name
	}
	return names
}
