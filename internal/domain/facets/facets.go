// Package facets extracts Big Five facet scores from third-party test result
// payloads. It only previews data; nothing here feeds role matching.
package facets

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/okian/persona/internal/domain/trait"
)

// PreviewLimit is how many facet names a preview shows.
const PreviewLimit = 8

// FacetMap lists the six IPIP-NEO-120 facets of every trait.
var FacetMap = map[trait.Trait][6]string{
	trait.Openness: {
		"Imagination", "Artistic interests", "Emotionality",
		"Adventurousness", "Intellect", "Liberalism",
	},
	trait.Conscientiousness: {
		"Self-efficacy", "Orderliness", "Dutifulness",
		"Achievement-striving", "Self-discipline", "Cautiousness",
	},
	trait.Extraversion: {
		"Friendliness", "Gregariousness", "Assertiveness",
		"Activity level", "Excitement-seeking", "Cheerfulness",
	},
	trait.Agreeableness: {
		"Trust", "Morality", "Altruism",
		"Cooperation", "Modesty", "Sympathy",
	},
	trait.Neuroticism: {
		"Anxiety", "Anger", "Depression",
		"Self-consciousness", "Immoderation", "Vulnerability",
	},
}

// Facet is one extracted facet score in -1..+1.
type Facet struct {
	Domain string  `json:"domain"`
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
}

// NormalizeUnit maps 0..1 onto -1..+1. Input outside 0..1 is clamped.
func NormalizeUnit(v float64) float64 {
	switch {
	case v != v, v < 0: // NaN counts as missing
		v = 0
	case v > 1:
		v = 1
	}
	return (v - 0.5) * 2
}

// ParsePayload pulls facets out of a payload shaped like
//
//	{"facets": {"<domain>": {"<facet name>": <0..1 score>}}}
//
// Facet names are title-cased. Entries that are not objects or whose score is
// not numeric are skipped. A name seen in several domains keeps the last one.
// The result is ordered by domain (trait order first) then by name.
func ParsePayload(payload map[string]any) []Facet {
	domains, ok := payload["facets"].(map[string]any)
	if !ok {
		return nil
	}

	title := cases.Title(language.Und)
	byName := make(map[string]Facet)
	for _, domain := range sortedDomains(domains) {
		items, ok := domains[domain].(map[string]any)
		if !ok {
			continue
		}
		for _, raw := range sortedKeys(items) {
			v, ok := number(items[raw])
			if !ok {
				continue
			}
			name := title.String(strings.TrimSpace(raw))
			if name == "" {
				continue
			}
			byName[name] = Facet{Domain: domain, Name: name, Value: NormalizeUnit(v)}
		}
	}

	out := make([]Facet, 0, len(byName))
	for _, f := range byName {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := domainRank(out[i].Domain), domainRank(out[j].Domain)
		if ri != rj {
			return ri < rj
		}
		if out[i].Domain != out[j].Domain {
			return out[i].Domain < out[j].Domain
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Preview returns up to PreviewLimit facet names.
func Preview(fs []Facet) []string {
	n := len(fs)
	if n > PreviewLimit {
		n = PreviewLimit
	}
	names := make([]string, n)
	for i := 0; i < n; i++ {
		names[i] = fs[i].Name
	}
	return names
}

// Known reports whether name is one of the canonical facets, ignoring case.
func Known(name string) bool {
	for _, names := range FacetMap {
		for _, n := range names {
			if strings.EqualFold(n, name) {
				return true
			}
		}
	}
	return false
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

// domainRank places trait domains (by code or name) first, in trait order.
func domainRank(d string) int {
	for i, t := range trait.All {
		if strings.EqualFold(d, t.Code()) || strings.EqualFold(d, t.Name()) {
			return i
		}
	}
	return len(trait.All)
}

func sortedDomains(m map[string]any) []string {
	ks := sortedKeys(m)
	sort.SliceStable(ks, func(i, j int) bool { return domainRank(ks[i]) < domainRank(ks[j]) })
	return ks
}

func sortedKeys(m map[string]any) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}
