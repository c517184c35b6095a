package catalog

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/okian/persona/internal/domain/trait"
)

// Severity classifies a validation issue.
type Severity string

// Issue severities.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Source labels used when the catalog does not come from a named file.
const (
	sourceBytes  = "<bytes>"
	sourceReader = "<reader>"
)

// Issue is a single finding produced while inspecting a catalog source.
type Issue struct {
	Severity Severity `json:"severity"`
	Role     string   `json:"role,omitempty"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	if i.Role == "" {
		return fmt.Sprintf("%s: %s", i.Severity, i.Message)
	}
	return fmt.Sprintf("%s: role %q: %s", i.Severity, i.Role, i.Message)
}

// Report is the outcome of validating a catalog source.
type Report struct {
	Source string  `json:"source"`
	Roles  int     `json:"roles"`
	Issues []Issue `json:"issues"`
}

// Errors returns the error-severity issues.
func (r Report) Errors() []Issue { return r.filter(SeverityError) }

// Warnings returns the warning-severity issues.
func (r Report) Warnings() []Issue { return r.filter(SeverityWarning) }

// OK reports whether the source is loadable (warnings allowed).
func (r Report) OK() bool { return len(r.Errors()) == 0 }

func (r Report) filter(s Severity) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == s {
			out = append(out, i)
		}
	}
	return out
}

// Parse builds a catalog from YAML bytes of the form
//
//	roles:
//	  <name>:
//	    pattern: {O: w, C: w, E: w, A: w, N: w}
//	    dept: <department>
//	    desc: <description>
//
// Roles keep their declaration order.
func Parse(data []byte) (*Catalog, error) {
	return build(sourceBytes, data)
}

// Load reads and parses a catalog from r.
func Load(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ConfigError{Source: sourceReader, Reason: "read failed", Err: err}
	}
	return build(sourceReader, data)
}

// LoadFile reads and parses the catalog stored at path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Source: path, Reason: "roles file not readable", Err: err}
	}
	return build(path, data)
}

// Validate inspects YAML bytes and reports every problem instead of failing
// on the first one. Patterns whose weights are all zero are flagged as
// warnings: they are legal but can never be the unique best match.
func Validate(data []byte) Report {
	_, rep := inspect(sourceBytes, data)
	return rep
}

// ValidateFile is Validate for a file. The error is non-nil only when the
// file cannot be read.
func ValidateFile(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{Source: path}, &ConfigError{Source: path, Reason: "roles file not readable", Err: err}
	}
	_, rep := inspect(path, data)
	return rep, nil
}

func build(source string, data []byte) (*Catalog, error) {
	patterns, rep := inspect(source, data)
	if errs := rep.Errors(); len(errs) > 0 {
		return nil, &ConfigError{
			Source: source,
			Role:   errs[0].Role,
			Reason: errs[0].Message,
			More:   len(errs) - 1,
		}
	}
	c, err := New(patterns...)
	if err != nil {
		if ce, ok := err.(*ConfigError); ok {
			ce.Source = source
		}
		return nil, err
	}
	return c, nil
}

// inspect walks the YAML node tree so mapping order survives decoding.
func inspect(source string, data []byte) ([]RolePattern, Report) {
	rep := Report{Source: source}
	fail := func(role, format string, args ...any) {
		rep.Issues = append(rep.Issues, Issue{Severity: SeverityError, Role: role, Message: fmt.Sprintf(format, args...)})
	}
	warn := func(role, format string, args ...any) {
		rep.Issues = append(rep.Issues, Issue{Severity: SeverityWarning, Role: role, Message: fmt.Sprintf(format, args...)})
	}

	if len(bytes.TrimSpace(data)) == 0 {
		fail("", "roles source is empty")
		return nil, rep
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		fail("", "malformed YAML: %v", err)
		return nil, rep
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	root = resolve(root)
	if root.Kind != yaml.MappingNode {
		fail("", "top-level 'roles' mapping is missing")
		return nil, rep
	}
	roles := resolve(lookup(root, "roles"))
	if roles == nil {
		fail("", "top-level 'roles' mapping is missing")
		return nil, rep
	}
	if roles.Kind != yaml.MappingNode {
		fail("", "'roles' must be a mapping")
		return nil, rep
	}
	if len(roles.Content) == 0 {
		fail("", "roles mapping contains no roles")
		return nil, rep
	}

	var patterns []RolePattern
	seen := make(map[string]struct{})
	for i := 0; i+1 < len(roles.Content); i += 2 {
		key, val := resolve(roles.Content[i]), resolve(roles.Content[i+1])
		name := strings.TrimSpace(key.Value)
		if key.Kind != yaml.ScalarNode || name == "" {
			fail("", "role names must be non-empty scalars (line %d)", key.Line)
			continue
		}
		if _, dup := seen[name]; dup {
			fail(name, "duplicate role name")
			continue
		}
		seen[name] = struct{}{}
		rep.Roles++

		p, ok := inspectRole(name, val, fail)
		if !ok {
			continue
		}
		if p.Weights.IsZero() {
			warn(name, "all pattern weights are zero; it will never match")
		}
		patterns = append(patterns, p)
	}
	return patterns, rep
}

func inspectRole(name string, val *yaml.Node, fail func(role, format string, args ...any)) (RolePattern, bool) {
	if val.Kind != yaml.MappingNode {
		fail(name, "role must be a mapping")
		return RolePattern{}, false
	}
	ok := true
	fields := make(map[string]*yaml.Node, 3)
	for _, req := range []string{"pattern", "dept", "desc"} {
		n := resolve(lookup(val, req))
		if n == nil {
			fail(name, "missing key: %s", req)
			ok = false
			continue
		}
		fields[req] = n
	}

	p := RolePattern{Name: name}
	for _, k := range []string{"dept", "desc"} {
		n, present := fields[k]
		if !present {
			continue
		}
		if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!str" {
			fail(name, "%s must be a string", k)
			ok = false
			continue
		}
		if k == "dept" {
			p.Department = n.Value
		} else {
			p.Description = n.Value
		}
	}

	pattern, present := fields["pattern"]
	if !present {
		return p, false
	}
	if pattern.Kind != yaml.MappingNode {
		fail(name, "pattern must be a mapping")
		return p, false
	}
	weights, wok := inspectPattern(name, pattern, fail)
	p.Weights = weights
	return p, ok && wok
}

func inspectPattern(name string, pattern *yaml.Node, fail func(role, format string, args ...any)) (trait.Vector, bool) {
	var w trait.Vector
	ok := true

	keys := make(map[string]int)
	for i := 0; i+1 < len(pattern.Content); i += 2 {
		keys[resolve(pattern.Content[i]).Value]++
	}
	if !exactTraitKeys(keys) {
		fail(name, "pattern keys must be exactly [A C E N O], got %s", describeKeys(pattern))
		ok = false
	}

	for _, t := range trait.All {
		n := resolve(lookup(pattern, t.Code()))
		if n == nil {
			ok = false
			continue
		}
		tag := n.ShortTag()
		if n.Kind != yaml.ScalarNode || (tag != "!!int" && tag != "!!float") {
			fail(name, "pattern %q must be a number, got %s", t.Code(), describeNode(n))
			ok = false
			continue
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			fail(name, "pattern %q must be a number: %v", t.Code(), err)
			ok = false
			continue
		}
		if math.IsNaN(f) || f < MinWeight || f > MaxWeight {
			fail(name, "pattern %q out of range [-1,1]: %v", t.Code(), f)
			ok = false
			continue
		}
		w = w.With(t, f)
	}
	return w, ok
}

func exactTraitKeys(keys map[string]int) bool {
	if len(keys) != len(trait.All) {
		return false
	}
	for _, t := range trait.All {
		if keys[t.Code()] != 1 {
			return false
		}
	}
	return true
}

func describeKeys(m *yaml.Node) string {
	var ks []string
	for i := 0; i+1 < len(m.Content); i += 2 {
		ks = append(ks, resolve(m.Content[i]).Value)
	}
	sort.Strings(ks)
	return "[" + strings.Join(ks, " ") + "]"
}

func describeNode(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	}
	switch n.ShortTag() {
	case "!!str":
		return "string"
	case "!!bool":
		return "bool"
	case "!!null":
		return "null"
	}
	return n.ShortTag()
}

// lookup returns the value node for key in mapping m, or nil.
func lookup(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if resolve(m.Content[i]).Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}
