package veil

import (
	"reflect"
	"slices"
	"strings"
)

// RuleIndex holds the include and exclude rules of one operation.
// Build it once, then share it: an index that is no longer modified is safe
// for concurrent Resolve calls.
type RuleIndex struct {
	include map[reflect.Type]map[string]*Rule
	exclude map[reflect.Type]map[string]*Rule
}

// NewRuleIndex creates an empty index.
func NewRuleIndex() *RuleIndex {
	return &RuleIndex{
		include: make(map[reflect.Type]map[string]*Rule),
		exclude: make(map[reflect.Type]map[string]*Rule),
	}
}

// Add stores r under its direction, replacing a rule with the same key.
// Nil rules and rules with an unknown direction are ignored.
func (x *RuleIndex) Add(r *Rule) {
	if r == nil {
		return
	}
	var m map[reflect.Type]map[string]*Rule
	switch r.dir {
	case Include:
		m = x.include
	case Exclude:
		m = x.exclude
	default:
		return
	}
	byPath, ok := m[r.typ]
	if !ok {
		byPath = make(map[string]*Rule)
		m[r.typ] = byPath
	}
	byPath[r.path] = r
}

// Resolve returns the rule governing a value of typ at path.
// Include rules are consulted before exclude rules, and within each
// direction an exact path match beats the type-wide rule.
func (x *RuleIndex) Resolve(typ reflect.Type, path string) (*Rule, bool) {
	if x == nil {
		return nil, false
	}
	typ = derefType(typ)
	if r, ok := lookup(x.include, typ, path); ok {
		return r, true
	}
	return lookup(x.exclude, typ, path)
}

// lookup finds the exact-path rule for typ, then its type-wide rule.
func lookup(m map[reflect.Type]map[string]*Rule, typ reflect.Type, path string) (*Rule, bool) {
	byPath, ok := m[typ]
	if !ok {
		return nil, false
	}
	if r, ok := byPath[path]; ok {
		return r, true
	}
	r, ok := byPath[""]
	return r, ok
}

// HasRules reports whether the index holds any rule.
func (x *RuleIndex) HasRules() bool {
	return x != nil && (len(x.include) > 0 || len(x.exclude) > 0)
}

// Len returns the number of rules in the index.
func (x *RuleIndex) Len() int {
	if x == nil {
		return 0
	}
	n := 0
	for _, byPath := range x.include {
		n += len(byPath)
	}
	for _, byPath := range x.exclude {
		n += len(byPath)
	}
	return n
}

// Rules returns every rule, includes first, ordered by type and path.
func (x *RuleIndex) Rules() []*Rule {
	if x == nil {
		return nil
	}
	rules := make([]*Rule, 0, x.Len())
	for _, m := range []map[reflect.Type]map[string]*Rule{x.include, x.exclude} {
		start := len(rules)
		for _, byPath := range m {
			for _, r := range byPath {
				rules = append(rules, r)
			}
		}
		slices.SortFunc(rules[start:], func(a, b *Rule) int {
			if c := strings.Compare(a.typ.String(), b.typ.String()); c != 0 {
				return c
			}
			return strings.Compare(a.path, b.path)
		})
	}
	return rules
}

// BuildIndex validates a view and compiles it into a RuleIndex.
// Include filters are added before exclude filters.
func BuildIndex(view View) (*RuleIndex, error) {
	x := NewRuleIndex()
	for _, set := range []struct {
		dir     Direction
		filters []Filter
	}{
		{Include, view.Include},
		{Exclude, view.Exclude},
	} {
		for _, f := range set.filters {
			if err := validateFilter(f); err != nil {
				return nil, err
			}
			x.Add(f.rule(set.dir))
		}
	}
	return x, nil
}

// describerType is the Describer interface type.
var describerType = reflect.TypeFor[Describer]()

// validateFilter checks that f targets an object type and names only
// properties that type declares.
func validateFilter(f Filter) error {
	if f.Type == nil {
		return newConfigError(ErrInvalidFilter, "", "")
	}
	typ := derefType(f.Type)
	if typ.Implements(describerType) || reflect.PointerTo(typ).Implements(describerType) {
		// Describer properties are only known at render time.
		return nil
	}
	if typ.Kind() != reflect.Struct {
		return newConfigError(ErrInvalidFilter, typ.String(), "")
	}

	known := make(map[string]bool)
	for _, p := range scanProperties(typ) {
		known[p.Name] = true
	}
	for _, p := range f.Props {
		if !known[p] {
			return newConfigError(ErrUnknownProperty, typ.String(), p)
		}
	}
	for _, s := range f.Sensitives {
		for _, p := range s.Props {
			if !known[p] {
				return newConfigError(ErrUnknownProperty, typ.String(), p)
			}
		}
	}
	return nil
}
