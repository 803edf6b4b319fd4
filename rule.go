package veil

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// Direction selects how a rule treats the properties it names.
type Direction uint8

const (
	// Include emits only the named properties.
	Include Direction = iota + 1

	// Exclude emits every property except the named ones.
	Exclude
)

func (d Direction) String() string {
	switch d {
	case Include:
		return "include"
	case Exclude:
		return "exclude"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// RuleKey identifies a rule within one direction of a RuleIndex.
type RuleKey struct {
	Type reflect.Type
	Path string
}

// Rule decides which properties of one struct type are written, and which
// of them are masked. A rule with an empty path applies at any path.
// Rules are immutable.
type Rule struct {
	typ     reflect.Type
	path    string
	dir     Direction
	props   map[string]struct{}
	maskers map[string]MaskType
}

// NewRule creates a rule. Pointer types are dereferenced; props and
// maskers are copied.
func NewRule(typ reflect.Type, path string, dir Direction, props []string, maskers map[string]MaskType) *Rule {
	r := &Rule{
		typ:     derefType(typ),
		path:    path,
		dir:     dir,
		props:   make(map[string]struct{}, len(props)),
		maskers: make(map[string]MaskType, len(maskers)),
	}
	for _, p := range props {
		r.props[p] = struct{}{}
	}
	for p, mt := range maskers {
		r.maskers[p] = mt
	}
	return r
}

// Type returns the struct type the rule targets.
func (r *Rule) Type() reflect.Type { return r.typ }

// Path returns the rule's path, empty for a type-wide rule.
func (r *Rule) Path() string { return r.path }

// Direction returns whether the rule includes or excludes its properties.
func (r *Rule) Direction() Direction { return r.dir }

// Key returns the rule's identity.
func (r *Rule) Key() RuleKey { return RuleKey{Type: r.typ, Path: r.path} }

// Props returns the named properties in sorted order.
func (r *Rule) Props() []string {
	props := make([]string, 0, len(r.props))
	for p := range r.props {
		props = append(props, p)
	}
	slices.Sort(props)
	return props
}

// Names reports whether the rule names prop.
func (r *Rule) Names(prop string) bool {
	_, ok := r.props[prop]
	return ok
}

// Masker returns the mask type bound to prop.
func (r *Rule) Masker(prop string) (MaskType, bool) {
	mt, ok := r.maskers[prop]
	return mt, ok
}

// Allows reports whether prop is written under this rule.
func (r *Rule) Allows(prop string) bool {
	if r.dir == Include {
		return r.Names(prop)
	}
	return !r.Names(prop)
}

func (r *Rule) String() string {
	var b strings.Builder
	b.WriteString(r.dir.String())
	b.WriteByte(' ')
	if r.typ != nil {
		b.WriteString(r.typ.String())
	}
	if r.path != "" {
		b.WriteString(" at ")
		b.WriteString(r.path)
	}
	b.WriteString(" [")
	b.WriteString(strings.Join(r.Props(), ","))
	b.WriteByte(']')
	return b.String()
}

// derefType strips pointer indirections from t.
func derefType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
