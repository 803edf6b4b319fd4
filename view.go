package veil

import (
	"reflect"
	"slices"

	"github.com/zoobzio/sentinel"
)

func init() {
	sentinel.Tag(maskTag)
}

// maskTag declares a field's default mask type: `view.mask:"email"`.
const maskTag = "view.mask"

// Sensitive binds a mask type to properties of a filter.
type Sensitive struct {
	Type  MaskType
	Props []string
}

// Filter declares one rule: the properties of Type, at Field, that a view
// includes or excludes. An empty Field applies at any path.
type Filter struct {
	Type       reflect.Type
	Field      string
	Props      []string
	Sensitives []Sensitive
}

// For returns a type-wide filter for T naming props.
func For[T any](props ...string) Filter {
	typ := derefType(reflect.TypeFor[T]())
	if typ.Kind() == reflect.Struct {
		// Warm sentinel's metadata cache for ReflectAccessor. TryScan
		// follows one pointer; other types fall back to reading struct tags.
		_, _ = sentinel.TryScan[T]()
	}
	return Filter{Type: typ, Props: props}
}

// At returns a copy of f scoped to path.
func (f Filter) At(path string) Filter {
	f.Field = path
	return f
}

// Mask returns a copy of f that masks props with mt.
// Later bindings override earlier ones for the same property.
func (f Filter) Mask(mt MaskType, props ...string) Filter {
	f.Sensitives = append(slices.Clip(f.Sensitives), Sensitive{Type: mt, Props: props})
	return f
}

// maskers flattens the sensitive bindings, later bindings winning.
func (f Filter) maskers() map[string]MaskType {
	m := make(map[string]MaskType)
	for _, s := range f.Sensitives {
		for _, p := range s.Props {
			m[p] = s.Type
		}
	}
	return m
}

// rule builds the rule f declares.
func (f Filter) rule(dir Direction) *Rule {
	return NewRule(f.Type, f.Field, dir, f.Props, f.maskers())
}

// View is the complete filter declaration of one operation.
type View struct {
	Include []Filter
	Exclude []Filter
}
