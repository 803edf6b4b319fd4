package veil

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/zoobzio/sentinel"
)

// Property describes one JSON property of an object.
type Property struct {
	Name      string   // JSON property name
	Index     []int    // struct field index path, nil for Describer properties
	OmitEmpty bool     // omit when the value is empty
	Quoted    bool     // scalar encoded inside a JSON string (the ",string" option)
	Mask      MaskType // default mask type from the view.mask tag
}

// PropertyAccessor enumerates and reads the properties of object values.
type PropertyAccessor interface {
	// Properties returns v's properties in output order.
	Properties(v reflect.Value) []Property

	// Value returns the value of property p of v.
	Value(v reflect.Value, p Property) (reflect.Value, error)
}

// errNilEmbedded marks a property promoted through a nil embedded pointer.
var errNilEmbedded = errors.New("nil embedded struct")

// ReflectAccessor reads struct fields following encoding/json naming rules.
// Values implementing Describer are read through that interface instead.
// Property lists are cached per type. Safe for concurrent use.
type ReflectAccessor struct {
	cache sync.Map // reflect.Type -> []Property
}

// NewReflectAccessor creates a ReflectAccessor.
func NewReflectAccessor() *ReflectAccessor {
	return &ReflectAccessor{}
}

// Properties returns v's properties in output order.
func (a *ReflectAccessor) Properties(v reflect.Value) []Property {
	if d, ok := asDescriber(v); ok {
		names := d.DescribeProperties()
		props := make([]Property, len(names))
		for i, name := range names {
			props[i] = Property{Name: name}
		}
		return props
	}
	if v.Kind() != reflect.Struct {
		return nil
	}
	return a.TypeProperties(v.Type())
}

// TypeProperties returns the properties of struct type t.
func (a *ReflectAccessor) TypeProperties(t reflect.Type) []Property {
	if cached, ok := a.cache.Load(t); ok {
		return cached.([]Property)
	}
	props := scanProperties(t)
	actual, _ := a.cache.LoadOrStore(t, props)
	return actual.([]Property)
}

// Value returns the value of property p of v.
func (a *ReflectAccessor) Value(v reflect.Value, p Property) (reflect.Value, error) {
	if p.Index == nil {
		d, ok := asDescriber(v)
		if !ok {
			return reflect.Value{}, fmt.Errorf("%w: %s has no property %q", ErrProperty, v.Type(), p.Name)
		}
		val, err := d.PropertyValue(p.Name)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %w", ErrProperty, err)
		}
		return reflect.ValueOf(val), nil
	}
	return fieldByIndex(v, p.Index)
}

// asDescriber returns v as a Describer, trying the pointer receiver when v is addressable.
func asDescriber(v reflect.Value) (Describer, bool) {
	if !v.IsValid() || !v.CanInterface() {
		return nil, false
	}
	if d, ok := v.Interface().(Describer); ok {
		return d, true
	}
	if v.CanAddr() {
		if d, ok := v.Addr().Interface().(Describer); ok {
			return d, true
		}
	}
	return nil, false
}

// fieldByIndex walks index from v, stepping through embedded pointers.
func fieldByIndex(v reflect.Value, index []int) (reflect.Value, error) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, fmt.Errorf("%w: %w", ErrProperty, errNilEmbedded)
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, nil
}

// candidate is a property found while scanning, before dominance is resolved.
type candidate struct {
	Property
	depth  int
	tagged bool
}

// scanProperties lists the JSON properties of struct type t.
// Promoted fields follow encoding/json: the shallowest field wins, a tagged
// field breaks a tie, and remaining ties drop the name.
func scanProperties(t reflect.Type) []Property {
	var found []candidate
	collectFields(t, nil, 0, map[reflect.Type]bool{t: true}, &found)

	byName := make(map[string][]candidate, len(found))
	for _, c := range found {
		byName[c.Name] = append(byName[c.Name], c)
	}

	props := make([]Property, 0, len(byName))
	for _, group := range byName {
		if p, ok := dominant(group); ok {
			props = append(props, p)
		}
	}
	slices.SortFunc(props, func(a, b Property) int {
		return slices.Compare(a.Index, b.Index)
	})
	return props
}

// dominant picks the winning candidate for one property name.
func dominant(group []candidate) (Property, bool) {
	minDepth := group[0].depth
	for _, c := range group[1:] {
		minDepth = min(minDepth, c.depth)
	}

	var shallow []candidate
	for _, c := range group {
		if c.depth == minDepth {
			shallow = append(shallow, c)
		}
	}
	if len(shallow) == 1 {
		return shallow[0].Property, true
	}

	var tagged []candidate
	for _, c := range shallow {
		if c.tagged {
			tagged = append(tagged, c)
		}
	}
	if len(tagged) == 1 {
		return tagged[0].Property, true
	}
	return Property{}, false
}

// collectFields appends the candidate properties of t, descending into
// untagged embedded structs.
func collectFields(t reflect.Type, parent []int, depth int, visiting map[reflect.Type]bool, out *[]candidate) {
	masks := fieldMasks(t)

	for i := range t.NumField() {
		sf := t.Field(i)
		jsonTag := sf.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(jsonTag, ",")
		index := append(slices.Clip(parent), i)

		if sf.Anonymous && name == "" {
			ft := derefType(sf.Type)
			if ft.Kind() == reflect.Struct {
				if !visiting[ft] {
					visiting[ft] = true
					collectFields(ft, index, depth+1, visiting, out)
					delete(visiting, ft)
				}
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}

		tagged := name != ""
		if !tagged {
			name = sf.Name
		}
		*out = append(*out, candidate{
			Property: Property{
				Name:      name,
				Index:     index,
				OmitEmpty: hasOption(opts, "omitempty"),
				Quoted:    hasOption(opts, "string") && quotable(sf.Type),
				Mask:      masks[sf.Name],
			},
			depth:  depth,
			tagged: tagged,
		})
	}
}

// quotable reports whether the ",string" option applies to fields of type
// t. Like encoding/json, one level of unnamed pointer is looked through.
func quotable(t reflect.Type) bool {
	if t.Name() == "" && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// sentinelName is the key sentinel caches t's metadata under.
func sentinelName(t reflect.Type) string {
	if pkg := t.PkgPath(); pkg != "" {
		return pkg + "." + t.Name()
	}
	return t.Name()
}

// fieldMasks returns the view.mask tags of t's fields keyed by Go field
// name, preferring sentinel's registered metadata.
func fieldMasks(t reflect.Type) map[string]MaskType {
	masks := make(map[string]MaskType)
	if meta, ok := sentinel.Lookup(sentinelName(t)); ok {
		for _, fm := range meta.Fields {
			if val, ok := fm.Tags[maskTag]; ok {
				masks[fm.Name] = MaskType(val)
			}
		}
	}
	// Fields sentinel does not track are read from the struct itself.
	for i := range t.NumField() {
		sf := t.Field(i)
		if _, ok := masks[sf.Name]; ok {
			continue
		}
		if val, ok := sf.Tag.Lookup(maskTag); ok {
			masks[sf.Name] = MaskType(val)
		}
	}
	return masks
}

// hasOption reports whether a comma-separated tag option list contains opt.
func hasOption(opts, opt string) bool {
	for opts != "" {
		var o string
		o, opts, _ = strings.Cut(opts, ",")
		if o == opt {
			return true
		}
	}
	return false
}
