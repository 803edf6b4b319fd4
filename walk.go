package veil

import (
	"bytes"
	"context"
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// maxDepth bounds recursion so cyclic graphs fail instead of overflowing the stack.
const maxDepth = 1000

var (
	jsonMarshalerType = reflect.TypeFor[json.Marshaler]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// walkStats counts field outcomes of one render.
type walkStats struct {
	masked   int
	fallback int
	skipped  int
}

// walker writes one value graph to a sink, applying the rules of an index.
// A walker serves a single render.
type walker struct {
	ctx      context.Context
	id       string
	index    *RuleIndex
	path     *PathTracker
	codec    Codec
	maskers  *MaskerRegistry
	accessor PropertyAccessor
	sink     Sink

	depth int
	stats walkStats
}

// run writes v. The path tracker is empty when run returns.
func (w *walker) run(v any) (err error) {
	defer w.path.Reset()
	defer func() {
		if rec := recover(); rec != nil {
			err = newCodecError(ErrMarshal, fmt.Errorf("panic: %v", rec))
		}
	}()
	return w.value(reflect.ValueOf(v))
}

// value writes v with the default representation. Objects reached here
// resolve their rule at the current path, which value never changes.
func (w *walker) value(v reflect.Value) error {
	w.depth++
	defer func() { w.depth-- }()
	if w.depth > maxDepth {
		return fmt.Errorf("%w: exceeded %d levels at %q", ErrCycle, maxDepth, w.path.Current())
	}

	v = indirect(v)
	if !v.IsValid() {
		return w.sink.Null()
	}
	if marshals(v) {
		return w.scalar(v)
	}
	if _, ok := asDescriber(v); ok {
		return w.object(v)
	}

	switch v.Kind() {
	case reflect.Struct:
		return w.object(v)
	case reflect.Map:
		return w.mapping(v)
	case reflect.Slice:
		if isBytes(v.Type()) {
			return w.scalar(v)
		}
		return w.array(v, "")
	case reflect.Array:
		return w.array(v, "")
	default:
		return w.scalar(v)
	}
}

// object writes a struct, filtered when a rule resolves for it.
func (w *walker) object(v reflect.Value) error {
	if rule, ok := w.index.Resolve(v.Type(), w.path.Current()); ok {
		return w.filtered(v, rule)
	}

	if err := w.sink.BeginObject(); err != nil {
		return err
	}
	for _, p := range w.accessor.Properties(v) {
		fv, err := w.accessor.Value(v, p)
		if errors.Is(err, errNilEmbedded) {
			continue
		}
		if err != nil {
			return err
		}
		if p.OmitEmpty && isEmptyValue(fv) {
			continue
		}
		if err := w.sink.Name(p.Name); err != nil {
			return err
		}
		if err := w.plainValue(fv, p); err != nil {
			return err
		}
	}
	return w.sink.EndObject()
}

// plainValue writes a property value with the default representation.
func (w *walker) plainValue(fv reflect.Value, p Property) error {
	if p.Quoted {
		return w.quoted(fv)
	}
	return w.value(fv)
}

// quoted writes a scalar carrying the ",string" option as a JSON string
// holding its encoding, as encoding/json does. Nil pointers and values
// that marshal themselves are written as usual.
func (w *walker) quoted(v reflect.Value) error {
	e := indirect(v)
	if !e.IsValid() || marshals(e) || !e.CanInterface() {
		return w.value(v)
	}
	data, err := w.codec.Marshal(e.Interface())
	if err != nil {
		return newCodecError(ErrMarshal, err)
	}
	return w.sink.String(string(bytes.TrimSpace(data)))
}

// filtered writes the properties of v that rule allows. Each property is
// isolated: a failure falls back to the default representation, then to
// omission. Only sink errors escape.
func (w *walker) filtered(v reflect.Value, rule *Rule) error {
	if err := w.sink.BeginObject(); err != nil {
		return err
	}
	parent := w.path.Current()
	for _, p := range w.accessor.Properties(v) {
		if !rule.Allows(p.Name) {
			continue
		}
		mt, ok := rule.Masker(p.Name)
		if !ok {
			mt = p.Mask
		}

		err := w.field(v, p, parent, mt)
		if err == nil {
			continue
		}
		if errors.Is(err, ErrSink) {
			return err
		}
		if err := w.fallback(v, p, parent, err); err != nil {
			return err
		}
	}
	return w.sink.EndObject()
}

// field writes one allowed property of a filtered object. On failure the
// sink is rewound to where the property began.
func (w *walker) field(v reflect.Value, p Property, parent string, mt MaskType) (err error) {
	mark := w.sink.Checkpoint()
	defer func() {
		if rec := recover(); rec != nil {
			err = newFieldError(ErrProperty, p.Name, parent, fmt.Errorf("panic: %v", rec))
		}
		if err != nil && !errors.Is(err, ErrSink) {
			w.sink.Rewind(mark)
		}
	}()

	fv, err := w.accessor.Value(v, p)
	if errors.Is(err, errNilEmbedded) {
		return nil
	}
	if err != nil {
		return newFieldError(ErrProperty, p.Name, parent, err)
	}
	if p.OmitEmpty && isEmptyValue(fv) {
		return nil
	}

	if err := w.sink.Name(p.Name); err != nil {
		return err
	}
	if mt != "" {
		if s, ok := textual(fv); ok {
			w.stats.masked++
			return w.sink.String(w.maskers.Mask(w.ctx, mt, s))
		}
	}
	write := func() error { return w.member(fv, JoinPath(parent, p.Name)) }
	if p.Quoted {
		write = func() error { return w.quoted(fv) }
	}
	if err := write(); err != nil {
		if errors.Is(err, ErrSink) {
			return err
		}
		return newFieldError(errorKind(err), p.Name, parent, err)
	}
	return nil
}

// member writes the value of a filtered object's property. Nested objects
// and maps are walked with path pushed; complex elements of a sequence
// are each walked with path pushed.
func (w *walker) member(v reflect.Value, path string) error {
	e := indirect(v)
	if !e.IsValid() || !isComplex(e) {
		return w.value(v)
	}
	if e.Kind() == reflect.Slice || e.Kind() == reflect.Array {
		return w.array(e, path)
	}
	return w.within(path, e)
}

// within writes v with path pushed for the duration of the call.
func (w *walker) within(path string, v reflect.Value) error {
	defer w.path.Enter(path)()
	return w.value(v)
}

// fallback retries a failed property with its default representation and
// omits it when that fails too.
func (w *walker) fallback(v reflect.Value, p Property, parent string, cause error) error {
	emitFieldFallback(w.ctx, w.id, p.Name, parent, cause)
	w.stats.fallback++

	err := w.plain(v, p)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrSink) {
		return err
	}
	emitFieldSkipped(w.ctx, w.id, p.Name, parent, err)
	w.stats.skipped++
	return nil
}

// plain writes one property with the default dispatch, rewinding on failure.
func (w *walker) plain(v reflect.Value, p Property) (err error) {
	mark := w.sink.Checkpoint()
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: panic: %v", ErrProperty, rec)
		}
		if err != nil && !errors.Is(err, ErrSink) {
			w.sink.Rewind(mark)
		}
	}()

	fv, err := w.accessor.Value(v, p)
	if err != nil {
		return err
	}
	if err := w.sink.Name(p.Name); err != nil {
		return err
	}
	return w.plainValue(fv, p)
}

// array writes a slice or array. A non-empty path is pushed around each
// complex element; all elements share it.
func (w *walker) array(v reflect.Value, path string) error {
	if v.Kind() == reflect.Slice && v.IsNil() {
		return w.sink.Null()
	}
	if err := w.sink.BeginArray(); err != nil {
		return err
	}
	for i := range v.Len() {
		e := v.Index(i)
		var err error
		if path != "" && isComplex(indirect(e)) {
			err = w.within(path, e)
		} else {
			err = w.value(e)
		}
		if err != nil {
			return err
		}
	}
	return w.sink.EndArray()
}

// mapping writes a map with keys sorted as encoding/json sorts them.
func (w *walker) mapping(v reflect.Value) error {
	if v.IsNil() {
		return w.sink.Null()
	}

	type entry struct {
		key string
		val reflect.Value
	}
	entries := make([]entry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		key, err := mapKey(iter.Key())
		if err != nil {
			return err
		}
		entries = append(entries, entry{key: key, val: iter.Value()})
	}
	slices.SortFunc(entries, func(a, b entry) int {
		return strings.Compare(a.key, b.key)
	})

	if err := w.sink.BeginObject(); err != nil {
		return err
	}
	for _, e := range entries {
		if err := w.sink.Name(e.key); err != nil {
			return err
		}
		if err := w.value(e.val); err != nil {
			return err
		}
	}
	return w.sink.EndObject()
}

// scalar writes v through the default codec.
func (w *walker) scalar(v reflect.Value) error {
	if !v.CanInterface() {
		return fmt.Errorf("%w: unexported value of type %s", ErrProperty, v.Type())
	}
	// Pointer receivers of json.Marshaler only apply to addressable values.
	if v.Kind() != reflect.Pointer && v.CanAddr() {
		v = v.Addr()
	}
	data, err := w.codec.Marshal(v.Interface())
	if err != nil {
		return newCodecError(ErrMarshal, err)
	}
	return w.sink.Raw(data)
}

// indirect follows pointers and interfaces to the value that is written.
// It stops at pointers that marshal themselves and returns the zero Value
// for nil.
func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() {
		switch v.Kind() {
		case reflect.Pointer:
			if v.IsNil() {
				return reflect.Value{}
			}
			if marshals(v) {
				return v
			}
			v = v.Elem()
		case reflect.Interface:
			if v.IsNil() {
				return reflect.Value{}
			}
			v = v.Elem()
		default:
			return v
		}
	}
	return v
}

// marshals reports whether v encodes itself.
func marshals(v reflect.Value) bool {
	t := v.Type()
	if t.Implements(jsonMarshalerType) || t.Implements(textMarshalerType) {
		return true
	}
	if t.Kind() != reflect.Pointer && v.CanAddr() {
		pt := reflect.PointerTo(t)
		return pt.Implements(jsonMarshalerType) || pt.Implements(textMarshalerType)
	}
	return false
}

// isComplex reports whether an indirected value is an object, map or sequence.
func isComplex(v reflect.Value) bool {
	if !v.IsValid() || marshals(v) {
		return false
	}
	if _, ok := asDescriber(v); ok {
		return true
	}
	switch v.Kind() {
	case reflect.Struct, reflect.Map, reflect.Array:
		return true
	case reflect.Slice:
		return !isBytes(v.Type())
	default:
		return false
	}
}

// isBytes reports whether t encodes as base64 under encoding/json.
func isBytes(t reflect.Type) bool {
	if t.Kind() != reflect.Slice || t.Elem().Kind() != reflect.Uint8 {
		return false
	}
	pe := reflect.PointerTo(t.Elem())
	return !pe.Implements(jsonMarshalerType) && !pe.Implements(textMarshalerType)
}

// textual returns the string a maskable value holds.
func textual(v reflect.Value) (string, bool) {
	v = indirect(v)
	if v.IsValid() && v.Kind() == reflect.String {
		return v.String(), true
	}
	return "", false
}

// mapKey renders a map key the way encoding/json does.
func mapKey(k reflect.Value) (string, error) {
	if k.Kind() == reflect.String {
		return k.String(), nil
	}
	if tm, ok := k.Interface().(encoding.TextMarshaler); ok {
		if k.Kind() == reflect.Pointer && k.IsNil() {
			return "", nil
		}
		b, err := tm.MarshalText()
		if err != nil {
			return "", newCodecError(ErrMarshal, err)
		}
		return string(b), nil
	}
	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), nil
	}
	return "", newCodecError(ErrMarshal, fmt.Errorf("unsupported map key type %s", k.Type()))
}

// isEmptyValue matches encoding/json's omitempty test.
func isEmptyValue(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}

// errorKind picks the sentinel that best describes a member failure.
func errorKind(err error) error {
	for _, kind := range []error{ErrCycle, ErrMarshal, ErrProperty} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrProperty
}
