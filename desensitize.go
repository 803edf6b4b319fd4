package veil

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// MaskerFactory creates a Masker on first use.
type MaskerFactory func() (Masker, error)

// MaskerRegistry resolves mask types to masker instances.
// Instances are created lazily from their factory, once per mask type, and
// reused for every later lookup. Safe for concurrent use.
type MaskerRegistry struct {
	mu        sync.RWMutex
	factories map[MaskType]MaskerFactory
	instances map[MaskType]Masker
}

// NewMaskerRegistry returns a registry with the builtin mask types registered.
func NewMaskerRegistry() *MaskerRegistry {
	r := &MaskerRegistry{
		factories: make(map[MaskType]MaskerFactory, len(builtinMaskTypes)),
		instances: make(map[MaskType]Masker),
	}
	for mt, f := range builtinMaskTypes {
		r.factories[mt] = f
	}
	return r
}

// Register binds a ready masker instance to mt, replacing any earlier binding.
func (r *MaskerRegistry) Register(mt MaskType, m Masker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[mt] = func() (Masker, error) { return m, nil }
	r.instances[mt] = m
}

// RegisterFactory binds a factory to mt, replacing any earlier binding.
// The factory runs on the next lookup of mt.
func (r *MaskerRegistry) RegisterFactory(mt MaskType, f MaskerFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[mt] = f
	delete(r.instances, mt)
}

// Lookup returns the masker for mt, creating it on first use.
func (r *MaskerRegistry) Lookup(mt MaskType) (Masker, error) {
	r.mu.RLock()
	m, ok := r.instances[mt]
	r.mu.RUnlock()
	if ok {
		return m, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if m, ok := r.instances[mt]; ok {
		return m, nil
	}

	f, ok := r.factories[mt]
	if !ok {
		return nil, newConfigError(ErrMissingMasker, string(mt), "")
	}

	m, err := instantiate(f)
	if err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("%w: %w", ErrMaskerInit, err), Type: string(mt)}
	}
	r.instances[mt] = m
	return m, nil
}

// instantiate runs a factory, converting a panic or a nil masker into an error.
func instantiate(f MaskerFactory) (m Masker, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			m, err = nil, fmt.Errorf("factory panicked: %v", rec)
		}
	}()
	m, err = f()
	if err == nil && m == nil {
		err = fmt.Errorf("factory returned no masker")
	}
	return m, err
}

// Mask rewrites value with the masker registered for mt.
//
// Mask never fails. An empty value or mask type returns value unchanged.
// A missing masker, a failing factory or a panicking masker emits
// SignalMaskFailed and returns value unchanged.
func (r *MaskerRegistry) Mask(ctx context.Context, mt MaskType, value string) (masked string) {
	if value == "" || mt == "" {
		return value
	}

	m, err := r.Lookup(mt)
	if err != nil {
		emitMaskFailed(ctx, mt, err)
		return value
	}

	defer func() {
		if rec := recover(); rec != nil {
			emitMaskFailed(ctx, mt, fmt.Errorf("%w: %v", ErrMask, rec))
			masked = value
		}
	}()
	return m.Mask(value)
}

// Types returns the registered mask types in sorted order.
func (r *MaskerRegistry) Types() []MaskType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]MaskType, 0, len(r.factories))
	for mt := range r.factories {
		types = append(types, mt)
	}
	slices.Sort(types)
	return types
}

// Clear drops cached instances so factories run again on next lookup.
// Intended for testing.
func (r *MaskerRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.instances)
}

var defaultMaskers = NewMaskerRegistry()

// RegisterMasker binds m to mt in the package-level registry used by Desensitize.
func RegisterMasker(mt MaskType, m Masker) {
	defaultMaskers.Register(mt, m)
}

// Desensitize masks value with the package-level registry.
// Like MaskerRegistry.Mask it never fails.
func Desensitize(mt MaskType, value string) string {
	return defaultMaskers.Mask(context.Background(), mt, value)
}
