package veil

import (
	"context"
	"sync"
)

// Signature identifies an operation whose view is declared once and reused,
// such as an HTTP route or an RPC method name.
type Signature string

var (
	registry   = make(map[Signature]*RuleIndex)
	registryMu sync.RWMutex
)

// Use returns the cached RuleIndex for sig or builds one from declare.
// declare runs at most once per signature while its result is cached; a
// declaration that fails validation is not cached.
func Use(sig Signature, declare func() View) (*RuleIndex, error) {
	registryMu.RLock()
	if idx, ok := registry[sig]; ok {
		registryMu.RUnlock()
		return idx, nil
	}
	registryMu.RUnlock()

	registryMu.Lock()
	defer registryMu.Unlock()

	// Double-check after acquiring write lock
	if idx, ok := registry[sig]; ok {
		return idx, nil
	}

	idx, err := BuildIndex(declare())
	if err != nil {
		return nil, err
	}
	registry[sig] = idx
	emitIndexBuilt(context.Background(), sig, idx.Len())
	return idx, nil
}

// Reset clears the signature cache. Intended for testing.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[Signature]*RuleIndex)
}
