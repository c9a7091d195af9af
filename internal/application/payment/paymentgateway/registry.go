package paymentgateway

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps payment method ids to requesters. The server registers the
// Swirepay gateway at startup; checkout looks it up by id.
type Registry struct {
	mu         sync.RWMutex
	requesters map[string]PaymentLinkRequester
}

func NewRegistry() *Registry {
	return &Registry{requesters: make(map[string]PaymentLinkRequester)}
}

// Register adds a requester. Registering the same id twice is an error.
func (r *Registry) Register(id string, requester PaymentLinkRequester) error {
	if id == "" {
		return fmt.Errorf("gateway id is required")
	}
	if requester == nil {
		return fmt.Errorf("gateway %s: requester is nil", id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.requesters[id]; exists {
		return fmt.Errorf("gateway %s is already registered", id)
	}
	r.requesters[id] = requester
	return nil
}

func (r *Registry) Get(id string) (PaymentLinkRequester, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	requester, ok := r.requesters[id]
	return requester, ok
}

// IDs returns the registered ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.requesters))
	for id := range r.requesters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

var defaultRegistry = NewRegistry()

// Register adds a requester to the process-wide registry.
func Register(id string, requester PaymentLinkRequester) error {
	return defaultRegistry.Register(id, requester)
}

// Get looks up a requester in the process-wide registry.
func Get(id string) (PaymentLinkRequester, bool) {
	return defaultRegistry.Get(id)
}

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}
