package assistant

import (
	"fmt"
	"sync"
)

// Router manages assistant providers and routing
type Router struct {
	providers       map[string]Provider
	defaultProvider string
	mu              sync.RWMutex
}

// NewRouter creates a new assistant router
func NewRouter(defaultProvider string) *Router {
	return &Router{
		providers:       make(map[string]Provider),
		defaultProvider: defaultProvider,
	}
}

// RegisterProvider registers an assistant provider
func (r *Router) RegisterProvider(provider Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[provider.Name()] = provider
}

// GetProvider returns a provider by name, defaulting when name is empty
func (r *Router) GetProvider(name string) (Provider, error) {
	if name == "" {
		name = r.defaultProvider
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider not found: %s", name)
	}
	if !p.IsConfigured() {
		return nil, fmt.Errorf("provider not configured: %s", name)
	}
	return p, nil
}

// ListProviders returns the names of configured providers
func (r *Router) ListProviders() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for name, p := range r.providers {
		if p.IsConfigured() {
			names = append(names, name)
		}
	}
	return names
}

// DefaultProvider returns the default provider name
func (r *Router) DefaultProvider() string {
	return r.defaultProvider
}
