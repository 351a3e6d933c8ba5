package store

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
)

// DomainLoader builds a fresh snapshot of one domain.
type DomainLoader func() (*Domain, error)

// Router maps logical domain names (including aliases) to loaded domains.
// The routing table is swapped atomically on reload: an in-flight request
// keeps the *Domain it resolved, so it always sees a matching index/store
// pair. Reloads are serialized; reads never block.
type Router struct {
	mu      sync.Mutex // serializes LoadAll/Reload
	loaders map[string]DomainLoader
	aliases map[string]string // alias or canonical name -> canonical name
	order   []string
	table   atomic.Pointer[map[string]*Domain]
}

func NewRouter() *Router {
	r := &Router{
		loaders: make(map[string]DomainLoader),
		aliases: make(map[string]string),
	}
	empty := make(map[string]*Domain)
	r.table.Store(&empty)
	return r
}

// Register binds a canonical domain name and its aliases to a loader. All
// registrations happen at configuration time, before LoadAll.
func (r *Router) Register(name string, aliases []string, loader DomainLoader) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range append([]string{name}, aliases...) {
		if owner, ok := r.aliases[n]; ok {
			return fmt.Errorf("domain name %q already registered for %q", n, owner)
		}
	}
	r.loaders[name] = loader
	r.order = append(r.order, name)
	r.aliases[name] = name
	for _, a := range aliases {
		r.aliases[a] = name
	}
	return nil
}

// LoadAll loads every registered domain and swaps the routing table in one
// step. Any failure leaves the previous table untouched.
func (r *Router) LoadAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := make(map[string]*Domain, len(r.loaders))
	for name, loader := range r.loaders {
		domain, err := loader()
		if err != nil {
			return fmt.Errorf("failed to load domain %q: %w", name, err)
		}
		next[name] = domain
	}
	r.table.Store(&next)
	return nil
}

// Reload rebuilds one domain (or all when name is empty) and swaps a copied
// table. Concurrent readers complete against whichever snapshot they
// resolved, never a mix.
func (r *Router) Reload(name string) error {
	if name == "" {
		return r.LoadAll()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	canonical, ok := r.aliases[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownDomain, name)
	}
	domain, err := r.loaders[canonical]()
	if err != nil {
		return fmt.Errorf("failed to reload domain %q: %w", canonical, err)
	}
	current := *r.table.Load()
	next := make(map[string]*Domain, len(current))
	for k, v := range current {
		next[k] = v
	}
	next[canonical] = domain
	r.table.Store(&next)
	return nil
}

// Resolve returns the domain for a name or alias. The returned Domain is an
// immutable snapshot; callers use its index and store as a pair.
func (r *Router) Resolve(name string) (*Domain, error) {
	canonical, ok := r.aliases[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDomain, name)
	}
	table := *r.table.Load()
	domain, ok := table[canonical]
	if !ok {
		return nil, fmt.Errorf("%w: domain %q", ErrNotLoaded, canonical)
	}
	return domain, nil
}

// Domains returns the loaded canonical domains in registration order.
func (r *Router) Domains() []*Domain {
	table := *r.table.Load()
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]*Domain, 0, len(names))
	for _, name := range names {
		out = append(out, table[name])
	}
	return out
}

// Names returns every canonical domain name registered with the router.
func (r *Router) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
