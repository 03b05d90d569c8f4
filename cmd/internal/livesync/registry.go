package livesync

import (
	"context"
	"sync"

	"github.com/labstack/gommon/log"
)

type registryEntry struct {
	store *Store
	refs  int
}

// Registry keeps one Store per company with at least one live session.
// Login acquires the company's store, logout releases it; the last release
// tears its subscriptions down.
type Registry struct {
	feed Feed

	mu      sync.Mutex
	entries map[string]*registryEntry
}

func NewRegistry(feed Feed) *Registry {
	return &Registry{
		feed:    feed,
		entries: make(map[string]*registryEntry),
	}
}

func (r *Registry) Acquire(ctx context.Context, companyCode string) (*Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[companyCode]; ok {
		e.refs++
		return e.store, nil
	}

	store := NewStore(r.feed)
	if err := store.Start(ctx, companyCode); err != nil {
		return nil, err
	}
	r.entries[companyCode] = &registryEntry{store: store, refs: 1}
	log.Debugf("livesync: opened store for company %s", companyCode)
	return store, nil
}

// Get returns the open store of the company, opening one if there is none
// (sessions that outlived a restart never went through Acquire). A store
// opened here holds a single reference for all of those sessions, so the
// first of them to end closes it and the next Get reopens it.
func (r *Registry) Get(ctx context.Context, companyCode string) (*Store, error) {
	r.mu.Lock()
	e, ok := r.entries[companyCode]
	r.mu.Unlock()
	if ok {
		return e.store, nil
	}
	return r.Acquire(ctx, companyCode)
}

func (r *Registry) Release(companyCode string) {
	r.mu.Lock()
	e, ok := r.entries[companyCode]
	if !ok {
		r.mu.Unlock()
		return
	}

	e.refs--
	if e.refs > 0 {
		r.mu.Unlock()
		return
	}
	delete(r.entries, companyCode)
	r.mu.Unlock()

	e.store.Close()
	log.Debugf("livesync: closed store for company %s", companyCode)
}

// CloseAll releases every store, used on shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]*registryEntry)
	r.mu.Unlock()

	for _, e := range entries {
		e.store.Close()
	}
}

func (r *Registry) Open() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
