package livesync

import (
	"context"
	"sync"

	"github.com/labstack/gommon/log"
)

// Loader reads the full current content of a collection for one company.
type Loader interface {
	LoadCollection(ctx context.Context, col Collection, companyCode string) ([]Document, error)
}

// Pusher forwards snapshots to remote subscribers (websocket clients).
type Pusher interface {
	PushSnapshot(ctx context.Context, snap *Snapshot)
}

type subKey struct {
	col  Collection
	code string
}

// Hub is the server side of the live subscriptions. Writers call Publish
// after every change; the hub reloads the collection and hands the full
// snapshot to every local subscriber and to the attached pushers.
//
// Load and delivery of one collection of one company run under that key's
// lock, so a snapshot is never delivered after one loaded later than it.
type Hub struct {
	loader Loader

	mu      sync.Mutex
	next    uint64
	subs    map[subKey]map[uint64]SnapshotHandler
	locks   map[subKey]*sync.Mutex
	pushers []Pusher
}

func NewHub(loader Loader) *Hub {
	return &Hub{
		loader: loader,
		subs:   make(map[subKey]map[uint64]SnapshotHandler),
		locks:  make(map[subKey]*sync.Mutex),
	}
}

func (h *Hub) keyLock(key subKey) *sync.Mutex {
	h.mu.Lock()
	defer h.mu.Unlock()
	l, ok := h.locks[key]
	if !ok {
		l = &sync.Mutex{}
		h.locks[key] = l
	}
	return l
}

func (h *Hub) AttachPusher(p Pusher) {
	h.mu.Lock()
	h.pushers = append(h.pushers, p)
	h.mu.Unlock()
}

// Subscribe registers handler and immediately delivers the current snapshot.
func (h *Hub) Subscribe(ctx context.Context, q Query, handler SnapshotHandler) (Unsubscribe, error) {
	if q.CompanyCode == "" {
		return nil, ErrEmptyCompanyCode
	}

	key := subKey{col: q.Collection, code: q.CompanyCode}
	lock := h.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	snap := h.load(ctx, q)
	if snap.Err != nil {
		return nil, snap.Err
	}

	h.mu.Lock()
	h.next++
	id := h.next
	if h.subs[key] == nil {
		h.subs[key] = make(map[uint64]SnapshotHandler)
	}
	h.subs[key][id] = handler
	h.mu.Unlock()

	handler(snap)

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[key], id)
			if len(h.subs[key]) == 0 {
				delete(h.subs, key)
			}
			h.mu.Unlock()
		})
	}, nil
}

// Publish reloads col for companyCode and fans the snapshot out. A load
// error is delivered to local subscribers (who keep their last snapshot) and
// is not pushed to remote clients.
func (h *Hub) Publish(ctx context.Context, col Collection, companyCode string) {
	key := subKey{col: col, code: companyCode}
	lock := h.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	snap := h.load(ctx, Query{Collection: col, CompanyCode: companyCode})

	h.mu.Lock()
	handlers := make([]SnapshotHandler, 0, len(h.subs[key]))
	for _, fn := range h.subs[key] {
		handlers = append(handlers, fn)
	}
	pushers := make([]Pusher, len(h.pushers))
	copy(pushers, h.pushers)
	h.mu.Unlock()

	for _, fn := range handlers {
		fn(snap)
	}

	if snap.Err != nil {
		log.Errorf("livesync: failed to load %s for company %s: %v", col, companyCode, snap.Err)
		return
	}
	for _, p := range pushers {
		p.PushSnapshot(ctx, snap)
	}
}

// Snapshot loads the current content of a collection without subscribing.
func (h *Hub) Snapshot(ctx context.Context, q Query) *Snapshot {
	return h.load(ctx, q)
}

// Subscribers returns how many local handlers listen to the query.
func (h *Hub) Subscribers(q Query) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[subKey{col: q.Collection, code: q.CompanyCode}])
}

func (h *Hub) load(ctx context.Context, q Query) *Snapshot {
	docs, err := h.loader.LoadCollection(ctx, q.Collection, q.CompanyCode)
	return &Snapshot{
		Collection:  q.Collection,
		CompanyCode: q.CompanyCode,
		Documents:   docs,
		Err:         err,
	}
}
