package livesync

import (
	"context"
	"errors"
	"sync"

	"github.com/labstack/gommon/log"
	"pontodigital/cmd/internal/domain/entity"
	"pontodigital/cmd/internal/timeline"
)

var ErrEmptyCompanyCode = errors.New("livesync: company code is required")

// Store mirrors the company profile, employee roster and point records of
// one company. Each collection is replaced wholesale by every snapshot.
//
// A failed delivery keeps the previous snapshot. Snapshots that arrive for a
// company that is no longer active are dropped.
type Store struct {
	feed Feed

	mu        sync.RWMutex
	code      string
	gen       uint64
	unsubs    []Unsubscribe
	company   *entity.Company
	employees []*entity.Employee
	records   []*entity.PointRecord
	loaded    map[Collection]bool
	listeners []func(Collection)
}

func NewStore(feed Feed) *Store {
	return &Store{
		feed:   feed,
		loaded: make(map[Collection]bool),
	}
}

var storeCollections = []Collection{CollectionCompanies, CollectionEmployees, CollectionRecords}

// Start points the store at companyCode. Subscriptions held for a previous
// code are torn down and the in-memory state is cleared first.
func (s *Store) Start(ctx context.Context, companyCode string) error {
	if companyCode == "" {
		return ErrEmptyCompanyCode
	}

	s.mu.Lock()
	old := s.unsubs
	s.unsubs = nil
	s.gen++
	gen := s.gen
	s.code = companyCode
	s.company = nil
	s.employees = nil
	s.records = nil
	s.loaded = make(map[Collection]bool)
	s.mu.Unlock()

	for _, unsub := range old {
		unsub()
	}

	opened := make([]Unsubscribe, 0, len(storeCollections))
	for _, col := range storeCollections {
		q := Query{Collection: col, CompanyCode: companyCode}
		unsub, err := s.feed.Subscribe(ctx, q, s.handler(gen, companyCode))
		if err != nil {
			for _, u := range opened {
				u()
			}
			return err
		}
		opened = append(opened, unsub)
	}

	s.mu.Lock()
	superseded := s.gen != gen
	if !superseded {
		s.unsubs = opened
	}
	s.mu.Unlock()

	// Another Start (or Close) ran while we were subscribing.
	if superseded {
		for _, u := range opened {
			u()
		}
	}
	return nil
}

// Close tears down every subscription. The last snapshots stay readable.
func (s *Store) Close() {
	s.mu.Lock()
	old := s.unsubs
	s.unsubs = nil
	s.gen++
	s.mu.Unlock()

	for _, unsub := range old {
		unsub()
	}
}

// OnChange registers fn to be called after a collection is replaced.
func (s *Store) OnChange(fn func(Collection)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Store) CompanyCode() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.code
}

// Loaded reports whether at least one snapshot of col has been applied.
func (s *Store) Loaded(col Collection) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded[col]
}

func (s *Store) Company() *entity.Company {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.company == nil {
		return nil
	}
	c := *s.company
	return &c
}

func (s *Store) Employees() []*entity.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.Employee, len(s.employees))
	copy(out, s.employees)
	return out
}

// Records returns the records newest first.
func (s *Store) Records() []*entity.PointRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.PointRecord, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Store) handler(gen uint64, code string) SnapshotHandler {
	return func(snap *Snapshot) {
		if snap.Err != nil {
			log.Errorf("livesync: %s subscription for company %s failed, keeping last snapshot: %v",
				snap.Collection, code, snap.Err)
			return
		}

		if snap.CompanyCode != "" && snap.CompanyCode != code {
			log.Warnf("livesync: dropping %s snapshot for company %s on store of %s",
				snap.Collection, snap.CompanyCode, code)
			return
		}

		apply, err := s.decode(snap, code)
		if err != nil {
			log.Errorf("livesync: failed to decode %s snapshot for company %s: %v", snap.Collection, code, err)
			return
		}

		s.mu.Lock()
		if s.gen != gen {
			s.mu.Unlock()
			return
		}
		apply()
		s.loaded[snap.Collection] = true
		listeners := make([]func(Collection), len(s.listeners))
		copy(listeners, s.listeners)
		s.mu.Unlock()

		for _, fn := range listeners {
			fn(snap.Collection)
		}
	}
}

// decode parses a snapshot outside the lock and returns the mutation to run
// under it. Entities of other companies are discarded.
func (s *Store) decode(snap *Snapshot, code string) (func(), error) {
	switch snap.Collection {
	case CollectionCompanies:
		var company *entity.Company
		for _, doc := range snap.Documents {
			var c entity.Company
			if err := decodeDocument(doc, &c); err != nil {
				return nil, err
			}
			if c.ID == code {
				company = &c
			}
		}
		return func() { s.company = company }, nil

	case CollectionEmployees:
		employees := make([]*entity.Employee, 0, len(snap.Documents))
		for _, doc := range snap.Documents {
			var e entity.Employee
			if err := decodeDocument(doc, &e); err != nil {
				return nil, err
			}
			if e.CompanyCode == code {
				employees = append(employees, &e)
			}
		}
		return func() { s.employees = employees }, nil

	case CollectionRecords:
		records := make([]*entity.PointRecord, 0, len(snap.Documents))
		for _, doc := range snap.Documents {
			var r entity.PointRecord
			if err := decodeDocument(doc, &r, "timestamp"); err != nil {
				return nil, err
			}
			if r.CompanyCode == code {
				records = append(records, &r)
			}
		}
		// Sorted here rather than by the backend so no composite index is needed.
		records = timeline.SortByTimestampDesc(records)
		return func() { s.records = records }, nil
	}
	return nil, errors.New("livesync: unsupported collection " + string(snap.Collection))
}
