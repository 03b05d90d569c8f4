package livesync

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeSub struct {
	q       Query
	handler SnapshotHandler
	closed  bool
}

// fakeFeed hands snapshots to handlers only when the test says so.
type fakeFeed struct {
	mu   sync.Mutex
	subs []*fakeSub
	err  error
}

func (f *fakeFeed) Subscribe(_ context.Context, q Query, handler SnapshotHandler) (Unsubscribe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	sub := &fakeSub{q: q, handler: handler}
	f.subs = append(f.subs, sub)
	return func() {
		f.mu.Lock()
		sub.closed = true
		f.mu.Unlock()
	}, nil
}

// emit delivers snap to every subscription of its collection, open or not,
// the way a late network delivery would.
func (f *fakeFeed) emit(code string, snap *Snapshot) {
	f.mu.Lock()
	var targets []SnapshotHandler
	for _, s := range f.subs {
		if s.q.Collection == snap.Collection && s.q.CompanyCode == code {
			targets = append(targets, s.handler)
		}
	}
	f.mu.Unlock()

	for _, h := range targets {
		h(snap)
	}
}

func (f *fakeFeed) open() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.subs {
		if !s.closed {
			n++
		}
	}
	return n
}

func recordDoc(id int64, code, badge string, ts any) Document {
	return Document{
		"id":           json.Number(jsonInt(id)),
		"company_code": code,
		"badge":        badge,
		"user_name":    "Ana",
		"type":         "entrada",
		"status":       "synchronized",
		"timestamp":    ts,
	}
}

func jsonInt(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func TestStoreRequiresCompanyCode(t *testing.T) {
	s := NewStore(&fakeFeed{})
	if err := s.Start(context.Background(), ""); !errors.Is(err, ErrEmptyCompanyCode) {
		t.Fatalf("expected ErrEmptyCompanyCode, got %v", err)
	}
}

func TestStoreKeepsOnlyItsCompany(t *testing.T) {
	feed := &fakeFeed{}
	s := NewStore(feed)
	if err := s.Start(context.Background(), "ABC123"); err != nil {
		t.Fatalf("start: %v", err)
	}

	if feed.open() != 3 {
		t.Fatalf("expected 3 subscriptions, got %d", feed.open())
	}

	ts := time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC).Format(time.RFC3339)
	feed.emit("ABC123", &Snapshot{
		Collection:  CollectionRecords,
		CompanyCode: "ABC123",
		Documents: []Document{
			recordDoc(1, "ABC123", "10", ts),
			recordDoc(2, "XYZ999", "10", ts),
		},
	})

	records := s.Records()
	if len(records) != 1 || records[0].CompanyCode != "ABC123" {
		t.Fatalf("expected only ABC123 records, got %+v", records)
	}

	feed.emit("ABC123", &Snapshot{
		Collection:  CollectionEmployees,
		CompanyCode: "ABC123",
		Documents: []Document{
			{"id": json.Number("1"), "company_code": "ABC123", "badge": "10", "name": "Ana", "active": true},
			{"id": json.Number("2"), "company_code": "OTHER", "badge": "11", "name": "Bia", "active": true},
		},
	})

	if emps := s.Employees(); len(emps) != 1 || emps[0].Name != "Ana" {
		t.Fatalf("expected only Ana, got %+v", emps)
	}

	feed.emit("ABC123", &Snapshot{
		Collection:  CollectionCompanies,
		CompanyCode: "ABC123",
		Documents:   []Document{{"id": "ABC123", "name": "Padaria"}},
	})

	if c := s.Company(); c == nil || c.Name != "Padaria" {
		t.Fatalf("expected company Padaria, got %+v", c)
	}
	if !s.Loaded(CollectionCompanies) || !s.Loaded(CollectionRecords) {
		t.Fatalf("collections should be marked loaded")
	}
}

func TestStoreKeepsSnapshotOnError(t *testing.T) {
	feed := &fakeFeed{}
	s := NewStore(feed)
	if err := s.Start(context.Background(), "ABC123"); err != nil {
		t.Fatalf("start: %v", err)
	}

	feed.emit("ABC123", &Snapshot{
		Collection:  CollectionRecords,
		CompanyCode: "ABC123",
		Documents:   []Document{recordDoc(1, "ABC123", "10", "2026-03-10T11:00:00Z")},
	})

	feed.emit("ABC123", &Snapshot{
		Collection:  CollectionRecords,
		CompanyCode: "ABC123",
		Err:         errors.New("permission denied"),
	})

	if len(s.Records()) != 1 {
		t.Fatalf("error snapshot must not clear records")
	}
}

func TestStoreSortsRecordsNewestFirst(t *testing.T) {
	feed := &fakeFeed{}
	s := NewStore(feed)
	_ = s.Start(context.Background(), "ABC123")

	feed.emit("ABC123", &Snapshot{
		Collection:  CollectionRecords,
		CompanyCode: "ABC123",
		Documents: []Document{
			recordDoc(1, "ABC123", "10", "2026-03-10T08:00:00Z"),
			recordDoc(2, "ABC123", "10", "2026-03-10T17:00:00Z"),
			recordDoc(3, "ABC123", "10", "2026-03-10T12:00:00Z"),
		},
	})

	records := s.Records()
	if records[0].ID != 2 || records[1].ID != 3 || records[2].ID != 1 {
		t.Fatalf("expected [2 3 1], got [%d %d %d]", records[0].ID, records[1].ID, records[2].ID)
	}
}

func TestStoreCoercesTimestamps(t *testing.T) {
	feed := &fakeFeed{}
	s := NewStore(feed)
	_ = s.Start(context.Background(), "ABC123")

	want := time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC)
	ms := want.UnixMilli()

	feed.emit("ABC123", &Snapshot{
		Collection:  CollectionRecords,
		CompanyCode: "ABC123",
		Documents: []Document{
			recordDoc(1, "ABC123", "10", ms),
			recordDoc(2, "ABC123", "10", float64(ms)),
			recordDoc(3, "ABC123", "10", json.Number(jsonInt(ms))),
			recordDoc(4, "ABC123", "10", want),
		},
	})

	records := s.Records()
	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(records))
	}
	for _, r := range records {
		if !r.Timestamp.Equal(want) {
			t.Fatalf("record %d: expected %s, got %s", r.ID, want, r.Timestamp)
		}
	}
}

func TestStoreSwitchTearsDownOldCompany(t *testing.T) {
	feed := &fakeFeed{}
	s := NewStore(feed)
	_ = s.Start(context.Background(), "AAA111")

	feed.emit("AAA111", &Snapshot{
		Collection:  CollectionRecords,
		CompanyCode: "AAA111",
		Documents:   []Document{recordDoc(1, "AAA111", "10", "2026-03-10T08:00:00Z")},
	})

	if err := s.Start(context.Background(), "BBB222"); err != nil {
		t.Fatalf("switch: %v", err)
	}

	if feed.open() != 3 {
		t.Fatalf("expected only the 3 new subscriptions open, got %d", feed.open())
	}
	if len(s.Records()) != 0 {
		t.Fatalf("switching must clear the old company's records")
	}

	// A late delivery from the old subscription must be ignored.
	feed.emit("AAA111", &Snapshot{
		Collection:  CollectionRecords,
		CompanyCode: "AAA111",
		Documents:   []Document{recordDoc(2, "AAA111", "10", "2026-03-10T09:00:00Z")},
	})

	if len(s.Records()) != 0 {
		t.Fatalf("stale snapshot leaked into the new company")
	}
	if s.CompanyCode() != "BBB222" {
		t.Fatalf("expected active company BBB222, got %s", s.CompanyCode())
	}
}

func TestStoreCloseKeepsLastSnapshot(t *testing.T) {
	feed := &fakeFeed{}
	s := NewStore(feed)
	_ = s.Start(context.Background(), "ABC123")

	feed.emit("ABC123", &Snapshot{
		Collection:  CollectionRecords,
		CompanyCode: "ABC123",
		Documents:   []Document{recordDoc(1, "ABC123", "10", "2026-03-10T08:00:00Z")},
	})

	s.Close()
	if feed.open() != 0 {
		t.Fatalf("close must unsubscribe everything")
	}
	if len(s.Records()) != 1 {
		t.Fatalf("close must keep the last snapshot readable")
	}
}

func TestStoreStartFailureReleasesPartialSubscriptions(t *testing.T) {
	feed := &fakeFeed{err: errors.New("offline")}
	s := NewStore(feed)

	if err := s.Start(context.Background(), "ABC123"); err == nil {
		t.Fatalf("expected subscribe error")
	}
	if feed.open() != 0 {
		t.Fatalf("no subscription should stay open")
	}
}

func TestStoreNotifiesListeners(t *testing.T) {
	feed := &fakeFeed{}
	s := NewStore(feed)
	_ = s.Start(context.Background(), "ABC123")

	var got []Collection
	s.OnChange(func(c Collection) { got = append(got, c) })

	feed.emit("ABC123", &Snapshot{Collection: CollectionEmployees, CompanyCode: "ABC123"})
	feed.emit("ABC123", &Snapshot{Collection: CollectionEmployees, CompanyCode: "ABC123", Err: errors.New("x")})

	if len(got) != 1 || got[0] != CollectionEmployees {
		t.Fatalf("expected one employees notification, got %v", got)
	}
}

func TestCoerceTime(t *testing.T) {
	want := time.UnixMilli(1773140400000)

	for _, in := range []any{int64(1773140400000), 1773140400000, float64(1773140400000), "1773140400000", json.Number("1773140400000"), &want} {
		got, err := CoerceTime(in)
		if err != nil {
			t.Fatalf("%T: unexpected error %v", in, err)
		}
		if !got.Equal(want) {
			t.Fatalf("%T: expected %s, got %s", in, want, got)
		}
	}

	if _, err := CoerceTime(true); err == nil {
		t.Fatalf("expected error for bool")
	}
	if _, err := CoerceTime("yesterday"); err == nil {
		t.Fatalf("expected error for free text")
	}
}
