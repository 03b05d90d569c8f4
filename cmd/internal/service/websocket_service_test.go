package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"pontodigital/cmd/internal/contract"
	"pontodigital/cmd/internal/domain/entity"
	"pontodigital/cmd/internal/domain/policy"
	"pontodigital/cmd/internal/livesync"
)

type companyConnections struct {
	ConnectionRepository
	conns []*entity.Connection
}

func (c *companyConnections) FindByCompany(string) ([]*entity.Connection, error) {
	return c.conns, nil
}

type pushedFrame struct {
	Type contract.EventType `json:"type"`
	Data struct {
		Collection livesync.Collection `json:"collection"`
		Documents  []livesync.Document `json:"documents"`
	} `json:"data"`
}

type frameRecorder struct {
	mu     sync.Mutex
	frames map[string][]pushedFrame
}

func (g *frameRecorder) PostToConnection(_ context.Context, connID string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	var frame pushedFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.frames == nil {
		g.frames = make(map[string][]pushedFrame)
	}
	g.frames[connID] = append(g.frames[connID], frame)
	return nil
}

func (g *frameRecorder) DeleteConnection(context.Context, string) error { return nil }

func (g *frameRecorder) last(t *testing.T, connID string) *pushedFrame {
	t.Helper()
	frames := g.frames[connID]
	if len(frames) == 0 {
		return nil
	}
	return &frames[len(frames)-1]
}

func pushFixture() (*WebSocketService, *frameRecorder) {
	gw := &frameRecorder{}
	conns := &companyConnections{conns: []*entity.Connection{
		{ConnectionID: "admin-conn", CompanyCode: "ABC123", Role: entity.RoleAdmin},
		{ConnectionID: "emp7-conn", CompanyCode: "ABC123", Role: entity.RoleEmployee, Badge: "7"},
		{ConnectionID: "emp7-phone", CompanyCode: "ABC123", Role: entity.RoleEmployee, Badge: "7"},
		{ConnectionID: "totem-conn", CompanyCode: "ABC123", Role: entity.RoleTotem},
	}}
	return NewWebSocketService(conns, policy.NewSnapshotPolicy(), gw), gw
}

func badgesOf(frame *pushedFrame) []string {
	var out []string
	for _, doc := range frame.Data.Documents {
		b, _ := doc["badge"].(string)
		out = append(out, b)
	}
	return out
}

func TestPushSnapshotNarrowsRecordsPerConnection(t *testing.T) {
	svc, gw := pushFixture()

	svc.PushSnapshot(context.Background(), &livesync.Snapshot{
		Collection:  livesync.CollectionRecords,
		CompanyCode: "ABC123",
		Documents: []livesync.Document{
			{"badge": "9", "user_name": "Maria", "photo_url": "https://cdn/9.jpg"},
			{"badge": "7", "user_name": "Joao", "photo_url": "https://cdn/7.jpg"},
		},
	})

	if got := badgesOf(gw.last(t, "admin-conn")); len(got) != 2 {
		t.Fatalf("admin should see every record, got %v", got)
	}
	for _, id := range []string{"emp7-conn", "emp7-phone"} {
		frame := gw.last(t, id)
		if frame == nil {
			t.Fatalf("%s got no snapshot", id)
		}
		if got := badgesOf(frame); len(got) != 1 || got[0] != "7" {
			t.Fatalf("%s should only see badge 7, got %v", id, got)
		}
	}
	if gw.last(t, "totem-conn") != nil {
		t.Fatal("totem must not receive records")
	}
}

func TestPushSnapshotHidesRosterAndForeignRequests(t *testing.T) {
	svc, gw := pushFixture()
	ctx := context.Background()

	svc.PushSnapshot(ctx, &livesync.Snapshot{
		Collection:  livesync.CollectionEmployees,
		CompanyCode: "ABC123",
		Documents:   []livesync.Document{{"badge": "7"}, {"badge": "9"}, {"badge": "11"}},
	})
	if got := badgesOf(gw.last(t, "admin-conn")); len(got) != 3 {
		t.Fatalf("admin should get the roster, got %v", got)
	}
	if got := badgesOf(gw.last(t, "emp7-conn")); len(got) != 1 || got[0] != "7" {
		t.Fatalf("employee should only get their own profile, got %v", got)
	}
	if gw.last(t, "totem-conn") != nil {
		t.Fatal("totem must not receive the roster")
	}

	svc.PushSnapshot(ctx, &livesync.Snapshot{
		Collection:  livesync.CollectionRequests,
		CompanyCode: "ABC123",
		Documents:   []livesync.Document{{"badge": "9", "photo_url": "https://cdn/atestado.pdf"}},
	})
	frame := gw.last(t, "emp7-conn")
	if frame.Data.Collection != livesync.CollectionRequests || len(frame.Data.Documents) != 0 {
		t.Fatalf("employee must not see another badge's request: %+v", frame)
	}

	svc.PushSnapshot(ctx, &livesync.Snapshot{
		Collection:  livesync.CollectionCompanies,
		CompanyCode: "ABC123",
		Documents:   []livesync.Document{{"id": "ABC123", "name": "Padaria"}},
	})
	if frame := gw.last(t, "totem-conn"); frame == nil || frame.Data.Collection != livesync.CollectionCompanies {
		t.Fatal("totem should still receive the company profile")
	}
}

func TestPushSnapshotDegradesWhenTooLarge(t *testing.T) {
	svc, gw := pushFixture()

	svc.PushSnapshot(context.Background(), &livesync.Snapshot{
		Collection:  livesync.CollectionRecords,
		CompanyCode: "ABC123",
		Documents: []livesync.Document{
			{"badge": "9", "address": strings.Repeat("x", 200*1024)},
			{"badge": "7", "address": "Rua A, 1"},
		},
	})

	if frame := gw.last(t, "admin-conn"); frame.Type != contract.EventSnapshotStale {
		t.Fatalf("admin snapshot should degrade to a stale notice, got %s", frame.Type)
	}
	if frame := gw.last(t, "emp7-conn"); frame.Type != contract.EventSnapshot || len(frame.Data.Documents) != 1 {
		t.Fatalf("the narrowed snapshot fits and should be sent whole, got %+v", frame)
	}
}

func TestRegisterConnectionCopiesSession(t *testing.T) {
	saved := &savingConnections{}
	svc := NewWebSocketService(saved, nil, nil)

	sess := &entity.Session{ID: "s1", CompanyCode: "ABC123", Role: entity.RoleEmployee, Badge: "7", ExpiresAt: 99}
	if apiErr := svc.RegisterConnection(sess, "conn"); apiErr != nil {
		t.Fatalf("register: %v", apiErr)
	}
	if saved.conn == nil || saved.conn.Badge != "7" || saved.conn.Role != entity.RoleEmployee || saved.conn.ExpiresAt != 99 {
		t.Fatalf("unexpected connection: %+v", saved.conn)
	}
}

type savingConnections struct {
	ConnectionRepository
	conn *entity.Connection
}

func (s *savingConnections) Save(conn *entity.Connection) error {
	s.conn = conn
	return nil
}
