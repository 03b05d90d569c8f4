package service

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/gommon/log"
	"pontodigital/cmd/internal/contract"
	"pontodigital/cmd/internal/domain/entity"
	"pontodigital/cmd/internal/domain/events"
	"pontodigital/cmd/internal/domain/policy"
	"pontodigital/cmd/internal/infrastructure/aws/websocket"
	"pontodigital/cmd/internal/livesync"
	"pontodigital/cmd/internal/utils"
	"pontodigital/cmd/internal/utils/apierror"
)

// killGracePeriod gives the client time to read the kill event before the
// gateway drops the socket.
const killGracePeriod = 200 * time.Millisecond

type ConnectionRepository interface {
	Save(conn *entity.Connection) error
	Delete(connID string) error
	FindByCompany(code string) ([]*entity.Connection, error)
	FindBySession(sessionID string) ([]string, error)
	FindExpired(now int64) ([]*entity.Connection, error)
	UpdateHeartbeat(connID string, now int64) error
}

// SnapshotFilter decides which documents of a collection a viewer receives.
type SnapshotFilter interface {
	Visible(viewer *entity.Session, col livesync.Collection, docs []livesync.Document) ([]livesync.Document, bool)
}

type WebSocketService struct {
	ConnRepo ConnectionRepository
	Filter   SnapshotFilter
	// Gateway is nil when no websocket endpoint is configured; every push
	// is then a no-op.
	Gateway websocket.GatewayClient
}

func NewWebSocketService(repo ConnectionRepository, filter SnapshotFilter, gateway websocket.GatewayClient) *WebSocketService {
	if filter == nil {
		filter = policy.NewSnapshotPolicy()
	}
	return &WebSocketService{
		ConnRepo: repo,
		Filter:   filter,
		Gateway:  gateway,
	}
}

func (s *WebSocketService) RegisterConnection(sess *entity.Session, connectionID string) apierror.ErrorResponse {
	now := utils.NowUTC()
	conn := &entity.Connection{
		ConnectionID:    connectionID,
		SessionID:       sess.ID,
		CompanyCode:     sess.CompanyCode,
		Role:            sess.Role,
		Badge:           sess.Badge,
		ExpiresAt:       sess.ExpiresAt,
		LastHeartbeatAt: now, // Avoid users getting disconnected immediately
		CreatedAt:       now,
	}

	if err := s.ConnRepo.Save(conn); err != nil {
		log.Errorf("failed to save connection: %v", err)
		return apierror.InternalServerError
	}
	return nil
}

func (s *WebSocketService) RemoveConnection(connectionID string) {
	// We don't return error here because if it fails, it's not the client's fault
	_ = s.ConnRepo.Delete(connectionID)
}

func (s *WebSocketService) HandleMessage(msg *contract.IncomingSocketMessage, connID string) {
	switch msg.Type {
	case contract.EventPing:
		s.handlePing(connID)
	}
}

// PushSnapshot forwards a hub snapshot to the connections of its company,
// each one narrowed to what its session may read. Snapshots that do not fit
// in a single frame go out as a stale notice.
func (s *WebSocketService) PushSnapshot(ctx context.Context, snap *livesync.Snapshot) {
	if s.Gateway == nil {
		return
	}

	conns, err := s.ConnRepo.FindByCompany(snap.CompanyCode)
	if err != nil {
		log.Errorf("failed to fetch connections for company %s: %v", snap.CompanyCode, err)
		return
	}

	// Connections of the same role and badge see the same documents.
	envelopes := make(map[string]*contract.OutgoingSocketMessage)
	for _, conn := range conns {
		key := string(conn.Role) + "/" + conn.Badge
		envelope, seen := envelopes[key]
		if !seen {
			envelope = s.snapshotFor(conn.Viewer(), snap)
			envelopes[key] = envelope
		}
		if envelope != nil {
			s.post(ctx, conn.ConnectionID, envelope)
		}
	}
}

// snapshotFor returns nil when the viewer gets nothing of the collection.
func (s *WebSocketService) snapshotFor(viewer *entity.Session, snap *livesync.Snapshot) *contract.OutgoingSocketMessage {
	docs, ok := s.Filter.Visible(viewer, snap.Collection, snap.Documents)
	if !ok {
		return nil
	}

	envelope := envelopeOf(&events.Snapshot{Snapshot: &livesync.Snapshot{
		Collection:  snap.Collection,
		CompanyCode: snap.CompanyCode,
		Documents:   docs,
	}})
	if _, err := websocket.Encode(envelope); errors.Is(err, websocket.ErrPayloadTooLarge) {
		log.Debugf("snapshot of %s for %s is too large, sending stale notice", snap.Collection, snap.CompanyCode)
		return envelopeOf(&events.SnapshotStale{Collection: snap.Collection, CompanyCode: snap.CompanyCode})
	}
	return envelope
}

func envelopeOf(evt events.SocketEvent) *contract.OutgoingSocketMessage {
	return &contract.OutgoingSocketMessage{
		Type: evt.GetType(),
		Data: evt,
	}
}

func (s *WebSocketService) DispatchToConnection(ctx context.Context, connID string, evt events.SocketEvent) {
	if s.Gateway == nil {
		return
	}

	s.post(ctx, connID, envelopeOf(evt))
}

// TerminateSessionConnections sends a "poison pill" message and then disconnects
func (s *WebSocketService) TerminateSessionConnections(ctx context.Context, sessionID string, ck *events.ConnectionKill) {
	conns, err := s.ConnRepo.FindBySession(sessionID)
	if err != nil {
		log.Errorf("failed to fetch connections of session %s: %v", sessionID, err)
		return
	}

	for _, connID := range conns {
		if s.Gateway == nil {
			_ = s.ConnRepo.Delete(connID)
			continue
		}

		s.DispatchToConnection(ctx, connID, ck)

		go func(cid string) {
			time.Sleep(killGracePeriod)
			_ = s.Gateway.DeleteConnection(context.Background(), cid)
			_ = s.ConnRepo.Delete(cid)
		}(connID)
	}
}

// post ignores failures so one stale connection doesn't block others. A
// connection the gateway reports as gone is forgotten right away.
func (s *WebSocketService) post(ctx context.Context, connID string, payload any) {
	err := s.Gateway.PostToConnection(ctx, connID, payload)
	if err != nil && websocket.IsGone(err) {
		_ = s.ConnRepo.Delete(connID)
	}
}

func (s *WebSocketService) handlePing(connID string) {
	now := utils.NowUTC()
	if err := s.ConnRepo.UpdateHeartbeat(connID, now); err != nil {
		log.Errorf("failed to update heartbeat: %v", err)
		return
	}

	if s.Gateway == nil {
		return
	}

	go s.DispatchToConnection(context.Background(), connID, &events.Ack{})
}
