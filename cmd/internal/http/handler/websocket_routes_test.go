package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"pontodigital/cmd/internal/contract"
	"pontodigital/cmd/internal/domain/entity"
	"pontodigital/cmd/internal/infrastructure/aws/websocket"
	"pontodigital/cmd/internal/utils/apierror"
)

type stubSockets struct {
	registered string
	removed    string
	message    contract.EventType
}

func (s *stubSockets) RegisterConnection(sess *entity.Session, connID string) apierror.ErrorResponse {
	s.registered = sess.ID + "/" + connID
	return nil
}

func (s *stubSockets) RemoveConnection(connectionID string) {
	s.removed = connectionID
}

func (s *stubSockets) HandleMessage(msg *contract.IncomingSocketMessage, connID string) {
	s.message = msg.Type
}

func serveSocket(e *echo.Echo, path, connID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if connID != "" {
		req.Header.Set(websocket.HeaderConnectionID, connID)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestWebSocketRoutes(t *testing.T) {
	sockets := &stubSockets{}
	routes := NewWSDefault(sockets)

	e := echo.New()
	e.POST("/ws/connect", routes.HandleConnect, withSession)
	e.POST("/ws/disconnect", routes.HandleDisconnect)
	e.POST("/ws/message", routes.HandleMessage)
	e.POST("/ws/anonymous", routes.HandleConnect)

	if rec := serveSocket(e, "/ws/connect", "conn-1", ""); rec.Code != http.StatusOK || sockets.registered != "s/conn-1" {
		t.Fatalf("unexpected connect %d, registered %q", rec.Code, sockets.registered)
	}

	if rec := serveSocket(e, "/ws/connect", "", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without a connection id, got %d", rec.Code)
	}

	if rec := serveSocket(e, "/ws/anonymous", "conn-2", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a session, got %d", rec.Code)
	}

	if rec := serveSocket(e, "/ws/message", "conn-1", `{"type":"ping"}`); rec.Code != http.StatusOK || sockets.message != contract.EventPing {
		t.Fatalf("unexpected message %d, type %q", rec.Code, sockets.message)
	}

	if rec := serveSocket(e, "/ws/message", "conn-1", `{"type":`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a broken frame, got %d", rec.Code)
	}

	if rec := serveSocket(e, "/ws/disconnect", "conn-1", ""); rec.Code != http.StatusOK || sockets.removed != "conn-1" {
		t.Fatalf("unexpected disconnect %d, removed %q", rec.Code, sockets.removed)
	}
}
