package events

import (
	"pontodigital/cmd/internal/contract"
	"pontodigital/cmd/internal/livesync"
)

type SocketEvent interface {
	GetType() contract.EventType
}

type Ack struct{}

func (*Ack) GetType() contract.EventType {
	return contract.EventAck
}

type ConnectionKill struct {
	Code   contract.KillCode `json:"code"`
	Reason *string           `json:"reason,omitempty"`
}

func (e *ConnectionKill) GetType() contract.EventType {
	return contract.EventConnectionKill
}

type SessionExpired struct{}

func (*SessionExpired) GetType() contract.EventType {
	return contract.EventSessionExpired
}

// Snapshot wraps a full collection snapshot pushed to a company's clients.
type Snapshot struct {
	*livesync.Snapshot
}

func (e *Snapshot) GetType() contract.EventType {
	return contract.EventSnapshot
}

type SnapshotStale struct {
	Collection  livesync.Collection `json:"collection"`
	CompanyCode string              `json:"company_code"`
}

func (e *SnapshotStale) GetType() contract.EventType {
	return contract.EventSnapshotStale
}
