package contract

type EventType string

const (
	EventPing EventType = "ping"

	EventConnectionKill EventType = "CONNECTION_KILL"
	EventSessionExpired EventType = "SESSION_EXPIRED"
	EventAck            EventType = "ACK"

	// EventSnapshot carries the full content of a subscribed collection.
	EventSnapshot EventType = "SNAPSHOT"
	// EventSnapshotStale replaces a snapshot too large for one frame. Clients
	// refetch the collection over HTTP.
	EventSnapshotStale EventType = "SNAPSHOT_STALE"
)

// IncomingSocketMessage is used for messages we receive from the clients.
type IncomingSocketMessage struct {
	Type EventType `json:"type"`
}

// OutgoingSocketMessage is what we send to the Client
type OutgoingSocketMessage struct {
	Type EventType `json:"type"`
	Data any       `json:"data,omitempty"`
}

type KillCode int

const (
	KillLoggedOut KillCode = 4001
	KillRemoved   KillCode = 4003
)
