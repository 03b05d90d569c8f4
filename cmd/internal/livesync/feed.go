// Package livesync keeps in-memory copies of a company's collections in step
// with the backend through live subscriptions that deliver full snapshots.
package livesync

import "context"

// Query scopes a subscription to one collection of one company.
type Query struct {
	Collection  Collection
	CompanyCode string
}

// Snapshot is the complete current content of a subscribed collection, or
// the error that interrupted the subscription.
type Snapshot struct {
	Collection  Collection `json:"collection"`
	CompanyCode string     `json:"company_code"`
	Documents   []Document `json:"documents"`
	Err         error      `json:"-"`
}

type SnapshotHandler func(*Snapshot)

// Unsubscribe stops deliveries. Calling it more than once is harmless.
type Unsubscribe func()

// Feed is the live subscription capability of a backend. Every change to a
// matching document produces a new full snapshot for the handler.
type Feed interface {
	Subscribe(ctx context.Context, q Query, handler SnapshotHandler) (Unsubscribe, error)
}
