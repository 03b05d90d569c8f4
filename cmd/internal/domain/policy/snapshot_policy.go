package policy

import (
	"pontodigital/cmd/internal/domain/entity"
	"pontodigital/cmd/internal/livesync"
)

// SnapshotPolicy narrows live snapshots to what a viewer could read over
// HTTP. The rules mirror AccessPolicy and RequestPolicy.
type SnapshotPolicy struct{}

func NewSnapshotPolicy() *SnapshotPolicy {
	return &SnapshotPolicy{}
}

// Visible returns the documents of col the viewer may see. ok is false when
// the viewer must not receive the collection at all.
func (p *SnapshotPolicy) Visible(viewer *entity.Session, col livesync.Collection, docs []livesync.Document) ([]livesync.Document, bool) {
	perms := viewer.Role.Permissions()
	if perms == 0 {
		return nil, false
	}
	if perms.Has(admin) {
		return docs, true
	}

	switch col {
	case livesync.CollectionCompanies:
		return docs, true

	case livesync.CollectionEmployees:
		if perms.Has(manageEmployees) {
			return docs, true
		}
		if viewer.Badge == "" {
			return nil, false
		}
		return ownDocuments(docs, viewer.Badge), true

	case livesync.CollectionRecords:
		if !perms.Has(seeOwnRecords) || viewer.Badge == "" {
			return nil, false
		}
		return ownDocuments(docs, viewer.Badge), true

	case livesync.CollectionRequests:
		if perms.Has(decideRequests) {
			return docs, true
		}
		if !perms.Has(createRequests) || viewer.Badge == "" {
			return nil, false
		}
		return ownDocuments(docs, viewer.Badge), true
	}
	return nil, false
}

func ownDocuments(docs []livesync.Document, badge string) []livesync.Document {
	out := make([]livesync.Document, 0)
	for _, doc := range docs {
		if b, _ := doc["badge"].(string); b == badge {
			out = append(out, doc)
		}
	}
	return out
}
