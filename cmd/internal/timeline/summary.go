package timeline

import (
	"fmt"
	"time"

	"pontodigital/cmd/internal/domain/entity"
)

// Summaries renders the n most recent records as one-line strings, newest
// first, for use as assistant context. A non-positive n yields nothing.
func Summaries(records []*entity.PointRecord, n int, loc *time.Location) []string {
	if n <= 0 {
		return nil
	}

	sorted := SortByTimestampDesc(records)
	if len(sorted) > n {
		sorted = sorted[:n]
	}

	out := make([]string, len(sorted))
	for i, r := range sorted {
		out[i] = fmt.Sprintf("%s %s - %s (%s) em %s",
			r.Timestamp.In(loc).Format("02/01/2006 15:04"),
			r.Type, r.UserName, r.Badge, r.Address)
	}
	return out
}
