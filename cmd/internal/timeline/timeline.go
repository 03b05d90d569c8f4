// Package timeline derives read models from point records: per-user lists,
// per-day groups and the four-slot daily timeline. Nothing here mutates its
// input or performs I/O.
package timeline

import (
	"sort"
	"time"

	"pontodigital/cmd/internal/domain/entity"
)

// FilterByBadge keeps the records of a single employee, preserving order.
func FilterByBadge(records []*entity.PointRecord, badge string) []*entity.PointRecord {
	out := make([]*entity.PointRecord, 0, len(records))
	for _, r := range records {
		if r.Badge == badge {
			out = append(out, r)
		}
	}
	return out
}

// SortByTimestampDesc returns a new slice ordered newest first. The sort is
// stable, so sorting an already sorted slice yields the same order.
func SortByTimestampDesc(records []*entity.PointRecord) []*entity.PointRecord {
	out := make([]*entity.PointRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

func sortAsc(records []*entity.PointRecord) []*entity.PointRecord {
	out := make([]*entity.PointRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// DayLabel formats the calendar day of t in loc as DD/MM/YYYY.
func DayLabel(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayLayout)
}

// GroupByDay buckets records by their local calendar day. Records keep their
// relative order inside each bucket.
func GroupByDay(records []*entity.PointRecord, loc *time.Location) map[string][]*entity.PointRecord {
	groups := make(map[string][]*entity.PointRecord)
	for _, r := range records {
		label := DayLabel(r.Timestamp, loc)
		groups[label] = append(groups[label], r)
	}
	return groups
}

// SortedDays returns the group labels newest day first, ordering by the
// parsed date rather than the label text.
func SortedDays(groups map[string][]*entity.PointRecord) []string {
	type day struct {
		label string
		at    time.Time
	}

	days := make([]day, 0, len(groups))
	for label := range groups {
		at, err := time.Parse(DayLayout, label)
		if err != nil {
			continue
		}
		days = append(days, day{label: label, at: at})
	}

	sort.Slice(days, func(i, j int) bool {
		return days[i].at.After(days[j].at)
	})

	out := make([]string, len(days))
	for i, d := range days {
		out[i] = d.label
	}
	return out
}

// OnDay returns the records whose local calendar day matches day.
func OnDay(records []*entity.PointRecord, day time.Time, loc *time.Location) []*entity.PointRecord {
	label := DayLabel(day, loc)
	out := make([]*entity.PointRecord, 0, 4)
	for _, r := range records {
		if DayLabel(r.Timestamp, loc) == label {
			out = append(out, r)
		}
	}
	return out
}
