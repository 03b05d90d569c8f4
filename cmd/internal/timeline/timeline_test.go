package timeline

import (
	"testing"
	"time"

	"pontodigital/cmd/internal/domain/entity"
)

func mustLoc(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

func rec(id int64, badge string, at time.Time, typ entity.PunchType) *entity.PointRecord {
	return &entity.PointRecord{ID: id, Badge: badge, UserName: "User " + badge, Timestamp: at, Type: typ}
}

func TestFilterByBadge(t *testing.T) {
	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	records := []*entity.PointRecord{
		rec(1, "100", now, entity.PunchEntrada),
		rec(2, "200", now, entity.PunchEntrada),
		rec(3, "100", now.Add(time.Hour), entity.PunchIntervalo),
	}

	got := FilterByBadge(records, "100")
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("expected order [1 3], got [%d %d]", got[0].ID, got[1].ID)
	}

	if len(FilterByBadge(records, "999")) != 0 {
		t.Fatalf("expected no records for unknown badge")
	}
}

func TestSortByTimestampDescIsIdempotent(t *testing.T) {
	base := time.Date(2026, 2, 14, 8, 0, 0, 0, time.UTC)
	records := []*entity.PointRecord{
		rec(1, "1", base.Add(2*time.Hour), entity.PunchIntervalo),
		rec(2, "1", base, entity.PunchEntrada),
		rec(3, "1", base.Add(5*time.Hour), entity.PunchSaida),
	}

	once := SortByTimestampDesc(records)
	twice := SortByTimestampDesc(once)

	want := []int64{3, 1, 2}
	for i, id := range want {
		if once[i].ID != id {
			t.Fatalf("position %d: expected %d, got %d", i, id, once[i].ID)
		}
		if twice[i].ID != once[i].ID {
			t.Fatalf("sorting twice changed position %d", i)
		}
	}

	if records[0].ID != 1 {
		t.Fatalf("input slice was mutated")
	}
}

func TestOrdinalTimeline(t *testing.T) {
	loc := mustLoc(t)
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, loc)
	records := []*entity.PointRecord{
		rec(2, "1", time.Date(2026, 3, 10, 12, 5, 0, 0, loc), entity.PunchIntervalo),
		rec(1, "1", time.Date(2026, 3, 10, 8, 0, 0, 0, loc), entity.PunchEntrada),
		rec(3, "1", time.Date(2026, 3, 10, 13, 0, 0, 0, loc), entity.PunchRetorno),
		// Other day, must be ignored.
		rec(4, "1", time.Date(2026, 3, 9, 17, 0, 0, 0, loc), entity.PunchSaida),
	}

	slots := DailyTimeline(records, day, loc, Ordinal)

	wantTimes := []string{"08:00", "12:05", "13:00", "17:00"}
	wantDone := []bool{true, true, true, false}
	for i := range slots {
		if slots[i].Time != wantTimes[i] {
			t.Fatalf("slot %d: expected time %s, got %s", i, wantTimes[i], slots[i].Time)
		}
		if slots[i].Done != wantDone[i] {
			t.Fatalf("slot %d: expected done=%v", i, wantDone[i])
		}
	}

	if next := NextPunchType(slots); next != entity.PunchSaida {
		t.Fatalf("expected next punch saida, got %s", next)
	}
}

func TestOrdinalIgnoresTypes(t *testing.T) {
	loc := mustLoc(t)
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, loc)
	records := []*entity.PointRecord{
		rec(1, "1", time.Date(2026, 3, 10, 9, 0, 0, 0, loc), entity.PunchSaida),
	}

	ordinal := DailyTimeline(records, day, loc, Ordinal)
	if !ordinal[0].Done || ordinal[0].Time != "09:00" {
		t.Fatalf("ordinal should put the first punch in the first slot")
	}

	matched := DailyTimeline(records, day, loc, TypeMatched)
	if matched[0].Done {
		t.Fatalf("type matched should leave entrada empty")
	}
	if !matched[3].Done || matched[3].Time != "09:00" {
		t.Fatalf("type matched should fill saida")
	}
}

func TestTypeMatchedKeepsEarliest(t *testing.T) {
	loc := mustLoc(t)
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, loc)
	records := []*entity.PointRecord{
		rec(2, "1", time.Date(2026, 3, 10, 8, 30, 0, 0, loc), entity.PunchEntrada),
		rec(1, "1", time.Date(2026, 3, 10, 7, 55, 0, 0, loc), entity.PunchEntrada),
	}

	slots := DailyTimeline(records, day, loc, TypeMatched)
	if slots[0].Time != "07:55" {
		t.Fatalf("expected earliest entrada 07:55, got %s", slots[0].Time)
	}
	if slots[1].Done {
		t.Fatalf("intervalo must stay empty")
	}
}

func TestEmptyTimelineShowsSchedule(t *testing.T) {
	loc := mustLoc(t)
	slots := DailyTimeline(nil, time.Now(), loc, Ordinal)
	for i, spec := range DefaultSchedule {
		if slots[i].Done || slots[i].Time != spec.Scheduled {
			t.Fatalf("slot %d: expected scheduled %s", i, spec.Scheduled)
		}
	}
	if NextPunchType(slots) != entity.PunchEntrada {
		t.Fatalf("expected entrada as first punch of the day")
	}
}

func TestWorkedDuration(t *testing.T) {
	loc := mustLoc(t)
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, loc)
	records := []*entity.PointRecord{
		rec(1, "1", time.Date(2026, 3, 10, 8, 0, 0, 0, loc), entity.PunchEntrada),
		rec(2, "1", time.Date(2026, 3, 10, 12, 0, 0, 0, loc), entity.PunchIntervalo),
		rec(3, "1", time.Date(2026, 3, 10, 13, 0, 0, 0, loc), entity.PunchRetorno),
	}
	slots := DailyTimeline(records, day, loc, Ordinal)

	now := time.Date(2026, 3, 10, 15, 30, 0, 0, loc)
	got := WorkedDuration(slots, now)
	want := 4*time.Hour + 2*time.Hour + 30*time.Minute
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestGroupByDay(t *testing.T) {
	loc := mustLoc(t)
	records := []*entity.PointRecord{
		rec(1, "1", time.Date(2026, 3, 10, 8, 0, 0, 0, loc), entity.PunchEntrada),
		rec(2, "1", time.Date(2026, 3, 10, 17, 0, 0, 0, loc), entity.PunchSaida),
		rec(3, "1", time.Date(2026, 3, 11, 8, 0, 0, 0, loc), entity.PunchEntrada),
		// 01:30 UTC on the 12th is still the 11th in São Paulo.
		rec(4, "1", time.Date(2026, 3, 12, 1, 30, 0, 0, time.UTC), entity.PunchSaida),
	}

	groups := GroupByDay(records, loc)
	if len(groups) != 2 {
		t.Fatalf("expected 2 days, got %d", len(groups))
	}
	if len(groups["10/03/2026"]) != 2 || len(groups["11/03/2026"]) != 2 {
		t.Fatalf("unexpected grouping: %v", groups)
	}

	days := SortedDays(groups)
	if days[0] != "11/03/2026" || days[1] != "10/03/2026" {
		t.Fatalf("expected newest day first, got %v", days)
	}
}

func TestSortedDaysAcrossMonths(t *testing.T) {
	groups := map[string][]*entity.PointRecord{
		"31/01/2026": nil,
		"01/02/2026": nil,
		"15/12/2025": nil,
	}

	days := SortedDays(groups)
	want := []string{"01/02/2026", "31/01/2026", "15/12/2025"}
	for i := range want {
		if days[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, days)
		}
	}
}

func TestNormalizeDate(t *testing.T) {
	cases := map[string]string{
		"2026-02-14":           "2026-02-14",
		"14/02/2026":           "2026-02-14",
		"14-02-2026":           "2026-02-14",
		"2026/02/14":           "2026-02-14",
		" 2026-02-14 ":         "2026-02-14",
		"2026-02-14T10:00:00Z": "2026-02-14",
	}

	for in, want := range cases {
		got, err := NormalizeDate(in)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", in, err)
		}
		if got != want {
			t.Fatalf("%q: expected %s, got %s", in, want, got)
		}
	}

	a, _ := NormalizeDate("2026-02-14")
	b, _ := NormalizeDate("14/02/2026")
	if a != b {
		t.Fatalf("both forms must compare equal")
	}

	for _, bad := range []string{"", "14/13/2026", "tomorrow", "2026-02-30"} {
		if _, err := NormalizeDate(bad); err == nil {
			t.Fatalf("%q: expected error", bad)
		}
	}
}

func TestSummaries(t *testing.T) {
	loc := mustLoc(t)
	var records []*entity.PointRecord
	for i := 0; i < 5; i++ {
		records = append(records, rec(int64(i), "7", time.Date(2026, 3, 10, 8+i, 0, 0, 0, loc), entity.PunchEntrada))
	}

	lines := Summaries(records, 3, loc)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	want := "10/03/2026 12:00 entrada - User 7 (7) em "
	if lines[0] != want {
		t.Fatalf("expected %q, got %q", want, lines[0])
	}

	for _, n := range []int{0, -1} {
		if got := Summaries(records, n, loc); len(got) != 0 {
			t.Fatalf("n=%d should yield no lines, got %v", n, got)
		}
	}
}
