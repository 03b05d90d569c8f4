package timeline

import (
	"time"

	"pontodigital/cmd/internal/domain/entity"
)

const clockLayout = "15:04"

// SlotSpec describes one fixed position of the daily timeline.
type SlotSpec struct {
	Type      entity.PunchType
	Label     string
	Scheduled string
}

// DefaultSchedule is the standard 08-12 / 13-17 journey.
var DefaultSchedule = [4]SlotSpec{
	{Type: entity.PunchEntrada, Label: "Entrada", Scheduled: "08:00"},
	{Type: entity.PunchIntervalo, Label: "Intervalo", Scheduled: "12:00"},
	{Type: entity.PunchRetorno, Label: "Retorno", Scheduled: "13:00"},
	{Type: entity.PunchSaida, Label: "Saída", Scheduled: "17:00"},
}

type Slot struct {
	Type   entity.PunchType    `json:"type"`
	Label  string              `json:"label"`
	Time   string              `json:"time"`
	Done   bool                `json:"done"`
	Record *entity.PointRecord `json:"record,omitempty"`
}

// Strategy decides which record fills which slot.
type Strategy int

const (
	// Ordinal puts the Nth punch of the day in the Nth slot, whatever its type.
	Ordinal Strategy = iota
	// TypeMatched fills a slot only with the earliest record of the same type.
	TypeMatched
)

// DailyTimeline builds the four slots for the calendar day of `day`.
// Slots without a record show the scheduled time and are not done.
func DailyTimeline(records []*entity.PointRecord, day time.Time, loc *time.Location, strategy Strategy) [4]Slot {
	return BuildTimeline(records, day, loc, DefaultSchedule, strategy)
}

func BuildTimeline(records []*entity.PointRecord, day time.Time, loc *time.Location, schedule [4]SlotSpec, strategy Strategy) [4]Slot {
	todays := sortAsc(OnDay(records, day, loc))

	var slots [4]Slot
	for i, spec := range schedule {
		slots[i] = Slot{Type: spec.Type, Label: spec.Label, Time: spec.Scheduled}
	}

	switch strategy {
	case TypeMatched:
		for i := range slots {
			for _, r := range todays {
				if r.Type == slots[i].Type {
					fill(&slots[i], r, loc)
					break
				}
			}
		}
	default:
		for i, r := range todays {
			if i >= len(slots) {
				break
			}
			fill(&slots[i], r, loc)
		}
	}
	return slots
}

func fill(slot *Slot, r *entity.PointRecord, loc *time.Location) {
	slot.Time = r.Timestamp.In(loc).Format(clockLayout)
	slot.Done = true
	slot.Record = r
}

// WorkedDuration sums entrada→intervalo and retorno→saída for filled slots.
// An open pair (entrada without intervalo) counts up to `now`.
func WorkedDuration(slots [4]Slot, now time.Time) time.Duration {
	var total time.Duration
	for i := 0; i < len(slots); i += 2 {
		start, end := slots[i], slots[i+1]
		if !start.Done {
			continue
		}

		stop := now
		if end.Done {
			stop = end.Record.Timestamp
		}
		if d := stop.Sub(start.Record.Timestamp); d > 0 {
			total += d
		}
	}
	return total
}

// NextPunchType suggests the type of the next punch of the day.
func NextPunchType(slots [4]Slot) entity.PunchType {
	for _, s := range slots {
		if !s.Done {
			return s.Type
		}
	}
	return entity.PunchSaida
}
