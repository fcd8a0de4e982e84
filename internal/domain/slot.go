package domain

import (
	"time"

	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// AvailableSlot конкретный доступный для записи слот одного сотрудника
type AvailableSlot struct {
	EmployeeID      int64
	StartTime       types.TimeString
	DurationMinutes int
}

// SameTime returns true if two slots start at the same time
func (s AvailableSlot) SameTime(other AvailableSlot) bool {
	return s.StartTime == other.StartTime
}

// DiscretizeSlots нарезает свободные интервалы на слоты фиксированной сетки
// Берётся каждая выровненная по SlotStepMinutes точка начала внутри
// свободного интервала, такая что start + duration <= interval.End
// Интервалы заданы в минутах от начала суток
func DiscretizeSlots(freeIntervals []TimeInterval, durationMinutes int) []TimeInterval {
	if durationMinutes <= 0 {
		return []TimeInterval{}
	}

	slots := make([]TimeInterval, 0)
	for _, iv := range freeIntervals {
		if !iv.IsValid() {
			continue
		}
		start := alignUp(iv.Start, SlotStepMinutes)
		for {
			end := start.Add(minutes(durationMinutes))
			if end.After(iv.End) {
				break
			}
			slots = append(slots, TimeInterval{Start: start, End: end})
			start = start.Add(minutes(SlotStepMinutes))
		}
	}
	return slots
}

// alignUp округляет момент времени вверх до границы кратной step минутам
// относительно начала суток
func alignUp(t time.Time, step int) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := int(t.Sub(day) / time.Minute)
	if t.Sub(day)%time.Minute != 0 {
		offset++
	}
	rem := offset % step
	if rem != 0 {
		offset += step - rem
	}
	return day.Add(minutes(offset))
}

func minutes(m int) time.Duration {
	return time.Duration(m) * time.Minute
}
