package get_availability

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// dayStart возвращает полночь указанной даты в UTC
// Все интервалы в пределах дня считаются от этой точки
func dayStart(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
}

// workingIntervalsOnDate переводит рабочие интервалы "HH:MM" в абсолютные
// интервалы в пределах указанной даты
func workingIntervalsOnDate(date time.Time, intervals []domain.WorkingInterval) ([]domain.TimeInterval, error) {
	day := dayStart(date)
	result := make([]domain.TimeInterval, 0, len(intervals))
	for _, iv := range intervals {
		openMin, err := iv.Open.Minutes()
		if err != nil {
			return nil, err
		}
		closeMin, err := iv.Close.Minutes()
		if err != nil {
			return nil, err
		}
		result = append(result, domain.TimeInterval{
			Start: day.Add(time.Duration(openMin) * time.Minute),
			End:   day.Add(time.Duration(closeMin) * time.Minute),
		})
	}
	return result, nil
}

// busyIntervals возвращает интервалы, занятые активными записями сотрудника
// Записи в терминальных статусах слот не занимают
func busyIntervals(bookings []*domain.Booking, employeeID int64) []domain.TimeInterval {
	result := make([]domain.TimeInterval, 0)
	for _, b := range bookings {
		if b.EmployeeID != employeeID || !b.IsActive() {
			continue
		}
		iv, err := b.Interval()
		if err != nil {
			continue
		}
		result = append(result, iv)
	}
	return result
}

// pastCutoff возвращает интервал от полуночи до текущего момента,
// выровненного вверх по сетке слотов; применяется только для сегодняшней даты
func pastCutoff(date, now time.Time) (domain.TimeInterval, bool) {
	now = now.UTC()
	if !isSameDay(date, now) {
		return domain.TimeInterval{}, false
	}
	day := dayStart(date)
	elapsed := time.Duration(now.Hour())*time.Hour + time.Duration(now.Minute())*time.Minute
	if now.Second() > 0 || now.Nanosecond() > 0 {
		elapsed += time.Minute
	}
	cutoff := domain.TimeInterval{Start: day, End: day.Add(elapsed)}
	if !cutoff.IsValid() {
		return domain.TimeInterval{}, false
	}
	return cutoff, true
}

// toSlots переводит дискретизированные интервалы в слоты ответа
func toSlots(employeeID int64, date time.Time, intervals []domain.TimeInterval, durationMinutes int) []Slot {
	day := dayStart(date)
	slots := make([]Slot, 0, len(intervals))
	for _, iv := range intervals {
		startMin := int(iv.Start.Sub(day) / time.Minute)
		startTime, err := types.NewTimeStringFromMinutes(startMin)
		if err != nil {
			continue
		}
		slots = append(slots, Slot{
			EmployeeID:      employeeID,
			StartTime:       startTime,
			DurationMinutes: durationMinutes,
		})
	}
	return slots
}

// sortSlots упорядочивает слоты по времени начала, затем по ID сотрудника
func sortSlots(slots []Slot) {
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].StartTime != slots[j].StartTime {
			return slots[i].StartTime.IsBefore(slots[j].StartTime)
		}
		return slots[i].EmployeeID < slots[j].EmployeeID
	})
}
