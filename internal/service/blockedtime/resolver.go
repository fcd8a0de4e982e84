package blockedtime

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// Resolver разворачивает отгулы и закрытые периоды (включая повторяющиеся)
// в конкретные заблокированные интервалы для диапазона дат.
//
// Семантика отказов: некорректное правило повторения пропускается
// с предупреждением и НЕ блокирует расчёт - ложная блокировка
// несправедливо отказала бы клиенту в записи.
type Resolver struct {
	timeoffRepo  TimeOffRepository
	scheduleRepo ScheduleRepository
	logger       Logger
}

// NewResolver создает новый резолвер заблокированных интервалов
func NewResolver(timeoffRepo TimeOffRepository, scheduleRepo ScheduleRepository, logger Logger) *Resolver {
	return &Resolver{
		timeoffRepo:  timeoffRepo,
		scheduleRepo: scheduleRepo,
		logger:       logger,
	}
}

// ResolveBlockedIntervals возвращает объединённый набор заблокированных
// интервалов для сотрудника (если указан) и заведения за диапазон
// календарных дат [from, to] включительно.
// Закрытые периоды заведения действуют на всех сотрудников.
func (r *Resolver) ResolveBlockedIntervals(ctx context.Context, employeeID *int64, placeID int64, from, to time.Time) ([]domain.TimeInterval, error) {
	from = dateOnly(from)
	to = dateOnly(to)
	if to.Before(from) {
		return nil, ErrInvalidRange
	}

	blocked := make([]domain.TimeInterval, 0)

	// 1. Отгулы сотрудника
	if employeeID != nil {
		entries, err := r.timeoffRepo.GetBlockingEntries(ctx, *employeeID, from, to)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to get time off entries: %v", ErrInternal, err)
		}

		schedule := r.employeeScheduleLookup(ctx, placeID, *employeeID)
		for _, entry := range entries {
			intervals := r.expandEntry(entryRecord{
				id:         entry.ID,
				start:      entry.StartDate,
				end:        entry.EndDate,
				halfDay:    entry.HalfDay,
				recurring:  entry.IsRecurring,
				recurrence: entry.RecurrenceRaw,
			}, from, to, schedule)
			blocked = append(blocked, intervals...)
		}
	}

	// 2. Закрытые периоды заведения
	periods, err := r.timeoffRepo.GetBlockingClosedPeriods(ctx, placeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get closed periods: %v", ErrInternal, err)
	}

	placeSchedule := r.placeScheduleLookup(ctx, placeID)
	for _, period := range periods {
		intervals := r.expandEntry(entryRecord{
			id:         period.ID,
			start:      period.StartDate,
			end:        period.EndDate,
			halfDay:    period.HalfDay,
			recurring:  period.IsRecurring,
			recurrence: period.RecurrenceRaw,
		}, from, to, placeSchedule)
		blocked = append(blocked, intervals...)
	}

	// 3. Дедупликация и объединение
	return domain.MergeIntervals(blocked), nil
}

// entryRecord общая форма отгула и закрытого периода для развёртки
type entryRecord struct {
	id         int64
	start      time.Time
	end        time.Time // нулевое значение = без ограничения (для повторяющихся)
	halfDay    *domain.HalfDayPeriod
	recurring  bool
	recurrence []byte
}

// scheduleLookup возвращает рабочие интервалы на день недели
type scheduleLookup func(weekday time.Weekday) []domain.WorkingInterval

// expandEntry разворачивает одну запись в конкретные интервалы
// в пределах диапазона [from, to]
func (r *Resolver) expandEntry(entry entryRecord, from, to time.Time, schedule scheduleLookup) []domain.TimeInterval {
	var dates []time.Time

	if entry.recurring {
		pattern, err := domain.ParseRecurrencePattern(entry.recurrence)
		if err != nil {
			// Некорректное правило не должно прерывать весь расчёт
			r.logger.Warn("BlockedTime: skipping entry id=%d with malformed recurrence: %v", entry.id, err)
			return nil
		}
		if !pattern.IsRecurring() {
			// Правило без повторения - трактуем запись как обычную
			dates = datesBetween(clampRange(entry.start, entry.end, from, to))
		} else {
			start, end := clampRange(entry.start, entry.end, from, to)
			dates = matchingDates(pattern, start, end)
		}
	} else {
		dates = datesBetween(clampRange(entry.start, entry.end, from, to))
	}

	intervals := make([]domain.TimeInterval, 0, len(dates))
	for _, date := range dates {
		iv, ok := r.dayBlock(date, entry.halfDay, schedule)
		if ok {
			intervals = append(intervals, iv)
		}
	}
	return intervals
}

// dayBlock возвращает заблокированный интервал на одну дату
// Полный день блокирует окно рабочего дня (открытие-закрытие),
// половина дня - первую или вторую половину этого окна.
// Если день и так выходной, блокировать нечего.
func (r *Resolver) dayBlock(date time.Time, halfDay *domain.HalfDayPeriod, schedule scheduleLookup) (domain.TimeInterval, bool) {
	window, open := domain.DayWindow(schedule(date.Weekday()))
	if !open {
		return domain.TimeInterval{}, false
	}

	openMin, err := window.Open.Minutes()
	if err != nil {
		return domain.TimeInterval{}, false
	}
	closeMin, err := window.Close.Minutes()
	if err != nil {
		return domain.TimeInterval{}, false
	}

	startMin, endMin := openMin, closeMin
	if halfDay != nil {
		mid := openMin + (closeMin-openMin)/2
		switch *halfDay {
		case domain.HalfDayAM:
			endMin = mid
		case domain.HalfDayPM:
			startMin = mid
		}
	}

	day := dateOnly(date)
	return domain.TimeInterval{
		Start: day.Add(time.Duration(startMin) * time.Minute),
		End:   day.Add(time.Duration(endMin) * time.Minute),
	}, startMin < endMin
}

// employeeScheduleLookup возвращает lookup рабочих часов сотрудника
// с кешированием по дню недели в пределах одного запроса
func (r *Resolver) employeeScheduleLookup(ctx context.Context, placeID, employeeID int64) scheduleLookup {
	cache := make(map[time.Weekday][]domain.WorkingInterval)
	return func(weekday time.Weekday) []domain.WorkingInterval {
		if cached, ok := cache[weekday]; ok {
			return cached
		}
		intervals, err := r.scheduleRepo.GetDayIntervals(ctx, placeID, employeeID, weekday)
		if err != nil {
			r.logger.Warn("BlockedTime: failed to get schedule for employee=%d weekday=%d: %v", employeeID, weekday, err)
			intervals = nil
		}
		cache[weekday] = intervals
		return intervals
	}
}

// placeScheduleLookup возвращает lookup дефолтных рабочих часов заведения
func (r *Resolver) placeScheduleLookup(ctx context.Context, placeID int64) scheduleLookup {
	cache := make(map[time.Weekday][]domain.WorkingInterval)
	return func(weekday time.Weekday) []domain.WorkingInterval {
		if cached, ok := cache[weekday]; ok {
			return cached
		}
		intervals, err := r.scheduleRepo.GetPlaceDayIntervals(ctx, placeID, weekday)
		if err != nil {
			r.logger.Warn("BlockedTime: failed to get place schedule for place=%d weekday=%d: %v", placeID, weekday, err)
			intervals = nil
		}
		cache[weekday] = intervals
		return intervals
	}
}

// clampRange пересекает окно действия записи с диапазоном запроса
// Нулевая дата конца означает отсутствие ограничения
func clampRange(entryStart, entryEnd, from, to time.Time) (time.Time, time.Time) {
	start := dateOnly(entryStart)
	if start.Before(from) {
		start = from
	}
	end := to
	if !entryEnd.IsZero() && dateOnly(entryEnd).Before(to) {
		end = dateOnly(entryEnd)
	}
	return start, end
}

// datesBetween возвращает все даты диапазона [start, end] включительно
func datesBetween(start, end time.Time) []time.Time {
	dates := make([]time.Time, 0)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// matchingDates возвращает даты диапазона, попадающие под правило повторения
func matchingDates(pattern domain.RecurrencePattern, start, end time.Time) []time.Time {
	dates := make([]time.Time, 0)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if pattern.Matches(d) {
			dates = append(dates, d)
		}
	}
	return dates
}

// dateOnly обнуляет время, оставляя только дату (UTC)
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
