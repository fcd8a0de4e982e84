package domain

import (
	"time"

	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// WorkingInterval один открытый интервал рабочего дня (локальное время)
type WorkingInterval struct {
	Open  types.TimeString
	Close types.TimeString
}

// IsValid returns true if the interval is well-formed
func (w WorkingInterval) IsValid() bool {
	return !w.Open.IsZero() && !w.Close.IsZero() && w.Open.IsBefore(w.Close)
}

// WorkingHours рабочие часы на один день недели
// Принадлежат сотруднику; строка с EmployeeID == nil задаёт
// дефолт заведения, на который откатываемся при отсутствии
// персонального расписания. Отсутствие записи на день недели
// означает выходной.
type WorkingHours struct {
	ID         int64
	PlaceID    int64
	EmployeeID *int64 // nil = дефолт заведения
	Weekday    time.Weekday
	Intervals  []WorkingInterval

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPlaceDefault returns true if this row is the place-wide fallback schedule
func (w *WorkingHours) IsPlaceDefault() bool {
	return w.EmployeeID == nil
}

// DayWindow возвращает общий интервал рабочего дня (от первого открытия
// до последнего закрытия). Второе значение false, если день выходной.
func DayWindow(intervals []WorkingInterval) (WorkingInterval, bool) {
	if len(intervals) == 0 {
		return WorkingInterval{}, false
	}
	window := intervals[0]
	for _, iv := range intervals[1:] {
		if iv.Open.IsBefore(window.Open) {
			window.Open = iv.Open
		}
		if iv.Close.IsAfter(window.Close) {
			window.Close = iv.Close
		}
	}
	return window, true
}
