package blockedtime

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// TimeOffRepository интерфейс репозитория отгулов и закрытых периодов
type TimeOffRepository interface {
	// GetBlockingEntries получает одобренные отгулы сотрудника за период
	GetBlockingEntries(ctx context.Context, employeeID int64, from, to time.Time) ([]*domain.TimeOffEntry, error)
	// GetBlockingClosedPeriods получает активные закрытые периоды заведения за период
	GetBlockingClosedPeriods(ctx context.Context, placeID int64, from, to time.Time) ([]*domain.ClosedPeriod, error)
}

// ScheduleRepository интерфейс репозитория рабочих часов
type ScheduleRepository interface {
	GetDayIntervals(ctx context.Context, placeID, employeeID int64, weekday time.Weekday) ([]domain.WorkingInterval, error)
	GetPlaceDayIntervals(ctx context.Context, placeID int64, weekday time.Weekday) ([]domain.WorkingInterval, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
