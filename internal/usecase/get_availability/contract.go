package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/integrations/placeservice"
)

// BookingRepository интерфейс репозитория записей
type BookingRepository interface {
	// GetByPlaceWithFilter получает записи заведения по фильтру
	GetByPlaceWithFilter(ctx context.Context, filter domain.PlaceBookingsFilter) ([]*domain.Booking, error)
}

// ScheduleRepository интерфейс репозитория рабочих часов
type ScheduleRepository interface {
	// GetDayIntervals получает рабочие интервалы сотрудника на день недели
	// с fallback на расписание заведения
	GetDayIntervals(ctx context.Context, placeID, employeeID int64, weekday time.Weekday) ([]domain.WorkingInterval, error)
}

// BlockedTimeResolver интерфейс резолвера заблокированного времени
// (отгулы сотрудника и закрытые периоды заведения)
type BlockedTimeResolver interface {
	ResolveBlockedIntervals(ctx context.Context, employeeID *int64, placeID int64, from, to time.Time) ([]domain.TimeInterval, error)
}

// PlaceServiceClient интерфейс клиента для PlaceService
type PlaceServiceClient interface {
	GetPlace(ctx context.Context, placeID int64) (*placeservice.Place, error)
	GetService(ctx context.Context, placeID, serviceID int64) (*placeservice.Service, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
