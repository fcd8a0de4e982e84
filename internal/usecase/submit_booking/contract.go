package submit_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/integrations/notifyservice"
	"github.com/m04kA/SMC-SalonService/internal/integrations/placeservice"
	"github.com/m04kA/SMC-SalonService/internal/service/pricing"
)

// BookingRepository интерфейс репозитория записей
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	// GetByPlaceWithFilter получает записи заведения; внутри транзакции
	// выборка на конкретную дату блокирует строки (FOR UPDATE)
	GetByPlaceWithFilter(ctx context.Context, filter domain.PlaceBookingsFilter) ([]*domain.Booking, error)
}

// ScheduleRepository интерфейс репозитория рабочих часов
type ScheduleRepository interface {
	GetDayIntervals(ctx context.Context, placeID, employeeID int64, weekday time.Weekday) ([]domain.WorkingInterval, error)
}

// BlockedTimeResolver интерфейс резолвера заблокированного времени
type BlockedTimeResolver interface {
	ResolveBlockedIntervals(ctx context.Context, employeeID *int64, placeID int64, from, to time.Time) ([]domain.TimeInterval, error)
}

// PricingEngine интерфейс движка расчета стоимости с учетом кампаний
type PricingEngine interface {
	PriceBooking(ctx context.Context, placeID int64, lines []pricing.LineInput, at time.Time) (*pricing.Quote, error)
}

// RewardsCalculator интерфейс калькулятора эффекта баллов лояльности
type RewardsCalculator interface {
	ComputeEffect(ctx context.Context, placeID, userID int64, serviceIDs []int64, finalTotal float64, requestedRedeemPoints *int, at time.Time) (*domain.RewardsEffect, error)
}

// RewardsRepository интерфейс репозитория баллов лояльности
type RewardsRepository interface {
	// ApplyEffect записывает проводки в журнал и обновляет баланс
	ApplyEffect(ctx context.Context, placeID, userID, bookingID int64, effect domain.RewardsEffect) error
}

// PlaceServiceClient интерфейс клиента для PlaceService
type PlaceServiceClient interface {
	GetPlace(ctx context.Context, placeID int64) (*placeservice.Place, error)
	GetService(ctx context.Context, placeID, serviceID int64) (*placeservice.Service, error)
}

// NotifyServiceClient интерфейс клиента для NotifyService
type NotifyServiceClient interface {
	PublishBookingConfirmed(ctx context.Context, event notifyservice.BookingConfirmedEvent) error
}

// TransactionManager интерфейс менеджера транзакций
type TransactionManager interface {
	// DoSerializable выполняет функцию в сериализуемой транзакции
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
