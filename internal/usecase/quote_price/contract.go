package quote_price

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/integrations/placeservice"
	"github.com/m04kA/SMC-SalonService/internal/service/pricing"
)

// PricingEngine интерфейс движка расчета стоимости
type PricingEngine interface {
	PriceBooking(ctx context.Context, placeID int64, lines []pricing.LineInput, at time.Time) (*pricing.Quote, error)
}

// RewardsCalculator интерфейс калькулятора эффекта баллов
type RewardsCalculator interface {
	ComputeEffect(ctx context.Context, placeID, userID int64, serviceIDs []int64, finalTotal float64, requestedRedeemPoints *int, at time.Time) (*domain.RewardsEffect, error)
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
