package timeoff

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/integrations/placeservice"
)

// TimeOffRepository интерфейс репозитория отгулов и закрытых периодов
type TimeOffRepository interface {
	CreateEntry(ctx context.Context, entry *domain.TimeOffEntry) (*domain.TimeOffEntry, error)
	GetEntryByID(ctx context.Context, id int64) (*domain.TimeOffEntry, error)
	UpdateEntryStatus(ctx context.Context, id int64, status domain.TimeOffStatus, reviewedBy *int64) error
	GetEntriesByEmployee(ctx context.Context, placeID, employeeID int64) ([]*domain.TimeOffEntry, error)
	CreateClosedPeriod(ctx context.Context, period *domain.ClosedPeriod) (*domain.ClosedPeriod, error)
	SetClosedPeriodStatus(ctx context.Context, id int64, status domain.ClosedPeriodStatus) error
}

// PlaceServiceClient интерфейс клиента для PlaceService
type PlaceServiceClient interface {
	GetPlace(ctx context.Context, placeID int64) (*placeservice.Place, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реализация TimeProvider с реальным временем
type RealTimeProvider struct{}

func (r *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
