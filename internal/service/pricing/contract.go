package pricing

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// CampaignRepository интерфейс репозитория кампаний
type CampaignRepository interface {
	GetActiveForPlace(ctx context.Context, placeID int64, at time.Time, types []domain.CampaignType) ([]*domain.Campaign, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
