package rewards

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// RewardsRepository интерфейс репозитория лояльности
type RewardsRepository interface {
	GetSettings(ctx context.Context, placeID int64) (*domain.RewardSettings, error)
	// GetBalance внутри транзакции блокирует строку баланса (FOR UPDATE)
	GetBalance(ctx context.Context, placeID, userID int64) (int, error)
}

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
