package update_reward_settings

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

type RewardsService interface {
	UpdateSettings(ctx context.Context, placeID, userID int64, earnRate, redemptionRate float64) (*domain.RewardSettings, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
