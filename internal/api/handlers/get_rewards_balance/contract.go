package get_rewards_balance

import "context"

type RewardsService interface {
	GetBalance(ctx context.Context, placeID, userID int64) (int, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
