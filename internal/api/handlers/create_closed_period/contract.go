package create_closed_period

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/service/timeoff/models"
)

type TimeOffService interface {
	CreateClosedPeriod(ctx context.Context, req *models.CreateClosedPeriodRequest, userID int64) (*models.ClosedPeriodResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
