package request_time_off

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/service/timeoff/models"
)

type TimeOffService interface {
	RequestEntry(ctx context.Context, req *models.CreateEntryRequest, userID int64) (*models.EntryResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
