package cancel_time_off

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/service/timeoff/models"
)

type TimeOffService interface {
	CancelEntry(ctx context.Context, id int64, userID int64) (*models.EntryResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
