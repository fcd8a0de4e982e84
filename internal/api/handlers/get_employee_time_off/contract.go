package get_employee_time_off

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/service/timeoff/models"
)

type TimeOffService interface {
	ListEntriesByEmployee(ctx context.Context, placeID, employeeID, userID int64) (*models.EntryListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
