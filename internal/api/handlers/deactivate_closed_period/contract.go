package deactivate_closed_period

import "context"

type TimeOffService interface {
	DeactivateClosedPeriod(ctx context.Context, id int64, placeID, userID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
