package submit_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.PlaceID <= 0 {
		return fmt.Errorf("%w: placeID must be positive", ErrInvalidInput)
	}

	if req.EmployeeID != nil && *req.EmployeeID < 0 {
		return fmt.Errorf("%w: employeeID must not be negative", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid start time: %v", ErrInvalidInput, err)
	}
	startMinutes, err := req.StartTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: invalid start time: %v", ErrInvalidInput, err)
	}
	if startMinutes%domain.SlotStepMinutes != 0 {
		return fmt.Errorf("%w: start time must be aligned to %d minutes", ErrInvalidInput, domain.SlotStepMinutes)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if req.RedeemPoints != nil && *req.RedeemPoints < 0 {
		return fmt.Errorf("%w: redeemPoints must not be negative", ErrInvalidInput)
	}

	if req.RecurringWeeks < 0 {
		return fmt.Errorf("%w: recurringWeeks must not be negative", ErrInvalidInput)
	}
	if req.RecurringWeeks > domain.MaxRecurringInstances {
		return fmt.Errorf("%w: at most %d weekly repeats are allowed", ErrInvalidInput, domain.MaxRecurringInstances)
	}

	return nil
}

// normalizeServiceIDs сводит устаревшее поле serviceId и список services
// к одному списку; список имеет приоритет
func normalizeServiceIDs(req *Request) ([]int64, error) {
	ids := req.ServiceIDs
	if len(ids) == 0 && req.ServiceID != nil {
		ids = []int64{*req.ServiceID}
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}
	if len(ids) > domain.MaxServicesPerBooking {
		return nil, fmt.Errorf("%w: at most %d services per booking", ErrInvalidInput, domain.MaxServicesPerBooking)
	}

	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return nil, fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: duplicate serviceID %d", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}

	return ids, nil
}

// requestedEmployee нормализует выбор сотрудника: 0 эквивалентен nil
func requestedEmployee(req *Request) *int64 {
	if req.EmployeeID == nil || *req.EmployeeID == domain.AnyEmployee {
		return nil
	}
	return req.EmployeeID
}

// instanceDates возвращает даты всех экземпляров записи
// Повторы еженедельные, первая дата всегда включена
func instanceDates(start time.Time, recurringWeeks int) []time.Time {
	count := recurringWeeks
	if count < 1 {
		count = 1
	}
	dates := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		dates = append(dates, start.AddDate(0, 0, 7*i))
	}
	return dates
}

// isDateTimeInPast проверяет, что момент начала записи уже прошёл
func isDateTimeInPast(date time.Time, startMinutes int, now time.Time) bool {
	startAt := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location()).
		Add(time.Duration(startMinutes) * time.Minute)
	return startAt.Before(now)
}
