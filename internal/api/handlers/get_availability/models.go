package get_availability

import (
	"github.com/m04kA/SMC-SalonService/internal/domain"
	getAvailability "github.com/m04kA/SMC-SalonService/internal/usecase/get_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Date      string         `json:"date"`
	PlaceID   int64          `json:"placeId"`
	ServiceID int64          `json:"serviceId"`
	Slots     []SlotResponse `json:"slots"`
}

// SlotResponse доступный слот одного сотрудника
type SlotResponse struct {
	EmployeeID      int64  `json:"employeeId"`
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	result := &AvailabilityResponse{
		Date:      resp.Date.Format(domain.DateFormat),
		PlaceID:   resp.PlaceID,
		ServiceID: resp.ServiceID,
		Slots:     make([]SlotResponse, 0, len(resp.Slots)),
	}
	for _, slot := range resp.Slots {
		result.Slots = append(result.Slots, SlotResponse{
			EmployeeID:      slot.EmployeeID,
			StartTime:       slot.StartTime.String(),
			DurationMinutes: slot.DurationMinutes,
		})
	}
	return result
}
