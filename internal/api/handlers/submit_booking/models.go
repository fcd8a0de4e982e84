package submit_booking

import (
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	submitBooking "github.com/m04kA/SMC-SalonService/internal/usecase/submit_booking"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// SubmitBookingRequest HTTP request model
// serviceId - устаревшее поле для записи на одну услугу, serviceIds приоритетнее
type SubmitBookingRequest struct {
	PlaceID        int64   `json:"placeId"`
	EmployeeID     *int64  `json:"employeeId,omitempty"`
	ServiceID      *int64  `json:"serviceId,omitempty"`
	ServiceIDs     []int64 `json:"serviceIds,omitempty"`
	BookingDate    string  `json:"bookingDate"` // "2026-03-15"
	StartTime      string  `json:"startTime"`   // "10:15"
	Notes          *string `json:"notes,omitempty"`
	RedeemPoints   *int    `json:"redeemPoints,omitempty"`
	RecurringWeeks int     `json:"recurringWeeks,omitempty"`
}

// SubmitBookingResponse HTTP response model
type SubmitBookingResponse struct {
	Instances []InstanceResponse `json:"instances"`
}

// InstanceResponse результат одного экземпляра записи
type InstanceResponse struct {
	Date    string           `json:"date"`
	Booking *BookingResponse `json:"booking,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// BookingResponse созданная запись
type BookingResponse struct {
	ID              int64          `json:"id"`
	UserID          int64          `json:"userId"`
	PlaceID         int64          `json:"placeId"`
	EmployeeID      int64          `json:"employeeId"`
	BookingDate     string         `json:"bookingDate"`
	StartTime       string         `json:"startTime"`
	DurationMinutes int            `json:"durationMinutes"`
	Status          string         `json:"status"`
	Services        []LineResponse `json:"services"`
	TotalPrice      float64        `json:"totalPrice"`
	PointsEarned    int            `json:"pointsEarned"`
	PointsRedeemed  int            `json:"pointsRedeemed"`
	RedemptionValue float64        `json:"redemptionValue"`
	Notes           *string        `json:"notes,omitempty"`
	CreatedAt       string         `json:"createdAt"`
}

// LineResponse снимок стоимости одной услуги
type LineResponse struct {
	ServiceID         int64   `json:"serviceId"`
	ServiceName       string  `json:"serviceName"`
	DurationMinutes   int     `json:"durationMinutes"`
	BasePrice         float64 `json:"basePrice"`
	FinalPrice        float64 `json:"finalPrice"`
	DiscountAmount    float64 `json:"discountAmount"`
	AppliedCampaignID *int64  `json:"appliedCampaignId,omitempty"`
	IsFree            bool    `json:"isFree"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *SubmitBookingRequest) ToUseCaseRequest(userID int64) (*submitBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &submitBooking.Request{
		UserID:         userID,
		PlaceID:        r.PlaceID,
		EmployeeID:     r.EmployeeID,
		ServiceID:      r.ServiceID,
		ServiceIDs:     r.ServiceIDs,
		Date:           bookingDate,
		StartTime:      startTime,
		Notes:          r.Notes,
		RedeemPoints:   r.RedeemPoints,
		RecurringWeeks: r.RecurringWeeks,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *submitBooking.Response) *SubmitBookingResponse {
	result := &SubmitBookingResponse{
		Instances: make([]InstanceResponse, 0, len(resp.Instances)),
	}
	for _, inst := range resp.Instances {
		instance := InstanceResponse{
			Date:  inst.Date.Format(domain.DateFormat),
			Error: inst.Error,
		}
		if inst.Booking != nil {
			instance.Booking = fromBookingResult(inst.Booking)
		}
		result.Instances = append(result.Instances, instance)
	}
	return result
}

func fromBookingResult(b *submitBooking.BookingResult) *BookingResponse {
	services := make([]LineResponse, 0, len(b.Lines))
	for _, line := range b.Lines {
		services = append(services, LineResponse{
			ServiceID:         line.ServiceID,
			ServiceName:       line.ServiceName,
			DurationMinutes:   line.DurationMinutes,
			BasePrice:         line.BasePrice,
			FinalPrice:        line.FinalPrice,
			DiscountAmount:    line.DiscountAmount,
			AppliedCampaignID: line.AppliedCampaignID,
			IsFree:            line.IsFree,
		})
	}

	return &BookingResponse{
		ID:              b.ID,
		UserID:          b.UserID,
		PlaceID:         b.PlaceID,
		EmployeeID:      b.EmployeeID,
		BookingDate:     b.BookingDate.Format(domain.DateFormat),
		StartTime:       b.StartTime.String(),
		DurationMinutes: b.DurationMinutes,
		Status:          b.Status,
		Services:        services,
		TotalPrice:      b.TotalPrice,
		PointsEarned:    b.PointsEarned,
		PointsRedeemed:  b.PointsRedeemed,
		RedemptionValue: b.RedemptionValue,
		Notes:           b.Notes,
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
	}
}
