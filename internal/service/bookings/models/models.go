package models

import (
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// ServiceLineResponse строка услуги в ответе сервиса
type ServiceLineResponse struct {
	ServiceID         int64   `json:"serviceId"`
	ServiceName       string  `json:"serviceName"`
	DurationMinutes   int     `json:"durationMinutes"`
	OriginalPrice     float64 `json:"originalPrice"`
	FinalPrice        float64 `json:"finalPrice"`
	DiscountAmount    float64 `json:"discountAmount"`
	AppliedCampaignID *int64  `json:"appliedCampaignId,omitempty"`
	IsFree            bool    `json:"isFree"`
}

// BookingResponse запись в ответе сервиса
type BookingResponse struct {
	ID                 int64                 `json:"id"`
	UserID             int64                 `json:"userId"`
	PlaceID            int64                 `json:"placeId"`
	EmployeeID         int64                 `json:"employeeId"`
	BookingDate        time.Time             `json:"bookingDate"`
	StartTime          string                `json:"startTime"`
	DurationMinutes    int                   `json:"durationMinutes"`
	Status             string                `json:"status"`
	Lines              []ServiceLineResponse `json:"services"`
	TotalPrice         float64               `json:"totalPrice"`
	PointsEarned       int                   `json:"pointsEarned"`
	PointsRedeemed     int                   `json:"pointsRedeemed"`
	RedemptionValue    float64               `json:"redemptionValue"`
	Notes              *string               `json:"notes,omitempty"`
	CancellationReason *string               `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time            `json:"cancelledAt,omitempty"`
	CreatedAt          time.Time             `json:"createdAt"`
	UpdatedAt          time.Time             `json:"updatedAt"`
}

// BookingListResponse список записей
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}

// GetUserBookingsRequest запрос истории записей пользователя
type GetUserBookingsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// GetPlaceBookingsRequest запрос записей заведения (для менеджеров)
type GetPlaceBookingsRequest struct {
	PlaceID         int64      `json:"placeId"`
	UserID          int64      `json:"userId"` // пользователь, выполняющий запрос
	EmployeeID      *int64     `json:"employeeId,omitempty"`
	StartDate       *time.Time `json:"startDate,omitempty"`
	EndDate         *time.Time `json:"endDate,omitempty"`
	Status          *string    `json:"status,omitempty"`
	IncludeInactive bool       `json:"includeInactive,omitempty"`
}

// ToDomainFilter конвертирует запрос в domain фильтр
func (r *GetPlaceBookingsRequest) ToDomainFilter() (domain.PlaceBookingsFilter, error) {
	filter := domain.PlaceBookingsFilter{
		PlaceID:         r.PlaceID,
		EmployeeID:      r.EmployeeID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}
	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return domain.PlaceBookingsFilter{}, err
		}
		filter.Status = &status
	}
	return filter, nil
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	switch domain.BookingStatus(s) {
	case domain.StatusPending, domain.StatusConfirmed, domain.StatusCompleted, domain.StatusCancelled:
		return domain.BookingStatus(s), nil
	default:
		return "", domain.ErrUnknownBookingStatus
	}
}

// FromDomainBooking конвертирует domain.Booking в BookingResponse
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	resp := &BookingResponse{
		ID:                 b.ID,
		UserID:             b.UserID,
		PlaceID:            b.PlaceID,
		EmployeeID:         b.EmployeeID,
		BookingDate:        b.BookingDate,
		StartTime:          b.StartTime.String(),
		DurationMinutes:    b.DurationMinutes,
		Status:             string(b.Status),
		TotalPrice:         b.TotalPrice,
		PointsEarned:       b.PointsEarned,
		PointsRedeemed:     b.PointsRedeemed,
		RedemptionValue:    b.RedemptionValue,
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CancelledAt:        b.CancelledAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
	for _, line := range b.Lines {
		resp.Lines = append(resp.Lines, ServiceLineResponse{
			ServiceID:         line.ServiceID,
			ServiceName:       line.ServiceName,
			DurationMinutes:   line.DurationMinutes,
			OriginalPrice:     line.BasePrice,
			FinalPrice:        line.FinalPrice,
			DiscountAmount:    line.DiscountAmount,
			AppliedCampaignID: line.AppliedCampaignID,
			IsFree:            line.IsFree,
		})
	}
	return resp
}

// FromDomainBookingList конвертирует список записей
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{Bookings: make([]BookingResponse, 0, len(bookings)), Total: len(bookings)}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b))
	}
	return resp
}
