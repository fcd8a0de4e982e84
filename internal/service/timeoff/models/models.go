package models

import (
	"encoding/json"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// CreateEntryRequest запрос на создание заявки на отгул
type CreateEntryRequest struct {
	PlaceID     int64           `json:"place_id"`
	EmployeeID  int64           `json:"employee_id"`
	Type        string          `json:"type"`
	StartDate   string          `json:"start_date"` // YYYY-MM-DD
	EndDate     string          `json:"end_date"`   // YYYY-MM-DD
	HalfDay     *string         `json:"half_day,omitempty"`
	IsRecurring bool            `json:"is_recurring"`
	Recurrence  json.RawMessage `json:"recurrence,omitempty"`
}

// ReviewEntryRequest запрос на рассмотрение заявки менеджером
type ReviewEntryRequest struct {
	Approve bool `json:"approve"`
}

// CreateClosedPeriodRequest запрос на создание закрытого периода
type CreateClosedPeriodRequest struct {
	PlaceID     int64           `json:"place_id"`
	Reason      string          `json:"reason"`
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	HalfDay     *string         `json:"half_day,omitempty"`
	IsRecurring bool            `json:"is_recurring"`
	Recurrence  json.RawMessage `json:"recurrence,omitempty"`
}

// EntryResponse ответ с данными заявки на отгул
type EntryResponse struct {
	ID          int64           `json:"id"`
	PlaceID     int64           `json:"place_id"`
	EmployeeID  int64           `json:"employee_id"`
	Type        string          `json:"type"`
	StartDate   string          `json:"start_date"`
	EndDate     *string         `json:"end_date,omitempty"`
	HalfDay     *string         `json:"half_day,omitempty"`
	IsRecurring bool            `json:"is_recurring"`
	Recurrence  json.RawMessage `json:"recurrence,omitempty"`
	Status      string          `json:"status"`
	RequestedBy int64           `json:"requested_by"`
	ReviewedBy  *int64          `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time      `json:"reviewed_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// EntryListResponse список заявок на отгулы
type EntryListResponse struct {
	Entries []EntryResponse `json:"entries"`
	Total   int             `json:"total"`
}

// ClosedPeriodResponse ответ с данными закрытого периода
type ClosedPeriodResponse struct {
	ID          int64           `json:"id"`
	PlaceID     int64           `json:"place_id"`
	Reason      string          `json:"reason"`
	StartDate   string          `json:"start_date"`
	EndDate     *string         `json:"end_date,omitempty"`
	HalfDay     *string         `json:"half_day,omitempty"`
	IsRecurring bool            `json:"is_recurring"`
	Recurrence  json.RawMessage `json:"recurrence,omitempty"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// FromDomainEntry конвертирует доменную модель в ответ API
func FromDomainEntry(e *domain.TimeOffEntry) *EntryResponse {
	resp := &EntryResponse{
		ID:          e.ID,
		PlaceID:     e.PlaceID,
		EmployeeID:  e.EmployeeID,
		Type:        string(e.Type),
		StartDate:   e.StartDate.Format(domain.DateFormat),
		IsRecurring: e.IsRecurring,
		Status:      string(e.Status),
		RequestedBy: e.RequestedBy,
		ReviewedBy:  e.ReviewedBy,
		ReviewedAt:  e.ReviewedAt,
		CreatedAt:   e.CreatedAt,
	}
	if !e.EndDate.IsZero() {
		endDate := e.EndDate.Format(domain.DateFormat)
		resp.EndDate = &endDate
	}
	if e.HalfDay != nil {
		halfDay := string(*e.HalfDay)
		resp.HalfDay = &halfDay
	}
	if len(e.RecurrenceRaw) > 0 {
		resp.Recurrence = json.RawMessage(e.RecurrenceRaw)
	}
	return resp
}

// FromDomainEntryList конвертирует список заявок в ответ API
func FromDomainEntryList(entries []*domain.TimeOffEntry) *EntryListResponse {
	resp := &EntryListResponse{
		Entries: make([]EntryResponse, 0, len(entries)),
		Total:   len(entries),
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, *FromDomainEntry(e))
	}
	return resp
}

// FromDomainClosedPeriod конвертирует доменную модель в ответ API
func FromDomainClosedPeriod(p *domain.ClosedPeriod) *ClosedPeriodResponse {
	resp := &ClosedPeriodResponse{
		ID:          p.ID,
		PlaceID:     p.PlaceID,
		Reason:      p.Reason,
		StartDate:   p.StartDate.Format(domain.DateFormat),
		IsRecurring: p.IsRecurring,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
	}
	if !p.EndDate.IsZero() {
		endDate := p.EndDate.Format(domain.DateFormat)
		resp.EndDate = &endDate
	}
	if p.HalfDay != nil {
		halfDay := string(*p.HalfDay)
		resp.HalfDay = &halfDay
	}
	if len(p.RecurrenceRaw) > 0 {
		resp.Recurrence = json.RawMessage(p.RecurrenceRaw)
	}
	return resp
}
