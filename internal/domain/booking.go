package domain

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// ErrUnknownBookingStatus возвращается при разборе неизвестного статуса записи
var ErrUnknownBookingStatus = errors.New("domain: unknown booking status")

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// AnyEmployee сентинел "любой сотрудник" в запросах доступности
// В сохранённой записи сотрудник всегда конкретный - выбор делает оркестратор
const AnyEmployee int64 = 0

// ServiceLine одна услуга в составе записи
// Цены фиксируются на момент создания записи: последующие изменения
// кампаний не должны менять уже зафиксированную стоимость
type ServiceLine struct {
	ID              int64
	BookingID       int64
	ServiceID       int64
	ServiceName     string
	DurationMinutes int
	BasePrice       float64
	FinalPrice      float64
	DiscountAmount  float64
	AppliedCampaignID *int64
	IsFree            bool
}

// Booking represents a confirmed or pending salon visit
type Booking struct {
	ID         int64
	UserID     int64
	PlaceID    int64
	EmployeeID int64
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          BookingStatus

	Lines []ServiceLine

	// Снимок стоимости и эффекта баллов на момент создания
	TotalPrice      float64
	PointsEarned    int
	PointsRedeemed  int
	RedemptionValue float64

	Notes              *string
	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still occupies its slot
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsTerminal returns true if no further transitions are allowed
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCancelled || b.Status == StatusCompleted
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanTransitionTo проверяет допустимость перехода статуса
// Разрешены только pending→confirmed→completed и переход
// из любого нетерминального состояния в cancelled
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	if b.IsTerminal() {
		return false
	}
	switch next {
	case StatusConfirmed:
		return b.Status == StatusPending
	case StatusCompleted:
		return b.Status == StatusConfirmed
	case StatusCancelled:
		return true
	default:
		return false
	}
}

// EffectiveDuration возвращает длительность записи: сумма длительностей
// услуг, если явная длительность не переопределена
func (b *Booking) EffectiveDuration() int {
	if b.DurationMinutes > 0 {
		return b.DurationMinutes
	}
	total := 0
	for _, line := range b.Lines {
		total += line.DurationMinutes
	}
	return total
}

// Interval возвращает занятый записью интервал [start, start+duration)
func (b *Booking) Interval() (TimeInterval, error) {
	startMin, err := b.StartTime.Minutes()
	if err != nil {
		return TimeInterval{}, err
	}
	day := time.Date(b.BookingDate.Year(), b.BookingDate.Month(), b.BookingDate.Day(), 0, 0, 0, 0, time.UTC)
	start := day.Add(time.Duration(startMin) * time.Minute)
	return TimeInterval{
		Start: start,
		End:   start.Add(time.Duration(b.EffectiveDuration()) * time.Minute),
	}, nil
}

// PlaceBookingsFilter фильтр для выборки записей заведения
type PlaceBookingsFilter struct {
	PlaceID         int64          // Обязательный параметр
	EmployeeID      *int64         // Фильтр по сотруднику (опционально)
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отменённые и завершённые записи
}
