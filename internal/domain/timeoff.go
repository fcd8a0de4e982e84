package domain

import "time"

// TimeOffStatus статус заявки на отгул
type TimeOffStatus string

const (
	TimeOffPending   TimeOffStatus = "pending"
	TimeOffApproved  TimeOffStatus = "approved"
	TimeOffRejected  TimeOffStatus = "rejected"
	TimeOffCancelled TimeOffStatus = "cancelled"
)

// TimeOffType тип отгула
type TimeOffType string

const (
	TimeOffVacation TimeOffType = "vacation"
	TimeOffSick     TimeOffType = "sick"
	TimeOffPersonal TimeOffType = "personal"
)

// HalfDayPeriod половина рабочего дня
type HalfDayPeriod string

const (
	HalfDayAM HalfDayPeriod = "am"
	HalfDayPM HalfDayPeriod = "pm"
)

// TimeOffEntry заявка сотрудника на отгул
// Доступность блокируют только записи в статусе approved
type TimeOffEntry struct {
	ID         int64
	EmployeeID int64
	PlaceID    int64
	Type       TimeOffType
	StartDate  time.Time // календарная дата, без времени
	EndDate    time.Time // включительно
	HalfDay    *HalfDayPeriod
	IsRecurring bool
	// RecurrenceRaw сырое правило из БД; разбирается только резолвером,
	// некорректные правила пропускаются с предупреждением
	RecurrenceRaw []byte
	Status        TimeOffStatus

	RequestedBy int64 // пользователь, создавший заявку
	ReviewedBy  *int64
	ReviewedAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Blocks returns true if the entry blocks availability
func (e *TimeOffEntry) Blocks() bool {
	return e.Status == TimeOffApproved
}

// CanBeReviewed returns true if the entry awaits an owner decision
func (e *TimeOffEntry) CanBeReviewed() bool {
	return e.Status == TimeOffPending
}

// CanBeCancelled returns true if the requester may cancel the entry
// Отменить можно заявку в ожидании либо одобренную, но ещё не начавшуюся
func (e *TimeOffEntry) CanBeCancelled(now time.Time) bool {
	switch e.Status {
	case TimeOffPending:
		return true
	case TimeOffApproved:
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return e.StartDate.After(today)
	default:
		return false
	}
}

// ClosedPeriodStatus статус закрытого периода
type ClosedPeriodStatus string

const (
	ClosedPeriodActive   ClosedPeriodStatus = "active"
	ClosedPeriodInactive ClosedPeriodStatus = "inactive"
)

// ClosedPeriod закрытый период на уровне заведения (праздники, ремонт)
// Блокирует доступность всех сотрудников заведения; workflow согласования нет
type ClosedPeriod struct {
	ID        int64
	PlaceID   int64
	Reason    string
	StartDate time.Time
	EndDate   time.Time
	HalfDay   *HalfDayPeriod
	IsRecurring   bool
	RecurrenceRaw []byte
	Status        ClosedPeriodStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Blocks returns true if the period blocks availability
func (p *ClosedPeriod) Blocks() bool {
	return p.Status == ClosedPeriodActive
}
