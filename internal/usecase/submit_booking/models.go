package submit_booking

import (
	"time"

	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	UserID  int64
	PlaceID int64
	// EmployeeID конкретный сотрудник; nil или 0 - любой подходящий
	EmployeeID *int64
	// ServiceID устаревшее поле для записи на одну услугу;
	// игнорируется, если заполнен ServiceIDs
	ServiceID  *int64
	ServiceIDs []int64
	Date       time.Time
	StartTime  types.TimeString
	Notes      *string
	// RedeemPoints сколько баллов лояльности списать (опционально)
	RedeemPoints *int
	// RecurringWeeks количество еженедельных повторов, включая первую дату;
	// 0 или 1 - одиночная запись
	RecurringWeeks int
}

// Response модель ответа на создание записи
// При еженедельных повторах каждая дата обрабатывается независимо:
// неудача одного экземпляра не откатывает уже созданные
type Response struct {
	Instances []InstanceResult
}

// InstanceResult результат создания одного экземпляра записи
type InstanceResult struct {
	Date    time.Time
	Booking *BookingResult
	Error   string // Пусто при успехе
}

// BookingResult данные созданной записи
type BookingResult struct {
	ID              int64
	UserID          int64
	PlaceID         int64
	EmployeeID      int64
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          string
	Lines           []LineResult
	TotalPrice      float64
	PointsEarned    int
	PointsRedeemed  int
	RedemptionValue float64
	Notes           *string
	CreatedAt       time.Time
}

// LineResult снимок стоимости одной услуги в записи
type LineResult struct {
	ServiceID         int64
	ServiceName       string
	DurationMinutes   int
	BasePrice         float64
	FinalPrice        float64
	DiscountAmount    float64
	AppliedCampaignID *int64
	IsFree            bool
}

// Succeeded возвращает true, если создан хотя бы один экземпляр
func (r *Response) Succeeded() bool {
	for _, inst := range r.Instances {
		if inst.Booking != nil {
			return true
		}
	}
	return false
}
