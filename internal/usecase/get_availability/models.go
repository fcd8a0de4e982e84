package get_availability

import (
	"time"

	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// Request модель запроса на расчет доступности
type Request struct {
	UserID     int64     // ID пользователя (для логирования, не влияет на результат)
	PlaceID    int64     // ID заведения
	ServiceID  int64     // ID услуги
	EmployeeID *int64    // ID сотрудника (nil - любой сотрудник, оказывающий услугу)
	Date       time.Time // Дата для расчета слотов (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date      time.Time // Дата, на которую запрашивались слоты
	PlaceID   int64     // ID заведения
	ServiceID int64     // ID услуги
	Slots     []Slot    // Слоты, упорядоченные по времени начала и ID сотрудника
}

// Slot модель доступного слота конкретного сотрудника
type Slot struct {
	EmployeeID      int64            // Сотрудник, который может принять запись
	StartTime       types.TimeString // Время начала слота (например, "10:15")
	DurationMinutes int              // Длительность слота в минутах
}
