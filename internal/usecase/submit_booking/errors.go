package submit_booking

import "errors"

var (
	// ErrPlaceNotFound возвращается, когда заведение не найдено
	ErrPlaceNotFound = errors.New("place not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrEmployeeNotAvailable возвращается, когда сотрудник не оказывает
	// одну из запрошенных услуг
	ErrEmployeeNotAvailable = errors.New("employee does not provide requested services")

	// ErrSlotNotAvailable возвращается, когда запрошенный слот занят
	// или не попадает в рабочие часы
	ErrSlotNotAvailable = errors.New("slot is not available")

	// ErrInvalidDate возвращается при дате записи в прошлом
	ErrInvalidDate = errors.New("invalid booking date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
