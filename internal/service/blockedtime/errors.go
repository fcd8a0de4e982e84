package blockedtime

import "errors"

var (
	// ErrInvalidRange возвращается при некорректном диапазоне дат
	ErrInvalidRange = errors.New("blockedtime: invalid date range")

	// ErrInternal возвращается при внутренних ошибках резолвера
	ErrInternal = errors.New("blockedtime: internal error")
)
