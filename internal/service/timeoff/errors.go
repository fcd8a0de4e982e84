package timeoff

import "errors"

var (
	// ErrEntryNotFound возвращается, когда заявка на отгул не найдена
	ErrEntryNotFound = errors.New("timeoff.service: entry not found")

	// ErrAccessDenied возвращается при недостатке прав на операцию
	ErrAccessDenied = errors.New("timeoff.service: access denied")

	// ErrAlreadyReviewed возвращается при повторном рассмотрении заявки
	ErrAlreadyReviewed = errors.New("timeoff.service: entry already reviewed")

	// ErrCannotCancel возвращается, когда заявку нельзя отменить
	ErrCannotCancel = errors.New("timeoff.service: entry cannot be cancelled")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("timeoff.service: invalid input")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("timeoff.service: internal error")
)
