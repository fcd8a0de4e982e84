package timeoff

import "errors"

var (
	// ErrEntryNotFound возвращается, когда заявка на отгул не найдена
	ErrEntryNotFound = errors.New("timeoff.repository: time off entry not found")

	// ErrClosedPeriodNotFound возвращается, когда закрытый период не найден
	ErrClosedPeriodNotFound = errors.New("timeoff.repository: closed period not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("timeoff.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("timeoff.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("timeoff.repository: failed to scan row")
)
