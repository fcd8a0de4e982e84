package rewards

import "errors"

var (
	// ErrSettingsNotFound возвращается, когда программа лояльности
	// для заведения не настроена
	ErrSettingsNotFound = errors.New("rewards.repository: reward settings not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("rewards.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("rewards.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("rewards.repository: failed to scan row")
)
