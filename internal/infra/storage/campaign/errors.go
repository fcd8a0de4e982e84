package campaign

import "errors"

var (
	// ErrCampaignNotFound возвращается, когда кампания не найдена
	ErrCampaignNotFound = errors.New("campaign.repository: campaign not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("campaign.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("campaign.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("campaign.repository: failed to scan row")
)
