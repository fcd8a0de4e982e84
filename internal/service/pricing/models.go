package pricing

// LineInput одна услуга в запросе на расчёт стоимости
type LineInput struct {
	ServiceID       int64
	ServiceName     string
	BasePrice       float64
	DurationMinutes int
}

// LineBreakdown расшифровка стоимости одной услуги
type LineBreakdown struct {
	ServiceID       int64
	ServiceName     string
	DurationMinutes int
	OriginalPrice   float64
	DiscountedPrice float64
	DiscountAmount  float64
	AppliedCampaignID *int64
	IsFree            bool
}

// Quote итог расчёта стоимости записи
type Quote struct {
	FinalTotal         float64
	Lines              []LineBreakdown
	AppliedCampaignIDs []int64
}
