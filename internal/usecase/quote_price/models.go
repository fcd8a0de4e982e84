package quote_price

// Request модель запроса на предварительный расчет стоимости
type Request struct {
	UserID     int64
	PlaceID    int64
	ServiceIDs []int64
	// RedeemPoints сколько баллов клиент хотел бы списать (опционально)
	RedeemPoints *int
}

// Response модель ответа с расшифровкой стоимости
// Расчет ни к чему не обязывает: цены фиксируются только при создании записи
type Response struct {
	PlaceID            int64
	Lines              []Line
	FinalTotal         float64
	AppliedCampaignIDs []int64
	PointsEarned       int
	PointsRedeemed     int
	RedemptionValue    float64
	// TotalPayable стоимость к оплате после списания баллов
	TotalPayable float64
}

// Line расшифровка стоимости одной услуги
type Line struct {
	ServiceID         int64
	ServiceName       string
	DurationMinutes   int
	OriginalPrice     float64
	DiscountedPrice   float64
	DiscountAmount    float64
	AppliedCampaignID *int64
	IsFree            bool
}
