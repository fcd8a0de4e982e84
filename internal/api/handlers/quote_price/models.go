package quote_price

import (
	quotePrice "github.com/m04kA/SMC-SalonService/internal/usecase/quote_price"
)

// QuoteRequest HTTP request model
type QuoteRequest struct {
	ServiceIDs   []int64 `json:"serviceIds"`
	RedeemPoints *int    `json:"redeemPoints,omitempty"`
}

// QuoteResponse HTTP response model
type QuoteResponse struct {
	PlaceID            int64          `json:"placeId"`
	Services           []LineResponse `json:"services"`
	FinalTotal         float64        `json:"finalTotal"`
	AppliedCampaignIDs []int64        `json:"appliedCampaignIds"`
	PointsEarned       int            `json:"pointsEarned"`
	PointsRedeemed     int            `json:"pointsRedeemed"`
	RedemptionValue    float64        `json:"redemptionValue"`
	TotalPayable       float64        `json:"totalPayable"`
}

// LineResponse расшифровка стоимости одной услуги
type LineResponse struct {
	ServiceID         int64   `json:"serviceId"`
	ServiceName       string  `json:"serviceName"`
	DurationMinutes   int     `json:"durationMinutes"`
	OriginalPrice     float64 `json:"originalPrice"`
	DiscountedPrice   float64 `json:"discountedPrice"`
	DiscountAmount    float64 `json:"discountAmount"`
	AppliedCampaignID *int64  `json:"appliedCampaignId,omitempty"`
	IsFree            bool    `json:"isFree"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *quotePrice.Response) *QuoteResponse {
	result := &QuoteResponse{
		PlaceID:            resp.PlaceID,
		Services:           make([]LineResponse, 0, len(resp.Lines)),
		FinalTotal:         resp.FinalTotal,
		AppliedCampaignIDs: resp.AppliedCampaignIDs,
		PointsEarned:       resp.PointsEarned,
		PointsRedeemed:     resp.PointsRedeemed,
		RedemptionValue:    resp.RedemptionValue,
		TotalPayable:       resp.TotalPayable,
	}
	for _, line := range resp.Lines {
		result.Services = append(result.Services, LineResponse{
			ServiceID:         line.ServiceID,
			ServiceName:       line.ServiceName,
			DurationMinutes:   line.DurationMinutes,
			OriginalPrice:     line.OriginalPrice,
			DiscountedPrice:   line.DiscountedPrice,
			DiscountAmount:    line.DiscountAmount,
			AppliedCampaignID: line.AppliedCampaignID,
			IsFree:            line.IsFree,
		})
	}
	return result
}
