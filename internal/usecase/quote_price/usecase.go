package quote_price

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	placeClient "github.com/m04kA/SMC-SalonService/internal/integrations/placeservice"
	"github.com/m04kA/SMC-SalonService/internal/service/pricing"
)

// UseCase use case предварительного расчета стоимости записи
type UseCase struct {
	pricing      PricingEngine
	rewards      RewardsCalculator
	placeClient  PlaceServiceClient
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	pricingEngine PricingEngine,
	rewardsCalc RewardsCalculator,
	placeServiceClient PlaceServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		pricing:      pricingEngine,
		rewards:      rewardsCalc,
		placeClient:  placeServiceClient,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет предварительный расчет стоимости
// Применяются те же кампании и правила баллов, что и при создании записи,
// но без блокировок и без фиксации результата
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("QuotePrice: user=%d, place=%d, services=%v", req.UserID, req.PlaceID, req.ServiceIDs)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("QuotePrice: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Получаем заведение
	if _, err := uc.placeClient.GetPlace(ctx, req.PlaceID); err != nil {
		if errors.Is(err, placeClient.ErrPlaceNotFound) {
			uc.logger.Warn("QuotePrice: place id=%d not found", req.PlaceID)
			return nil, ErrPlaceNotFound
		}
		uc.logger.Error("QuotePrice: failed to get place id=%d: %v", req.PlaceID, err)
		return nil, fmt.Errorf("%w: failed to get place: %v", ErrInternal, err)
	}

	// 3. Получаем услуги
	lines := make([]pricing.LineInput, 0, len(req.ServiceIDs))
	for _, serviceID := range req.ServiceIDs {
		service, err := uc.placeClient.GetService(ctx, req.PlaceID, serviceID)
		if err != nil {
			if errors.Is(err, placeClient.ErrServiceNotFound) {
				uc.logger.Warn("QuotePrice: service id=%d not found", serviceID)
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("QuotePrice: failed to get service id=%d: %v", serviceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		price := 0.0
		if service.Price != nil {
			price = *service.Price
		}
		lines = append(lines, pricing.LineInput{
			ServiceID:       service.ID,
			ServiceName:     service.Name,
			BasePrice:       price,
			DurationMinutes: service.DurationMinutes,
		})
	}

	// 4. Считаем стоимость с учетом кампаний
	quote, err := uc.pricing.PriceBooking(ctx, req.PlaceID, lines, now)
	if err != nil {
		uc.logger.Error("QuotePrice: pricing failed: %v", err)
		return nil, fmt.Errorf("%w: pricing failed: %v", ErrInternal, err)
	}

	// 5. Считаем эффект баллов лояльности
	effect, err := uc.rewards.ComputeEffect(ctx, req.PlaceID, req.UserID, req.ServiceIDs,
		quote.FinalTotal, req.RedeemPoints, now)
	if err != nil {
		uc.logger.Error("QuotePrice: rewards computation failed: %v", err)
		return nil, fmt.Errorf("%w: rewards computation failed: %v", ErrInternal, err)
	}

	resp := &Response{
		PlaceID:            req.PlaceID,
		Lines:              make([]Line, 0, len(quote.Lines)),
		FinalTotal:         quote.FinalTotal,
		AppliedCampaignIDs: quote.AppliedCampaignIDs,
		PointsEarned:       effect.PointsEarned,
		PointsRedeemed:     effect.PointsRedeemed,
		RedemptionValue:    effect.RedemptionValue,
		TotalPayable:       quote.FinalTotal - effect.RedemptionValue,
	}
	for _, line := range quote.Lines {
		resp.Lines = append(resp.Lines, Line{
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

	uc.logger.Info("QuotePrice: total=%.2f, payable=%.2f for user=%d, place=%d",
		resp.FinalTotal, resp.TotalPayable, req.UserID, req.PlaceID)
	return resp, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.PlaceID <= 0 {
		return fmt.Errorf("%w: placeID must be positive", ErrInvalidInput)
	}
	if len(req.ServiceIDs) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}
	if len(req.ServiceIDs) > domain.MaxServicesPerBooking {
		return fmt.Errorf("%w: at most %d services per booking", ErrInvalidInput, domain.MaxServicesPerBooking)
	}
	seen := make(map[int64]struct{}, len(req.ServiceIDs))
	for _, id := range req.ServiceIDs {
		if id <= 0 {
			return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: duplicate serviceID %d", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}
	if req.RedeemPoints != nil && *req.RedeemPoints < 0 {
		return fmt.Errorf("%w: redeemPoints must not be negative", ErrInvalidInput)
	}
	return nil
}
