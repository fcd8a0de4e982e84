package pricing

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// Engine движок расчёта стоимости записи с учётом промо-кампаний
//
// Правило выбора детерминировано и не требует выбора пользователя:
// применяется не более одной кампании price_reduction и не более одной
// free_service; среди кампаний одного типа выбирается дающая наибольшую
// выгоду, при равенстве - кампания с меньшим id.
//
// Расчёт чистый: при одинаковых входах и одинаковом наборе активных
// кампаний результат идентичен.
type Engine struct {
	campaignRepo CampaignRepository
	logger       Logger
}

// NewEngine создает новый движок ценообразования
func NewEngine(campaignRepo CampaignRepository, logger Logger) *Engine {
	return &Engine{
		campaignRepo: campaignRepo,
		logger:       logger,
	}
}

// PriceBooking вычисляет итоговую стоимость набора услуг в момент at
// Кампании выбираются по авторитетному времени сервера, а не по времени,
// закешированному клиентом - это исключает применение устаревших скидок
func (e *Engine) PriceBooking(ctx context.Context, placeID int64, lines []LineInput, at time.Time) (*Quote, error) {
	if len(lines) == 0 {
		return nil, ErrNoLines
	}
	for _, line := range lines {
		if line.BasePrice < 0 {
			return nil, fmt.Errorf("%w: service id=%d", ErrNegativePrice, line.ServiceID)
		}
	}

	// 1. Получаем активные ценовые кампании заведения
	campaigns, err := e.campaignRepo.GetActiveForPlace(ctx, placeID, at, domain.PricingCampaignTypes)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get campaigns: %v", ErrInternal, err)
	}

	// 2. Отбрасываем кампании с противоречивыми параметрами
	// Ошибка данных одной кампании не должна валить весь расчёт
	valid := make([]*domain.Campaign, 0, len(campaigns))
	for _, c := range campaigns {
		if verr := c.Validate(); verr != nil {
			e.logger.Warn("Pricing: skipping campaign id=%d with invalid params: %v", c.ID, verr)
			continue
		}
		valid = append(valid, c)
	}

	// Текущие цены строк; модифицируются по мере применения кампаний
	prices := make([]float64, len(lines))
	applied := make([]*int64, len(lines))
	freed := make([]bool, len(lines))
	for i, line := range lines {
		prices[i] = line.BasePrice
	}

	appliedIDs := make([]int64, 0, 2)

	// 3. Выбираем и применяем лучшую price_reduction кампанию
	if best := e.selectReduction(valid, lines, prices, at); best != nil {
		e.applyReduction(best, lines, prices, applied)
		appliedIDs = append(appliedIDs, best.ID)
	}

	// 4. Выбираем и применяем лучшую free_service кампанию
	// Выгода считается по ценам после price_reduction
	if best, freeMask := e.selectFreeService(valid, lines, prices, at); best != nil {
		for i := range lines {
			if freeMask[i] {
				prices[i] = 0
				freed[i] = true
				campaignID := best.ID
				applied[i] = &campaignID
			}
		}
		appliedIDs = append(appliedIDs, best.ID)
	}

	// 5. Собираем расшифровку
	quote := &Quote{
		Lines:              make([]LineBreakdown, len(lines)),
		AppliedCampaignIDs: appliedIDs,
	}
	for i, line := range lines {
		final := roundMoney(prices[i])
		quote.Lines[i] = LineBreakdown{
			ServiceID:         line.ServiceID,
			ServiceName:       line.ServiceName,
			DurationMinutes:   line.DurationMinutes,
			OriginalPrice:     line.BasePrice,
			DiscountedPrice:   final,
			DiscountAmount:    roundMoney(line.BasePrice - final),
			AppliedCampaignID: applied[i],
			IsFree:            freed[i],
		}
		quote.FinalTotal += final
	}
	quote.FinalTotal = roundMoney(quote.FinalTotal)

	return quote, nil
}

// selectReduction выбирает price_reduction кампанию с наибольшей суммарной
// скидкой по применимым строкам; при равенстве побеждает меньший id
// (кампании приходят из репозитория отсортированными по id)
func (e *Engine) selectReduction(campaigns []*domain.Campaign, lines []LineInput, prices []float64, at time.Time) *domain.Campaign {
	var best *domain.Campaign
	bestBenefit := 0.0

	for _, c := range campaigns {
		if c.Type != domain.CampaignPriceReduction {
			continue
		}
		benefit := 0.0
		for i, line := range lines {
			if !c.IsApplicable(line.ServiceID, at) {
				continue
			}
			benefit += reductionAmount(c, prices[i])
		}
		if benefit > bestBenefit {
			best = c
			bestBenefit = benefit
		}
	}

	return best
}

// applyReduction применяет скидку кампании ко всем применимым строкам
func (e *Engine) applyReduction(c *domain.Campaign, lines []LineInput, prices []float64, applied []*int64) {
	for i, line := range lines {
		if !c.AppliesToService(line.ServiceID) {
			continue
		}
		discount := reductionAmount(c, prices[i])
		if discount <= 0 {
			continue
		}
		prices[i] -= discount
		campaignID := c.ID
		applied[i] = &campaignID
	}
}

// reductionAmount возвращает размер скидки для строки с текущей ценой price
// Итоговая цена строки не может стать отрицательной
func reductionAmount(c *domain.Campaign, price float64) float64 {
	var discount float64
	switch c.DiscountType {
	case domain.DiscountPercentage:
		discount = price * c.DiscountValue / 100
	case domain.DiscountFixedAmount:
		discount = c.DiscountValue
	}
	if discount > price {
		discount = price
	}
	return discount
}

// selectFreeService выбирает free_service кампанию с наибольшей обнуляемой
// суммой и возвращает маску обнуляемых строк
func (e *Engine) selectFreeService(campaigns []*domain.Campaign, lines []LineInput, prices []float64, at time.Time) (*domain.Campaign, []bool) {
	var best *domain.Campaign
	var bestMask []bool
	bestBenefit := 0.0

	for _, c := range campaigns {
		if c.Type != domain.CampaignFreeService {
			continue
		}
		benefit, mask := freeServiceBenefit(c, lines, prices, at)
		if benefit > bestBenefit {
			best = c
			bestMask = mask
			bestBenefit = benefit
		}
	}

	return best, bestMask
}

// freeServiceBenefit вычисляет обнуляемую сумму и маску строк для кампании
func freeServiceBenefit(c *domain.Campaign, lines []LineInput, prices []float64, at time.Time) (float64, []bool) {
	mask := make([]bool, len(lines))

	switch c.FreeRule {
	case domain.FreeServiceSpecific:
		benefit := 0.0
		for i, line := range lines {
			if c.FreeServiceID != nil && line.ServiceID == *c.FreeServiceID && c.IsActiveAt(at) {
				mask[i] = true
				benefit += prices[i]
			}
		}
		return benefit, mask

	case domain.FreeServiceBuyXGetY:
		// Единицы, подпадающие под кампанию, сортируются по убыванию цены
		// перед разбиением на группы (B+G): самые дорогие всегда оплачиваются,
		// бесплатными становятся дешёвые G единиц каждой полной группы
		qualifying := make([]int, 0, len(lines))
		for i, line := range lines {
			if c.IsApplicable(line.ServiceID, at) {
				qualifying = append(qualifying, i)
			}
		}
		sort.SliceStable(qualifying, func(a, b int) bool {
			return prices[qualifying[a]] > prices[qualifying[b]]
		})

		groupSize := c.BuyQuantity + c.GetQuantity
		benefit := 0.0
		for g := 0; g+groupSize <= len(qualifying); g += groupSize {
			// Последние G единиц группы - самые дешёвые в ней
			for k := g + c.BuyQuantity; k < g+groupSize; k++ {
				idx := qualifying[k]
				mask[idx] = true
				benefit += prices[idx]
			}
		}
		return benefit, mask
	}

	return 0, mask
}

// roundMoney округляет сумму до сотых
func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
