package domain

import (
	"errors"
	"fmt"
	"time"
)

// CampaignType тип промо-кампании
type CampaignType string

const (
	CampaignPriceReduction  CampaignType = "price_reduction"
	CampaignFreeService     CampaignType = "free_service"
	CampaignRewardsIncrease CampaignType = "rewards_increase"
	// CampaignMessaging не влияет ни на цену, ни на доступность
	// и движком полностью игнорируется
	CampaignMessaging CampaignType = "messaging"
)

// DiscountType способ расчёта скидки для price_reduction
type DiscountType string

const (
	DiscountPercentage  DiscountType = "percentage"
	DiscountFixedAmount DiscountType = "fixed_amount"
)

// FreeServiceRule правило бесплатной услуги для free_service
type FreeServiceRule string

const (
	FreeServiceSpecific FreeServiceRule = "specific_free"
	FreeServiceBuyXGetY FreeServiceRule = "buy_x_get_y"
)

// ErrInvalidCampaignParams возвращается при внутренне противоречивых
// параметрах кампании; движок ценообразования трактует такую кампанию
// как неприменимую и логирует аномалию, не прерывая расчёт
var ErrInvalidCampaignParams = errors.New("domain: invalid campaign parameters")

// Campaign промо-кампания заведения
// Окно активности [StartsAt, EndsAt) полуоткрытое
type Campaign struct {
	ID      int64
	PlaceID int64
	OwnerID int64
	Name    string
	Type    CampaignType

	StartsAt time.Time
	EndsAt   time.Time

	// Пустой набор означает, что кампания действует на все услуги заведения
	ServiceIDs []int64

	// Параметры price_reduction
	DiscountType  DiscountType
	DiscountValue float64

	// Параметры rewards_increase
	RewardsMultiplier float64
	BonusPoints       int

	// Параметры free_service
	FreeRule      FreeServiceRule
	FreeServiceID *int64
	BuyQuantity   int
	GetQuantity   int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsApplicable проверяет применимость кампании к услуге в момент at:
// услуга входит в набор кампании (или набор пуст) и at попадает
// в полуоткрытое окно активности
func (c *Campaign) IsApplicable(serviceID int64, at time.Time) bool {
	if at.Before(c.StartsAt) || !at.Before(c.EndsAt) {
		return false
	}
	return c.AppliesToService(serviceID)
}

// AppliesToService возвращает true, если кампания действует на услугу
func (c *Campaign) AppliesToService(serviceID int64) bool {
	if len(c.ServiceIDs) == 0 {
		return true
	}
	for _, id := range c.ServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}

// IsActiveAt возвращает true, если момент at попадает в окно активности
func (c *Campaign) IsActiveAt(at time.Time) bool {
	return !at.Before(c.StartsAt) && at.Before(c.EndsAt)
}

// Validate проверяет внутреннюю согласованность параметров кампании
func (c *Campaign) Validate() error {
	if !c.StartsAt.Before(c.EndsAt) {
		return fmt.Errorf("%w: activity window is empty", ErrInvalidCampaignParams)
	}

	switch c.Type {
	case CampaignPriceReduction:
		if c.DiscountValue <= 0 {
			return fmt.Errorf("%w: discount value must be positive", ErrInvalidCampaignParams)
		}
		switch c.DiscountType {
		case DiscountPercentage:
			if c.DiscountValue > 100 {
				return fmt.Errorf("%w: percentage discount exceeds 100", ErrInvalidCampaignParams)
			}
		case DiscountFixedAmount:
			// фиксированная скидка ограничивается ценой строки при применении
		default:
			return fmt.Errorf("%w: unknown discount type %q", ErrInvalidCampaignParams, c.DiscountType)
		}

	case CampaignFreeService:
		switch c.FreeRule {
		case FreeServiceSpecific:
			if c.FreeServiceID == nil {
				return fmt.Errorf("%w: specific_free without service id", ErrInvalidCampaignParams)
			}
		case FreeServiceBuyXGetY:
			if c.BuyQuantity <= 0 || c.GetQuantity <= 0 {
				return fmt.Errorf("%w: buy_x_get_y quantities must be positive", ErrInvalidCampaignParams)
			}
		default:
			return fmt.Errorf("%w: unknown free service rule %q", ErrInvalidCampaignParams, c.FreeRule)
		}

	case CampaignRewardsIncrease:
		if c.RewardsMultiplier < 1 && c.BonusPoints <= 0 {
			return fmt.Errorf("%w: rewards campaign with no effect", ErrInvalidCampaignParams)
		}

	case CampaignMessaging:
		// параметров ценообразования нет

	default:
		return fmt.Errorf("%w: unknown campaign type %q", ErrInvalidCampaignParams, c.Type)
	}

	return nil
}
