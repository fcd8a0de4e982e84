package rewards

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	rewardsRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/rewards"
)

// Calculator вычисляет эффект записи на баллы программы лояльности
//
// Калькулятор возвращает только дельты - баланс применяет хранилище
// в одной транзакции с созданием записи. Чтение баланса при списании
// происходит в той же транзакции (FOR UPDATE через контекст), поэтому
// конкурентные записи одного клиента не могут списать одни и те же баллы.
type Calculator struct {
	rewardsRepo  RewardsRepository
	campaignRepo CampaignRepository
	logger       Logger
}

// NewCalculator создает новый калькулятор баллов
func NewCalculator(rewardsRepo RewardsRepository, campaignRepo CampaignRepository, logger Logger) *Calculator {
	return &Calculator{
		rewardsRepo:  rewardsRepo,
		campaignRepo: campaignRepo,
		logger:       logger,
	}
}

// ComputeEffect вычисляет начисление и списание баллов по записи
// serviceIDs - услуги записи (для проверки применимости кампаний),
// finalTotal - итоговая стоимость после скидок.
// Списание не может превысить ни доступный баланс, ни стоимость записи.
func (c *Calculator) ComputeEffect(
	ctx context.Context,
	placeID, userID int64,
	serviceIDs []int64,
	finalTotal float64,
	requestedRedeemPoints *int,
	at time.Time,
) (*domain.RewardsEffect, error) {
	if requestedRedeemPoints != nil && *requestedRedeemPoints < 0 {
		return nil, ErrInvalidRedeemRequest
	}

	// 1. Настройки программы лояльности заведения
	settings, err := c.rewardsRepo.GetSettings(ctx, placeID)
	if err != nil {
		if errors.Is(err, rewardsRepo.ErrSettingsNotFound) {
			// Программа лояльности не настроена - запись без эффекта баллов
			c.logger.Info("Rewards: no settings for place=%d, skipping points", placeID)
			return &domain.RewardsEffect{}, nil
		}
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}

	effect := &domain.RewardsEffect{}

	// 2. Базовое начисление
	baseEarn := int(math.Floor(finalTotal * settings.EarnRate))

	// 3. Применимая rewards_increase кампания усиливает начисление
	effect.PointsEarned = c.boostedEarn(ctx, placeID, serviceIDs, baseEarn, at)

	// 4. Списание с учётом баланса и стоимости записи
	if requestedRedeemPoints != nil && *requestedRedeemPoints > 0 && settings.RedemptionEnabled() {
		balance, err := c.rewardsRepo.GetBalance(ctx, placeID, userID)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to get balance: %v", ErrInternal, err)
		}

		points := *requestedRedeemPoints
		if points > balance {
			points = balance
		}

		value := float64(points) * settings.RedemptionRate
		if value > finalTotal {
			// Списание не может сделать запись отрицательной по стоимости;
			// учитываются только фактически потраченные баллы
			points = int(math.Floor(finalTotal / settings.RedemptionRate))
			value = float64(points) * settings.RedemptionRate
		}

		effect.PointsRedeemed = points
		effect.RedemptionValue = math.Round(value*100) / 100
	}

	return effect, nil
}

// boostedEarn возвращает начисление с учётом лучшей применимой
// rewards_increase кампании; при равном эффекте побеждает меньший id
func (c *Calculator) boostedEarn(ctx context.Context, placeID int64, serviceIDs []int64, baseEarn int, at time.Time) int {
	campaigns, err := c.campaignRepo.GetActiveForPlace(ctx, placeID, at, []domain.CampaignType{domain.CampaignRewardsIncrease})
	if err != nil {
		// Недоступность кампаний не должна блокировать запись -
		// клиент получает базовое начисление
		c.logger.Warn("Rewards: failed to get campaigns for place=%d: %v", placeID, err)
		return baseEarn
	}

	best := baseEarn
	for _, campaign := range campaigns {
		if verr := campaign.Validate(); verr != nil {
			c.logger.Warn("Rewards: skipping campaign id=%d with invalid params: %v", campaign.ID, verr)
			continue
		}
		if !campaignAppliesToAny(campaign, serviceIDs, at) {
			continue
		}
		boosted := int(math.Floor(float64(baseEarn)*campaign.RewardsMultiplier)) + campaign.BonusPoints
		if boosted > best {
			best = boosted
		}
	}

	return best
}

// campaignAppliesToAny возвращает true, если кампания применима
// хотя бы к одной услуге записи
func campaignAppliesToAny(campaign *domain.Campaign, serviceIDs []int64, at time.Time) bool {
	for _, id := range serviceIDs {
		if campaign.IsApplicable(id, at) {
			return true
		}
	}
	return false
}
