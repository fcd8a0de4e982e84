package rewards

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	rewardsRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/rewards"
	"github.com/m04kA/SMC-SalonService/pkg/ptr"
)

type fakeRewardsRepo struct {
	settings *domain.RewardSettings
	balance  int
}

func (f *fakeRewardsRepo) GetSettings(_ context.Context, _ int64) (*domain.RewardSettings, error) {
	if f.settings == nil {
		return nil, rewardsRepo.ErrSettingsNotFound
	}
	return f.settings, nil
}

func (f *fakeRewardsRepo) GetBalance(_ context.Context, _, _ int64) (int, error) {
	return f.balance, nil
}

type fakeCampaignRepo struct {
	campaigns []*domain.Campaign
}

func (f *fakeCampaignRepo) GetActiveForPlace(_ context.Context, _ int64, _ time.Time, _ []domain.CampaignType) ([]*domain.Campaign, error) {
	return f.campaigns, nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

var calcNow = time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC)

func newCalculator(repo *fakeRewardsRepo, campaigns ...*domain.Campaign) *Calculator {
	return NewCalculator(repo, &fakeCampaignRepo{campaigns: campaigns}, noopLogger{})
}

func TestComputeEffect_NoSettings(t *testing.T) {
	calc := newCalculator(&fakeRewardsRepo{})

	effect, err := calc.ComputeEffect(context.Background(), 1, 7, []int64{10}, 1000, nil, calcNow)
	require.NoError(t, err)

	// Программа не настроена - запись без эффекта баллов
	assert.Equal(t, 0, effect.PointsEarned)
	assert.Equal(t, 0, effect.PointsRedeemed)
}

func TestComputeEffect_BaseEarn(t *testing.T) {
	calc := newCalculator(&fakeRewardsRepo{
		settings: &domain.RewardSettings{EarnRate: 0.1, RedemptionRate: 1},
	})

	effect, err := calc.ComputeEffect(context.Background(), 1, 7, []int64{10}, 1055, nil, calcNow)
	require.NoError(t, err)

	// floor(1055 * 0.1) = 105
	assert.Equal(t, 105, effect.PointsEarned)
	assert.Equal(t, 0, effect.PointsRedeemed)
}

func TestComputeEffect_RedeemCappedByBalance(t *testing.T) {
	calc := newCalculator(&fakeRewardsRepo{
		settings: &domain.RewardSettings{EarnRate: 0.1, RedemptionRate: 1},
		balance:  50,
	})

	effect, err := calc.ComputeEffect(context.Background(), 1, 7, []int64{10}, 1000, ptr.Ptr(200), calcNow)
	require.NoError(t, err)

	assert.Equal(t, 50, effect.PointsRedeemed)
	assert.Equal(t, 50.0, effect.RedemptionValue)
}

func TestComputeEffect_RedeemCappedByTotal(t *testing.T) {
	calc := newCalculator(&fakeRewardsRepo{
		settings: &domain.RewardSettings{EarnRate: 0.1, RedemptionRate: 2},
		balance:  1000,
	})

	effect, err := calc.ComputeEffect(context.Background(), 1, 7, []int64{10}, 300, ptr.Ptr(500), calcNow)
	require.NoError(t, err)

	// Стоимость записи 300, ставка 2: списать можно максимум 150 баллов
	assert.Equal(t, 150, effect.PointsRedeemed)
	assert.Equal(t, 300.0, effect.RedemptionValue)
}

func TestComputeEffect_RedemptionDisabled(t *testing.T) {
	calc := newCalculator(&fakeRewardsRepo{
		settings: &domain.RewardSettings{EarnRate: 0.1, RedemptionRate: 0},
		balance:  1000,
	})

	effect, err := calc.ComputeEffect(context.Background(), 1, 7, []int64{10}, 1000, ptr.Ptr(100), calcNow)
	require.NoError(t, err)

	assert.Equal(t, 0, effect.PointsRedeemed)
	assert.Equal(t, 0.0, effect.RedemptionValue)
}

func TestComputeEffect_NegativeRedeemRejected(t *testing.T) {
	calc := newCalculator(&fakeRewardsRepo{
		settings: &domain.RewardSettings{EarnRate: 0.1, RedemptionRate: 1},
	})

	_, err := calc.ComputeEffect(context.Background(), 1, 7, []int64{10}, 1000, ptr.Ptr(-5), calcNow)
	assert.ErrorIs(t, err, ErrInvalidRedeemRequest)
}

func TestComputeEffect_RewardsIncreaseCampaign(t *testing.T) {
	campaign := &domain.Campaign{
		ID:                1,
		Type:              domain.CampaignRewardsIncrease,
		StartsAt:          calcNow.AddDate(0, -1, 0),
		EndsAt:            calcNow.AddDate(0, 1, 0),
		RewardsMultiplier: 2,
	}

	calc := newCalculator(&fakeRewardsRepo{
		settings: &domain.RewardSettings{EarnRate: 0.1, RedemptionRate: 1},
	}, campaign)

	effect, err := calc.ComputeEffect(context.Background(), 1, 7, []int64{10}, 1000, nil, calcNow)
	require.NoError(t, err)

	// base 100 * 2 = 200
	assert.Equal(t, 200, effect.PointsEarned)
}

func TestComputeEffect_BonusPointsCampaign(t *testing.T) {
	campaign := &domain.Campaign{
		ID:                1,
		Type:              domain.CampaignRewardsIncrease,
		StartsAt:          calcNow.AddDate(0, -1, 0),
		EndsAt:            calcNow.AddDate(0, 1, 0),
		RewardsMultiplier: 1,
		BonusPoints:       30,
	}

	calc := newCalculator(&fakeRewardsRepo{
		settings: &domain.RewardSettings{EarnRate: 0.1, RedemptionRate: 1},
	}, campaign)

	effect, err := calc.ComputeEffect(context.Background(), 1, 7, []int64{10}, 1000, nil, calcNow)
	require.NoError(t, err)

	assert.Equal(t, 130, effect.PointsEarned)
}

func TestComputeEffect_CampaignScopedToOtherServices(t *testing.T) {
	campaign := &domain.Campaign{
		ID:                1,
		Type:              domain.CampaignRewardsIncrease,
		StartsAt:          calcNow.AddDate(0, -1, 0),
		EndsAt:            calcNow.AddDate(0, 1, 0),
		ServiceIDs:        []int64{99},
		RewardsMultiplier: 3,
	}

	calc := newCalculator(&fakeRewardsRepo{
		settings: &domain.RewardSettings{EarnRate: 0.1, RedemptionRate: 1},
	}, campaign)

	effect, err := calc.ComputeEffect(context.Background(), 1, 7, []int64{10}, 1000, nil, calcNow)
	require.NoError(t, err)

	// Кампания не действует ни на одну услугу записи
	assert.Equal(t, 100, effect.PointsEarned)
}

func TestComputeEffect_EarnAndRedeemTogether(t *testing.T) {
	calc := newCalculator(&fakeRewardsRepo{
		settings: &domain.RewardSettings{EarnRate: 0.05, RedemptionRate: 1},
		balance:  400,
	})

	effect, err := calc.ComputeEffect(context.Background(), 1, 7, []int64{10}, 2000, ptr.Ptr(300), calcNow)
	require.NoError(t, err)

	// Начисление считается от стоимости до списания
	assert.Equal(t, 100, effect.PointsEarned)
	assert.Equal(t, 300, effect.PointsRedeemed)
	assert.Equal(t, 300.0, effect.RedemptionValue)
}
