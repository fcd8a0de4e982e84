package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/ptr"
)

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

var testNow = time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC)

// activeWindow окно активности, включающее testNow
func activeWindow() (time.Time, time.Time) {
	return testNow.AddDate(0, -1, 0), testNow.AddDate(0, 1, 0)
}

func reductionCampaign(id int64, dtype domain.DiscountType, value float64, serviceIDs ...int64) *domain.Campaign {
	starts, ends := activeWindow()
	return &domain.Campaign{
		ID:            id,
		Type:          domain.CampaignPriceReduction,
		StartsAt:      starts,
		EndsAt:        ends,
		ServiceIDs:    serviceIDs,
		DiscountType:  dtype,
		DiscountValue: value,
	}
}

func newEngine(campaigns ...*domain.Campaign) *Engine {
	return NewEngine(&fakeCampaignRepo{campaigns: campaigns}, noopLogger{})
}

func TestPriceBooking_NoCampaigns(t *testing.T) {
	engine := newEngine()

	quote, err := engine.PriceBooking(context.Background(), 1, []LineInput{
		{ServiceID: 10, ServiceName: "Стрижка", BasePrice: 1000, DurationMinutes: 60},
	}, testNow)
	require.NoError(t, err)

	assert.Equal(t, 1000.0, quote.FinalTotal)
	assert.Empty(t, quote.AppliedCampaignIDs)
	require.Len(t, quote.Lines, 1)
	assert.Equal(t, 0.0, quote.Lines[0].DiscountAmount)
}

func TestPriceBooking_PercentageDiscount(t *testing.T) {
	engine := newEngine(reductionCampaign(1, domain.DiscountPercentage, 20))

	quote, err := engine.PriceBooking(context.Background(), 1, []LineInput{
		{ServiceID: 10, BasePrice: 1000},
		{ServiceID: 11, BasePrice: 500},
	}, testNow)
	require.NoError(t, err)

	assert.Equal(t, 1200.0, quote.FinalTotal)
	assert.Equal(t, []int64{1}, quote.AppliedCampaignIDs)
	assert.Equal(t, 800.0, quote.Lines[0].DiscountedPrice)
	assert.Equal(t, 400.0, quote.Lines[1].DiscountedPrice)
}

func TestPriceBooking_FixedDiscountCappedAtPrice(t *testing.T) {
	// Фиксированная скидка больше цены - строка не уходит в минус
	engine := newEngine(reductionCampaign(1, domain.DiscountFixedAmount, 700))

	quote, err := engine.PriceBooking(context.Background(), 1, []LineInput{
		{ServiceID: 10, BasePrice: 500},
	}, testNow)
	require.NoError(t, err)

	assert.Equal(t, 0.0, quote.FinalTotal)
	assert.Equal(t, 500.0, quote.Lines[0].DiscountAmount)
}

func TestPriceBooking_BestReductionWins(t *testing.T) {
	engine := newEngine(
		reductionCampaign(1, domain.DiscountPercentage, 10),
		reductionCampaign(2, domain.DiscountPercentage, 30),
	)

	quote, err := engine.PriceBooking(context.Background(), 1, []LineInput{
		{ServiceID: 10, BasePrice: 1000},
	}, testNow)
	require.NoError(t, err)

	// Применяется ровно одна price_reduction кампания - с наибольшей выгодой
	assert.Equal(t, []int64{2}, quote.AppliedCampaignIDs)
	assert.Equal(t, 700.0, quote.FinalTotal)
}

func TestPriceBooking_TieBreakByLowerID(t *testing.T) {
	// Кампании приходят из репозитория отсортированными по id
	engine := newEngine(
		reductionCampaign(3, domain.DiscountPercentage, 20),
		reductionCampaign(7, domain.DiscountPercentage, 20),
	)

	quote, err := engine.PriceBooking(context.Background(), 1, []LineInput{
		{ServiceID: 10, BasePrice: 1000},
	}, testNow)
	require.NoError(t, err)

	assert.Equal(t, []int64{3}, quote.AppliedCampaignIDs)
}

func TestPriceBooking_CampaignScopedToServices(t *testing.T) {
	engine := newEngine(reductionCampaign(1, domain.DiscountPercentage, 50, 10))

	quote, err := engine.PriceBooking(context.Background(), 1, []LineInput{
		{ServiceID: 10, BasePrice: 1000},
		{ServiceID: 11, BasePrice: 1000},
	}, testNow)
	require.NoError(t, err)

	assert.Equal(t, 500.0, quote.Lines[0].DiscountedPrice)
	assert.Equal(t, 1000.0, quote.Lines[1].DiscountedPrice)
	require.NotNil(t, quote.Lines[0].AppliedCampaignID)
	assert.Nil(t, quote.Lines[1].AppliedCampaignID)
}

func TestPriceBooking_SpecificFreeService(t *testing.T) {
	starts, ends := activeWindow()
	engine := newEngine(&domain.Campaign{
		ID:            5,
		Type:          domain.CampaignFreeService,
		StartsAt:      starts,
		EndsAt:        ends,
		FreeRule:      domain.FreeServiceSpecific,
		FreeServiceID: ptr.Ptr(int64(11)),
	})

	quote, err := engine.PriceBooking(context.Background(), 1, []LineInput{
		{ServiceID: 10, BasePrice: 1000},
		{ServiceID: 11, BasePrice: 300},
	}, testNow)
	require.NoError(t, err)

	assert.Equal(t, 1000.0, quote.FinalTotal)
	assert.True(t, quote.Lines[1].IsFree)
	assert.Equal(t, 0.0, quote.Lines[1].DiscountedPrice)
}

func TestPriceBooking_BuyXGetY(t *testing.T) {
	starts, ends := activeWindow()
	engine := newEngine(&domain.Campaign{
		ID:          5,
		Type:        domain.CampaignFreeService,
		StartsAt:    starts,
		EndsAt:      ends,
		FreeRule:    domain.FreeServiceBuyXGetY,
		BuyQuantity: 2,
		GetQuantity: 1,
	})

	// Три услуги: самая дешёвая становится бесплатной
	quote, err := engine.PriceBooking(context.Background(), 1, []LineInput{
		{ServiceID: 10, BasePrice: 1000},
		{ServiceID: 11, BasePrice: 800},
		{ServiceID: 12, BasePrice: 300},
	}, testNow)
	require.NoError(t, err)

	assert.Equal(t, 1800.0, quote.FinalTotal)
	assert.True(t, quote.Lines[2].IsFree)
	assert.False(t, quote.Lines[0].IsFree)
	assert.False(t, quote.Lines[1].IsFree)
}

func TestPriceBooking_BuyXGetY_IncompleteGroup(t *testing.T) {
	starts, ends := activeWindow()
	engine := newEngine(&domain.Campaign{
		ID:          5,
		Type:        domain.CampaignFreeService,
		StartsAt:    starts,
		EndsAt:      ends,
		FreeRule:    domain.FreeServiceBuyXGetY,
		BuyQuantity: 2,
		GetQuantity: 1,
	})

	// Двух услуг недостаточно для полной группы 2+1
	quote, err := engine.PriceBooking(context.Background(), 1, []LineInput{
		{ServiceID: 10, BasePrice: 1000},
		{ServiceID: 11, BasePrice: 800},
	}, testNow)
	require.NoError(t, err)

	assert.Equal(t, 1800.0, quote.FinalTotal)
	assert.Empty(t, quote.AppliedCampaignIDs)
}

func TestPriceBooking_ReductionAndFreeServiceStack(t *testing.T) {
	starts, ends := activeWindow()
	engine := newEngine(
		reductionCampaign(1, domain.DiscountPercentage, 10),
		&domain.Campaign{
			ID:            2,
			Type:          domain.CampaignFreeService,
			StartsAt:      starts,
			EndsAt:        ends,
			FreeRule:      domain.FreeServiceSpecific,
			FreeServiceID: ptr.Ptr(int64(11)),
		},
	)

	quote, err := engine.PriceBooking(context.Background(), 1, []LineInput{
		{ServiceID: 10, BasePrice: 1000},
		{ServiceID: 11, BasePrice: 500},
	}, testNow)
	require.NoError(t, err)

	// Скидка на первую строку, вторая бесплатна
	assert.Equal(t, 900.0, quote.FinalTotal)
	assert.Equal(t, []int64{1, 2}, quote.AppliedCampaignIDs)
}

func TestPriceBooking_InvalidCampaignSkipped(t *testing.T) {
	starts, ends := activeWindow()
	engine := newEngine(
		// percentage > 100 - противоречивые параметры
		reductionCampaign(1, domain.DiscountPercentage, 150),
		&domain.Campaign{
			ID:            2,
			Type:          domain.CampaignPriceReduction,
			StartsAt:      starts,
			EndsAt:        ends,
			DiscountType:  domain.DiscountPercentage,
			DiscountValue: 10,
		},
	)

	quote, err := engine.PriceBooking(context.Background(), 1, []LineInput{
		{ServiceID: 10, BasePrice: 1000},
	}, testNow)
	require.NoError(t, err)

	assert.Equal(t, []int64{2}, quote.AppliedCampaignIDs)
	assert.Equal(t, 900.0, quote.FinalTotal)
}

func TestPriceBooking_ExpiredCampaignNotApplied(t *testing.T) {
	expired := reductionCampaign(1, domain.DiscountPercentage, 50)
	expired.StartsAt = testNow.AddDate(0, -2, 0)
	expired.EndsAt = testNow.AddDate(0, -1, 0)

	engine := newEngine(expired)

	quote, err := engine.PriceBooking(context.Background(), 1, []LineInput{
		{ServiceID: 10, BasePrice: 1000},
	}, testNow)
	require.NoError(t, err)

	assert.Equal(t, 1000.0, quote.FinalTotal)
	assert.Empty(t, quote.AppliedCampaignIDs)
}

func TestPriceBooking_Deterministic(t *testing.T) {
	engine := newEngine(
		reductionCampaign(1, domain.DiscountPercentage, 15),
		reductionCampaign(2, domain.DiscountFixedAmount, 100),
	)

	lines := []LineInput{
		{ServiceID: 10, BasePrice: 1000},
		{ServiceID: 11, BasePrice: 700},
	}

	first, err := engine.PriceBooking(context.Background(), 1, lines, testNow)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := engine.PriceBooking(context.Background(), 1, lines, testNow)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestPriceBooking_Validation(t *testing.T) {
	engine := newEngine()

	_, err := engine.PriceBooking(context.Background(), 1, nil, testNow)
	assert.ErrorIs(t, err, ErrNoLines)

	_, err = engine.PriceBooking(context.Background(), 1, []LineInput{
		{ServiceID: 10, BasePrice: -5},
	}, testNow)
	assert.ErrorIs(t, err, ErrNegativePrice)
}
