package campaign

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonService/pkg/psqlbuilder"
)

// Repository репозиторий промо-кампаний
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория кампаний
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

var campaignColumns = []string{
	"id",
	"place_id",
	"owner_id",
	"name",
	"type",
	"starts_at",
	"ends_at",
	"discount_type",
	"discount_value",
	"rewards_multiplier",
	"bonus_points",
	"free_rule",
	"free_service_id",
	"buy_quantity",
	"get_quantity",
	"created_at",
	"updated_at",
}

// GetActiveForPlace получает кампании заведения, активные в момент at
// Опционально фильтрует по типам (nil - все типы).
// Окно активности полуоткрытое: starts_at <= at < ends_at.
func (r *Repository) GetActiveForPlace(ctx context.Context, placeID int64, at time.Time, types []domain.CampaignType) ([]*domain.Campaign, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(campaignColumns...).
		From("campaigns").
		Where(squirrel.Eq{"place_id": placeID}).
		Where(squirrel.LtOrEq{"starts_at": at}).
		Where(squirrel.Gt{"ends_at": at}).
		OrderBy("id ASC")

	if len(types) > 0 {
		typeStrings := make([]string, len(types))
		for i, t := range types {
			typeStrings[i] = string(t)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"type": typeStrings})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveForPlace - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveForPlace - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	campaigns, err := r.scanCampaigns(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadServiceSets(ctx, executor, campaigns); err != nil {
		return nil, err
	}

	return campaigns, nil
}

// GetByID получает кампанию по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Campaign, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(campaignColumns...).
		From("campaigns").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	campaigns, err := r.scanCampaigns(rows)
	if err != nil {
		return nil, err
	}
	if len(campaigns) == 0 {
		return nil, ErrCampaignNotFound
	}

	if err := r.loadServiceSets(ctx, executor, campaigns); err != nil {
		return nil, err
	}

	return campaigns[0], nil
}

func (r *Repository) scanCampaigns(rows *sql.Rows) ([]*domain.Campaign, error) {
	campaigns := make([]*domain.Campaign, 0)
	for rows.Next() {
		var c domain.Campaign
		var discountType, freeRule sql.NullString
		var discountValue, rewardsMultiplier sql.NullFloat64
		var bonusPoints, buyQuantity, getQuantity sql.NullInt64
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&c.ID,
			&c.PlaceID,
			&c.OwnerID,
			&c.Name,
			&c.Type,
			&c.StartsAt,
			&c.EndsAt,
			&discountType,
			&discountValue,
			&rewardsMultiplier,
			&bonusPoints,
			&freeRule,
			&c.FreeServiceID,
			&buyQuantity,
			&getQuantity,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanCampaigns - scan campaign: %v", ErrScanRow, err)
		}

		c.DiscountType = domain.DiscountType(discountType.String)
		c.DiscountValue = discountValue.Float64
		c.RewardsMultiplier = rewardsMultiplier.Float64
		c.BonusPoints = int(bonusPoints.Int64)
		c.FreeRule = domain.FreeServiceRule(freeRule.String)
		c.BuyQuantity = int(buyQuantity.Int64)
		c.GetQuantity = int(getQuantity.Int64)
		c.CreatedAt = createdAt.Time
		c.UpdatedAt = updatedAt.Time

		campaigns = append(campaigns, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanCampaigns - rows error: %v", ErrScanRow, err)
	}

	return campaigns, nil
}

// loadServiceSets подгружает наборы услуг кампаний одним запросом
// Кампания без строк в campaign_services действует на все услуги заведения
func (r *Repository) loadServiceSets(ctx context.Context, executor dbmetrics.DBExecutor, campaigns []*domain.Campaign) error {
	if len(campaigns) == 0 {
		return nil
	}

	ids := make([]int64, len(campaigns))
	byID := make(map[int64]*domain.Campaign, len(campaigns))
	for i, c := range campaigns {
		ids[i] = c.ID
		byID[c.ID] = c
	}

	query, args, err := psqlbuilder.Select("campaign_id", "service_id").
		From("campaign_services").
		Where(squirrel.Eq{"campaign_id": ids}).
		OrderBy("campaign_id ASC, service_id ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: loadServiceSets - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadServiceSets - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var campaignID, serviceID int64
		if err := rows.Scan(&campaignID, &serviceID); err != nil {
			return fmt.Errorf("%w: loadServiceSets - scan row: %v", ErrScanRow, err)
		}
		if c, ok := byID[campaignID]; ok {
			c.ServiceIDs = append(c.ServiceIDs, serviceID)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadServiceSets - rows error: %v", ErrScanRow, err)
	}

	return nil
}
