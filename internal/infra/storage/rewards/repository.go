package rewards

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonService/pkg/psqlbuilder"
)

// Repository репозиторий программы лояльности: настройки,
// балансы клиентов и журнал операций с баллами
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория лояльности
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetSettings получает настройки программы лояльности заведения
func (r *Repository) GetSettings(ctx context.Context, placeID int64) (*domain.RewardSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"place_id",
		"earn_rate",
		"redemption_rate",
		"created_at",
		"updated_at",
	).
		From("reward_settings").
		Where(squirrel.Eq{"place_id": placeID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetSettings - build select query: %v", ErrBuildQuery, err)
	}

	var settings domain.RewardSettings
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&settings.ID,
		&settings.PlaceID,
		&settings.EarnRate,
		&settings.RedemptionRate,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetSettings - scan settings: %v", ErrScanRow, err)
	}

	settings.CreatedAt = createdAt.Time
	settings.UpdatedAt = updatedAt.Time

	return &settings, nil
}

// UpsertSettings создает или обновляет настройки лояльности заведения
func (r *Repository) UpsertSettings(ctx context.Context, settings *domain.RewardSettings) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reward_settings").
		Columns("place_id", "earn_rate", "redemption_rate").
		Values(settings.PlaceID, settings.EarnRate, settings.RedemptionRate).
		Suffix("ON CONFLICT (place_id) DO UPDATE SET earn_rate = EXCLUDED.earn_rate, redemption_rate = EXCLUDED.redemption_rate, updated_at = NOW()").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpsertSettings - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpsertSettings - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetBalance получает баланс баллов клиента в заведении
// Внутри транзакции строка блокируется FOR UPDATE: списание должно
// считаться от баланса, прочитанного в той же транзакции, что и запись
func (r *Repository) GetBalance(ctx context.Context, placeID, userID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("balance").
		From("customer_reward_balances").
		Where(squirrel.Eq{"place_id": placeID, "user_id": userID})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: GetBalance - build select query: %v", ErrBuildQuery, err)
	}

	var balance int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&balance)
	if err == sql.ErrNoRows {
		// У клиента ещё нет операций в этом заведении
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: GetBalance - scan balance: %v", ErrScanRow, err)
	}

	return balance, nil
}

// ApplyEffect применяет дельты баллов по записи: добавляет операции
// в журнал и обновляет баланс клиента.
// Вызывается только внутри транзакции создания записи - частичное
// применение (запись без журнала или наоборот) недопустимо.
func (r *Repository) ApplyEffect(ctx context.Context, placeID, userID, bookingID int64, effect domain.RewardsEffect) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if effect.PointsRedeemed > 0 {
		if err := r.insertLedgerEntry(ctx, executor, placeID, userID, bookingID, domain.LedgerRedeem, -effect.PointsRedeemed); err != nil {
			return err
		}
	}
	if effect.PointsEarned > 0 {
		if err := r.insertLedgerEntry(ctx, executor, placeID, userID, bookingID, domain.LedgerEarn, effect.PointsEarned); err != nil {
			return err
		}
	}

	delta := effect.PointsEarned - effect.PointsRedeemed
	if delta == 0 {
		return nil
	}

	query, args, err := psqlbuilder.Insert("customer_reward_balances").
		Columns("place_id", "user_id", "balance").
		Values(placeID, userID, delta).
		Suffix("ON CONFLICT (place_id, user_id) DO UPDATE SET balance = customer_reward_balances.balance + EXCLUDED.balance, updated_at = NOW()").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ApplyEffect - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ApplyEffect - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) insertLedgerEntry(ctx context.Context, executor dbmetrics.DBExecutor, placeID, userID, bookingID int64, kind domain.LedgerEntryKind, points int) error {
	query, args, err := psqlbuilder.Insert("reward_ledger_entries").
		Columns("place_id", "user_id", "booking_id", "kind", "points").
		Values(placeID, userID, bookingID, kind, points).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: insertLedgerEntry - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insertLedgerEntry - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}
