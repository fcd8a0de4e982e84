package timeoff

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

// Repository репозиторий отгулов и закрытых периодов
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория отгулов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

var entryColumns = []string{
	"id",
	"employee_id",
	"place_id",
	"type",
	"start_date",
	"end_date",
	"half_day",
	"is_recurring",
	"recurrence",
	"status",
	"requested_by",
	"reviewed_by",
	"reviewed_at",
	"created_at",
	"updated_at",
}

// CreateEntry создает заявку на отгул в статусе pending
func (r *Repository) CreateEntry(ctx context.Context, entry *domain.TimeOffEntry) (*domain.TimeOffEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var recurrence interface{}
	if len(entry.RecurrenceRaw) > 0 {
		recurrence = entry.RecurrenceRaw
	}

	query, args, err := psqlbuilder.Insert("time_off_entries").
		Columns(
			"employee_id",
			"place_id",
			"type",
			"start_date",
			"end_date",
			"half_day",
			"is_recurring",
			"recurrence",
			"status",
			"requested_by",
		).
		Values(
			entry.EmployeeID,
			entry.PlaceID,
			entry.Type,
			entry.StartDate,
			entry.EndDate,
			entry.HalfDay,
			entry.IsRecurring,
			recurrence,
			entry.Status,
			entry.RequestedBy,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateEntry - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateEntry - execute insert: %v", ErrExecQuery, err)
	}

	entry.CreatedAt = createdAt.Time
	entry.UpdatedAt = updatedAt.Time

	return entry, nil
}

// GetEntryByID получает заявку на отгул по ID
func (r *Repository) GetEntryByID(ctx context.Context, id int64) (*domain.TimeOffEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(entryColumns...).
		From("time_off_entries").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetEntryByID - build select query: %v", ErrBuildQuery, err)
	}

	entry, err := r.scanEntry(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetEntryByID - scan entry: %v", ErrScanRow, err)
	}

	return entry, nil
}

// UpdateEntryStatus переводит заявку в новый статус с фиксацией рецензента
func (r *Repository) UpdateEntryStatus(ctx context.Context, id int64, status domain.TimeOffStatus, reviewedBy *int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("time_off_entries").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if reviewedBy != nil {
		updateBuilder = updateBuilder.
			Set("reviewed_by", *reviewedBy).
			Set("reviewed_at", squirrel.Expr("NOW()"))
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateEntryStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateEntryStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateEntryStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrEntryNotFound
	}

	return nil
}

// GetEntriesByEmployee получает заявки сотрудника в рамках заведения
func (r *Repository) GetEntriesByEmployee(ctx context.Context, placeID, employeeID int64) ([]*domain.TimeOffEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(entryColumns...).
		From("time_off_entries").
		Where(squirrel.Eq{"place_id": placeID, "employee_id": employeeID}).
		OrderBy("start_date DESC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetEntriesByEmployee - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetEntriesByEmployee - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanEntries(rows)
}

// GetBlockingEntries получает одобренные отгулы сотрудника, затрагивающие
// диапазон дат [from, to]. Для повторяющихся заявок окно действия
// [start_date, end_date] должно пересекать диапазон (NULL end_date -
// повторение без ограничения).
func (r *Repository) GetBlockingEntries(ctx context.Context, employeeID int64, from, to time.Time) ([]*domain.TimeOffEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(entryColumns...).
		From("time_off_entries").
		Where(squirrel.Eq{"employee_id": employeeID, "status": domain.TimeOffApproved}).
		Where(squirrel.LtOrEq{"start_date": to}).
		Where(squirrel.Or{
			squirrel.Expr("end_date IS NULL"),
			squirrel.GtOrEq{"end_date": from},
		}).
		OrderBy("start_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockingEntries - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockingEntries - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanEntries(rows)
}

var closedPeriodColumns = []string{
	"id",
	"place_id",
	"reason",
	"start_date",
	"end_date",
	"half_day",
	"is_recurring",
	"recurrence",
	"status",
	"created_at",
	"updated_at",
}

// CreateClosedPeriod создает закрытый период заведения
func (r *Repository) CreateClosedPeriod(ctx context.Context, period *domain.ClosedPeriod) (*domain.ClosedPeriod, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var recurrence interface{}
	if len(period.RecurrenceRaw) > 0 {
		recurrence = period.RecurrenceRaw
	}

	query, args, err := psqlbuilder.Insert("closed_periods").
		Columns(
			"place_id",
			"reason",
			"start_date",
			"end_date",
			"half_day",
			"is_recurring",
			"recurrence",
			"status",
		).
		Values(
			period.PlaceID,
			period.Reason,
			period.StartDate,
			period.EndDate,
			period.HalfDay,
			period.IsRecurring,
			recurrence,
			period.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateClosedPeriod - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&period.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateClosedPeriod - execute insert: %v", ErrExecQuery, err)
	}

	period.CreatedAt = createdAt.Time
	period.UpdatedAt = updatedAt.Time

	return period, nil
}

// SetClosedPeriodStatus активирует или деактивирует закрытый период
func (r *Repository) SetClosedPeriodStatus(ctx context.Context, id int64, status domain.ClosedPeriodStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("closed_periods").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetClosedPeriodStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetClosedPeriodStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetClosedPeriodStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrClosedPeriodNotFound
	}

	return nil
}

// GetBlockingClosedPeriods получает активные закрытые периоды заведения,
// затрагивающие диапазон дат [from, to]
func (r *Repository) GetBlockingClosedPeriods(ctx context.Context, placeID int64, from, to time.Time) ([]*domain.ClosedPeriod, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(closedPeriodColumns...).
		From("closed_periods").
		Where(squirrel.Eq{"place_id": placeID, "status": domain.ClosedPeriodActive}).
		Where(squirrel.LtOrEq{"start_date": to}).
		Where(squirrel.Or{
			squirrel.Expr("end_date IS NULL"),
			squirrel.GtOrEq{"end_date": from},
		}).
		OrderBy("start_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockingClosedPeriods - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockingClosedPeriods - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	periods := make([]*domain.ClosedPeriod, 0)
	for rows.Next() {
		var period domain.ClosedPeriod
		var endDate sql.NullTime
		var recurrence []byte
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&period.ID,
			&period.PlaceID,
			&period.Reason,
			&period.StartDate,
			&endDate,
			&period.HalfDay,
			&period.IsRecurring,
			&recurrence,
			&period.Status,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetBlockingClosedPeriods - scan period: %v", ErrScanRow, err)
		}

		if endDate.Valid {
			period.EndDate = endDate.Time
		}
		period.RecurrenceRaw = recurrence
		period.CreatedAt = createdAt.Time
		period.UpdatedAt = updatedAt.Time

		periods = append(periods, &period)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetBlockingClosedPeriods - rows error: %v", ErrScanRow, err)
	}

	return periods, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanEntry(row rowScanner) (*domain.TimeOffEntry, error) {
	var entry domain.TimeOffEntry
	var endDate sql.NullTime
	var recurrence []byte
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&entry.ID,
		&entry.EmployeeID,
		&entry.PlaceID,
		&entry.Type,
		&entry.StartDate,
		&endDate,
		&entry.HalfDay,
		&entry.IsRecurring,
		&recurrence,
		&entry.Status,
		&entry.RequestedBy,
		&entry.ReviewedBy,
		&entry.ReviewedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if endDate.Valid {
		entry.EndDate = endDate.Time
	}
	entry.RecurrenceRaw = recurrence
	entry.CreatedAt = createdAt.Time
	entry.UpdatedAt = updatedAt.Time

	return &entry, nil
}

func (r *Repository) scanEntries(rows *sql.Rows) ([]*domain.TimeOffEntry, error) {
	entries := make([]*domain.TimeOffEntry, 0)
	for rows.Next() {
		entry, err := r.scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanEntries - scan entry: %v", ErrScanRow, err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanEntries - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}
