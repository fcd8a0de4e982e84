package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonService/pkg/psqlbuilder"
)

// Repository репозиторий рабочих часов
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория рабочих часов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetDayIntervals возвращает открытые интервалы рабочего дня сотрудника
// на указанный день недели. Персональные строки сотрудника имеют приоритет;
// при их отсутствии используется дефолт заведения (employee_id IS NULL).
// Пустой результат означает выходной.
func (r *Repository) GetDayIntervals(ctx context.Context, placeID, employeeID int64, weekday time.Weekday) ([]domain.WorkingInterval, error) {
	intervals, err := r.queryIntervals(ctx, placeID, &employeeID, weekday)
	if err != nil {
		return nil, err
	}
	if len(intervals) > 0 {
		return intervals, nil
	}

	// Откат на дефолт заведения
	return r.queryIntervals(ctx, placeID, nil, weekday)
}

// GetPlaceDayIntervals возвращает дефолтные интервалы заведения на день недели
// Используется резолвером для расчёта половины дня закрытых периодов
func (r *Repository) GetPlaceDayIntervals(ctx context.Context, placeID int64, weekday time.Weekday) ([]domain.WorkingInterval, error) {
	return r.queryIntervals(ctx, placeID, nil, weekday)
}

func (r *Repository) queryIntervals(ctx context.Context, placeID int64, employeeID *int64, weekday time.Weekday) ([]domain.WorkingInterval, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("open_time", "close_time").
		From("working_hours").
		Where(squirrel.Eq{"place_id": placeID, "weekday": int(weekday)}).
		OrderBy("open_time ASC")

	if employeeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"employee_id": *employeeID})
	} else {
		selectBuilder = selectBuilder.Where("employee_id IS NULL")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: queryIntervals - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: queryIntervals - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	intervals := make([]domain.WorkingInterval, 0)
	for rows.Next() {
		var iv domain.WorkingInterval
		if err := rows.Scan(&iv.Open, &iv.Close); err != nil {
			return nil, fmt.Errorf("%w: queryIntervals - scan interval: %v", ErrScanRow, err)
		}
		intervals = append(intervals, iv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: queryIntervals - rows error: %v", ErrScanRow, err)
	}

	return intervals, nil
}
