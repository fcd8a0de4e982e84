package get_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	placeClient "github.com/m04kA/SMC-SalonService/internal/integrations/placeservice"
)

// UseCase use case расчета доступных слотов для записи
type UseCase struct {
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	blockedTime  BlockedTimeResolver
	placeClient  PlaceServiceClient
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	blockedTime BlockedTimeResolver,
	placeClient PlaceServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		blockedTime:  blockedTime,
		placeClient:  placeClient,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет расчет доступности
// Для каждого кандидата: рабочие часы минус отгулы, закрытые периоды
// и активные записи; остаток нарезается на слоты по сетке 15 минут
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: user=%d, place=%d, service=%d, date=%s",
		req.UserID, req.PlaceID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()
	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("GetAvailability: date validation failed: %v", err)
		return nil, err
	}

	// 3. Получаем заведение
	if _, err := uc.placeClient.GetPlace(ctx, req.PlaceID); err != nil {
		if errors.Is(err, placeClient.ErrPlaceNotFound) {
			uc.logger.Warn("GetAvailability: place id=%d not found", req.PlaceID)
			return nil, ErrPlaceNotFound
		}
		uc.logger.Error("GetAvailability: failed to get place id=%d: %v", req.PlaceID, err)
		return nil, fmt.Errorf("%w: failed to get place: %v", ErrInternal, err)
	}

	// 4. Получаем услугу
	service, err := uc.placeClient.GetService(ctx, req.PlaceID, req.ServiceID)
	if err != nil {
		if errors.Is(err, placeClient.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailability: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailability: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 5. Определяем сотрудников-кандидатов
	employees, err := candidateEmployees(service, req.EmployeeID)
	if err != nil {
		uc.logger.Warn("GetAvailability: employee=%v does not provide service id=%d", req.EmployeeID, req.ServiceID)
		return nil, err
	}
	if len(employees) == 0 {
		uc.logger.Info("GetAvailability: service id=%d has no employees", req.ServiceID)
		return uc.emptyResponse(req), nil
	}

	// 6. Получаем активные записи заведения на дату одним запросом
	filter := domain.PlaceBookingsFilter{
		PlaceID:   req.PlaceID,
		StartDate: &req.Date,
		EndDate:   &req.Date,
	}
	bookings, err := uc.bookingRepo.GetByPlaceWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 7. Считаем свободные слоты каждого сотрудника
	allSlots := make([]Slot, 0)
	for _, employeeID := range employees {
		slots, err := uc.employeeSlots(ctx, req, employeeID, service.DurationMinutes, bookings, now)
		if err != nil {
			return nil, err
		}
		allSlots = append(allSlots, slots...)
	}

	// 8. Упорядочиваем: по времени начала, затем по ID сотрудника
	sortSlots(allSlots)

	uc.logger.Info("GetAvailability: computed %d slots for place=%d, service=%d, date=%s",
		len(allSlots), req.PlaceID, req.ServiceID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:      req.Date,
		PlaceID:   req.PlaceID,
		ServiceID: req.ServiceID,
		Slots:     allSlots,
	}, nil
}

// employeeSlots считает доступные слоты одного сотрудника на дату
func (uc *UseCase) employeeSlots(
	ctx context.Context,
	req *Request,
	employeeID int64,
	durationMinutes int,
	bookings []*domain.Booking,
	now time.Time,
) ([]Slot, error) {
	// Рабочие часы сотрудника на этот день недели
	working, err := uc.scheduleRepo.GetDayIntervals(ctx, req.PlaceID, employeeID, req.Date.Weekday())
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get schedule for employee=%d: %v", employeeID, err)
		return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
	}
	if len(working) == 0 {
		return nil, nil
	}

	base, err := workingIntervalsOnDate(req.Date, working)
	if err != nil {
		uc.logger.Error("GetAvailability: malformed schedule for employee=%d: %v", employeeID, err)
		return nil, fmt.Errorf("%w: malformed schedule: %v", ErrInternal, err)
	}

	// Заблокированное время: отгулы сотрудника и закрытые периоды заведения
	rangeStart := dayStart(req.Date)
	rangeEnd := rangeStart.AddDate(0, 0, 1)
	blocked, err := uc.blockedTime.ResolveBlockedIntervals(ctx, &employeeID, req.PlaceID, rangeStart, rangeEnd)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to resolve blocked time for employee=%d: %v", employeeID, err)
		return nil, fmt.Errorf("%w: failed to resolve blocked time: %v", ErrInternal, err)
	}

	// Занятое время: активные записи сотрудника и прошедшая часть сегодняшнего дня
	occupied := append(blocked, busyIntervals(bookings, employeeID)...)
	if cutoff, ok := pastCutoff(req.Date, now); ok {
		occupied = append(occupied, cutoff)
	}

	free := domain.SubtractAll(base, occupied)
	return toSlots(employeeID, req.Date, domain.DiscretizeSlots(free, durationMinutes), durationMinutes), nil
}

func (uc *UseCase) emptyResponse(req *Request) *Response {
	return &Response{
		Date:      req.Date,
		PlaceID:   req.PlaceID,
		ServiceID: req.ServiceID,
		Slots:     []Slot{},
	}
}
