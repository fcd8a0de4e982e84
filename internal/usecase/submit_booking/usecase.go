package submit_booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/integrations/notifyservice"
	placeClient "github.com/m04kA/SMC-SalonService/internal/integrations/placeservice"
	"github.com/m04kA/SMC-SalonService/internal/service/pricing"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// UseCase use case создания записи
// Оркестрирует проверку доступности, расчет стоимости и эффект баллов
// в одной сериализуемой транзакции на каждый экземпляр записи
type UseCase struct {
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	blockedTime  BlockedTimeResolver
	pricing      PricingEngine
	rewards      RewardsCalculator
	rewardsRepo  RewardsRepository
	placeClient  PlaceServiceClient
	notifyClient NotifyServiceClient
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	blockedTime BlockedTimeResolver,
	pricingEngine PricingEngine,
	rewardsCalc RewardsCalculator,
	rewardsRepo RewardsRepository,
	placeServiceClient PlaceServiceClient,
	notifyServiceClient NotifyServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		blockedTime:  blockedTime,
		pricing:      pricingEngine,
		rewards:      rewardsCalc,
		rewardsRepo:  rewardsRepo,
		placeClient:  placeServiceClient,
		notifyClient: notifyServiceClient,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// bookingPlan неизменяемые данные записи, общие для всех экземпляров
type bookingPlan struct {
	userID       int64
	placeID      int64
	requested    *int64
	candidates   []int64
	serviceIDs   []int64
	lines        []pricing.LineInput
	duration     int
	startMinutes int
	notes        *string
	redeemPoints *int
}

// Execute выполняет use case создания записи
// При еженедельных повторах каждая дата обрабатывается в собственной
// транзакции: неудача одной даты не откатывает уже созданные записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SubmitBooking: user=%d, place=%d, services=%v, date=%s, time=%s",
		req.UserID, req.PlaceID, req.ServiceIDs, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("SubmitBooking: validation failed: %v", err)
		return nil, err
	}

	serviceIDs, err := normalizeServiceIDs(req)
	if err != nil {
		uc.logger.Warn("SubmitBooking: service list invalid: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем заведение
	if _, err := uc.placeClient.GetPlace(ctx, req.PlaceID); err != nil {
		if errors.Is(err, placeClient.ErrPlaceNotFound) {
			uc.logger.Warn("SubmitBooking: place id=%d not found", req.PlaceID)
			return nil, ErrPlaceNotFound
		}
		uc.logger.Error("SubmitBooking: failed to get place id=%d: %v", req.PlaceID, err)
		return nil, fmt.Errorf("%w: failed to get place: %v", ErrInternal, err)
	}

	// 4. Получаем услуги и собираем план записи
	plan, err := uc.buildPlan(ctx, req, serviceIDs)
	if err != nil {
		return nil, err
	}

	// 5. Обрабатываем каждую дату в собственной транзакции
	dates := instanceDates(req.Date, req.RecurringWeeks)
	resp := &Response{Instances: make([]InstanceResult, 0, len(dates))}

	for _, date := range dates {
		result, err := uc.bookInstance(ctx, plan, date, now)
		if err != nil {
			// Одиночная запись: ошибка возвращается напрямую
			if len(dates) == 1 {
				return nil, err
			}
			uc.logger.Warn("SubmitBooking: instance on %s failed: %v", date.Format(domain.DateFormat), err)
			resp.Instances = append(resp.Instances, InstanceResult{Date: date, Error: err.Error()})
			continue
		}

		resp.Instances = append(resp.Instances, InstanceResult{Date: date, Booking: result})

		// Событие публикуется после коммита; неудача не откатывает запись
		uc.publishConfirmed(ctx, result)
	}

	uc.logger.Info("SubmitBooking: created %d of %d instances for user=%d",
		countCreated(resp.Instances), len(dates), req.UserID)

	return resp, nil
}

// buildPlan загружает услуги и фиксирует данные, общие для всех экземпляров
func (uc *UseCase) buildPlan(ctx context.Context, req *Request, serviceIDs []int64) (*bookingPlan, error) {
	requested := requestedEmployee(req)

	lines := make([]pricing.LineInput, 0, len(serviceIDs))
	duration := 0
	var candidates []int64

	for i, serviceID := range serviceIDs {
		service, err := uc.placeClient.GetService(ctx, req.PlaceID, serviceID)
		if err != nil {
			if errors.Is(err, placeClient.ErrServiceNotFound) {
				uc.logger.Warn("SubmitBooking: service id=%d not found", serviceID)
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("SubmitBooking: failed to get service id=%d: %v", serviceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}

		if requested != nil && !service.HasEmployee(*requested) {
			uc.logger.Warn("SubmitBooking: employee=%d does not provide service id=%d", *requested, serviceID)
			return nil, ErrEmployeeNotAvailable
		}

		lines = append(lines, pricing.LineInput{
			ServiceID:       service.ID,
			ServiceName:     service.Name,
			BasePrice:       servicePrice(service),
			DurationMinutes: service.DurationMinutes,
		})
		duration += service.DurationMinutes

		// Кандидаты - сотрудники, оказывающие все запрошенные услуги
		if i == 0 {
			candidates = append([]int64(nil), service.EmployeeIDs...)
		} else {
			candidates = intersect(candidates, service.EmployeeIDs)
		}
	}

	if duration <= 0 {
		return nil, fmt.Errorf("%w: total duration must be positive", ErrInvalidInput)
	}

	if requested != nil {
		candidates = []int64{*requested}
	}
	if len(candidates) == 0 {
		uc.logger.Warn("SubmitBooking: no employee provides all requested services")
		return nil, ErrEmployeeNotAvailable
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })

	startMinutes, err := req.StartTime.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start time: %v", ErrInvalidInput, err)
	}

	return &bookingPlan{
		userID:       req.UserID,
		placeID:      req.PlaceID,
		requested:    requested,
		candidates:   candidates,
		serviceIDs:   serviceIDs,
		lines:        lines,
		duration:     duration,
		startMinutes: startMinutes,
		notes:        req.Notes,
		redeemPoints: req.RedeemPoints,
	}, nil
}

// bookInstance создает один экземпляр записи в сериализуемой транзакции
func (uc *UseCase) bookInstance(ctx context.Context, plan *bookingPlan, date time.Time, now time.Time) (*BookingResult, error) {
	// 1. Момент начала не должен быть в прошлом
	if isDateTimeInPast(date, plan.startMinutes, now) {
		return nil, ErrInvalidDate
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	slot := domain.TimeInterval{
		Start: day.Add(time.Duration(plan.startMinutes) * time.Minute),
		End:   day.Add(time.Duration(plan.startMinutes+plan.duration) * time.Minute),
	}

	var result *BookingResult

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2. Активные записи на дату с блокировкой строк (FOR UPDATE)
		filter := domain.PlaceBookingsFilter{
			PlaceID:   plan.placeID,
			StartDate: &date,
			EndDate:   &date,
		}
		bookings, err := uc.bookingRepo.GetByPlaceWithFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("SubmitBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		// 3. Выбираем сотрудника, свободного в запрошенном интервале
		employeeID, err := uc.pickEmployee(txCtx, plan, date, slot, bookings)
		if err != nil {
			return err
		}

		// 4. Считаем стоимость с учетом действующих кампаний
		quote, err := uc.pricing.PriceBooking(txCtx, plan.placeID, plan.lines, now)
		if err != nil {
			uc.logger.Error("SubmitBooking: pricing failed: %v", err)
			return fmt.Errorf("%w: pricing failed: %v", ErrInternal, err)
		}

		// 5. Считаем эффект баллов лояльности (баланс читается с блокировкой)
		effect, err := uc.rewards.ComputeEffect(txCtx, plan.placeID, plan.userID, plan.serviceIDs,
			quote.FinalTotal, plan.redeemPoints, now)
		if err != nil {
			uc.logger.Error("SubmitBooking: rewards computation failed: %v", err)
			return fmt.Errorf("%w: rewards computation failed: %v", ErrInternal, err)
		}

		// 6. Создаем запись со снимком стоимости
		booking := buildBooking(plan, date, employeeID, quote, effect)
		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("SubmitBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 7. Проводим баллы в журнале лояльности
		if err := uc.rewardsRepo.ApplyEffect(txCtx, plan.placeID, plan.userID, created.ID, *effect); err != nil {
			uc.logger.Error("SubmitBooking: failed to apply rewards effect: %v", err)
			return fmt.Errorf("%w: failed to apply rewards effect: %v", ErrInternal, err)
		}

		result = toBookingResult(created)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("SubmitBooking: created booking id=%d, employee=%d, date=%s",
		result.ID, result.EmployeeID, date.Format(domain.DateFormat))
	return result, nil
}

// pickEmployee выбирает сотрудника, свободного в запрошенном интервале
// При записи "к любому сотруднику" предпочитается наименее загруженный
// в этот день; при равной загрузке - с меньшим ID
func (uc *UseCase) pickEmployee(
	ctx context.Context,
	plan *bookingPlan,
	date time.Time,
	slot domain.TimeInterval,
	bookings []*domain.Booking,
) (int64, error) {
	type eligible struct {
		id   int64
		load int
	}
	var options []eligible

	for _, employeeID := range plan.candidates {
		free, err := uc.employeeFree(ctx, plan.placeID, employeeID, date, bookings)
		if err != nil {
			return 0, err
		}
		if !intervalFits(slot, free) {
			continue
		}
		options = append(options, eligible{id: employeeID, load: dayLoad(bookings, employeeID)})
	}

	if len(options) == 0 {
		uc.logger.Warn("SubmitBooking: slot %s not available for place=%d on %s",
			slot.Start.Format(domain.TimeFormat), plan.placeID, date.Format(domain.DateFormat))
		return 0, ErrSlotNotAvailable
	}

	best := options[0]
	for _, opt := range options[1:] {
		if opt.load < best.load || (opt.load == best.load && opt.id < best.id) {
			best = opt
		}
	}
	return best.id, nil
}

// employeeFree возвращает свободные интервалы сотрудника на дату:
// рабочие часы минус отгулы, закрытые периоды и активные записи
func (uc *UseCase) employeeFree(
	ctx context.Context,
	placeID, employeeID int64,
	date time.Time,
	bookings []*domain.Booking,
) ([]domain.TimeInterval, error) {
	working, err := uc.scheduleRepo.GetDayIntervals(ctx, placeID, employeeID, date.Weekday())
	if err != nil {
		uc.logger.Error("SubmitBooking: failed to get schedule for employee=%d: %v", employeeID, err)
		return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
	}
	if len(working) == 0 {
		return nil, nil
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	base := make([]domain.TimeInterval, 0, len(working))
	for _, iv := range working {
		openMin, err := iv.Open.Minutes()
		if err != nil {
			return nil, fmt.Errorf("%w: malformed schedule: %v", ErrInternal, err)
		}
		closeMin, err := iv.Close.Minutes()
		if err != nil {
			return nil, fmt.Errorf("%w: malformed schedule: %v", ErrInternal, err)
		}
		base = append(base, domain.TimeInterval{
			Start: day.Add(time.Duration(openMin) * time.Minute),
			End:   day.Add(time.Duration(closeMin) * time.Minute),
		})
	}

	blocked, err := uc.blockedTime.ResolveBlockedIntervals(ctx, &employeeID, placeID, day, day.AddDate(0, 0, 1))
	if err != nil {
		uc.logger.Error("SubmitBooking: failed to resolve blocked time for employee=%d: %v", employeeID, err)
		return nil, fmt.Errorf("%w: failed to resolve blocked time: %v", ErrInternal, err)
	}

	occupied := blocked
	for _, b := range bookings {
		if b.EmployeeID != employeeID || !b.IsActive() {
			continue
		}
		iv, err := b.Interval()
		if err != nil {
			continue
		}
		occupied = append(occupied, iv)
	}

	return domain.SubtractAll(base, occupied), nil
}

// publishConfirmed отправляет событие подтверждения записи
// Ошибка публикации логируется и не влияет на результат
func (uc *UseCase) publishConfirmed(ctx context.Context, booking *BookingResult) {
	event := notifyservice.BookingConfirmedEvent{
		BookingID:    booking.ID,
		PlaceID:      booking.PlaceID,
		CustomerID:   booking.UserID,
		EmployeeID:   booking.EmployeeID,
		BookingDate:  booking.BookingDate.Format(domain.DateFormat),
		StartTime:    booking.StartTime.String(),
		FinalTotal:   booking.TotalPrice,
		PointsEarned: booking.PointsEarned,
	}
	if err := uc.notifyClient.PublishBookingConfirmed(ctx, event); err != nil {
		uc.logger.Error("SubmitBooking: failed to publish confirmation for booking id=%d: %v", booking.ID, err)
	}
}

// buildBooking собирает доменную модель записи со снимком стоимости
func buildBooking(plan *bookingPlan, date time.Time, employeeID int64, quote *pricing.Quote, effect *domain.RewardsEffect) *domain.Booking {
	startTime, _ := types.NewTimeStringFromMinutes(plan.startMinutes)

	lines := make([]domain.ServiceLine, 0, len(quote.Lines))
	for _, line := range quote.Lines {
		lines = append(lines, domain.ServiceLine{
			ServiceID:         line.ServiceID,
			ServiceName:       line.ServiceName,
			DurationMinutes:   line.DurationMinutes,
			BasePrice:         line.OriginalPrice,
			FinalPrice:        line.DiscountedPrice,
			DiscountAmount:    line.DiscountAmount,
			AppliedCampaignID: line.AppliedCampaignID,
			IsFree:            line.IsFree,
		})
	}

	return &domain.Booking{
		UserID:          plan.userID,
		PlaceID:         plan.placeID,
		EmployeeID:      employeeID,
		BookingDate:     date,
		StartTime:       startTime,
		DurationMinutes: plan.duration,
		Status:          domain.StatusConfirmed,
		Lines:           lines,
		TotalPrice:      quote.FinalTotal,
		PointsEarned:    effect.PointsEarned,
		PointsRedeemed:  effect.PointsRedeemed,
		RedemptionValue: effect.RedemptionValue,
		Notes:           plan.notes,
	}
}

// toBookingResult конвертирует доменную модель в ответ usecase
func toBookingResult(b *domain.Booking) *BookingResult {
	lines := make([]LineResult, 0, len(b.Lines))
	for _, line := range b.Lines {
		lines = append(lines, LineResult{
			ServiceID:         line.ServiceID,
			ServiceName:       line.ServiceName,
			DurationMinutes:   line.DurationMinutes,
			BasePrice:         line.BasePrice,
			FinalPrice:        line.FinalPrice,
			DiscountAmount:    line.DiscountAmount,
			AppliedCampaignID: line.AppliedCampaignID,
			IsFree:            line.IsFree,
		})
	}

	return &BookingResult{
		ID:              b.ID,
		UserID:          b.UserID,
		PlaceID:         b.PlaceID,
		EmployeeID:      b.EmployeeID,
		BookingDate:     b.BookingDate,
		StartTime:       b.StartTime,
		DurationMinutes: b.DurationMinutes,
		Status:          string(b.Status),
		Lines:           lines,
		TotalPrice:      b.TotalPrice,
		PointsEarned:    b.PointsEarned,
		PointsRedeemed:  b.PointsRedeemed,
		RedemptionValue: b.RedemptionValue,
		Notes:           b.Notes,
		CreatedAt:       b.CreatedAt,
	}
}

// intervalFits проверяет, что слот целиком лежит в одном свободном интервале
func intervalFits(slot domain.TimeInterval, free []domain.TimeInterval) bool {
	for _, iv := range free {
		if !slot.Start.Before(iv.Start) && !slot.End.After(iv.End) {
			return true
		}
	}
	return false
}

// dayLoad возвращает количество активных записей сотрудника на дату
func dayLoad(bookings []*domain.Booking, employeeID int64) int {
	count := 0
	for _, b := range bookings {
		if b.EmployeeID == employeeID && b.IsActive() {
			count++
		}
	}
	return count
}

// intersect возвращает элементы a, присутствующие также в b
func intersect(a, b []int64) []int64 {
	set := make(map[int64]struct{}, len(b))
	for _, id := range b {
		set[id] = struct{}{}
	}
	result := make([]int64, 0, len(a))
	for _, id := range a {
		if _, ok := set[id]; ok {
			result = append(result, id)
		}
	}
	return result
}

// servicePrice извлекает цену услуги; отсутствующая цена трактуется как 0
func servicePrice(service *placeClient.Service) float64 {
	if service.Price == nil {
		return 0.0
	}
	return *service.Price
}

// countCreated возвращает количество успешно созданных экземпляров
func countCreated(instances []InstanceResult) int {
	count := 0
	for _, inst := range instances {
		if inst.Booking != nil {
			count++
		}
	}
	return count
}
