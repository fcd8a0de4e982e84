package timeoff

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	timeoffRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/timeoff"
	"github.com/m04kA/SMC-SalonService/internal/service/timeoff/models"
)

// Service сервис управления отгулами сотрудников и закрытыми периодами
type Service struct {
	timeOffRepo  TimeOffRepository
	placeClient  PlaceServiceClient
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса отгулов
func NewService(
	timeOffRepo TimeOffRepository,
	placeClient PlaceServiceClient,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		timeOffRepo:  timeOffRepo,
		placeClient:  placeClient,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// RequestEntry создает заявку на отгул в статусе pending
// Заявку может создать сам сотрудник либо менеджер заведения
func (s *Service) RequestEntry(ctx context.Context, req *models.CreateEntryRequest, userID int64) (*models.EntryResponse, error) {
	s.logger.Info("RequestEntry: creating time off entry for employee=%d, place=%d by user=%d", req.EmployeeID, req.PlaceID, userID)

	entry, err := s.buildEntry(req, userID)
	if err != nil {
		s.logger.Warn("RequestEntry: invalid request for employee=%d: %v", req.EmployeeID, err)
		return nil, err
	}

	place, err := s.placeClient.GetPlace(ctx, req.PlaceID)
	if err != nil {
		s.logger.Error("RequestEntry: failed to get place id=%d: %v", req.PlaceID, err)
		return nil, fmt.Errorf("%w: failed to get place: %v", ErrInternal, err)
	}
	if userID != req.EmployeeID && !place.IsManager(userID) {
		s.logger.Warn("RequestEntry: user=%d is neither employee=%d nor manager of place=%d", userID, req.EmployeeID, req.PlaceID)
		return nil, ErrAccessDenied
	}
	if !place.HasEmployee(req.EmployeeID) {
		s.logger.Warn("RequestEntry: employee=%d does not work at place=%d", req.EmployeeID, req.PlaceID)
		return nil, fmt.Errorf("%w: employee does not work at this place", ErrInvalidInput)
	}

	created, err := s.timeOffRepo.CreateEntry(ctx, entry)
	if err != nil {
		s.logger.Error("RequestEntry: failed to create entry: %v", err)
		return nil, fmt.Errorf("%w: RequestEntry - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("RequestEntry: successfully created entry id=%d", created.ID)
	return models.FromDomainEntry(created), nil
}

// ReviewEntry рассматривает заявку: approve переводит в approved, иначе в rejected
// Доступно только менеджерам заведения; повторное рассмотрение запрещено
func (s *Service) ReviewEntry(ctx context.Context, id int64, req *models.ReviewEntryRequest, userID int64) (*models.EntryResponse, error) {
	s.logger.Info("ReviewEntry: reviewing entry id=%d by user=%d, approve=%t", id, userID, req.Approve)

	entry, err := s.getEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkManagerAccess(ctx, entry.PlaceID, userID); err != nil {
		s.logger.Warn("ReviewEntry: access denied for user=%d to entry id=%d", userID, id)
		return nil, err
	}

	if !entry.CanBeReviewed() {
		s.logger.Warn("ReviewEntry: entry id=%d in status=%s already reviewed", id, entry.Status)
		return nil, ErrAlreadyReviewed
	}

	status := domain.TimeOffRejected
	if req.Approve {
		status = domain.TimeOffApproved
	}
	if err := s.timeOffRepo.UpdateEntryStatus(ctx, id, status, &userID); err != nil {
		s.logger.Error("ReviewEntry: failed to update entry id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: ReviewEntry - repository error: %v", ErrInternal, err)
	}

	reviewed, err := s.getEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("ReviewEntry: entry id=%d moved to status=%s", id, status)
	return models.FromDomainEntry(reviewed), nil
}

// CancelEntry отменяет заявку на отгул
// Отменить может только автор заявки; одобренную заявку - лишь до её начала
func (s *Service) CancelEntry(ctx context.Context, id int64, userID int64) (*models.EntryResponse, error) {
	s.logger.Info("CancelEntry: cancelling entry id=%d by user=%d", id, userID)

	entry, err := s.getEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	if entry.RequestedBy != userID {
		s.logger.Warn("CancelEntry: user=%d is not the requester of entry id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	if !entry.CanBeCancelled(s.timeProvider.Now()) {
		s.logger.Warn("CancelEntry: entry id=%d in status=%s cannot be cancelled", id, entry.Status)
		return nil, ErrCannotCancel
	}

	if err := s.timeOffRepo.UpdateEntryStatus(ctx, id, domain.TimeOffCancelled, nil); err != nil {
		s.logger.Error("CancelEntry: failed to update entry id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: CancelEntry - repository error: %v", ErrInternal, err)
	}

	cancelled, err := s.getEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("CancelEntry: successfully cancelled entry id=%d", id)
	return models.FromDomainEntry(cancelled), nil
}

// ListEntriesByEmployee возвращает заявки сотрудника в заведении
// Доступно самому сотруднику и менеджерам заведения
func (s *Service) ListEntriesByEmployee(ctx context.Context, placeID, employeeID, userID int64) (*models.EntryListResponse, error) {
	s.logger.Info("ListEntriesByEmployee: listing entries for employee=%d, place=%d by user=%d", employeeID, placeID, userID)

	if userID != employeeID {
		if err := s.checkManagerAccess(ctx, placeID, userID); err != nil {
			return nil, err
		}
	}

	entries, err := s.timeOffRepo.GetEntriesByEmployee(ctx, placeID, employeeID)
	if err != nil {
		s.logger.Error("ListEntriesByEmployee: repository error for employee=%d: %v", employeeID, err)
		return nil, fmt.Errorf("%w: ListEntriesByEmployee - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListEntriesByEmployee: fetched %d entries for employee=%d", len(entries), employeeID)
	return models.FromDomainEntryList(entries), nil
}

// CreateClosedPeriod создает активный закрытый период заведения
// Доступно только менеджерам; workflow согласования для периодов нет
func (s *Service) CreateClosedPeriod(ctx context.Context, req *models.CreateClosedPeriodRequest, userID int64) (*models.ClosedPeriodResponse, error) {
	s.logger.Info("CreateClosedPeriod: creating closed period for place=%d by user=%d", req.PlaceID, userID)

	period, err := s.buildClosedPeriod(req)
	if err != nil {
		s.logger.Warn("CreateClosedPeriod: invalid request for place=%d: %v", req.PlaceID, err)
		return nil, err
	}

	if err := s.checkManagerAccess(ctx, req.PlaceID, userID); err != nil {
		s.logger.Warn("CreateClosedPeriod: access denied for user=%d to place=%d", userID, req.PlaceID)
		return nil, err
	}

	created, err := s.timeOffRepo.CreateClosedPeriod(ctx, period)
	if err != nil {
		s.logger.Error("CreateClosedPeriod: failed to create period: %v", err)
		return nil, fmt.Errorf("%w: CreateClosedPeriod - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateClosedPeriod: successfully created period id=%d", created.ID)
	return models.FromDomainClosedPeriod(created), nil
}

// DeactivateClosedPeriod переводит закрытый период в статус inactive
// Неактивный период перестает блокировать доступность
func (s *Service) DeactivateClosedPeriod(ctx context.Context, id int64, placeID, userID int64) error {
	s.logger.Info("DeactivateClosedPeriod: deactivating period id=%d by user=%d", id, userID)

	if err := s.checkManagerAccess(ctx, placeID, userID); err != nil {
		return err
	}

	if err := s.timeOffRepo.SetClosedPeriodStatus(ctx, id, domain.ClosedPeriodInactive); err != nil {
		if errors.Is(err, timeoffRepo.ErrClosedPeriodNotFound) {
			return ErrEntryNotFound
		}
		s.logger.Error("DeactivateClosedPeriod: failed to update period id=%d: %v", id, err)
		return fmt.Errorf("%w: DeactivateClosedPeriod - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeactivateClosedPeriod: successfully deactivated period id=%d", id)
	return nil
}

// buildEntry валидирует запрос и собирает доменную модель заявки
func (s *Service) buildEntry(req *models.CreateEntryRequest, userID int64) (*domain.TimeOffEntry, error) {
	entryType := domain.TimeOffType(req.Type)
	switch entryType {
	case domain.TimeOffVacation, domain.TimeOffSick, domain.TimeOffPersonal:
	default:
		return nil, fmt.Errorf("%w: unknown time off type %q", ErrInvalidInput, req.Type)
	}

	startDate, endDate, err := parseDateRange(req.StartDate, req.EndDate, req.IsRecurring)
	if err != nil {
		return nil, err
	}

	halfDay, err := parseHalfDay(req.HalfDay)
	if err != nil {
		return nil, err
	}

	if req.IsRecurring {
		if _, err := domain.ParseRecurrencePattern(req.Recurrence); err != nil {
			return nil, fmt.Errorf("%w: invalid recurrence rule: %v", ErrInvalidInput, err)
		}
	}

	return &domain.TimeOffEntry{
		EmployeeID:    req.EmployeeID,
		PlaceID:       req.PlaceID,
		Type:          entryType,
		StartDate:     startDate,
		EndDate:       endDate,
		HalfDay:       halfDay,
		IsRecurring:   req.IsRecurring,
		RecurrenceRaw: req.Recurrence,
		Status:        domain.TimeOffPending,
		RequestedBy:   userID,
	}, nil
}

// buildClosedPeriod валидирует запрос и собирает доменную модель периода
func (s *Service) buildClosedPeriod(req *models.CreateClosedPeriodRequest) (*domain.ClosedPeriod, error) {
	if req.Reason == "" {
		return nil, fmt.Errorf("%w: reason is required", ErrInvalidInput)
	}

	startDate, endDate, err := parseDateRange(req.StartDate, req.EndDate, req.IsRecurring)
	if err != nil {
		return nil, err
	}

	halfDay, err := parseHalfDay(req.HalfDay)
	if err != nil {
		return nil, err
	}

	if req.IsRecurring {
		if _, err := domain.ParseRecurrencePattern(req.Recurrence); err != nil {
			return nil, fmt.Errorf("%w: invalid recurrence rule: %v", ErrInvalidInput, err)
		}
	}

	return &domain.ClosedPeriod{
		PlaceID:       req.PlaceID,
		Reason:        req.Reason,
		StartDate:     startDate,
		EndDate:       endDate,
		HalfDay:       halfDay,
		IsRecurring:   req.IsRecurring,
		RecurrenceRaw: req.Recurrence,
		Status:        domain.ClosedPeriodActive,
	}, nil
}

// parseDateRange разбирает границы периода
// Пустая end_date допустима только для повторяющихся записей (бессрочное правило)
func parseDateRange(start, end string, recurring bool) (time.Time, time.Time, error) {
	startDate, err := time.Parse(domain.DateFormat, start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid start_date: %v", ErrInvalidInput, err)
	}
	if end == "" {
		if !recurring {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: end_date is required", ErrInvalidInput)
		}
		return startDate, time.Time{}, nil
	}
	endDate, err := time.Parse(domain.DateFormat, end)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid end_date: %v", ErrInvalidInput, err)
	}
	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end_date is before start_date", ErrInvalidInput)
	}
	return startDate, endDate, nil
}

func parseHalfDay(raw *string) (*domain.HalfDayPeriod, error) {
	if raw == nil {
		return nil, nil
	}
	halfDay := domain.HalfDayPeriod(*raw)
	if halfDay != domain.HalfDayAM && halfDay != domain.HalfDayPM {
		return nil, fmt.Errorf("%w: half_day must be am or pm", ErrInvalidInput)
	}
	return &halfDay, nil
}

func (s *Service) getEntry(ctx context.Context, id int64) (*domain.TimeOffEntry, error) {
	entry, err := s.timeOffRepo.GetEntryByID(ctx, id)
	if err != nil {
		if errors.Is(err, timeoffRepo.ErrEntryNotFound) {
			return nil, ErrEntryNotFound
		}
		s.logger.Error("getEntry: repository error for entry id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}
	return entry, nil
}

func (s *Service) checkManagerAccess(ctx context.Context, placeID, userID int64) error {
	place, err := s.placeClient.GetPlace(ctx, placeID)
	if err != nil {
		s.logger.Error("checkManagerAccess: failed to get place id=%d: %v", placeID, err)
		return fmt.Errorf("%w: failed to get place: %v", ErrInternal, err)
	}
	if !place.IsManager(userID) {
		return ErrAccessDenied
	}
	return nil
}
