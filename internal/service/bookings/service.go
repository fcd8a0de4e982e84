package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SalonService/internal/service/bookings/models"
)

// Service сервис для чтения и отмены записей
type Service struct {
	bookingRepo  BookingRepository
	placeClient  PlaceServiceClient
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	bookingRepo BookingRepository,
	placeClient PlaceServiceClient,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		placeClient:  placeClient,
		timeProvider: &realTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает запись по ID
// Пользователь видит только свою запись; менеджер заведения - любую запись
// своего заведения
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if err := s.checkUserAccess(ctx, booking, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю записей пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetPlaceBookings получает записи заведения с гибкой фильтрацией
// Доступно только менеджерам заведения
func (s *Service) GetPlaceBookings(ctx context.Context, req *models.GetPlaceBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetPlaceBookings: fetching bookings for place=%d, user=%d", req.PlaceID, req.UserID)

	if err := s.checkManagerAccess(ctx, req.PlaceID, req.UserID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetPlaceBookings: invalid filter for place=%d: %v", req.PlaceID, err)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByPlaceWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetPlaceBookings: repository error for place=%d: %v", req.PlaceID, err)
		return nil, fmt.Errorf("%w: GetPlaceBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetPlaceBookings: successfully fetched %d bookings for place=%d", len(bookings), req.PlaceID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет запись с указанием причины
// Отменить может владелец записи или менеджер заведения; отменяются
// только записи в нетерминальном статусе
func (s *Service) Cancel(ctx context.Context, id int64, userID int64, reason string) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if err := s.checkUserAccess(ctx, booking, userID); err != nil {
		s.logger.Warn("Cancel: access denied for user=%d to booking id=%d", userID, id)
		return nil, err
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d in status=%s cannot be cancelled", id, booking.Status)
		return nil, ErrCannotCancel
	}

	if err := s.bookingRepo.Cancel(ctx, id, reason); err != nil {
		s.logger.Error("Cancel: failed to cancel booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	cancelled, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Cancel: failed to reload booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d", id)
	return models.FromDomainBooking(cancelled), nil
}

// Complete переводит подтверждённую запись в completed
// Используется менеджером заведения после оказания услуги
func (s *Service) Complete(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("Complete: completing booking id=%d by user=%d", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
	}

	if err := s.checkManagerAccess(ctx, booking.PlaceID, userID); err != nil {
		return nil, err
	}

	if !booking.CanTransitionTo(domain.StatusCompleted) {
		s.logger.Warn("Complete: booking id=%d in status=%s cannot be completed", id, booking.Status)
		return nil, ErrInvalidTransition
	}

	if err := s.bookingRepo.UpdateStatus(ctx, id, domain.StatusCompleted); err != nil {
		return nil, fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
	}

	completed, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Complete: successfully completed booking id=%d", id)
	return models.FromDomainBooking(completed), nil
}

// checkUserAccess проверяет, что пользователь - владелец записи
// или менеджер заведения
func (s *Service) checkUserAccess(ctx context.Context, booking *domain.Booking, userID int64) error {
	if booking.UserID == userID {
		return nil
	}
	return s.checkManagerAccess(ctx, booking.PlaceID, userID)
}

// checkManagerAccess проверяет, что пользователь управляет заведением
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

type realTimeProvider struct{}

func (p *realTimeProvider) Now() time.Time {
	return time.Now()
}
