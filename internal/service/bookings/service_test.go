package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SalonService/internal/integrations/placeservice"
	"github.com/m04kA/SMC-SalonService/internal/service/bookings/models"
)

type fakeBookingRepo struct {
	store map[int64]*domain.Booking
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.store[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) GetByUserID(_ context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range f.store {
		if b.UserID != userID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (f *fakeBookingRepo) GetByPlaceWithFilter(_ context.Context, filter domain.PlaceBookingsFilter) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range f.store {
		if b.PlaceID == filter.PlaceID {
			result = append(result, b)
		}
	}
	return result, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	b, ok := f.store[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = status
	return nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id int64, reason string) error {
	b, ok := f.store[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	now := time.Now()
	b.Status = domain.StatusCancelled
	b.CancellationReason = &reason
	b.CancelledAt = &now
	return nil
}

type fakePlaceClient struct {
	place *placeservice.Place
}

func (f *fakePlaceClient) GetPlace(_ context.Context, _ int64) (*placeservice.Place, error) {
	return f.place, nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

const (
	ownerID   = int64(5)  // владелец записи
	managerID = int64(50) // менеджер заведения
	otherID   = int64(99)
)

func newTestService(bookings ...*domain.Booking) (*Service, *fakeBookingRepo) {
	repo := &fakeBookingRepo{store: make(map[int64]*domain.Booking)}
	for _, b := range bookings {
		repo.store[b.ID] = b
	}
	svc := NewService(repo, &fakePlaceClient{
		place: &placeservice.Place{ID: 1, OwnerID: managerID},
	}, noopLogger{})
	return svc, repo
}

func testBooking(status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:      1,
		UserID:  ownerID,
		PlaceID: 1,
		Status:  status,
	}
}

func TestGetByID_Access(t *testing.T) {
	svc, _ := newTestService(testBooking(domain.StatusConfirmed))

	// Владелец записи
	resp, err := svc.GetByID(context.Background(), 1, ownerID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)

	// Менеджер заведения
	_, err = svc.GetByID(context.Background(), 1, managerID)
	assert.NoError(t, err)

	// Посторонний пользователь
	_, err = svc.GetByID(context.Background(), 1, otherID)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_NotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.GetByID(context.Background(), 404, ownerID)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancel(t *testing.T) {
	svc, repo := newTestService(testBooking(domain.StatusConfirmed))

	resp, err := svc.Cancel(context.Background(), 1, ownerID, "изменились планы")
	require.NoError(t, err)

	assert.Equal(t, "cancelled", resp.Status)
	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, "изменились планы", *resp.CancellationReason)
	assert.Equal(t, domain.StatusCancelled, repo.store[1].Status)
}

func TestCancel_TerminalStatus(t *testing.T) {
	tests := []struct {
		name   string
		status domain.BookingStatus
	}{
		{"завершенная запись", domain.StatusCompleted},
		{"уже отмененная запись", domain.StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(testBooking(tt.status))

			_, err := svc.Cancel(context.Background(), 1, ownerID, "")
			assert.ErrorIs(t, err, ErrCannotCancel)
		})
	}
}

func TestCancel_AccessDenied(t *testing.T) {
	svc, _ := newTestService(testBooking(domain.StatusConfirmed))

	_, err := svc.Cancel(context.Background(), 1, otherID, "")
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestComplete(t *testing.T) {
	svc, repo := newTestService(testBooking(domain.StatusConfirmed))

	resp, err := svc.Complete(context.Background(), 1, managerID)
	require.NoError(t, err)

	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, domain.StatusCompleted, repo.store[1].Status)
}

func TestComplete_OnlyManager(t *testing.T) {
	svc, _ := newTestService(testBooking(domain.StatusConfirmed))

	// Владелец записи не может завершить её сам
	_, err := svc.Complete(context.Background(), 1, ownerID)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestComplete_InvalidTransition(t *testing.T) {
	// pending нельзя завершить в обход confirmed
	svc, _ := newTestService(testBooking(domain.StatusPending))

	_, err := svc.Complete(context.Background(), 1, managerID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestGetUserBookings_StatusFilter(t *testing.T) {
	confirmed := testBooking(domain.StatusConfirmed)
	cancelled := testBooking(domain.StatusCancelled)
	cancelled.ID = 2

	svc, _ := newTestService(confirmed, cancelled)

	status := "confirmed"
	resp, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		UserID: ownerID,
		Status: &status,
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, int64(1), resp.Bookings[0].ID)
}

func TestGetUserBookings_InvalidStatus(t *testing.T) {
	svc, _ := newTestService()

	status := "unknown"
	_, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		UserID: ownerID,
		Status: &status,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetPlaceBookings_OnlyManager(t *testing.T) {
	svc, _ := newTestService(testBooking(domain.StatusConfirmed))

	_, err := svc.GetPlaceBookings(context.Background(), &models.GetPlaceBookingsRequest{
		PlaceID: 1,
		UserID:  otherID,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	resp, err := svc.GetPlaceBookings(context.Background(), &models.GetPlaceBookingsRequest{
		PlaceID: 1,
		UserID:  managerID,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
}
