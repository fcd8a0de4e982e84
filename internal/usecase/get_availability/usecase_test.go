package get_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/integrations/placeservice"
	"github.com/m04kA/SMC-SalonService/pkg/ptr"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

type fakeBookingRepo struct {
	bookings []*domain.Booking
}

func (f *fakeBookingRepo) GetByPlaceWithFilter(_ context.Context, _ domain.PlaceBookingsFilter) ([]*domain.Booking, error) {
	return f.bookings, nil
}

type fakeScheduleRepo struct {
	intervals map[int64][]domain.WorkingInterval
}

func (f *fakeScheduleRepo) GetDayIntervals(_ context.Context, _, employeeID int64, _ time.Weekday) ([]domain.WorkingInterval, error) {
	return f.intervals[employeeID], nil
}

type fakeBlockedTime struct {
	blocked map[int64][]domain.TimeInterval
}

func (f *fakeBlockedTime) ResolveBlockedIntervals(_ context.Context, employeeID *int64, _ int64, _, _ time.Time) ([]domain.TimeInterval, error) {
	if employeeID == nil {
		return nil, nil
	}
	return f.blocked[*employeeID], nil
}

type fakePlaceClient struct {
	place   *placeservice.Place
	service *placeservice.Service
}

func (f *fakePlaceClient) GetPlace(_ context.Context, _ int64) (*placeservice.Place, error) {
	if f.place == nil {
		return nil, placeservice.ErrPlaceNotFound
	}
	return f.place, nil
}

func (f *fakePlaceClient) GetService(_ context.Context, _, _ int64) (*placeservice.Service, error) {
	if f.service == nil {
		return nil, placeservice.ErrServiceNotFound
	}
	return f.service, nil
}

type fixedTimeProvider struct {
	now time.Time
}

func (f *fixedTimeProvider) Now() time.Time { return f.now }

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

var (
	testDate = time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC) // понедельник
	testNow  = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
)

func hm(h, m int) time.Time {
	return testDate.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func newTestUseCase(
	bookings *fakeBookingRepo,
	schedule *fakeScheduleRepo,
	blocked *fakeBlockedTime,
	place *fakePlaceClient,
) *UseCase {
	uc := NewUseCase(bookings, schedule, blocked, place, noopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: testNow}
	return uc
}

func defaultPlaceClient() *fakePlaceClient {
	return &fakePlaceClient{
		place: &placeservice.Place{ID: 1, EmployeeIDs: []int64{7}},
		service: &placeservice.Service{
			ID:              10,
			PlaceID:         1,
			DurationMinutes: 60,
			EmployeeIDs:     []int64{7},
		},
	}
}

func TestExecute_FreeDay(t *testing.T) {
	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeScheduleRepo{intervals: map[int64][]domain.WorkingInterval{
			7: {{Open: types.TimeString("10:00"), Close: types.TimeString("12:00")}},
		}},
		&fakeBlockedTime{},
		defaultPlaceClient(),
	)

	resp, err := uc.Execute(context.Background(), &Request{
		UserID: 1, PlaceID: 1, ServiceID: 10, Date: testDate,
	})
	require.NoError(t, err)

	// Окно 10:00-12:00, услуга 60 минут, сетка 15 минут
	want := []types.TimeString{"10:00", "10:15", "10:30", "10:45", "11:00"}
	require.Len(t, resp.Slots, len(want))
	for i, slot := range resp.Slots {
		assert.Equal(t, want[i], slot.StartTime)
		assert.Equal(t, int64(7), slot.EmployeeID)
		assert.Equal(t, 60, slot.DurationMinutes)
	}
}

func TestExecute_BookingBlocksSlots(t *testing.T) {
	uc := newTestUseCase(
		&fakeBookingRepo{bookings: []*domain.Booking{{
			EmployeeID:      7,
			BookingDate:     testDate,
			StartTime:       types.TimeString("10:30"),
			DurationMinutes: 60,
			Status:          domain.StatusConfirmed,
		}}},
		&fakeScheduleRepo{intervals: map[int64][]domain.WorkingInterval{
			7: {{Open: types.TimeString("10:00"), Close: types.TimeString("13:00")}},
		}},
		&fakeBlockedTime{},
		defaultPlaceClient(),
	)

	resp, err := uc.Execute(context.Background(), &Request{
		UserID: 1, PlaceID: 1, ServiceID: 10, Date: testDate,
	})
	require.NoError(t, err)

	// Запись 10:30-11:30 выбивает все пересекающиеся слоты
	want := []types.TimeString{"11:30", "11:45", "12:00"}
	got := make([]types.TimeString, 0, len(resp.Slots))
	for _, slot := range resp.Slots {
		got = append(got, slot.StartTime)
	}
	assert.Equal(t, want, got)
}

func TestExecute_CancelledBookingDoesNotBlock(t *testing.T) {
	uc := newTestUseCase(
		&fakeBookingRepo{bookings: []*domain.Booking{{
			EmployeeID:      7,
			BookingDate:     testDate,
			StartTime:       types.TimeString("10:00"),
			DurationMinutes: 120,
			Status:          domain.StatusCancelled,
		}}},
		&fakeScheduleRepo{intervals: map[int64][]domain.WorkingInterval{
			7: {{Open: types.TimeString("10:00"), Close: types.TimeString("11:00")}},
		}},
		&fakeBlockedTime{},
		defaultPlaceClient(),
	)

	resp, err := uc.Execute(context.Background(), &Request{
		UserID: 1, PlaceID: 1, ServiceID: 10, Date: testDate,
	})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, types.TimeString("10:00"), resp.Slots[0].StartTime)
}

func TestExecute_BlockedTimeRemovesSlots(t *testing.T) {
	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeScheduleRepo{intervals: map[int64][]domain.WorkingInterval{
			7: {{Open: types.TimeString("09:00"), Close: types.TimeString("18:00")}},
		}},
		&fakeBlockedTime{blocked: map[int64][]domain.TimeInterval{
			// Отгул на вторую половину дня
			7: {{Start: hm(13, 0), End: hm(18, 0)}},
		}},
		defaultPlaceClient(),
	)

	resp, err := uc.Execute(context.Background(), &Request{
		UserID: 1, PlaceID: 1, ServiceID: 10, Date: testDate,
	})
	require.NoError(t, err)

	require.NotEmpty(t, resp.Slots)
	last := resp.Slots[len(resp.Slots)-1]
	assert.Equal(t, types.TimeString("12:00"), last.StartTime)
}

func TestExecute_MultipleEmployeesSorted(t *testing.T) {
	place := defaultPlaceClient()
	place.service.EmployeeIDs = []int64{7, 3}

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeScheduleRepo{intervals: map[int64][]domain.WorkingInterval{
			3: {{Open: types.TimeString("10:00"), Close: types.TimeString("11:00")}},
			7: {{Open: types.TimeString("10:00"), Close: types.TimeString("11:00")}},
		}},
		&fakeBlockedTime{},
		place,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		UserID: 1, PlaceID: 1, ServiceID: 10, Date: testDate,
	})
	require.NoError(t, err)

	// Оба сотрудника дают слот 10:00; порядок - по времени, затем по ID
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, int64(3), resp.Slots[0].EmployeeID)
	assert.Equal(t, int64(7), resp.Slots[1].EmployeeID)
}

func TestExecute_RequestedEmployeeMustProvideService(t *testing.T) {
	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeScheduleRepo{},
		&fakeBlockedTime{},
		defaultPlaceClient(),
	)

	_, err := uc.Execute(context.Background(), &Request{
		UserID: 1, PlaceID: 1, ServiceID: 10, EmployeeID: ptr.Ptr(int64(99)), Date: testDate,
	})
	assert.ErrorIs(t, err, ErrEmployeeNotAvailable)
}

func TestExecute_PastDate(t *testing.T) {
	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeScheduleRepo{},
		&fakeBlockedTime{},
		defaultPlaceClient(),
	)

	_, err := uc.Execute(context.Background(), &Request{
		UserID: 1, PlaceID: 1, ServiceID: 10,
		Date: testNow.AddDate(0, 0, -1),
	})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_TodayPastSlotsCut(t *testing.T) {
	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeScheduleRepo{intervals: map[int64][]domain.WorkingInterval{
			7: {{Open: types.TimeString("09:00"), Close: types.TimeString("14:00")}},
		}},
		&fakeBlockedTime{},
		defaultPlaceClient(),
	)
	// Сейчас 11:20 того же дня
	uc.timeProvider = &fixedTimeProvider{
		now: time.Date(2025, 6, 16, 11, 20, 0, 0, time.UTC),
	}

	resp, err := uc.Execute(context.Background(), &Request{
		UserID: 1, PlaceID: 1, ServiceID: 10, Date: testDate,
	})
	require.NoError(t, err)

	require.NotEmpty(t, resp.Slots)
	// Слоты раньше текущего момента отрезаны
	assert.Equal(t, types.TimeString("11:30"), resp.Slots[0].StartTime)
}

func TestExecute_TodayCutoffIgnoresLocalZone(t *testing.T) {
	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeScheduleRepo{intervals: map[int64][]domain.WorkingInterval{
			7: {{Open: types.TimeString("09:00"), Close: types.TimeString("14:00")}},
		}},
		&fakeBlockedTime{},
		defaultPlaceClient(),
	)
	// Тот же момент 11:20 UTC, но часы сервера идут в поясе +03:00
	uc.timeProvider = &fixedTimeProvider{
		now: time.Date(2025, 6, 16, 14, 20, 0, 0, time.FixedZone("UTC+3", 3*60*60)),
	}

	resp, err := uc.Execute(context.Background(), &Request{
		UserID: 1, PlaceID: 1, ServiceID: 10, Date: testDate,
	})
	require.NoError(t, err)

	require.NotEmpty(t, resp.Slots)
	assert.Equal(t, types.TimeString("11:30"), resp.Slots[0].StartTime)
}

func TestExecute_PlaceNotFound(t *testing.T) {
	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeScheduleRepo{},
		&fakeBlockedTime{},
		&fakePlaceClient{},
	)

	_, err := uc.Execute(context.Background(), &Request{
		UserID: 1, PlaceID: 1, ServiceID: 10, Date: testDate,
	})
	assert.ErrorIs(t, err, ErrPlaceNotFound)
}

func TestExecute_NoEmployeesForService(t *testing.T) {
	place := defaultPlaceClient()
	place.service.EmployeeIDs = nil

	uc := newTestUseCase(&fakeBookingRepo{}, &fakeScheduleRepo{}, &fakeBlockedTime{}, place)

	resp, err := uc.Execute(context.Background(), &Request{
		UserID: 1, PlaceID: 1, ServiceID: 10, Date: testDate,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}
