package submit_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/integrations/notifyservice"
	"github.com/m04kA/SMC-SalonService/internal/integrations/placeservice"
	"github.com/m04kA/SMC-SalonService/internal/service/pricing"
	"github.com/m04kA/SMC-SalonService/pkg/ptr"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

type fakeBookingRepo struct {
	bookings []*domain.Booking
	nextID   int64
	created  []*domain.Booking
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	f.nextID++
	b := *booking
	b.ID = f.nextID
	f.created = append(f.created, &b)
	// Созданная запись занимает слот для последующих экземпляров
	f.bookings = append(f.bookings, &b)
	return &b, nil
}

func (f *fakeBookingRepo) GetByPlaceWithFilter(_ context.Context, filter domain.PlaceBookingsFilter) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if filter.StartDate != nil && !sameDay(b.BookingDate, *filter.StartDate) {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
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

type fakePricing struct{}

func (fakePricing) PriceBooking(_ context.Context, _ int64, lines []pricing.LineInput, _ time.Time) (*pricing.Quote, error) {
	quote := &pricing.Quote{Lines: make([]pricing.LineBreakdown, len(lines))}
	for i, line := range lines {
		quote.Lines[i] = pricing.LineBreakdown{
			ServiceID:       line.ServiceID,
			ServiceName:     line.ServiceName,
			DurationMinutes: line.DurationMinutes,
			OriginalPrice:   line.BasePrice,
			DiscountedPrice: line.BasePrice,
		}
		quote.FinalTotal += line.BasePrice
	}
	return quote, nil
}

type fakeRewardsCalc struct {
	effect domain.RewardsEffect
}

func (f *fakeRewardsCalc) ComputeEffect(_ context.Context, _, _ int64, _ []int64, _ float64, _ *int, _ time.Time) (*domain.RewardsEffect, error) {
	effect := f.effect
	return &effect, nil
}

type fakeRewardsRepo struct {
	applied []domain.RewardsEffect
}

func (f *fakeRewardsRepo) ApplyEffect(_ context.Context, _, _, _ int64, effect domain.RewardsEffect) error {
	f.applied = append(f.applied, effect)
	return nil
}

type fakePlaceClient struct {
	place    *placeservice.Place
	services map[int64]*placeservice.Service
}

func (f *fakePlaceClient) GetPlace(_ context.Context, _ int64) (*placeservice.Place, error) {
	if f.place == nil {
		return nil, placeservice.ErrPlaceNotFound
	}
	return f.place, nil
}

func (f *fakePlaceClient) GetService(_ context.Context, _, serviceID int64) (*placeservice.Service, error) {
	service, ok := f.services[serviceID]
	if !ok {
		return nil, placeservice.ErrServiceNotFound
	}
	return service, nil
}

type fakeNotifyClient struct {
	events []notifyservice.BookingConfirmedEvent
}

func (f *fakeNotifyClient) PublishBookingConfirmed(_ context.Context, event notifyservice.BookingConfirmedEvent) error {
	f.events = append(f.events, event)
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
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
	testDate = time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	testNow  = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
)

type fixture struct {
	uc       *UseCase
	bookings *fakeBookingRepo
	rewards  *fakeRewardsRepo
	notify   *fakeNotifyClient
}

func newFixture(place *fakePlaceClient, schedule *fakeScheduleRepo, existing []*domain.Booking) *fixture {
	bookings := &fakeBookingRepo{bookings: existing}
	rewards := &fakeRewardsRepo{}
	notify := &fakeNotifyClient{}

	uc := NewUseCase(
		bookings,
		schedule,
		&fakeBlockedTime{},
		fakePricing{},
		&fakeRewardsCalc{effect: domain.RewardsEffect{PointsEarned: 10}},
		rewards,
		place,
		notify,
		fakeTxManager{},
		noopLogger{},
	)
	uc.timeProvider = &fixedTimeProvider{now: testNow}

	return &fixture{uc: uc, bookings: bookings, rewards: rewards, notify: notify}
}

func defaultPlace() *fakePlaceClient {
	return &fakePlaceClient{
		place: &placeservice.Place{ID: 1, EmployeeIDs: []int64{3, 7}},
		services: map[int64]*placeservice.Service{
			10: {ID: 10, Name: "Стрижка", Price: ptr.Ptr(1000.0), DurationMinutes: 60, EmployeeIDs: []int64{3, 7}},
			11: {ID: 11, Name: "Укладка", Price: ptr.Ptr(500.0), DurationMinutes: 30, EmployeeIDs: []int64{7}},
		},
	}
}

func defaultSchedule() *fakeScheduleRepo {
	return &fakeScheduleRepo{intervals: map[int64][]domain.WorkingInterval{
		3: {{Open: types.TimeString("09:00"), Close: types.TimeString("18:00")}},
		7: {{Open: types.TimeString("09:00"), Close: types.TimeString("18:00")}},
	}}
}

func TestExecute_SingleBooking(t *testing.T) {
	f := newFixture(defaultPlace(), defaultSchedule(), nil)

	resp, err := f.uc.Execute(context.Background(), &Request{
		UserID:     5,
		PlaceID:    1,
		EmployeeID: ptr.Ptr(int64(7)),
		ServiceIDs: []int64{10},
		Date:       testDate,
		StartTime:  types.TimeString("10:00"),
	})
	require.NoError(t, err)
	require.True(t, resp.Succeeded())

	require.Len(t, resp.Instances, 1)
	booking := resp.Instances[0].Booking
	require.NotNil(t, booking)
	assert.Equal(t, int64(7), booking.EmployeeID)
	assert.Equal(t, "confirmed", booking.Status)
	assert.Equal(t, 1000.0, booking.TotalPrice)
	assert.Equal(t, 10, booking.PointsEarned)

	// Эффект баллов проведён, событие опубликовано
	assert.Len(t, f.rewards.applied, 1)
	assert.Len(t, f.notify.events, 1)
}

func TestExecute_SlotConflict(t *testing.T) {
	existing := []*domain.Booking{{
		ID:              100,
		EmployeeID:      7,
		BookingDate:     testDate,
		StartTime:       types.TimeString("10:00"),
		DurationMinutes: 60,
		Status:          domain.StatusConfirmed,
	}}

	f := newFixture(defaultPlace(), defaultSchedule(), existing)

	_, err := f.uc.Execute(context.Background(), &Request{
		UserID:     5,
		PlaceID:    1,
		EmployeeID: ptr.Ptr(int64(7)),
		ServiceIDs: []int64{10},
		Date:       testDate,
		StartTime:  types.TimeString("10:30"),
	})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_AnyEmployeePicksLeastLoaded(t *testing.T) {
	// У сотрудника 3 уже есть запись, у сотрудника 7 день свободен
	existing := []*domain.Booking{{
		ID:              100,
		EmployeeID:      3,
		BookingDate:     testDate,
		StartTime:       types.TimeString("09:00"),
		DurationMinutes: 30,
		Status:          domain.StatusConfirmed,
	}}

	f := newFixture(defaultPlace(), defaultSchedule(), existing)

	resp, err := f.uc.Execute(context.Background(), &Request{
		UserID:     5,
		PlaceID:    1,
		ServiceIDs: []int64{10},
		Date:       testDate,
		StartTime:  types.TimeString("12:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.Instances[0].Booking.EmployeeID)
}

func TestExecute_AnyEmployeeTieBreakByLowerID(t *testing.T) {
	f := newFixture(defaultPlace(), defaultSchedule(), nil)

	resp, err := f.uc.Execute(context.Background(), &Request{
		UserID:     5,
		PlaceID:    1,
		ServiceIDs: []int64{10},
		Date:       testDate,
		StartTime:  types.TimeString("12:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Instances[0].Booking.EmployeeID)
}

func TestExecute_ZeroEmployeeMeansAny(t *testing.T) {
	f := newFixture(defaultPlace(), defaultSchedule(), nil)

	resp, err := f.uc.Execute(context.Background(), &Request{
		UserID:     5,
		PlaceID:    1,
		EmployeeID: ptr.Ptr(int64(0)),
		ServiceIDs: []int64{10},
		Date:       testDate,
		StartTime:  types.TimeString("12:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Instances[0].Booking.EmployeeID)
}

func TestExecute_CandidatesIntersection(t *testing.T) {
	// Услугу 11 оказывает только сотрудник 7
	f := newFixture(defaultPlace(), defaultSchedule(), nil)

	resp, err := f.uc.Execute(context.Background(), &Request{
		UserID:     5,
		PlaceID:    1,
		ServiceIDs: []int64{10, 11},
		Date:       testDate,
		StartTime:  types.TimeString("12:00"),
	})
	require.NoError(t, err)

	booking := resp.Instances[0].Booking
	assert.Equal(t, int64(7), booking.EmployeeID)
	// Суммарная длительность и цена обеих услуг
	assert.Equal(t, 90, booking.DurationMinutes)
	assert.Equal(t, 1500.0, booking.TotalPrice)
	assert.Len(t, booking.Lines, 2)
}

func TestExecute_RequestedEmployeeMustProvideAllServices(t *testing.T) {
	f := newFixture(defaultPlace(), defaultSchedule(), nil)

	_, err := f.uc.Execute(context.Background(), &Request{
		UserID:     5,
		PlaceID:    1,
		EmployeeID: ptr.Ptr(int64(3)),
		ServiceIDs: []int64{10, 11},
		Date:       testDate,
		StartTime:  types.TimeString("12:00"),
	})
	assert.ErrorIs(t, err, ErrEmployeeNotAvailable)
}

func TestExecute_LegacyServiceIDField(t *testing.T) {
	f := newFixture(defaultPlace(), defaultSchedule(), nil)

	resp, err := f.uc.Execute(context.Background(), &Request{
		UserID:    5,
		PlaceID:   1,
		ServiceID: ptr.Ptr(int64(10)),
		Date:      testDate,
		StartTime: types.TimeString("12:00"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Instances[0].Booking.Lines, 1)
	assert.Equal(t, int64(10), resp.Instances[0].Booking.Lines[0].ServiceID)
}

func TestExecute_RecurringCreatesWeeklyInstances(t *testing.T) {
	f := newFixture(defaultPlace(), defaultSchedule(), nil)

	resp, err := f.uc.Execute(context.Background(), &Request{
		UserID:         5,
		PlaceID:        1,
		EmployeeID:     ptr.Ptr(int64(7)),
		ServiceIDs:     []int64{10},
		Date:           testDate,
		StartTime:      types.TimeString("10:00"),
		RecurringWeeks: 3,
	})
	require.NoError(t, err)

	require.Len(t, resp.Instances, 3)
	for i, inst := range resp.Instances {
		require.NotNil(t, inst.Booking, "instance %d", i)
		assert.Equal(t, testDate.AddDate(0, 0, 7*i), inst.Booking.BookingDate)
	}
	assert.Len(t, f.notify.events, 3)
}

func TestExecute_RecurringPartialFailureKeepsSiblings(t *testing.T) {
	// Вторая дата занята существующей записью у обоих сотрудников
	secondDate := testDate.AddDate(0, 0, 7)
	existing := []*domain.Booking{
		{ID: 100, EmployeeID: 3, BookingDate: secondDate, StartTime: types.TimeString("10:00"), DurationMinutes: 60, Status: domain.StatusConfirmed},
		{ID: 101, EmployeeID: 7, BookingDate: secondDate, StartTime: types.TimeString("10:00"), DurationMinutes: 60, Status: domain.StatusConfirmed},
	}

	f := newFixture(defaultPlace(), defaultSchedule(), existing)

	resp, err := f.uc.Execute(context.Background(), &Request{
		UserID:         5,
		PlaceID:        1,
		ServiceIDs:     []int64{10},
		Date:           testDate,
		StartTime:      types.TimeString("10:00"),
		RecurringWeeks: 3,
	})
	require.NoError(t, err)
	require.Len(t, resp.Instances, 3)

	assert.NotNil(t, resp.Instances[0].Booking)
	assert.Nil(t, resp.Instances[1].Booking)
	assert.NotEmpty(t, resp.Instances[1].Error)
	assert.NotNil(t, resp.Instances[2].Booking)

	// Успешные экземпляры сохранены несмотря на сбой среднего
	assert.True(t, resp.Succeeded())
	assert.Len(t, f.bookings.created, 2)
}

func TestExecute_PastStartRejected(t *testing.T) {
	f := newFixture(defaultPlace(), defaultSchedule(), nil)

	_, err := f.uc.Execute(context.Background(), &Request{
		UserID:     5,
		PlaceID:    1,
		ServiceIDs: []int64{10},
		Date:       testNow,
		StartTime:  types.TimeString("09:00"), // сейчас 12:00
	})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_UnalignedStartRejected(t *testing.T) {
	f := newFixture(defaultPlace(), defaultSchedule(), nil)

	// 10:07 не лежит на сетке слотов и никогда не предлагается расчётом
	_, err := f.uc.Execute(context.Background(), &Request{
		UserID:     5,
		PlaceID:    1,
		ServiceIDs: []int64{10},
		Date:       testDate,
		StartTime:  types.TimeString("10:07"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_TooManyRepeats(t *testing.T) {
	f := newFixture(defaultPlace(), defaultSchedule(), nil)

	_, err := f.uc.Execute(context.Background(), &Request{
		UserID:         5,
		PlaceID:        1,
		ServiceIDs:     []int64{10},
		Date:           testDate,
		StartTime:      types.TimeString("10:00"),
		RecurringWeeks: domain.MaxRecurringInstances + 1,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_DuplicateServicesRejected(t *testing.T) {
	f := newFixture(defaultPlace(), defaultSchedule(), nil)

	_, err := f.uc.Execute(context.Background(), &Request{
		UserID:     5,
		PlaceID:    1,
		ServiceIDs: []int64{10, 10},
		Date:       testDate,
		StartTime:  types.TimeString("10:00"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
