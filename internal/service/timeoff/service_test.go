package timeoff

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	timeoffRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/timeoff"
	"github.com/m04kA/SMC-SalonService/internal/integrations/placeservice"
	"github.com/m04kA/SMC-SalonService/internal/service/timeoff/models"
	"github.com/m04kA/SMC-SalonService/pkg/ptr"
)

type fakeTimeOffRepo struct {
	entries      map[int64]*domain.TimeOffEntry
	periods      map[int64]*domain.ClosedPeriod
	nextID       int64
	periodStatus map[int64]domain.ClosedPeriodStatus
}

func newFakeTimeOffRepo() *fakeTimeOffRepo {
	return &fakeTimeOffRepo{
		entries:      make(map[int64]*domain.TimeOffEntry),
		periods:      make(map[int64]*domain.ClosedPeriod),
		nextID:       1,
		periodStatus: make(map[int64]domain.ClosedPeriodStatus),
	}
}

func (f *fakeTimeOffRepo) CreateEntry(_ context.Context, entry *domain.TimeOffEntry) (*domain.TimeOffEntry, error) {
	created := *entry
	created.ID = f.nextID
	created.CreatedAt = time.Now()
	f.nextID++
	f.entries[created.ID] = &created
	return &created, nil
}

func (f *fakeTimeOffRepo) GetEntryByID(_ context.Context, id int64) (*domain.TimeOffEntry, error) {
	entry, ok := f.entries[id]
	if !ok {
		return nil, timeoffRepo.ErrEntryNotFound
	}
	copied := *entry
	return &copied, nil
}

func (f *fakeTimeOffRepo) UpdateEntryStatus(_ context.Context, id int64, status domain.TimeOffStatus, reviewedBy *int64) error {
	entry, ok := f.entries[id]
	if !ok {
		return timeoffRepo.ErrEntryNotFound
	}
	entry.Status = status
	entry.ReviewedBy = reviewedBy
	if reviewedBy != nil {
		now := time.Now()
		entry.ReviewedAt = &now
	}
	return nil
}

func (f *fakeTimeOffRepo) GetEntriesByEmployee(_ context.Context, placeID, employeeID int64) ([]*domain.TimeOffEntry, error) {
	result := make([]*domain.TimeOffEntry, 0)
	for _, e := range f.entries {
		if e.PlaceID == placeID && e.EmployeeID == employeeID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (f *fakeTimeOffRepo) CreateClosedPeriod(_ context.Context, period *domain.ClosedPeriod) (*domain.ClosedPeriod, error) {
	created := *period
	created.ID = f.nextID
	created.CreatedAt = time.Now()
	f.nextID++
	f.periods[created.ID] = &created
	return &created, nil
}

func (f *fakeTimeOffRepo) SetClosedPeriodStatus(_ context.Context, id int64, status domain.ClosedPeriodStatus) error {
	if _, ok := f.periods[id]; !ok {
		return timeoffRepo.ErrClosedPeriodNotFound
	}
	f.periodStatus[id] = status
	return nil
}

type fakePlaceClient struct {
	place *placeservice.Place
}

func (f *fakePlaceClient) GetPlace(_ context.Context, _ int64) (*placeservice.Place, error) {
	return f.place, nil
}

type fixedTimeProvider struct {
	now time.Time
}

func (f *fixedTimeProvider) Now() time.Time {
	return f.now
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

const (
	employeeID = int64(7)
	managerID  = int64(50)
	strangerID = int64(99)
)

// testNow выбрано так, чтобы даты заявок в тестах были в будущем
var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func newTestService() (*Service, *fakeTimeOffRepo) {
	repo := newFakeTimeOffRepo()
	svc := NewService(repo, &fakePlaceClient{
		place: &placeservice.Place{
			ID:          1,
			OwnerID:     managerID,
			EmployeeIDs: []int64{employeeID},
		},
	}, &fixedTimeProvider{now: testNow}, noopLogger{})
	return svc, repo
}

func entryRequest() *models.CreateEntryRequest {
	return &models.CreateEntryRequest{
		PlaceID:    1,
		EmployeeID: employeeID,
		Type:       "vacation",
		StartDate:  "2025-06-20",
		EndDate:    "2025-06-22",
	}
}

func TestRequestEntry(t *testing.T) {
	svc, repo := newTestService()

	resp, err := svc.RequestEntry(context.Background(), entryRequest(), employeeID)
	require.NoError(t, err)

	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, employeeID, resp.RequestedBy)
	assert.Equal(t, "2025-06-20", resp.StartDate)
	require.NotNil(t, resp.EndDate)
	assert.Equal(t, "2025-06-22", *resp.EndDate)
	assert.Len(t, repo.entries, 1)
}

func TestRequestEntry_ManagerForEmployee(t *testing.T) {
	svc, _ := newTestService()

	resp, err := svc.RequestEntry(context.Background(), entryRequest(), managerID)
	require.NoError(t, err)
	assert.Equal(t, managerID, resp.RequestedBy)
}

func TestRequestEntry_AccessDenied(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.RequestEntry(context.Background(), entryRequest(), strangerID)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestRequestEntry_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.CreateEntryRequest)
	}{
		{
			name:   "неизвестный тип отгула",
			mutate: func(r *models.CreateEntryRequest) { r.Type = "birthday" },
		},
		{
			name:   "некорректная дата начала",
			mutate: func(r *models.CreateEntryRequest) { r.StartDate = "20.06.2025" },
		},
		{
			name: "дата окончания раньше начала",
			mutate: func(r *models.CreateEntryRequest) {
				r.StartDate = "2025-06-22"
				r.EndDate = "2025-06-20"
			},
		},
		{
			name:   "пустая дата окончания без повторения",
			mutate: func(r *models.CreateEntryRequest) { r.EndDate = "" },
		},
		{
			name:   "некорректное значение half_day",
			mutate: func(r *models.CreateEntryRequest) { r.HalfDay = ptr.Ptr("morning") },
		},
		{
			name: "повторяющаяся заявка с битым правилом",
			mutate: func(r *models.CreateEntryRequest) {
				r.IsRecurring = true
				r.Recurrence = []byte(`{"kind":"weekly"}`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService()
			req := entryRequest()
			tt.mutate(req)

			_, err := svc.RequestEntry(context.Background(), req, employeeID)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestRequestEntry_RecurringWithoutEndDate(t *testing.T) {
	svc, _ := newTestService()

	req := entryRequest()
	req.EndDate = ""
	req.IsRecurring = true
	req.Recurrence = []byte(`{"kind":"weekly","weekdays":[1,5]}`)

	// Для повторяющейся заявки бессрочное правило допустимо
	resp, err := svc.RequestEntry(context.Background(), req, employeeID)
	require.NoError(t, err)
	assert.Nil(t, resp.EndDate)
	assert.True(t, resp.IsRecurring)
}

func TestReviewEntry(t *testing.T) {
	tests := []struct {
		name       string
		approve    bool
		wantStatus string
	}{
		{"одобрение заявки", true, "approved"},
		{"отклонение заявки", false, "rejected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService()
			created, err := svc.RequestEntry(context.Background(), entryRequest(), employeeID)
			require.NoError(t, err)

			resp, err := svc.ReviewEntry(context.Background(), created.ID, &models.ReviewEntryRequest{Approve: tt.approve}, managerID)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.Status)
			require.NotNil(t, resp.ReviewedBy)
			assert.Equal(t, managerID, *resp.ReviewedBy)
		})
	}
}

func TestReviewEntry_OnlyManager(t *testing.T) {
	svc, _ := newTestService()
	created, err := svc.RequestEntry(context.Background(), entryRequest(), employeeID)
	require.NoError(t, err)

	// Сам сотрудник не может рассматривать свою заявку
	_, err = svc.ReviewEntry(context.Background(), created.ID, &models.ReviewEntryRequest{Approve: true}, employeeID)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestReviewEntry_AlreadyReviewed(t *testing.T) {
	svc, _ := newTestService()
	created, err := svc.RequestEntry(context.Background(), entryRequest(), employeeID)
	require.NoError(t, err)

	_, err = svc.ReviewEntry(context.Background(), created.ID, &models.ReviewEntryRequest{Approve: true}, managerID)
	require.NoError(t, err)

	_, err = svc.ReviewEntry(context.Background(), created.ID, &models.ReviewEntryRequest{Approve: false}, managerID)
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestReviewEntry_NotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.ReviewEntry(context.Background(), 404, &models.ReviewEntryRequest{Approve: true}, managerID)
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestCancelEntry(t *testing.T) {
	svc, _ := newTestService()
	created, err := svc.RequestEntry(context.Background(), entryRequest(), employeeID)
	require.NoError(t, err)

	resp, err := svc.CancelEntry(context.Background(), created.ID, employeeID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
}

func TestCancelEntry_OnlyRequester(t *testing.T) {
	svc, _ := newTestService()
	created, err := svc.RequestEntry(context.Background(), entryRequest(), employeeID)
	require.NoError(t, err)

	// Даже менеджер не может отменить чужую заявку
	_, err = svc.CancelEntry(context.Background(), created.ID, managerID)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCancelEntry_ApprovedBeforeStart(t *testing.T) {
	svc, _ := newTestService()
	created, err := svc.RequestEntry(context.Background(), entryRequest(), employeeID)
	require.NoError(t, err)

	_, err = svc.ReviewEntry(context.Background(), created.ID, &models.ReviewEntryRequest{Approve: true}, managerID)
	require.NoError(t, err)

	// Одобренную заявку можно отменить до её начала (20.06 > 10.06)
	resp, err := svc.CancelEntry(context.Background(), created.ID, employeeID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
}

func TestCancelEntry_ApprovedAfterStart(t *testing.T) {
	svc, repo := newTestService()
	created, err := svc.RequestEntry(context.Background(), entryRequest(), employeeID)
	require.NoError(t, err)

	_, err = svc.ReviewEntry(context.Background(), created.ID, &models.ReviewEntryRequest{Approve: true}, managerID)
	require.NoError(t, err)

	// Отгул уже начался
	repo.entries[created.ID].StartDate = time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)

	_, err = svc.CancelEntry(context.Background(), created.ID, employeeID)
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestCancelEntry_Rejected(t *testing.T) {
	svc, _ := newTestService()
	created, err := svc.RequestEntry(context.Background(), entryRequest(), employeeID)
	require.NoError(t, err)

	_, err = svc.ReviewEntry(context.Background(), created.ID, &models.ReviewEntryRequest{Approve: false}, managerID)
	require.NoError(t, err)

	_, err = svc.CancelEntry(context.Background(), created.ID, employeeID)
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestListEntriesByEmployee(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.RequestEntry(context.Background(), entryRequest(), employeeID)
	require.NoError(t, err)

	// Сам сотрудник
	resp, err := svc.ListEntriesByEmployee(context.Background(), 1, employeeID, employeeID)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)

	// Менеджер заведения
	resp, err = svc.ListEntriesByEmployee(context.Background(), 1, employeeID, managerID)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)

	// Посторонний пользователь
	_, err = svc.ListEntriesByEmployee(context.Background(), 1, employeeID, strangerID)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func periodRequest() *models.CreateClosedPeriodRequest {
	return &models.CreateClosedPeriodRequest{
		PlaceID:   1,
		Reason:    "ремонт зала",
		StartDate: "2025-07-01",
		EndDate:   "2025-07-05",
	}
}

func TestCreateClosedPeriod(t *testing.T) {
	svc, _ := newTestService()

	resp, err := svc.CreateClosedPeriod(context.Background(), periodRequest(), managerID)
	require.NoError(t, err)

	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, "ремонт зала", resp.Reason)
}

func TestCreateClosedPeriod_OnlyManager(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateClosedPeriod(context.Background(), periodRequest(), employeeID)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCreateClosedPeriod_ReasonRequired(t *testing.T) {
	svc, _ := newTestService()

	req := periodRequest()
	req.Reason = ""

	_, err := svc.CreateClosedPeriod(context.Background(), req, managerID)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeactivateClosedPeriod(t *testing.T) {
	svc, repo := newTestService()
	created, err := svc.CreateClosedPeriod(context.Background(), periodRequest(), managerID)
	require.NoError(t, err)

	err = svc.DeactivateClosedPeriod(context.Background(), created.ID, 1, managerID)
	require.NoError(t, err)
	assert.Equal(t, domain.ClosedPeriodInactive, repo.periodStatus[created.ID])
}

func TestDeactivateClosedPeriod_NotFound(t *testing.T) {
	svc, _ := newTestService()

	err := svc.DeactivateClosedPeriod(context.Background(), 404, 1, managerID)
	assert.ErrorIs(t, err, ErrEntryNotFound)
}
