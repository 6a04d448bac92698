package tasks

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	domainerrors "taskmanager/internal/domain/errors"
	"taskmanager/internal/domain/models"
	inmemory "taskmanager/repository/inmemory"
)

func validRequest() models.TaskRequest {
	return models.TaskRequest{
		Title:       "Buy milk",
		Description: "2% milk",
		DueDate:     "2099-01-01",
		Priority:    models.PriorityLow,
	}
}

func newServiceWithStore() (*Service, *inmemory.Storage) {
	store := inmemory.NewStorage()
	return NewService(store), store
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name    string
		request models.TaskRequest
		want    struct {
			fields []string
		}
	}{
		{
			name:    "valid task",
			request: validRequest(),
			want:    struct{ fields []string }{},
		},
		{
			name: "title too long",
			request: models.TaskRequest{
				Title:       strings.Repeat("x", 101),
				Description: "desc",
				DueDate:     "2099-01-01",
				Priority:    models.PriorityMedium,
			},
			want: struct{ fields []string }{fields: []string{"title"}},
		},
		{
			name: "due date is not a date",
			request: models.TaskRequest{
				Title:       "Task",
				Description: "desc",
				DueDate:     "not-a-date",
				Priority:    models.PriorityMedium,
			},
			want: struct{ fields []string }{fields: []string{"dueDate"}},
		},
		{
			name: "unknown priority",
			request: models.TaskRequest{
				Title:       "Task",
				Description: "desc",
				DueDate:     "2099-01-01",
				Priority:    "urgent",
			},
			want: struct{ fields []string }{fields: []string{"priority"}},
		},
		{
			name:    "every violation reported at once",
			request: models.TaskRequest{Title: strings.Repeat("x", 101), DueDate: "not-a-date", Priority: "urgent"},
			want:    struct{ fields []string }{fields: []string{"title", "description", "dueDate", "priority"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newServiceWithStore()

			task, err := svc.Create(context.Background(), "userA", tt.request)

			if len(tt.want.fields) > 0 {
				var fe domainerrors.FieldErrors
				assert.ErrorAs(t, err, &fe)
				assert.Len(t, fe, len(tt.want.fields))
				for _, field := range tt.want.fields {
					assert.Contains(t, fe, field)
				}
				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, task.ID)
			assert.Equal(t, "userA", task.OwnerID)
			assert.Equal(t, models.StatusPending, task.Status)
			assert.Equal(t, models.PriorityLow, task.Priority)
			assert.False(t, task.CreatedAt.IsZero())
			assert.Equal(t, task.CreatedAt, task.UpdatedAt)
		})
	}
}

func TestCreateAcceptsTimestampDueDate(t *testing.T) {
	svc, _ := newServiceWithStore()

	req := validRequest()
	req.DueDate = "2099-01-01T15:04:05Z"

	task, err := svc.Create(context.Background(), "userA", req)
	assert.NoError(t, err)
	assert.Equal(t, 2099, task.DueDate.Year())
}

func TestListPagination(t *testing.T) {
	svc, _ := newServiceWithStore()
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		req := validRequest()
		req.Title = fmt.Sprintf("Task %02d", i)
		_, err := svc.Create(ctx, "userA", req)
		assert.NoError(t, err)
	}
	_, err := svc.Create(ctx, "userB", validRequest())
	assert.NoError(t, err)

	tests := []struct {
		name     string
		page     int
		pageSize int
		want     struct {
			count      int
			current    int
			pages      int
			total      int
			firstTitle string
		}
	}{
		{
			name: "first page", page: 1, pageSize: 10,
			want: struct {
				count      int
				current    int
				pages      int
				total      int
				firstTitle string
			}{count: 10, current: 1, pages: 3, total: 25, firstTitle: "Task 00"},
		},
		{
			name: "last partial page", page: 3, pageSize: 10,
			want: struct {
				count      int
				current    int
				pages      int
				total      int
				firstTitle string
			}{count: 5, current: 3, pages: 3, total: 25, firstTitle: "Task 20"},
		},
		{
			name: "page beyond the last is empty, not an error", page: 4, pageSize: 10,
			want: struct {
				count      int
				current    int
				pages      int
				total      int
				firstTitle string
			}{count: 0, current: 4, pages: 3, total: 25},
		},
		{
			name: "page below one defaults to the first", page: 0, pageSize: 10,
			want: struct {
				count      int
				current    int
				pages      int
				total      int
				firstTitle string
			}{count: 10, current: 1, pages: 3, total: 25, firstTitle: "Task 00"},
		},
		{
			name: "page size below one defaults", page: 1, pageSize: 0,
			want: struct {
				count      int
				current    int
				pages      int
				total      int
				firstTitle string
			}{count: 10, current: 1, pages: 3, total: 25, firstTitle: "Task 00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, meta, err := svc.List(ctx, "userA", tt.page, tt.pageSize)
			assert.NoError(t, err)
			assert.Len(t, items, tt.want.count)
			assert.Equal(t, tt.want.current, meta.Current)
			assert.Equal(t, tt.want.pages, meta.Pages)
			assert.Equal(t, tt.want.total, meta.Total)
			if tt.want.firstTitle != "" {
				assert.Equal(t, tt.want.firstTitle, items[0].Title)
			}
		})
	}
}

func TestListOnlyReturnsOwnTasks(t *testing.T) {
	svc, _ := newServiceWithStore()
	ctx := context.Background()

	_, err := svc.Create(ctx, "userA", validRequest())
	assert.NoError(t, err)
	_, err = svc.Create(ctx, "userB", validRequest())
	assert.NoError(t, err)

	items, meta, err := svc.List(ctx, "userA", 1, 10)
	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, meta.Total)
	assert.Equal(t, "userA", items[0].OwnerID)
}

func TestOwnershipIsNeverRevealed(t *testing.T) {
	svc, _ := newServiceWithStore()
	ctx := context.Background()

	task, err := svc.Create(ctx, "userA", validRequest())
	assert.NoError(t, err)

	tests := []struct {
		name string
		op   func() error
	}{
		{name: "get", op: func() error { _, err := svc.Get(ctx, "userB", task.ID); return err }},
		{name: "update", op: func() error { _, err := svc.Update(ctx, "userB", task.ID, validRequest()); return err }},
		{name: "update status", op: func() error {
			_, err := svc.UpdateStatus(ctx, "userB", task.ID, models.StatusCompleted)
			return err
		}},
		{name: "update priority", op: func() error {
			_, err := svc.UpdatePriority(ctx, "userB", task.ID, models.PriorityHigh)
			return err
		}},
		{name: "delete", op: func() error { return svc.Delete(ctx, "userB", task.ID) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op()
			assert.ErrorIs(t, err, domainerrors.ErrTaskNotFound,
				"a foreign task must look exactly like a missing one")
		})
	}

	// The owner still sees the task untouched.
	got, err := svc.Get(ctx, "userA", task.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Equal(t, models.PriorityLow, got.Priority)
}

func TestUpdate(t *testing.T) {
	svc, _ := newServiceWithStore()
	ctx := context.Background()

	task, err := svc.Create(ctx, "userA", validRequest())
	assert.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, "userA", task.ID, models.StatusCompleted)
	assert.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	updated, err := svc.Update(ctx, "userA", task.ID, models.TaskRequest{
		Title:       "Buy oat milk",
		Description: "Barista edition",
		DueDate:     "2099-06-01",
		Priority:    models.PriorityHigh,
	})
	assert.NoError(t, err)
	assert.Equal(t, "Buy oat milk", updated.Title)
	assert.Equal(t, models.PriorityHigh, updated.Priority)
	assert.Equal(t, models.StatusCompleted, updated.Status, "full update leaves status untouched")
	assert.True(t, updated.UpdatedAt.After(task.UpdatedAt))
	assert.Equal(t, task.CreatedAt, updated.CreatedAt)
}

func TestUpdateValidation(t *testing.T) {
	svc, _ := newServiceWithStore()
	ctx := context.Background()

	task, err := svc.Create(ctx, "userA", validRequest())
	assert.NoError(t, err)

	_, err = svc.Update(ctx, "userA", task.ID, models.TaskRequest{
		Title:       "",
		Description: strings.Repeat("y", 501),
		DueDate:     "2099-01-01",
		Priority:    models.PriorityLow,
	})

	var fe domainerrors.FieldErrors
	assert.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "title")
	assert.Contains(t, fe, "description")

	// Failed validation leaves the task unchanged.
	got, err := svc.Get(ctx, "userA", task.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Title)
}

func TestUpdateStatus(t *testing.T) {
	svc, _ := newServiceWithStore()
	ctx := context.Background()

	task, err := svc.Create(ctx, "userA", validRequest())
	assert.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, "userA", task.ID, "archived")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	time.Sleep(10 * time.Millisecond)

	updated, err := svc.UpdateStatus(ctx, "userA", task.ID, models.StatusCompleted)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)
	assert.True(t, updated.UpdatedAt.After(task.UpdatedAt))

	got, err := svc.Get(ctx, "userA", task.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)

	// The toggle has no terminal state.
	reverted, err := svc.UpdateStatus(ctx, "userA", task.ID, models.StatusPending)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, reverted.Status)
}

func TestUpdatePriority(t *testing.T) {
	svc, _ := newServiceWithStore()
	ctx := context.Background()

	task, err := svc.Create(ctx, "userA", validRequest())
	assert.NoError(t, err)

	_, err = svc.UpdatePriority(ctx, "userA", task.ID, "critical")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = svc.UpdatePriority(ctx, "userA", task.ID, models.PriorityHigh)
	assert.NoError(t, err)

	got, err := svc.Get(ctx, "userA", task.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.PriorityHigh, got.Priority)
	assert.Equal(t, models.StatusPending, got.Status, "priority change leaves status untouched")
}

func TestDelete(t *testing.T) {
	svc, _ := newServiceWithStore()
	ctx := context.Background()

	task, err := svc.Create(ctx, "userA", validRequest())
	assert.NoError(t, err)

	assert.NoError(t, svc.Delete(ctx, "userA", task.ID))

	_, err = svc.Get(ctx, "userA", task.ID)
	assert.ErrorIs(t, err, domainerrors.ErrTaskNotFound)

	// Delete is not idempotent.
	err = svc.Delete(ctx, "userA", task.ID)
	assert.ErrorIs(t, err, domainerrors.ErrTaskNotFound)
}

func TestTaskLifecycleScenario(t *testing.T) {
	svc, _ := newServiceWithStore()
	ctx := context.Background()

	task, err := svc.Create(ctx, "userA", models.TaskRequest{
		Title:       "Buy milk",
		Description: "2% milk",
		DueDate:     "2099-01-01",
		Priority:    models.PriorityLow,
	})
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, task.Status)
	assert.Equal(t, models.PriorityLow, task.Priority)

	_, err = svc.UpdatePriority(ctx, "userA", task.ID, models.PriorityHigh)
	assert.NoError(t, err)

	got, err := svc.Get(ctx, "userA", task.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.PriorityHigh, got.Priority)

	assert.NoError(t, svc.Delete(ctx, "userA", task.ID))

	_, err = svc.Get(ctx, "userA", task.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateTask(ctx context.Context, task *models.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockRepository) GetTaskByID(ctx context.Context, id string) (*models.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockRepository) GetTasksByOwner(ctx context.Context, ownerID string, offset, limit int) ([]models.Task, int, error) {
	args := m.Called(ctx, ownerID, offset, limit)
	return args.Get(0).([]models.Task), args.Int(1), args.Error(2)
}

func (m *MockRepository) UpdateTask(ctx context.Context, id string, task *models.Task) error {
	args := m.Called(ctx, id, task)
	return args.Error(0)
}

func (m *MockRepository) DeleteTask(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestStoreFailuresSurfaceAsInfrastructure(t *testing.T) {
	repo := &MockRepository{}
	repo.On("GetTasksByOwner", mock.Anything, "userA", 0, 10).Return([]models.Task{}, 0, domainerrors.ErrInfrastructure)
	repo.On("CreateTask", mock.Anything, mock.AnythingOfType("*models.Task")).Return(domainerrors.ErrInfrastructure)
	svc := NewService(repo)

	_, _, err := svc.List(context.Background(), "userA", 1, 10)
	assert.ErrorIs(t, err, domainerrors.ErrInfrastructure)

	_, err = svc.Create(context.Background(), "userA", validRequest())
	assert.ErrorIs(t, err, domainerrors.ErrInfrastructure)

	repo.AssertExpectations(t)
}
