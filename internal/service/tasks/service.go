package tasks

import (
	"context"
	"time"

	"github.com/google/uuid"

	domainerrors "taskmanager/internal/domain/errors"
	"taskmanager/internal/domain/models"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Repository is the task store contract. GetTasksByOwner returns one page in
// stable creation order together with the owner's total task count.
type Repository interface {
	CreateTask(ctx context.Context, task *models.Task) error
	GetTaskByID(ctx context.Context, id string) (*models.Task, error)
	GetTasksByOwner(ctx context.Context, ownerID string, offset, limit int) ([]models.Task, int, error)
	UpdateTask(ctx context.Context, id string, task *models.Task) error
	DeleteTask(ctx context.Context, id string) error
}

// Service enforces ownership, field validation and status/priority transition
// rules on top of the task store. Every operation takes the authenticated
// caller's id; a task owned by someone else is reported as not found, so
// existence is never revealed to non-owners.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates all writable fields at once, stamps ownership and
// timestamps and persists the task with status pending.
func (s *Service) Create(ctx context.Context, callerID string, req models.TaskRequest) (*models.Task, error) {
	dueDate, fe := validateTaskRequest(req)
	if fe != nil {
		return nil, fe
	}

	now := time.Now()
	task := &models.Task{
		ID:          uuid.New().String(),
		OwnerID:     callerID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     dueDate,
		Priority:    req.Priority,
		Status:      models.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// List returns the caller's tasks in creation order, sliced to the requested
// page. A page beyond the last yields an empty slice with correct metadata.
func (s *Service) List(ctx context.Context, callerID string, page, pageSize int) ([]models.Task, models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	offset := (page - 1) * pageSize
	items, total, err := s.repo.GetTasksByOwner(ctx, callerID, offset, pageSize)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	pages := (total + pageSize - 1) / pageSize
	meta := models.Pagination{
		Current: page,
		Pages:   pages,
		Total:   total,
	}
	return items, meta, nil
}

func (s *Service) Get(ctx context.Context, callerID, id string) (*models.Task, error) {
	return s.ownedTask(ctx, callerID, id)
}

// Update replaces title, description, due date and priority after full
// validation. Status is left untouched.
func (s *Service) Update(ctx context.Context, callerID, id string, req models.TaskRequest) (*models.Task, error) {
	dueDate, fe := validateTaskRequest(req)
	if fe != nil {
		return nil, fe
	}

	task, err := s.ownedTask(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	task.Title = req.Title
	task.Description = req.Description
	task.DueDate = dueDate
	task.Priority = req.Priority
	task.UpdatedAt = time.Now()

	if err := s.repo.UpdateTask(ctx, task.ID, task); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateStatus toggles between pending and completed. Both directions are
// caller-driven; there is no terminal state.
func (s *Service) UpdateStatus(ctx context.Context, callerID, id, status string) (*models.Task, error) {
	if fe := models.Validate(models.UpdateStatusRequest{Status: status}); fe != nil {
		return nil, fe
	}

	task, err := s.ownedTask(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	task.Status = status
	task.UpdatedAt = time.Now()

	if err := s.repo.UpdateTask(ctx, task.ID, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *Service) UpdatePriority(ctx context.Context, callerID, id, priority string) (*models.Task, error) {
	if fe := models.Validate(models.UpdatePriorityRequest{Priority: priority}); fe != nil {
		return nil, fe
	}

	task, err := s.ownedTask(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	task.Priority = priority
	task.UpdatedAt = time.Now()

	if err := s.repo.UpdateTask(ctx, task.ID, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes the task permanently. A second delete of the same id fails
// with not found.
func (s *Service) Delete(ctx context.Context, callerID, id string) error {
	if _, err := s.ownedTask(ctx, callerID, id); err != nil {
		return err
	}
	return s.repo.DeleteTask(ctx, id)
}

func (s *Service) ownedTask(ctx context.Context, callerID, id string) (*models.Task, error) {
	task, err := s.repo.GetTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.OwnerID != callerID {
		return nil, domainerrors.ErrTaskNotFound
	}
	return task, nil
}

// validateTaskRequest runs the struct tags and the due-date parse together so
// the caller sees every violated field, not just the first.
func validateTaskRequest(req models.TaskRequest) (time.Time, domainerrors.FieldErrors) {
	fe := models.Validate(req)

	dueDate, err := ParseDueDate(req.DueDate)
	if err != nil && req.DueDate != "" {
		if fe == nil {
			fe = domainerrors.FieldErrors{}
		}
		fe["dueDate"] = "Please provide a valid due date"
	}

	if fe != nil {
		return time.Time{}, fe
	}
	return dueDate, nil
}

// ParseDueDate accepts extended ISO-8601: a full RFC 3339 timestamp or a bare
// calendar date.
func ParseDueDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
