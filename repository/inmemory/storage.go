package storage

import (
	"context"
	"strings"
	"sync"

	domainerrors "taskmanager/internal/domain/errors"
	"taskmanager/internal/domain/models"
)

// Storage is a map-backed store used as the development fallback when
// Postgres is unreachable and as the repository in tests. Task order is
// tracked explicitly so list pages come back in creation order.
type Storage struct {
	mu        sync.RWMutex
	users     map[string]models.User
	tasks     map[string]models.Task
	taskOrder []string
}

func NewStorage() *Storage {
	return &Storage{
		users: make(map[string]models.User),
		tasks: make(map[string]models.Task),
	}
}

func (s *Storage) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[id]
	if !exists {
		return nil, domainerrors.ErrUserNotFound
	}
	return &user, nil
}

func (s *Storage) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			u := user
			return &u, nil
		}
	}
	return nil, domainerrors.ErrUserNotFound
}

func (s *Storage) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, domainerrors.ErrUserNotFound
}

func (s *Storage) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return domainerrors.ErrEmailTaken
		}
		if existing.Username == user.Username {
			return domainerrors.ErrUsernameTaken
		}
	}
	s.users[user.ID] = *user
	return nil
}

func (s *Storage) CreateTask(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks[task.ID] = *task
	s.taskOrder = append(s.taskOrder, task.ID)
	return nil
}

func (s *Storage) GetTaskByID(_ context.Context, id string) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, exists := s.tasks[id]
	if !exists {
		return nil, domainerrors.ErrTaskNotFound
	}
	return &task, nil
}

func (s *Storage) GetTasksByOwner(_ context.Context, ownerID string, offset, limit int) ([]models.Task, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owned := make([]models.Task, 0)
	for _, id := range s.taskOrder {
		if task, exists := s.tasks[id]; exists && task.OwnerID == ownerID {
			owned = append(owned, task)
		}
	}

	total := len(owned)
	if offset >= total {
		return []models.Task{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return owned[offset:end], total, nil
}

func (s *Storage) UpdateTask(_ context.Context, id string, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[id]; !exists {
		return domainerrors.ErrTaskNotFound
	}
	task.ID = id
	s.tasks[id] = *task
	return nil
}

func (s *Storage) DeleteTask(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[id]; !exists {
		return domainerrors.ErrTaskNotFound
	}
	delete(s.tasks, id)
	for i, taskID := range s.taskOrder {
		if taskID == id {
			s.taskOrder = append(s.taskOrder[:i], s.taskOrder[i+1:]...)
			break
		}
	}
	return nil
}
