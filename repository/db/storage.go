package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainerrors "taskmanager/internal/domain/errors"
	"taskmanager/internal/domain/models"
)

const queryTimeout = 15 * time.Second

// Storage is the Postgres-backed credential and task store. Single-row
// updates and deletes are atomic per task id; concurrent writers to the same
// task resolve last-writer-wins.
type Storage struct {
	pool *pgxpool.Pool

	sqlCreateUser        string
	sqlGetUserByID       string
	sqlGetUserByEmail    string
	sqlGetUserByUsername string

	sqlCreateTask      string
	sqlGetTaskByID     string
	sqlGetTasksByOwner string
	sqlCountByOwner    string
	sqlUpdateTask      string
	sqlDeleteTask      string
}

func NewStorage(connStr string) (*Storage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		log.Println("[ERROR] Failed to configure database pool:", err)
		return nil, infrastructure(err)
	}
	if err := pool.Ping(ctx); err != nil {
		log.Println("[ERROR] Failed to connect to database:", err)
		pool.Close()
		return nil, infrastructure(err)
	}

	s := &Storage{
		pool:                 pool,
		sqlCreateUser:        `INSERT INTO users (id, username, email, password_hash, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		sqlGetUserByID:       `SELECT id, username, email, password_hash, created_at, updated_at FROM users WHERE id = $1`,
		sqlGetUserByEmail:    `SELECT id, username, email, password_hash, created_at, updated_at FROM users WHERE lower(email) = lower($1)`,
		sqlGetUserByUsername: `SELECT id, username, email, password_hash, created_at, updated_at FROM users WHERE username = $1`,
		sqlCreateTask:        `INSERT INTO tasks (id, owner_id, title, description, due_date, priority, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		sqlGetTaskByID:       `SELECT id, owner_id, title, description, due_date, priority, status, created_at, updated_at FROM tasks WHERE id = $1`,
		sqlGetTasksByOwner:   `SELECT id, owner_id, title, description, due_date, priority, status, created_at, updated_at FROM tasks WHERE owner_id = $1 ORDER BY created_at, id LIMIT $2 OFFSET $3`,
		sqlCountByOwner:      `SELECT count(*) FROM tasks WHERE owner_id = $1`,
		sqlUpdateTask:        `UPDATE tasks SET title = $1, description = $2, due_date = $3, priority = $4, status = $5, updated_at = $6 WHERE id = $7`,
		sqlDeleteTask:        `DELETE FROM tasks WHERE id = $1`,
	}
	log.Println("[SUCCESS] Database connection established")
	return s, nil
}

func (s *Storage) Close() {
	s.pool.Close()
}

func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := s.pool.Exec(ctx, s.sqlCreateUser,
		user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		log.Println("[ERROR] Failed to create user:", err)
		return userConflictOrInfra(err)
	}
	log.Println("[SUCCESS] User created:", user.ID)
	return nil
}

func (s *Storage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, s.sqlGetUserByID, id)
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, s.sqlGetUserByEmail, email)
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getUser(ctx, s.sqlGetUserByUsername, username)
}

func (s *Storage) getUser(ctx context.Context, query, arg string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	user := &models.User{}
	row := s.pool.QueryRow(ctx, query, arg)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainerrors.ErrUserNotFound
		}
		log.Println("[ERROR] Failed to read user:", err)
		return nil, infrastructure(err)
	}
	return user, nil
}

func (s *Storage) CreateTask(ctx context.Context, task *models.Task) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := s.pool.Exec(ctx, s.sqlCreateTask,
		task.ID, task.OwnerID, task.Title, task.Description, task.DueDate,
		task.Priority, task.Status, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		log.Println("[ERROR] Failed to create task:", err)
		return infrastructure(err)
	}
	log.Println("[SUCCESS] Task created:", task.ID)
	return nil
}

func (s *Storage) GetTaskByID(ctx context.Context, id string) (*models.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	task := &models.Task{}
	row := s.pool.QueryRow(ctx, s.sqlGetTaskByID, id)
	err := row.Scan(&task.ID, &task.OwnerID, &task.Title, &task.Description, &task.DueDate,
		&task.Priority, &task.Status, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainerrors.ErrTaskNotFound
		}
		log.Println("[ERROR] Failed to read task:", err)
		return nil, infrastructure(err)
	}
	return task, nil
}

func (s *Storage) GetTasksByOwner(ctx context.Context, ownerID string, offset, limit int) ([]models.Task, int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var total int
	if err := s.pool.QueryRow(ctx, s.sqlCountByOwner, ownerID).Scan(&total); err != nil {
		log.Println("[ERROR] Failed to count tasks:", err)
		return nil, 0, infrastructure(err)
	}

	rows, err := s.pool.Query(ctx, s.sqlGetTasksByOwner, ownerID, limit, offset)
	if err != nil {
		log.Println("[ERROR] Failed to list tasks:", err)
		return nil, 0, infrastructure(err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task := models.Task{}
		err := rows.Scan(&task.ID, &task.OwnerID, &task.Title, &task.Description, &task.DueDate,
			&task.Priority, &task.Status, &task.CreatedAt, &task.UpdatedAt)
		if err != nil {
			log.Println("[ERROR] Failed to scan task row:", err)
			return nil, 0, infrastructure(err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, infrastructure(err)
	}
	return tasks, total, nil
}

func (s *Storage) UpdateTask(ctx context.Context, id string, task *models.Task) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	ct, err := s.pool.Exec(ctx, s.sqlUpdateTask,
		task.Title, task.Description, task.DueDate, task.Priority, task.Status, task.UpdatedAt, id)
	if err != nil {
		log.Println("[ERROR] Failed to update task:", err)
		return infrastructure(err)
	}
	if ct.RowsAffected() == 0 {
		return domainerrors.ErrTaskNotFound
	}
	log.Println("[SUCCESS] Task updated:", id)
	return nil
}

func (s *Storage) DeleteTask(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	ct, err := s.pool.Exec(ctx, s.sqlDeleteTask, id)
	if err != nil {
		log.Println("[ERROR] Failed to delete task:", err)
		return infrastructure(err)
	}
	if ct.RowsAffected() == 0 {
		return domainerrors.ErrTaskNotFound
	}
	log.Println("[SUCCESS] Task deleted:", id)
	return nil
}

// userConflictOrInfra turns a unique-constraint violation into the matching
// conflict error; the constraints backstop the service-level existence checks
// under concurrent registration.
func userConflictOrInfra(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if strings.Contains(pgErr.ConstraintName, "email") {
			return domainerrors.ErrEmailTaken
		}
		if strings.Contains(pgErr.ConstraintName, "username") {
			return domainerrors.ErrUsernameTaken
		}
		return domainerrors.ErrConflict
	}
	return infrastructure(err)
}

func infrastructure(err error) error {
	return fmt.Errorf("%w: %v", domainerrors.ErrInfrastructure, err)
}
