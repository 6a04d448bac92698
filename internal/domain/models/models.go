package models

import "time"

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Task struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"user"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"dueDate"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TaskRequest carries the writable task fields for both create and full
// update. DueDate stays a string here; the task service parses it so a bad
// date lands in the same FieldErrors map as the other violations.
type TaskRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"required,max=500"`
	DueDate     string `json:"dueDate" validate:"required"`
	Priority    string `json:"priority" validate:"required,oneof=low medium high"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending completed"`
}

type UpdatePriorityRequest struct {
	Priority string `json:"priority" validate:"required,oneof=low medium high"`
}

// Pagination accompanies every list result: current page, total page count
// and total item count.
type Pagination struct {
	Current int `json:"current"`
	Pages   int `json:"pages"`
	Total   int `json:"total"`
}
