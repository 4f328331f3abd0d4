package task

import (
	"context"
	"time"

	"tasktrack/applications/user"
)

const (
	StatusTodo = "todo"
	StatusDone = "done"
)

// Task is a stored task joined with its owner's email.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	UserID      int64      `json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"` // nil until the first update
	OwnerEmail  string     `json:"owner_email"`
}

// Filter narrows ListTasks. An empty OwnerEmail selects every task.
type Filter struct {
	OwnerEmail string
}

type NewTask struct {
	Title       string
	Description string
	Status      string
	OwnerID     int64
	CreatedAt   time.Time
}

// Store is the persistence the task use cases need. Lookups only see tasks
// whose owner still exists.
type Store interface {
	// ListTasks returns matching tasks, newest created_at first.
	ListTasks(ctx context.Context, f Filter) ([]*Task, error)
	// GetTask returns apperr.ErrNotFound when no task matches.
	GetTask(ctx context.Context, id int64) (*Task, error)
	CreateTask(ctx context.Context, t NewTask) (int64, error)
	// UpdateTask returns apperr.ErrNotFound when the row is gone.
	UpdateTask(ctx context.Context, id int64, title, description, status string, updatedAt time.Time) error
	DeleteTask(ctx context.Context, id int64) error
}

// OwnerLookup resolves the caller's email to a stored user.
type OwnerLookup interface {
	FindUserByEmail(ctx context.Context, email string) (*user.User, error)
}

// Params is the body of create and update requests. Omitted description and
// status fall back to "" and "todo".
type Params struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

func (p Params) description() string {
	if p.Description == nil {
		return ""
	}
	return *p.Description
}

func (p Params) status() string {
	if p.Status == nil || *p.Status == "" {
		return StatusTodo
	}
	return *p.Status
}
