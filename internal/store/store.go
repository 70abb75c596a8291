// Package store defines the operations the handlers need from the todo
// table. Implementations live in the subpackages.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/adanyl0v/go-todo-api/internal/models"
)

var (
	ErrTodoNotFound    = errors.New("todo not found")
	ErrDuplicateID     = errors.New("todo with this id already exists")
	ErrConditionFailed = errors.New("conditional check failed")
	ErrTableNameNotSet = errors.New("TODOS_TABLE_NAME environment variable is not set")
)

type TodoStore interface {
	// PutIfAbsent stores a new todo. It returns ErrDuplicateID if a
	// todo with the same ID already exists and never overwrites it.
	PutIfAbsent(ctx context.Context, todo *models.Todo) error

	// GetByID returns the todo with the given ID or ErrTodoNotFound.
	GetByID(ctx context.Context, id string) (*models.Todo, error)

	// ListByUserID returns every todo owned by userID. An empty,
	// non-nil slice is returned when the user has none.
	ListByUserID(ctx context.Context, userID string) ([]*models.Todo, error)

	// CompleteIfOwned atomically sets the status to completed and the
	// update time to now, but only if the stored todo is owned by
	// userID. It returns ErrConditionFailed otherwise, including when
	// the todo does not exist.
	CompleteIfOwned(ctx context.Context, id, userID string, now time.Time) (*models.Todo, error)
}
