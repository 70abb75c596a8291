// Package memstore keeps todos in process memory. It backs local runs
// and handler tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-api/internal/models"
	"github.com/adanyl0v/go-todo-api/internal/store"
)

type Store struct {
	logger zerolog.Logger

	mu    sync.RWMutex
	todos map[string]models.Todo
}

func New(logger zerolog.Logger) *Store {
	return &Store{
		logger: logger,
		todos:  make(map[string]models.Todo),
	}
}

func (s *Store) PutIfAbsent(_ context.Context, todo *models.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.todos[todo.ID]; exists {
		s.logger.Error().
			Str("todo_id", todo.ID).
			Msg("todo already exists")
		return store.ErrDuplicateID
	}
	s.todos[todo.ID] = *todo

	s.logger.Debug().
		Str("todo_id", todo.ID).
		Msg("inserted todo")
	return nil
}

func (s *Store) GetByID(_ context.Context, id string) (*models.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	todo, ok := s.todos[id]
	if !ok {
		return nil, store.ErrTodoNotFound
	}
	return &todo, nil
}

func (s *Store) ListByUserID(_ context.Context, userID string) ([]*models.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	todos := make([]*models.Todo, 0)
	for _, todo := range s.todos {
		todo := todo
		if todo.UserID == userID {
			todos = append(todos, &todo)
		}
	}
	sort.Slice(todos, func(i, j int) bool {
		return todos[i].CreatedAt < todos[j].CreatedAt
	})

	s.logger.Debug().
		Int("count", len(todos)).
		Str("user_id", userID).
		Msg("selected todos by user id")
	return todos, nil
}

func (s *Store) CompleteIfOwned(_ context.Context, id, userID string, now time.Time) (*models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	todo, ok := s.todos[id]
	if !ok || todo.UserID != userID {
		return nil, store.ErrConditionFailed
	}
	todo.Status = models.StatusCompleted
	todo.UpdatedAt = models.FormatTimestamp(now)
	s.todos[id] = todo

	s.logger.Debug().
		Str("todo_id", id).
		Msg("completed todo")
	return &todo, nil
}

// DeleteByID removes a todo. Handlers never delete; tests do.
func (s *Store) DeleteByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.todos, id)
	return nil
}

// SetTodo replaces a stored todo unconditionally. Used to simulate
// concurrent writers in tests.
func (s *Store) SetTodo(todo models.Todo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.todos[todo.ID] = todo
}
