// Package pgstore implements store.TodoStore on PostgreSQL.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-api/internal/config"
	"github.com/adanyl0v/go-todo-api/internal/models"
	"github.com/adanyl0v/go-todo-api/internal/store"
)

// DB is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	logger zerolog.Logger
	db     DB
}

func New(logger zerolog.Logger, db DB) *Store {
	return &Store{
		logger: logger,
		db:     db,
	}
}

// Connect opens a pool and pings it within cfg.PingTimeout.
func Connect(ctx context.Context, cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	connURL := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Username, cfg.Password, cfg.Host,
		cfg.Port, cfg.Database, cfg.SSLMode)

	poolCfg, err := pgxpool.ParseConfig(connURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres config: %w", err)
	}
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()

	err = pool.Ping(pingCtx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return pool, nil
}

// Migrate creates the todos table if it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	const createTableQuery = `
CREATE TABLE IF NOT EXISTS todos (
    id         TEXT PRIMARY KEY,
    user_id    TEXT         NOT NULL,
    title      VARCHAR(255) NOT NULL,
    status     TEXT         NOT NULL,
    created_at TIMESTAMPTZ  NOT NULL,
    updated_at TIMESTAMPTZ  NOT NULL
)
`
	_, err := s.db.Exec(ctx, createTableQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to create todos table")
		return err
	}
	s.logger.Info().Msg("migrated todos table")
	return nil
}

func (s *Store) PutIfAbsent(ctx context.Context, todo *models.Todo) error {
	createdAt, err := models.ParseTimestamp(todo.CreatedAt)
	if err != nil {
		return fmt.Errorf("invalid created at: %w", err)
	}
	updatedAt, err := models.ParseTimestamp(todo.UpdatedAt)
	if err != nil {
		return fmt.Errorf("invalid updated at: %w", err)
	}

	const insertTodoQuery = `
INSERT INTO todos (id,
                   user_id,
                   title,
                   status,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
`
	_, err = s.db.Exec(
		ctx,
		insertTodoQuery,
		todo.ID,
		todo.UserID,
		todo.Title,
		todo.Status,
		createdAt,
		updatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			s.logger.Error().
				Str("todo_id", todo.ID).
				Msg("todo already exists")
			return store.ErrDuplicateID
		}

		s.logger.Error().
			Err(err).
			Str("todo_id", todo.ID).
			Msg("failed to insert todo")
		return err
	}
	s.logger.Debug().
		Str("todo_id", todo.ID).
		Msg("inserted todo")
	return nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*models.Todo, error) {
	const selectTodoByIDQuery = `
SELECT id,
       user_id,
       title,
       status,
       created_at,
       updated_at
FROM todos
WHERE id = $1
`
	todo, err := scanTodo(s.db.QueryRow(ctx, selectTodoByIDQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrTodoNotFound
		}

		s.logger.Error().
			Err(err).
			Str("todo_id", id).
			Msg("failed to select todo by id")
		return nil, err
	}
	s.logger.Debug().
		Str("todo_id", id).
		Msg("selected todo by id")
	return todo, nil
}

func (s *Store) ListByUserID(ctx context.Context, userID string) ([]*models.Todo, error) {
	const selectTodosByUserIDQuery = `
SELECT id,
       user_id,
       title,
       status,
       created_at,
       updated_at
FROM todos
WHERE user_id = $1
ORDER BY created_at
`
	rows, err := s.db.Query(ctx, selectTodosByUserIDQuery, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select todos by user id")
		return nil, err
	}
	defer rows.Close()

	todos := make([]*models.Todo, 0)
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan todo")
			return nil, err
		}
		todos = append(todos, todo)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(todos)).
		Str("user_id", userID).
		Msg("selected todos by user id")
	return todos, nil
}

func (s *Store) CompleteIfOwned(ctx context.Context, id, userID string, now time.Time) (*models.Todo, error) {
	const updateTodoStatusQuery = `
UPDATE todos
SET status = $1,
    updated_at = $2
WHERE id = $3 AND user_id = $4
RETURNING id, user_id, title, status, created_at, updated_at
`
	todo, err := scanTodo(s.db.QueryRow(
		ctx,
		updateTodoStatusQuery,
		models.StatusCompleted,
		now.UTC().Truncate(time.Millisecond),
		id,
		userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Str("todo_id", id).
				Str("user_id", userID).
				Msg("todo ownership condition failed")
			return nil, store.ErrConditionFailed
		}

		s.logger.Error().
			Err(err).
			Str("todo_id", id).
			Msg("failed to update todo status")
		return nil, err
	}
	s.logger.Debug().
		Str("todo_id", id).
		Msg("updated todo status")
	return todo, nil
}

// DeleteByID removes a todo. It is not reachable from any endpoint.
func (s *Store) DeleteByID(ctx context.Context, id string) error {
	const deleteTodoQuery = `
DELETE FROM todos
WHERE id = $1
`
	_, err := s.db.Exec(ctx, deleteTodoQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	return nil
}

func scanTodo(row pgx.Row) (*models.Todo, error) {
	var (
		todo      models.Todo
		createdAt time.Time
		updatedAt time.Time
	)
	err := row.Scan(
		&todo.ID,
		&todo.UserID,
		&todo.Title,
		&todo.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	todo.CreatedAt = models.FormatTimestamp(createdAt)
	todo.UpdatedAt = models.FormatTimestamp(updatedAt)
	return &todo, nil
}
