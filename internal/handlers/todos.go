package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/adanyl0v/go-todo-api/internal/models"
	"github.com/adanyl0v/go-todo-api/internal/responses"
	"github.com/adanyl0v/go-todo-api/internal/store"
	"github.com/adanyl0v/go-todo-api/internal/validation"
)

func (h *handlerImpl) CreateTodo(ctx context.Context, req Request) (resp responses.Response) {
	logger := h.requestLogger("create_todo", req)
	defer recoverInternal(logger, &resp)

	identity, authErr := h.identity.Extract(req.Authorizer)
	if authErr != nil {
		return authFailed(authErr)
	}
	logger = logger.With().Str("user_id", identity.UserID).Logger()

	body, err := validation.ParseBody(req.Body)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to parse request body")
		return responses.ValidationError("Invalid JSON in request body", nil)
	}
	if body == nil {
		logger.Error().Msg("no request body provided")
		return responses.ValidationError("Request body is required", nil)
	}

	result := validation.ValidateCreateRequest(body)
	if !result.IsValid {
		logger.Error().
			Strs("errors", result.Errors).
			Msg("invalid create request")
		return responses.ValidationError("Validation failed", map[string]any{
			"errors": result.Errors,
		})
	}

	id, err := h.newID()
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to generate todo id")
		return internalError("Failed to create todo", err)
	}

	now := models.FormatTimestamp(h.now())
	todo := &models.Todo{
		ID:        id,
		UserID:    identity.UserID,
		Title:     validation.Title(body),
		Status:    models.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = h.todos.PutIfAbsent(ctx, todo)
	if err != nil {
		logger.Error().
			Err(err).
			Str("todo_id", todo.ID).
			Msg("failed to create todo")
		if errors.Is(err, store.ErrDuplicateID) {
			return responses.InternalError("Todo with this ID already exists", nil)
		}
		return internalError("Failed to create todo", err)
	}

	logger.Info().
		Str("todo_id", todo.ID).
		Msg("created todo")
	return responses.Success(todo, http.StatusCreated)
}

func (h *handlerImpl) ListTodos(ctx context.Context, req Request) (resp responses.Response) {
	logger := h.requestLogger("list_todos", req)
	defer recoverInternal(logger, &resp)

	identity, authErr := h.identity.Extract(req.Authorizer)
	if authErr != nil {
		return authFailed(authErr)
	}
	logger = logger.With().Str("user_id", identity.UserID).Logger()

	todos, err := h.todos.ListByUserID(ctx, identity.UserID)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to retrieve todos")
		return internalError("Failed to retrieve todos", err)
	}
	if todos == nil {
		todos = []*models.Todo{}
	}

	logger.Info().
		Int("count", len(todos)).
		Msg("fetched todos")
	return responses.Success(todos, http.StatusOK)
}

func (h *handlerImpl) CompleteTodo(ctx context.Context, req Request) (resp responses.Response) {
	logger := h.requestLogger("complete_todo", req)
	defer recoverInternal(logger, &resp)

	identity, authErr := h.identity.Extract(req.Authorizer)
	if authErr != nil {
		return authFailed(authErr)
	}
	logger = logger.With().Str("user_id", identity.UserID).Logger()

	var rawID any
	if id, ok := req.PathParameters["id"]; ok {
		rawID = id
	}
	result := validation.ValidateID(rawID)
	if !result.IsValid {
		logger.Error().
			Strs("errors", result.Errors).
			Msg("invalid todo id")
		return responses.ValidationError("Invalid todo ID", map[string]any{
			"errors": result.Errors,
		})
	}
	todoID := rawID.(string)
	logger = logger.With().Str("todo_id", todoID).Logger()

	todo, err := h.todos.GetByID(ctx, todoID)
	if err != nil {
		if errors.Is(err, store.ErrTodoNotFound) {
			logger.Warn().Msg("todo not found")
			return responses.NotFound(msgTodoNotFound)
		}

		logger.Error().
			Err(err).
			Msg("failed to get todo")
		return internalError("Failed to update todo", err)
	}

	// Foreign todos answer exactly like missing ones.
	if todo.UserID != identity.UserID {
		logger.Warn().Msg("todo owned by another user")
		return responses.NotFound(msgTodoNotFound)
	}

	updated, err := h.todos.CompleteIfOwned(ctx, todoID, identity.UserID, h.completionTime(todo))
	if err != nil {
		if errors.Is(err, store.ErrConditionFailed) {
			logger.Warn().Msg("todo ownership changed before update")
			return responses.NotFound(msgTodoNotFound)
		}

		logger.Error().
			Err(err).
			Msg("failed to update todo")
		return internalError("Failed to update todo", err)
	}

	logger.Info().Msg("completed todo")
	return responses.Success(updated, http.StatusOK)
}

// completionTime returns the clock reading, moved past the stored
// update time when the clock has not advanced beyond it.
func (h *handlerImpl) completionTime(todo *models.Todo) time.Time {
	now := h.now().UTC().Truncate(time.Millisecond)
	prev, err := models.ParseTimestamp(todo.UpdatedAt)
	if err == nil && !now.After(prev) {
		now = prev.Add(time.Millisecond)
	}
	return now
}
