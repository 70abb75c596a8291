// Package handlers implements the create, list and complete endpoints
// independently of the transport that delivers the request.
package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-api/internal/auth"
	"github.com/adanyl0v/go-todo-api/internal/responses"
	"github.com/adanyl0v/go-todo-api/internal/store"
)

// Request is the transport-neutral view of an inbound gateway request.
type Request struct {
	Method string
	// Resource is the route template, e.g. /todos/{id}/complete.
	Resource string
	// Body is nil when the request carried no body.
	Body           *string
	PathParameters map[string]string
	// Authorizer is the gateway authorizer context, nil when the
	// request did not pass through an authorizer.
	Authorizer map[string]any
	RequestID  string
}

type Handler interface {
	CreateTodo(ctx context.Context, req Request) responses.Response
	ListTodos(ctx context.Context, req Request) responses.Response
	CompleteTodo(ctx context.Context, req Request) responses.Response
}

type handlerImpl struct {
	logger   zerolog.Logger
	todos    store.TodoStore
	identity auth.Extractor
	now      func() time.Time
	newID    func() (string, error)
}

type Option func(*handlerImpl)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(h *handlerImpl) {
		h.now = now
	}
}

// WithIDGenerator replaces the UUIDv7 generator used for new todos.
func WithIDGenerator(newID func() (string, error)) Option {
	return func(h *handlerImpl) {
		h.newID = newID
	}
}

func New(
	logger zerolog.Logger,
	todoStore store.TodoStore,
	extractor auth.Extractor,
	opts ...Option,
) Handler {
	h := &handlerImpl{
		logger:   logger,
		todos:    todoStore,
		identity: extractor,
		now:      time.Now,
		newID:    newUUID,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func newUUID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func (h *handlerImpl) requestLogger(handler string, req Request) zerolog.Logger {
	return h.logger.With().
		Str("handler", handler).
		Str("request_id", req.RequestID).
		Logger()
}

// recoverInternal turns a panic into a 500 so that every request is
// answered with a structured response.
func recoverInternal(logger zerolog.Logger, resp *responses.Response) {
	r := recover()
	if r == nil {
		return
	}
	logger.Error().
		Interface("panic", r).
		Msg("recovered from panic")
	*resp = responses.InternalError("", nil)
}
