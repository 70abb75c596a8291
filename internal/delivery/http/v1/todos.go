package v1

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-todo-api/internal/handlers"
	"github.com/adanyl0v/go-todo-api/internal/responses"
)

const (
	resourceTodos        = "/todos"
	resourceCompleteTodo = "/todos/{id}/complete"
)

func (h *handlerImpl) HandleCreateTodo(c *gin.Context) {
	h.serve(c, resourceTodos, h.todos.CreateTodo)
}

func (h *handlerImpl) HandleListTodos(c *gin.Context) {
	h.serve(c, resourceTodos, h.todos.ListTodos)
}

func (h *handlerImpl) HandleCompleteTodo(c *gin.Context) {
	h.serve(c, resourceCompleteTodo, h.todos.CompleteTodo)
}

func (h *handlerImpl) HandlePreflight(c *gin.Context) {
	write(c, responses.Response{
		StatusCode: http.StatusNoContent,
		Headers:    responses.Headers(),
	})
}

func (h *handlerImpl) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandleNotFound answers unknown routes with the same body and headers
// as every other endpoint.
func (h *handlerImpl) HandleNotFound(c *gin.Context) {
	write(c, responses.NotFound(""))
}

func (h *handlerImpl) serve(
	c *gin.Context,
	resource string,
	fn func(context.Context, handlers.Request) responses.Response,
) {
	req, err := h.newRequest(c, resource)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to read request body")
		write(c, responses.InternalError("", nil))
		return
	}
	write(c, fn(c.Request.Context(), req))
}

func (h *handlerImpl) newRequest(c *gin.Context, resource string) (handlers.Request, error) {
	requestID, _ := getStringFromContext(c, requestIDCtxKey)
	req := handlers.Request{
		Method:     c.Request.Method,
		Resource:   resource,
		Authorizer: getAuthorizerFromContext(c),
		RequestID:  requestID,
	}

	if len(c.Params) > 0 {
		req.PathParameters = make(map[string]string, len(c.Params))
		for _, p := range c.Params {
			req.PathParameters[p.Key] = p.Value
		}
	}

	if c.Request.Body != nil {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return handlers.Request{}, err
		}
		if len(raw) > 0 {
			body := string(raw)
			req.Body = &body
		}
	}
	return req, nil
}
