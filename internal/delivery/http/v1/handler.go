package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-api/internal/gateway"
	"github.com/adanyl0v/go-todo-api/internal/handlers"
)

type Handler interface {
	HandleRequestID(c *gin.Context)
	HandleGatewayAuthorizer(c *gin.Context)

	HandleCreateTodo(c *gin.Context)
	HandleListTodos(c *gin.Context)
	HandleCompleteTodo(c *gin.Context)
	HandlePreflight(c *gin.Context)
	HandleHealth(c *gin.Context)
	HandleNotFound(c *gin.Context)
}

type handlerImpl struct {
	logger     zerolog.Logger
	todos      handlers.Handler
	authorizer gateway.Authorizer
}

// New returns the HTTP handler. A nil authorizer disables
// authentication: requests reach the todo handlers without an
// authorizer context.
func New(
	logger zerolog.Logger,
	todoHandler handlers.Handler,
	authorizer gateway.Authorizer,
) Handler {
	return &handlerImpl{
		logger:     logger,
		todos:      todoHandler,
		authorizer: authorizer,
	}
}

func RegisterRoutes(router *gin.Engine, h Handler) {
	router.Use(h.HandleRequestID)
	router.NoRoute(h.HandleNotFound)
	router.GET("/healthz", h.HandleHealth)

	todosRouter := router.Group("/todos")
	todosRouter.OPTIONS("", h.HandlePreflight)
	todosRouter.OPTIONS("/:id/complete", h.HandlePreflight)

	todosRouter.Use(h.HandleGatewayAuthorizer)
	todosRouter.POST("", h.HandleCreateTodo)
	todosRouter.GET("", h.HandleListTodos)
	todosRouter.PUT("/:id/complete", h.HandleCompleteTodo)
}
