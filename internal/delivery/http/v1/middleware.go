package v1

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader     = "X-Request-Id"
	requestIDCtxKey     = "request_id"
	authorizerCtxKey    = "authorizer"
	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer"
)

func (h *handlerImpl) HandleRequestID(c *gin.Context) {
	requestID := c.GetHeader(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(requestIDCtxKey, requestID)
	c.Header(requestIDHeader, requestID)
	c.Next()
}

// HandleGatewayAuthorizer verifies the bearer token and forwards its
// claims the same way the managed gateway does. With authentication
// disabled it forwards nothing.
func (h *handlerImpl) HandleGatewayAuthorizer(c *gin.Context) {
	if h.authorizer == nil {
		c.Next()
		return
	}

	header := c.GetHeader(authorizationHeader)
	if header == "" {
		h.logger.Error().Msg("authorization header required")
		abortUnauthorized(c)
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != bearerPrefix {
		h.logger.Error().Msg("invalid authorization header")
		abortUnauthorized(c)
		return
	}

	authorizer, err := h.authorizer.Authorize(parts[1])
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to authorize token")
		abortUnauthorized(c)
		return
	}

	c.Set(authorizerCtxKey, authorizer)
	c.Next()
}

func getStringFromContext(c *gin.Context, key string) (string, bool) {
	value, exists := c.Get(key)
	if !exists {
		return "", false
	}
	str, ok := value.(string)
	return str, ok
}

func getAuthorizerFromContext(c *gin.Context) map[string]any {
	value, exists := c.Get(authorizerCtxKey)
	if !exists {
		return nil
	}
	authorizer, _ := value.(map[string]any)
	return authorizer
}
