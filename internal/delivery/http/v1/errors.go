package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-todo-api/internal/responses"
)

// abortUnauthorized answers the way the managed gateway does when its
// authorizer rejects a token.
func abortUnauthorized(c *gin.Context) {
	for k, v := range responses.Headers() {
		c.Header(k, v)
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": http.StatusText(http.StatusUnauthorized)})
}

func write(c *gin.Context, resp responses.Response) {
	for k, v := range resp.Headers {
		c.Header(k, v)
	}
	if resp.Body == "" {
		c.Status(resp.StatusCode)
		return
	}
	c.Data(resp.StatusCode, resp.Headers["Content-Type"], []byte(resp.Body))
}
