package handlers

import (
	"errors"
	"reflect"
	"unicode"

	"github.com/adanyl0v/go-todo-api/internal/auth"
	"github.com/adanyl0v/go-todo-api/internal/responses"
)

const (
	msgAuthenticationFailed = "Authentication failed"
	msgTodoNotFound         = "Todo not found"
)

func authFailed(authErr *auth.AuthError) responses.Response {
	return responses.ValidationError(msgAuthenticationFailed, authErr)
}

func internalError(message string, err error) responses.Response {
	return responses.InternalError(message, errorDetails(err))
}

// errorDetails exposes the kind and message of a store failure to the
// client, never more.
func errorDetails(err error) map[string]string {
	return map[string]string{
		"errorType": errorType(err),
		"message":   err.Error(),
	}
}

func errorType(err error) string {
	// AWS API errors.
	var coded interface{ ErrorCode() string }
	if errors.As(err, &coded) {
		return coded.ErrorCode()
	}
	// Postgres errors.
	var sqlState interface{ SQLState() string }
	if errors.As(err, &sqlState) {
		return "SQLSTATE " + sqlState.SQLState()
	}

	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := t.Name()
	if name == "" || unicode.IsLower([]rune(name)[0]) {
		return "Error"
	}
	return name
}
