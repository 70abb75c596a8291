// Package responses builds the uniformly shaped JSON payloads every
// endpoint returns.
package responses

import (
	"encoding/json"
	"maps"
	"net/http"
)

const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeInternalError   = "INTERNAL_ERROR"
)

var fixedHeaders = map[string]string{
	"Content-Type":                 "application/json",
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token",
	"Access-Control-Allow-Methods": "GET,POST,PUT,DELETE,OPTIONS",
}

// fallbackBody is returned when a payload cannot be encoded.
const fallbackBody = `{"error":{"message":"Internal server error","code":"INTERNAL_ERROR"}}`

type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       string
}

type successBody struct {
	Data any `json:"data"`
}

type errorBody struct {
	Error errorPayload `json:"error"`
}

type errorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

// Headers returns a copy of the headers attached to every response.
func Headers() map[string]string {
	return maps.Clone(fixedHeaders)
}

func Success(data any, statusCode int) Response {
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	return build(statusCode, successBody{Data: data})
}

func Error(message string, statusCode int, code string, details any) Response {
	if statusCode == 0 {
		statusCode = http.StatusInternalServerError
	}
	if code == "" {
		code = CodeInternalError
	}
	return build(statusCode, errorBody{
		Error: errorPayload{
			Message: message,
			Code:    code,
			Details: details,
		},
	})
}

func ValidationError(message string, details any) Response {
	return Error(message, http.StatusBadRequest, CodeValidationError, details)
}

func NotFound(message string) Response {
	if message == "" {
		message = "Resource not found"
	}
	return Error(message, http.StatusNotFound, CodeNotFound, nil)
}

func InternalError(message string, details any) Response {
	if message == "" {
		message = "Internal server error"
	}
	return Error(message, http.StatusInternalServerError, CodeInternalError, details)
}

func build(statusCode int, payload any) Response {
	body, err := json.Marshal(payload)
	if err != nil {
		return Response{
			StatusCode: http.StatusInternalServerError,
			Headers:    Headers(),
			Body:       fallbackBody,
		}
	}
	return Response{
		StatusCode: statusCode,
		Headers:    Headers(),
		Body:       string(body),
	}
}
