// Package lambda adapts the handlers to API Gateway proxy events.
package lambda

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/adanyl0v/go-todo-api/internal/handlers"
	"github.com/adanyl0v/go-todo-api/internal/responses"
)

const (
	HandlerCreate   = "create"
	HandlerList     = "list"
	HandlerComplete = "complete"
)

const (
	resourceTodos        = "/todos"
	resourceCompleteTodo = "/todos/{id}/complete"
)

type HandlerFunc func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// NewHandler returns the function a deployment runs. name selects one of
// the three endpoints; an empty name routes every endpoint by method and
// resource from a single function.
func NewHandler(h handlers.Handler, name string) (HandlerFunc, error) {
	switch name {
	case HandlerCreate:
		return Adapt(h.CreateTodo), nil
	case HandlerList:
		return Adapt(h.ListTodos), nil
	case HandlerComplete:
		return Adapt(h.CompleteTodo), nil
	case "":
		return Adapt(route(h)), nil
	default:
		return nil, fmt.Errorf("unknown lambda handler: %s", name)
	}
}

// Adapt converts a transport-neutral handler into a Lambda handler.
// It never returns an error: failures are answered in the body.
func Adapt(fn func(context.Context, handlers.Request) responses.Response) HandlerFunc {
	return func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		req, err := toRequest(event)
		if err != nil {
			return toProxyResponse(responses.ValidationError("Invalid JSON in request body", nil)), nil
		}
		return toProxyResponse(fn(ctx, req)), nil
	}
}

func route(h handlers.Handler) func(context.Context, handlers.Request) responses.Response {
	return func(ctx context.Context, req handlers.Request) responses.Response {
		method, resource := req.Method, req.Resource
		switch {
		case method == http.MethodOptions:
			return responses.Response{
				StatusCode: http.StatusNoContent,
				Headers:    responses.Headers(),
			}
		case method == http.MethodPost && resource == resourceTodos:
			return h.CreateTodo(ctx, req)
		case method == http.MethodGet && resource == resourceTodos:
			return h.ListTodos(ctx, req)
		case method == http.MethodPut && resource == resourceCompleteTodo:
			return h.CompleteTodo(ctx, req)
		default:
			return responses.NotFound("")
		}
	}
}

var ErrInvalidBase64Body = errors.New("request body is not valid base64")

func toRequest(event events.APIGatewayProxyRequest) (handlers.Request, error) {
	var body *string
	if event.Body != "" {
		raw := event.Body
		if event.IsBase64Encoded {
			decoded, err := base64.StdEncoding.DecodeString(raw)
			if err != nil {
				return handlers.Request{}, errors.Join(ErrInvalidBase64Body, err)
			}
			raw = string(decoded)
		}
		body = &raw
	}

	return handlers.Request{
		Method:         event.HTTPMethod,
		Resource:       event.Resource,
		Body:           body,
		PathParameters: event.PathParameters,
		Authorizer:     event.RequestContext.Authorizer,
		RequestID:      event.RequestContext.RequestID,
	}, nil
}

func toProxyResponse(resp responses.Response) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
	}
}
