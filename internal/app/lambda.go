package app

import (
	awslambda "github.com/aws/aws-lambda-go/lambda"

	"github.com/adanyl0v/go-todo-api/internal/config"
	"github.com/adanyl0v/go-todo-api/internal/delivery/lambda"
)

func MustStartLambda() {
	name := config.Global().Lambda.Handler
	handler, err := lambda.NewHandler(newTodoHandler(), name)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("handler", name).
			Msg("failed to create lambda handler")
		panic(err)
	}

	globalLogger.Info().
		Str("handler", name).
		Msg("starting lambda handler")
	awslambda.Start(handler)
}
