package app

import (
	"github.com/adanyl0v/go-todo-api/internal/auth"
	"github.com/adanyl0v/go-todo-api/internal/config"
	"github.com/adanyl0v/go-todo-api/internal/handlers"
)

func newTodoHandler() handlers.Handler {
	cfg := config.Global()
	extractor := auth.NewExtractor(
		globalLogger.With().Str("component", "auth").Logger(),
		cfg.Auth.MissingAuthorizerPolicy,
	)
	return handlers.New(globalLogger, globalTodoStore, extractor)
}
