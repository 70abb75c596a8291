package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-todo-api/internal/config"
	"github.com/adanyl0v/go-todo-api/internal/delivery/http/v1"
	"github.com/adanyl0v/go-todo-api/internal/gateway"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	registerRoutes(router)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func registerRoutes(router *gin.Engine) {
	v1Handler := v1.New(
		globalLogger.With().Str("component", "http").Logger(),
		newTodoHandler(),
		newGatewayAuthorizer(),
	)
	v1.RegisterRoutes(router, v1Handler)
}

// newGatewayAuthorizer returns nil when no signing key is configured,
// which leaves the API unauthenticated.
func newGatewayAuthorizer() gateway.Authorizer {
	gatewayCfg := config.Global().Gateway
	if gatewayCfg.JWTSigningKey == "" {
		globalLogger.Warn().Msg("gateway authorizer disabled, no signing key set")
		return nil
	}
	return gateway.NewAuthorizer(
		gatewayCfg.JWTIssuer,
		[]byte(gatewayCfg.JWTSigningKey),
		gatewayCfg.TokenTTL,
	)
}

// MustNewGatewayAuthorizer is newGatewayAuthorizer for callers that
// cannot work without one.
func MustNewGatewayAuthorizer() gateway.Authorizer {
	authorizer := newGatewayAuthorizer()
	if authorizer == nil {
		err := errors.New("GATEWAY_JWT_SIGNING_KEY is not set")
		globalLogger.Error().
			Err(err).
			Msg("failed to create gateway authorizer")
		panic(err)
	}
	return authorizer
}
