package app

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adanyl0v/go-todo-api/internal/config"
	"github.com/adanyl0v/go-todo-api/internal/store"
	"github.com/adanyl0v/go-todo-api/internal/store/dynamostore"
	"github.com/adanyl0v/go-todo-api/internal/store/memstore"
	"github.com/adanyl0v/go-todo-api/internal/store/pgstore"
)

// The store is created once per process and shared by every request.
var (
	globalTodoStore    store.TodoStore
	globalPostgresPool *pgxpool.Pool
)

func MustConnectStore() {
	cfg := config.Global()
	logger := globalLogger.With().
		Str("store_driver", cfg.StoreDriver).
		Logger()

	switch cfg.StoreDriver {
	case config.StoreDriverDynamoDB:
		client, err := dynamostore.NewClient(context.Background(), cfg.DynamoDB)
		if err != nil {
			logger.Error().
				Err(err).
				Msg("failed to create dynamodb client")
			panic(err)
		}
		if cfg.DynamoDB.TableName == "" {
			logger.Warn().Msg("todos table name is not set")
		}
		globalTodoStore = dynamostore.New(logger, client, cfg.DynamoDB.TableName)
		logger.Info().
			Str("table", cfg.DynamoDB.TableName).
			Str("region", cfg.DynamoDB.Region).
			Msg("created dynamodb store")

	case config.StoreDriverPostgres:
		pool, err := pgstore.Connect(context.Background(), cfg.Postgres)
		if err != nil {
			logger.Error().
				Err(err).
				Msg("failed to connect to postgres")
			panic(err)
		}
		globalPostgresPool = pool

		pgStore := pgstore.New(logger, pool)
		err = pgStore.Migrate(context.Background())
		if err != nil {
			logger.Error().
				Err(err).
				Msg("failed to migrate postgres")
			panic(err)
		}
		globalTodoStore = pgStore
		logger.Info().
			Str("host", cfg.Postgres.Host).
			Int("port", cfg.Postgres.Port).
			Msg("connected to postgres")

	case config.StoreDriverMemory:
		globalTodoStore = memstore.New(logger)
		logger.Info().Msg("created in-memory store")
	}
}

func DisconnectStore() {
	if globalPostgresPool != nil {
		globalPostgresPool.Close()
		globalLogger.Info().Msg("disconnected from postgres")
	}
}
