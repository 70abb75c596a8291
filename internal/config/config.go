package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

const (
	StoreDriverDynamoDB = "dynamodb"
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Policies applied when a request carries no authorizer context at all.
const (
	MissingAuthorizerReject    = "reject"
	MissingAuthorizerAnonymous = "anonymous"
)

var globalConfig *Config

func Global() *Config {
	return globalConfig
}

func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

type Config struct {
	Env         string `env:"ENV" env-default:"prod" yaml:"env" toml:"env"`
	StoreDriver string `env:"STORE_DRIVER" env-default:"dynamodb" yaml:"store_driver" toml:"store_driver"`
	Auth        AuthConfig
	DynamoDB    DynamoDBConfig
	Postgres    PostgresConfig
	HTTP        HTTPConfig
	Gateway     GatewayConfig
	Lambda      LambdaConfig
}

type AuthConfig struct {
	MissingAuthorizerPolicy string `env:"AUTH_MISSING_AUTHORIZER_POLICY" env-default:"reject" yaml:"missing_authorizer_policy" toml:"missing_authorizer_policy"`
}

type DynamoDBConfig struct {
	// TableName may be empty at boot. Store calls then fail with
	// store.ErrTableNameNotSet.
	TableName   string `env:"TODOS_TABLE_NAME" yaml:"table_name" toml:"table_name"`
	Region      string `env:"AWS_REGION" env-default:"eu-west-2" yaml:"region" toml:"region"`
	EndpointURL string `env:"AWS_ENDPOINT_URL" yaml:"endpoint_url" toml:"endpoint_url"`
}

type PostgresConfig struct {
	Host           string        `env:"POSTGRES_HOST" env-default:"localhost" yaml:"host" toml:"host"`
	Port           int           `env:"POSTGRES_PORT" env-default:"5432" yaml:"port" toml:"port"`
	Username       string        `env:"POSTGRES_USERNAME" yaml:"username" toml:"username"`
	Password       string        `env:"POSTGRES_PASSWORD" yaml:"password" toml:"password"`
	Database       string        `env:"POSTGRES_DATABASE" yaml:"database" toml:"database"`
	SSLMode        string        `env:"POSTGRES_SSL_MODE" env-default:"disable" yaml:"ssl_mode" toml:"ssl_mode"`
	ConnectTimeout time.Duration `env:"POSTGRES_CONNECT_TIMEOUT" env-default:"10s" yaml:"connect_timeout" toml:"connect_timeout"`
	PingTimeout    time.Duration `env:"POSTGRES_PING_TIMEOUT" env-default:"10s" yaml:"ping_timeout" toml:"ping_timeout"`
}

type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" env-default:"0.0.0.0" yaml:"host" toml:"host"`
	Port            string        `env:"HTTP_PORT" env-default:"8080" yaml:"port" toml:"port"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s" yaml:"shutdown_timeout" toml:"shutdown_timeout"`
}

// GatewayConfig drives the local stand-in for the managed API gateway
// authorizer. An empty signing key means authentication is disabled.
type GatewayConfig struct {
	JWTSigningKey string        `env:"GATEWAY_JWT_SIGNING_KEY" yaml:"jwt_signing_key" toml:"jwt_signing_key"`
	JWTIssuer     string        `env:"GATEWAY_JWT_ISSUER" env-default:"go-todo-api" yaml:"jwt_issuer" toml:"jwt_issuer"`
	TokenTTL      time.Duration `env:"GATEWAY_TOKEN_TTL" env-default:"1h" yaml:"token_ttl" toml:"token_ttl"`
}

type LambdaConfig struct {
	Handler string `env:"LAMBDA_HANDLER" yaml:"handler" toml:"handler"`
}
