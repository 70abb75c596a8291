package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

type Reader interface {
	Read() (*Config, error)
}

// EnvReader reads the configuration from the environment. When path is
// set, the file is read first and the environment overrides it.
type EnvReader struct {
	path string
}

func NewEnvReader() EnvReader {
	return EnvReader{path: os.Getenv("CONFIG_PATH")}
}

func NewFileReader(path string) EnvReader {
	return EnvReader{path: path}
}

func (r EnvReader) Read() (*Config, error) {
	cfg := new(Config)

	var err error
	if r.path != "" {
		err = cleanenv.ReadConfig(r.path, cfg)
	} else {
		err = cleanenv.ReadEnv(cfg)
	}
	if err != nil {
		return nil, err
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		return fmt.Errorf("unknown env: %s", c.Env)
	}

	c.StoreDriver = strings.ToLower(c.StoreDriver)
	switch c.StoreDriver {
	case StoreDriverDynamoDB, StoreDriverPostgres, StoreDriverMemory:
	default:
		return fmt.Errorf("unknown store driver: %s", c.StoreDriver)
	}

	c.Auth.MissingAuthorizerPolicy = strings.ToLower(c.Auth.MissingAuthorizerPolicy)
	switch c.Auth.MissingAuthorizerPolicy {
	case MissingAuthorizerReject, MissingAuthorizerAnonymous:
	default:
		return fmt.Errorf("unknown missing authorizer policy: %s", c.Auth.MissingAuthorizerPolicy)
	}
	return nil
}
