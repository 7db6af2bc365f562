package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"

	VerbosityProduction = "production"
	VerbosityDebug      = "debug"
)

type AppConfig struct {
	Port             string        `mapstructure:"PORT"`
	StoreDriver      string        `mapstructure:"STORE_DRIVER"`
	PostgresUsername string        `mapstructure:"POSTGRES_USERNAME"`
	PostgresPassword string        `mapstructure:"POSTGRES_PASSWORD"`
	PostgresDatabase string        `mapstructure:"POSTGRES_DATABASE"`
	PostgresSSLMode  string        `mapstructure:"POSTGRES_SSLMODE"`
	PostgresHost     string        `mapstructure:"POSTGRES_HOST"`
	PostgresPort     string        `mapstructure:"POSTGRES_PORT"`
	RabbitMQURL      string        `mapstructure:"RABBITMQ_URL"`
	ServiceName      string        `mapstructure:"SERVICE_NAME"`
	AWSEndpoint      string        `mapstructure:"AWS_ENDPOINT"`
	AWSBucket        string        `mapstructure:"AWS_BUCKET"`
	AWSDefaultRegion string        `mapstructure:"AWS_DEFAULT_REGION"`
	AWSAccessKey     string        `mapstructure:"AWS_ACCESS_KEY"`
	AWSSecretKey     string        `mapstructure:"AWS_SECRET_KEY"`
	ArchivePrefix    string        `mapstructure:"ARCHIVE_PREFIX"`
	GRPCPort         string        `mapstructure:"GRPC_PORT"`
	LogLevel         string        `mapstructure:"LOG_LEVEL"`
	LogPath          string        `mapstructure:"LOG_PATH"`
	ErrorVerbosity   string        `mapstructure:"ERROR_VERBOSITY"`
	CORSAllowOrigin  string        `mapstructure:"CORS_ALLOW_ORIGIN"`
	APIURL           string        `mapstructure:"API_URL"`
	APITimeout       time.Duration `mapstructure:"API_TIMEOUT"`
}

var envKeys = []string{
	"PORT",
	"STORE_DRIVER",
	"POSTGRES_USERNAME",
	"POSTGRES_PASSWORD",
	"POSTGRES_DATABASE",
	"POSTGRES_SSLMODE",
	"POSTGRES_HOST",
	"POSTGRES_PORT",
	"RABBITMQ_URL",
	"SERVICE_NAME",
	"AWS_ENDPOINT",
	"AWS_BUCKET",
	"AWS_DEFAULT_REGION",
	"AWS_ACCESS_KEY",
	"AWS_SECRET_KEY",
	"ARCHIVE_PREFIX",
	"GRPC_PORT",
	"LOG_LEVEL",
	"LOG_PATH",
	"ERROR_VERBOSITY",
	"CORS_ALLOW_ORIGIN",
	"API_URL",
	"API_TIMEOUT",
}

// Read loads the configuration from an optional .env file in the working
// directory, overlaid by the process environment. It panics when the
// result cannot be decoded or fails validation.
func Read() *AppConfig {
	appConfig, err := Load(".env")
	if err != nil {
		panic(fmt.Errorf("fatal error reading config: %w", err))
	}

	return appConfig
}

func Load(envFile string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil && !isMissingConfig(err) {
		return nil, fmt.Errorf("reading %s: %w", envFile, err)
	}

	v.AutomaticEnv()

	bindEnvVariables(v)
	setDefaults(v)

	var appConfig AppConfig
	if err := v.Unmarshal(&appConfig); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := appConfig.Validate(); err != nil {
		return nil, err
	}

	return &appConfig, nil
}

func (c *AppConfig) Validate() error {
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.PostgresDatabase == "" {
			return errors.New("POSTGRES_DATABASE is required for the postgres store driver")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.ErrorVerbosity {
	case VerbosityProduction, VerbosityDebug:
	default:
		return fmt.Errorf("unknown ERROR_VERBOSITY %q", c.ErrorVerbosity)
	}

	if c.APITimeout < 0 {
		return errors.New("API_TIMEOUT must not be negative")
	}

	return nil
}

// DebugErrors reports whether raw store errors may be returned to clients.
func (c *AppConfig) DebugErrors() bool {
	return c.ErrorVerbosity == VerbosityDebug
}

func (c *AppConfig) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUsername, c.PostgresPassword, c.PostgresDatabase, c.PostgresSSLMode,
	)
}

// isMissingConfig reports whether the optional .env file is simply absent.
func isMissingConfig(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

func bindEnvVariables(v *viper.Viper) {
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	v.SetDefault("POSTGRES_SSLMODE", "disable")
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_DATABASE", "itemstore")
	v.SetDefault("SERVICE_NAME", "itemstore")
	v.SetDefault("ARCHIVE_PREFIX", "item-events")
	v.SetDefault("GRPC_PORT", "9090")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ERROR_VERBOSITY", VerbosityProduction)
	v.SetDefault("CORS_ALLOW_ORIGIN", "*")
	v.SetDefault("API_URL", "http://localhost:8080/api")
	v.SetDefault("API_TIMEOUT", "10s")
}
