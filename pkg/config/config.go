package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix  = ""
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Kafka        KafkaConfig
	Tracing      TracingConfig
	Consumer     ConsumerConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"INVENTORY_APP_ENV" default:"dev"`
	ServiceName  string   `envconfig:"INVENTORY_SERVICE_NAME" default:"inventory-backend"`
	Port         string   `envconfig:"INVENTORY_APP_PORT" default:"8080"`
	LogLevel     string   `envconfig:"INVENTORY_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"INVENTORY_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"INVENTORY_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"INVENTORY_DB_DSN" required:"true"`
	Driver string `envconfig:"INVENTORY_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"INVENTORY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"INVENTORY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"INVENTORY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"INVENTORY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"INVENTORY_REDIS_URL"`
	Address      string        `envconfig:"INVENTORY_REDIS_ADDR"`
	Password     string        `envconfig:"INVENTORY_REDIS_PASSWORD"`
	DB           int           `envconfig:"INVENTORY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"INVENTORY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"INVENTORY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"INVENTORY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"INVENTORY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"INVENTORY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type KafkaConfig struct {
	Brokers      []string      `envconfig:"INVENTORY_KAFKA_BROKERS" default:"localhost:9092"`
	ClientID     string        `envconfig:"INVENTORY_KAFKA_CLIENT_ID" default:"inventory-backend"`
	GroupID      string        `envconfig:"INVENTORY_KAFKA_GROUP_ID" default:"inventory-group"`
	ReserveTopic string        `envconfig:"INVENTORY_KAFKA_RESERVE_TOPIC" default:"inventory.reserve"`
	ReleaseTopic string        `envconfig:"INVENTORY_KAFKA_RELEASE_TOPIC" default:"inventory.release"`
	LogTopic     string        `envconfig:"INVENTORY_KAFKA_LOG_TOPIC" default:"inventory.log"`
	DialTimeout  time.Duration `envconfig:"INVENTORY_KAFKA_DIAL_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `envconfig:"INVENTORY_KAFKA_WRITE_TIMEOUT" default:"10s"`
}

// Topics returns the consumed topics in registration order.
func (k KafkaConfig) Topics() []string {
	return []string{k.ReserveTopic, k.ReleaseTopic}
}

type TracingConfig struct {
	Enabled        bool   `envconfig:"INVENTORY_TRACING_ENABLED" default:"false"`
	JaegerEndpoint string `envconfig:"INVENTORY_TRACING_JAEGER_ENDPOINT" default:"http://localhost:14268/api/traces"`
}

type ConsumerConfig struct {
	DedupeTTL      time.Duration `envconfig:"INVENTORY_CONSUMER_DEDUPE_TTL" default:"24h"`
	FetchBackoff   time.Duration `envconfig:"INVENTORY_CONSUMER_FETCH_BACKOFF" default:"1s"`
	HandlerTimeout time.Duration `envconfig:"INVENTORY_CONSUMER_HANDLER_TIMEOUT" default:"30s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"INVENTORY_FEATURE_AUTO_MIGRATE" default:"false"`
	SeedDevData bool `envconfig:"INVENTORY_FEATURE_SEED_DEV_DATA" default:"false"`
}
