package main

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Env       string `env:"APP_ENV" envDefault:"local"`
	HTTPAddr  string `env:"HTTP_ADDR" envDefault:":8080"`
	GinMode   string `env:"GIN_MODE" envDefault:"debug"`
	JWTSecret string `env:"JWT_SECRET,required"`
	MailFrom  string `env:"MAIL_FROM" envDefault:"The event planning team"`

	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"15s"`

	DB     DBConfig
	Kafka  KafkaConfig
	Redis  RedisConfig
	Outbox OutboxConfig
}

type DBConfig struct {
	Host    string `env:"DB_HOST,required"`
	User    string `env:"DB_USER,required"`
	Pass    string `env:"DB_PASS,required"`
	Name    string `env:"DB_NAME,required"`
	Port    string `env:"DB_PORT,required"`
	SSLMode string `env:"DB_SSLMODE" envDefault:"disable"`
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.Host, c.User, c.Pass, c.Name, c.Port, c.SSLMode,
	)
}

// KafkaConfig selects the mail transport. Without brokers notifications are only logged.
type KafkaConfig struct {
	Brokers   []string `env:"KAFKA_BROKERS" envSeparator:","`
	MailTopic string   `env:"KAFKA_MAIL_TOPIC" envDefault:"mail.jobs"`
}

// RedisConfig enables the suggestion cache when Addr is set.
type RedisConfig struct {
	Addr string        `env:"REDIS_ADDR"`
	TTL  time.Duration `env:"SUGGESTION_CACHE_TTL" envDefault:"5m"`
}

type OutboxConfig struct {
	Interval    time.Duration `env:"OUTBOX_INTERVAL" envDefault:"2s"`
	Batch       int           `env:"OUTBOX_BATCH" envDefault:"50"`
	MaxAttempts int           `env:"OUTBOX_MAX_ATTEMPTS" envDefault:"8"`
}

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}
}

// MustLoadConfig reads the environment, loading .env first when present.
func MustLoadConfig() Config {
	LoadEnv()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	return cfg
}
