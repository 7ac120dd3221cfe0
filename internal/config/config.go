// Package config предоставляет структуры и функцию для парсинга и загрузки конфига.
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек приложения.
type Config struct {
	Env                     string `yaml:"env"`
	StorageConnectionString string `yaml:"storage_connection_string"`
	BaseURL                 string `yaml:"base_url"`
	RedisConnection         `yaml:"redis_connection"`
	RabbitMQ                `yaml:"rabbitmq"`
	SMTP                    `yaml:"smtp"`
	HTTPServer              `yaml:"http_server"`
	Session                 `yaml:"session"`
	Metrics                 `yaml:"metrics"`
	RateLimits              `yaml:"rate_limits"`
	Membership              `yaml:"membership"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// RedisConnection структура для настройки подключения к redis.
type RedisConnection struct {
	Addr        string        `yaml:"addr"`
	Password    string        `yaml:"password"`
	User        string        `yaml:"user"`
	DB          int           `yaml:"db"`
	MaxRetries  int           `yaml:"max_retries"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
	Timeout     time.Duration `yaml:"timeout"`
}

// RabbitMQ структура для настройки подключения к RabbitMQ.
type RabbitMQ struct {
	RabbitMQURL        string        `yaml:"url"`
	RabbitMQMaxRetries int           `yaml:"max_retries"`
	RabbitMQRetryDelay time.Duration `yaml:"retry_delay"`
}

// SMTP структура для настройки SMTP транспорта рассылки писем.
type SMTP struct {
	SMTPHost string `yaml:"host"`
	SMTPPort string `yaml:"port"`
	SMTPUser string `yaml:"user"`
	SMTPPass string `yaml:"pass"`
}

// Session структура для работы с сессионной cookie.
type Session struct {
	SessionSecretKey string        `yaml:"secret_key"`
	SessionTTL       time.Duration `yaml:"ttl" env-default:"24h"`
	CookieName       string        `yaml:"cookie_name" env-default:"session"`
	CookieSecure     bool          `yaml:"cookie_secure"`
}

// Metrics структура для настройки пайплайна метрик сообщества.
type Metrics struct {
	CacheTTL time.Duration `yaml:"cache_ttl" env-default:"2m"`
}

// RateLimits структура для настройки ограничения частоты запросов.
type RateLimits struct {
	Window       time.Duration `yaml:"window" env-default:"15m"`
	GeneralLimit int           `yaml:"general_limit" env-default:"100"`
	AuthLimit    int           `yaml:"auth_limit" env-default:"5"`
	MetricsLimit int           `yaml:"metrics_limit" env-default:"200"`
}

// Membership структура с параметрами членского взноса.
type Membership struct {
	FeeCents int `yaml:"fee_cents" env-default:"1800"`
}

// MustLoad функция для загрузки конфига из файла, указанного в CONFIG_PATH.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
