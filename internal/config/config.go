package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvConfigPath переменная окружения, переопределяющая путь к файлу конфигурации
const EnvConfigPath = "CONFIG_PATH"

var (
	ErrReadConfig    = errors.New("failed to read config")
	ErrInvalidConfig = errors.New("invalid config")
)

// Config корневая конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Slots    SlotsConfig    `toml:"slots"`
	Redis    RedisConfig    `toml:"redis"`
	Kafka    KafkaConfig    `toml:"kafka"`
}

// ServerConfig параметры HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig параметры подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// SlotsConfig параметры расчёта слотов и поиска ближайшей доступности
type SlotsConfig struct {
	GranularityMinutes int `toml:"granularity_minutes"`
	SearchDays         int `toml:"search_days"`
	DefaultSearchLimit int `toml:"default_search_limit"`
	MaxSearchLimit     int `toml:"max_search_limit"`
}

// RedisConfig кеш реестра арендаторов и rate limit публичных эндпоинтов
type RedisConfig struct {
	Enabled        bool   `toml:"enabled"`
	Addr           string `toml:"addr"`
	Password       string `toml:"password"`
	DB             int    `toml:"db"`
	TenantCacheTTL int    `toml:"tenant_cache_ttl"` // секунды
	RateLimit      int    `toml:"rate_limit"`       // запросов в окно, 0 - выключено
	RateWindow     int    `toml:"rate_window"`      // секунды

	// Подсети прокси, которым доверяется X-Forwarded-For; пусто - ключ по адресу соединения
	TrustedProxies []string `toml:"trusted_proxies"`
}

func (r RedisConfig) TenantCacheTTLDuration() time.Duration {
	return time.Duration(r.TenantCacheTTL) * time.Second
}

func (r RedisConfig) RateWindowDuration() time.Duration {
	return time.Duration(r.RateWindow) * time.Second
}

// KafkaConfig публикация событий из outbox
type KafkaConfig struct {
	Enabled      bool     `toml:"enabled"`
	Brokers      []string `toml:"brokers"`
	Topic        string   `toml:"topic"`
	PollInterval int      `toml:"poll_interval"` // секунды
	BatchSize    int      `toml:"batch_size"`
}

func (k KafkaConfig) PollIntervalDuration() time.Duration {
	return time.Duration(k.PollInterval) * time.Second
}

// Load читает конфигурацию из TOML файла
// Если задана переменная CONFIG_PATH, путь берётся из неё
func Load(path string) (*Config, error) {
	if envPath := os.Getenv(EnvConfigPath); envPath != "" {
		path = envPath
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default конфигурация со значениями по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "scheduling-service",
		},
		Slots: SlotsConfig{
			GranularityMinutes: 30,
			SearchDays:         30,
			DefaultSearchLimit: 5,
			MaxSearchLimit:     50,
		},
		Redis: RedisConfig{
			Addr:           "localhost:6379",
			TenantCacheTTL: 300,
			RateWindow:     60,
		},
		Kafka: KafkaConfig{
			Topic:        "scheduling.booking-events",
			PollInterval: 2,
			BatchSize:    100,
		},
	}
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in 1..65535", ErrInvalidConfig)
	}

	g := c.Slots.GranularityMinutes
	if g <= 0 || (24*60)%g != 0 {
		return fmt.Errorf("%w: slots.granularity_minutes must divide 1440, got %d", ErrInvalidConfig, g)
	}
	if c.Slots.SearchDays <= 0 {
		return fmt.Errorf("%w: slots.search_days must be positive", ErrInvalidConfig)
	}
	if c.Slots.DefaultSearchLimit <= 0 || c.Slots.MaxSearchLimit < c.Slots.DefaultSearchLimit {
		return fmt.Errorf("%w: slots.default_search_limit must be in 1..max_search_limit", ErrInvalidConfig)
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis.addr is required when redis is enabled", ErrInvalidConfig)
	}
	if c.Redis.RateLimit < 0 {
		return fmt.Errorf("%w: redis.rate_limit must not be negative", ErrInvalidConfig)
	}
	for _, cidr := range c.Redis.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			return fmt.Errorf("%w: redis.trusted_proxies: %q is not a CIDR", ErrInvalidConfig, cidr)
		}
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("%w: kafka.brokers is required when kafka is enabled", ErrInvalidConfig)
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("%w: kafka.topic is required when kafka is enabled", ErrInvalidConfig)
		}
	}
	if c.Kafka.BatchSize <= 0 {
		c.Kafka.BatchSize = 100
	}
	if c.Kafka.PollInterval <= 0 {
		c.Kafka.PollInterval = 2
	}

	return nil
}
