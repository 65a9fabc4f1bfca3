package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Бэкенды хранилища кэша
const (
	CacheBackendMemory   = "memory"
	CacheBackendRedis    = "redis"
	CacheBackendPostgres = "postgres"
)

// Config конфигурация сервиса.
// Порядок загрузки: значения по умолчанию, файл TOML, .env, переменные окружения.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	BarberAPI BarberAPIConfig `toml:"barber_api"`
	Cache     CacheConfig     `toml:"cache"`
	Redis     RedisConfig     `toml:"redis"`
	Database  DatabaseConfig  `toml:"database"`
	Booking   BookingConfig   `toml:"booking"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Admin     AdminConfig     `toml:"admin"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port" env:"SERVER_HTTP_PORT"`
	ReadTimeout     int `toml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout    int `toml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	IdleTimeout     int `toml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT"`
	ShutdownTimeout int `toml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
}

type LogsConfig struct {
	File  string `toml:"file" env:"LOGS_FILE"`
	Level string `toml:"level" env:"LOGS_LEVEL"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" env:"METRICS_ENABLED"`
	ServiceName string `toml:"service_name" env:"METRICS_SERVICE_NAME"`
	Path        string `toml:"path" env:"METRICS_PATH"`
}

// BarberAPIConfig удаленный API бронирования
type BarberAPIConfig struct {
	URL          string `toml:"url" env:"BARBER_API_URL"`
	Timeout      int    `toml:"timeout" env:"BARBER_API_TIMEOUT"`
	AccessToken  string `toml:"access_token" env:"BARBER_API_ACCESS_TOKEN"`
	RefreshToken string `toml:"refresh_token" env:"BARBER_API_REFRESH_TOKEN"`
}

// CacheConfig время жизни записей задается в секундах
type CacheConfig struct {
	Backend              string `toml:"backend" env:"CACHE_BACKEND"`
	CompanyConfigTTL     int    `toml:"company_config_ttl" env:"CACHE_COMPANY_CONFIG_TTL"`
	BarbersTTL           int    `toml:"barbers_ttl" env:"CACHE_BARBERS_TTL"`
	ServicesTTL          int    `toml:"services_ttl" env:"CACHE_SERVICES_TTL"`
	OccupiedTTL          int    `toml:"occupied_ttl" env:"CACHE_OCCUPIED_TTL"`
	FetchTimeout         int    `toml:"fetch_timeout_seconds" env:"CACHE_FETCH_TIMEOUT_SECONDS"`
	MemorySize           int    `toml:"memory_size" env:"CACHE_MEMORY_SIZE"`
	RetentionHours       int    `toml:"retention_hours" env:"CACHE_RETENTION_HOURS"`
	PurgeIntervalMinutes int    `toml:"purge_interval_minutes" env:"CACHE_PURGE_INTERVAL_MINUTES"`
	PreloadOnStart       bool   `toml:"preload_on_start" env:"CACHE_PRELOAD_ON_START"`
}

type RedisConfig struct {
	Addr      string `toml:"addr" env:"REDIS_ADDR"`
	Password  string `toml:"password" env:"REDIS_PASSWORD"`
	DB        int    `toml:"db" env:"REDIS_DB"`
	UseTLS    bool   `toml:"use_tls" env:"REDIS_USE_TLS"`
	Namespace string `toml:"namespace" env:"REDIS_NAMESPACE"`
}

type DatabaseConfig struct {
	Host            string `toml:"host" env:"DB_HOST"`
	Port            int    `toml:"port" env:"DB_PORT"`
	User            string `toml:"user" env:"DB_USER"`
	Password        string `toml:"password" env:"DB_PASSWORD"`
	DBName          string `toml:"dbname" env:"DB_NAME"`
	SSLMode         string `toml:"sslmode" env:"DB_SSLMODE"`
	MaxOpenConns    int    `toml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int    `toml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
}

// BookingConfig Timezone - часовой пояс барбершопа в формате IANA
type BookingConfig struct {
	Timezone string `toml:"timezone" env:"BOOKING_TIMEZONE"`
}

type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled" env:"RATE_LIMIT_ENABLED"`
	RequestsPerSecond float64 `toml:"requests_per_second" env:"RATE_LIMIT_RPS"`
	Burst             int     `toml:"burst" env:"RATE_LIMIT_BURST"`
	TrustForwardedFor bool    `toml:"trust_forwarded_for" env:"RATE_LIMIT_TRUST_FORWARDED_FOR"`
}

type AdminConfig struct {
	Token string `toml:"token" env:"ADMIN_TOKEN"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 30,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			ServiceName: "barber_booking",
			Path:        "/metrics",
		},
		BarberAPI: BarberAPIConfig{
			URL:     "http://localhost:3000",
			Timeout: 10,
		},
		Cache: CacheConfig{
			Backend:              CacheBackendMemory,
			CompanyConfigTTL:     60 * 60,
			BarbersTTL:           24 * 60 * 60,
			ServicesTTL:          24 * 60 * 60,
			OccupiedTTL:          2 * 60,
			FetchTimeout:         10,
			MemorySize:           10000,
			RetentionHours:       7 * 24,
			PurgeIntervalMinutes: 60,
			PreloadOnStart:       true,
		},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			Namespace: "barber-booking",
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Booking: BookingConfig{
			Timezone: "Local",
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 10,
			Burst:             20,
		},
	}
}

// Load загружает конфигурацию из TOML файла и переменных окружения.
// Отсутствующий файл не является ошибкой: используются значения по умолчанию.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
		}
	}

	// .env необязателен
	_ = godotenv.Load()

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseEnv, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in 1..65535, got %d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.BarberAPI.URL == "" {
		return fmt.Errorf("%w: barber_api.url is required", ErrInvalidConfig)
	}
	if c.BarberAPI.Timeout <= 0 {
		return fmt.Errorf("%w: barber_api.timeout must be positive", ErrInvalidConfig)
	}

	switch c.Cache.Backend {
	case CacheBackendMemory:
		if c.Cache.MemorySize <= 0 {
			return fmt.Errorf("%w: cache.memory_size must be positive", ErrInvalidConfig)
		}
	case CacheBackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("%w: redis.addr is required for the redis cache backend", ErrInvalidConfig)
		}
	case CacheBackendPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			return fmt.Errorf("%w: database.host and database.dbname are required for the postgres cache backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown cache.backend %q", ErrInvalidConfig, c.Cache.Backend)
	}

	for name, ttl := range map[string]int{
		"company_config_ttl": c.Cache.CompanyConfigTTL,
		"barbers_ttl":        c.Cache.BarbersTTL,
		"services_ttl":       c.Cache.ServicesTTL,
		"occupied_ttl":       c.Cache.OccupiedTTL,
	} {
		if ttl <= 0 {
			return fmt.Errorf("%w: cache.%s must be positive, got %d", ErrInvalidConfig, name, ttl)
		}
	}
	if c.Cache.FetchTimeout <= 0 {
		return fmt.Errorf("%w: cache.fetch_timeout_seconds must be positive", ErrInvalidConfig)
	}

	if _, err := c.Booking.Location(); err != nil {
		return fmt.Errorf("%w: booking.timezone: %v", ErrInvalidConfig, err)
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("%w: rate_limit requires positive requests_per_second and burst", ErrInvalidConfig)
	}

	return nil
}

// DSN строка подключения к PostgreSQL
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// Location возвращает часовой пояс барбершопа
func (b BookingConfig) Location() (*time.Location, error) {
	if b.Timezone == "" || b.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(b.Timezone)
}

// TTL переводит секунды в time.Duration
func TTL(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}
