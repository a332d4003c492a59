package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DB       DBConfig
	Redis    RedisConfig
	Telegram TelegramConfig
	Payments PaymentsConfig
	Sessions SessionConfig
	Geocoder GeocoderConfig
	HTTPPort string
	Workers  int
	// CatalogFile switches commerce to the in-memory YAML catalog.
	CatalogFile string
	AutoMigrate bool
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type TelegramConfig struct {
	Token   string
	AdminID int64 // operator chat for configuration alerts
}

type PaymentsConfig struct {
	ProviderToken string
	Currency      string
}

const (
	SessionStoreRedis    = "redis"
	SessionStorePostgres = "postgres"
	SessionStoreMemory   = "memory"
)

type SessionConfig struct {
	Store string
	TTL   time.Duration
}

type GeocoderConfig struct {
	YandexKey string
	BaseURL   string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	ttlHours, err := strconv.Atoi(getEnv("SESSION_TTL_HOURS", "720"))
	if err != nil || ttlHours <= 0 {
		ttlHours = 720
	}
	workers, err := strconv.Atoi(getEnv("WORKERS", "8"))
	if err != nil || workers <= 0 {
		workers = 8
	}
	adminID, _ := strconv.ParseInt(getEnv("ADMIN_ID", "0"), 10, 64)

	redisAddr := getEnv("REDIS_ADDR", "")
	defaultStore := SessionStorePostgres
	if redisAddr != "" {
		defaultStore = SessionStoreRedis
	}
	autoMigrate := strings.TrimSpace(getEnv("AUTO_MIGRATE", ""))

	return &Config{
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     port,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "pizza"),
		},
		Redis: RedisConfig{
			Addr:     redisAddr,
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Telegram: TelegramConfig{
			Token:   getEnv("TOKEN", ""),
			AdminID: adminID,
		},
		Payments: PaymentsConfig{
			ProviderToken: getEnv("PAYMENT_PROVIDER_TOKEN", ""),
			Currency:      getEnv("PAYMENT_CURRENCY", "RUB"),
		},
		Sessions: SessionConfig{
			Store: strings.ToLower(getEnv("SESSION_STORE", defaultStore)),
			TTL:   time.Duration(ttlHours) * time.Hour,
		},
		Geocoder: GeocoderConfig{
			YandexKey: getEnv("YANDEX_GEOCODER_KEY", ""),
			BaseURL:   getEnv("YANDEX_GEOCODER_URL", ""),
		},
		HTTPPort:    getEnv("HTTP_PORT", ""),
		Workers:     workers,
		CatalogFile: getEnv("CATALOG_FILE", ""),
		AutoMigrate: autoMigrate == "1" || strings.EqualFold(autoMigrate, "true"),
	}, nil
}

// UsesPostgres reports whether anything in the configuration needs the database.
func (c *Config) UsesPostgres() bool {
	return c.CatalogFile == "" || c.Sessions.Store == SessionStorePostgres
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
