package config

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Jaypurnwasi/RestaurantApp/logger"
	"github.com/Jaypurnwasi/RestaurantApp/store"
	"github.com/Jaypurnwasi/RestaurantApp/store/gormstore"
	"github.com/Jaypurnwasi/RestaurantApp/store/mongostore"
)

const devJWTSecret = "restaurant_app_dev_secret"

type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
}

type Config struct {
	Port     string
	GinMode  string
	AppEnv   string
	LogLevel string
	LogFmt   string
	LogOut   string

	JWTSecret string
	TokenTTL  time.Duration

	DBDriver          string // sqlite, postgres, mysql or mongo
	DatabaseURL       string
	MongoURL          string
	MongoDB           string
	MongoTransactions bool

	CORSOrigins []string

	SMTP           SMTP
	OTPTTL         time.Duration
	OTPVerifiedTTL time.Duration
}

func (c Config) Production() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, errors.Wrapf(err, "%s", key)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load reads .env when present, then the process environment
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		GinMode:     os.Getenv("GIN_MODE"),
		AppEnv:      getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFmt:      getEnv("LOG_FORMAT", "text"),
		LogOut:      getEnv("LOG_OUTPUT", "stdout"),
		JWTSecret:   getEnv("JWT_SECRET", getEnv("KEY", devJWTSecret)),
		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DatabaseURL: getEnv("DATABASE_URL", "restaurant.db"),
		MongoURL:    getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:     getEnv("MONGO_DB", "restaurant"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:4200")),
		SMTP: SMTP{
			Host:     os.Getenv("SMTP_HOST"),
			Username: os.Getenv("EMAIL_USER"),
			Password: os.Getenv("EMAIL_PASS"),
		},
	}

	var err error
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", 7*24*time.Hour); err != nil {
		return cfg, err
	}
	if cfg.OTPTTL, err = getDuration("OTP_TTL", 2*time.Minute); err != nil {
		return cfg, err
	}
	if cfg.OTPVerifiedTTL, err = getDuration("OTP_VERIFIED_TTL", 5*time.Minute); err != nil {
		return cfg, err
	}
	if cfg.MongoTransactions, err = strconv.ParseBool(getEnv("MONGO_TRANSACTIONS", "false")); err != nil {
		return cfg, errors.Wrap(err, "MONGO_TRANSACTIONS")
	}
	if cfg.SMTP.Port, err = strconv.Atoi(getEnv("SMTP_PORT", "587")); err != nil {
		return cfg, errors.Wrap(err, "SMTP_PORT")
	}

	switch cfg.DBDriver {
	case "sqlite", "postgres", "mysql", "mongo":
	default:
		return cfg, errors.Errorf("DB_DRIVER must be sqlite, postgres, mysql or mongo, got %q", cfg.DBDriver)
	}
	if cfg.Production() && cfg.JWTSecret == devJWTSecret {
		return cfg, errors.New("JWT_SECRET must be set in production")
	}
	return cfg, nil
}

func (c Config) Logger() logger.Config {
	return logger.Config{Level: c.LogLevel, Format: c.LogFmt, Output: c.LogOut, Environment: c.AppEnv}
}

// OpenStore connects to the configured backend and prepares its schema or indexes
func OpenStore(ctx context.Context, cfg Config, log *logger.Logger) (store.Store, error) {
	if cfg.DBDriver == "mongo" {
		s, err := mongostore.Open(ctx, cfg.MongoURL, cfg.MongoDB, cfg.MongoTransactions)
		if err != nil {
			return nil, err
		}
		log.Info("database connected", "driver", "mongo", "database", cfg.MongoDB, "transactions", cfg.MongoTransactions)
		return s, nil
	}

	level := gormlogger.Warn
	if strings.EqualFold(cfg.LogLevel, "debug") {
		level = gormlogger.Info
	}
	s, err := gormstore.Open(cfg.DBDriver, cfg.DatabaseURL, level)
	if err != nil {
		return nil, err
	}
	log.Info("database connected and migrated", "driver", cfg.DBDriver)
	return s, nil
}
