package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// Enabled reports whether outgoing mail is configured.
func (m MailConfig) Enabled() bool {
	return m.Host != "" && m.Password != ""
}

type Config struct {
	Port            string
	DatabaseURL     string
	SecretKey       string
	TokenTTL        time.Duration
	Location        *time.Location
	FrontendURLs    []string
	BaseURL         string
	Mail            MailConfig
	MetricsUser     string
	MetricsPass     string
	LogLevel        string
	DBMaxConns      int32
	DBMinConns      int32
	AvatarBaseURL   string
	AvatarCacheSize int
}

// LoadEnv loads a .env file when present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		Logger.Warn("Error loading .env file, will use environment variables instead: ", err)
	}
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8000"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SecretKey:     os.Getenv("SECRET_KEY"),
		BaseURL:       getEnv("BASE_URL", "http://localhost:5173"),
		MetricsUser:   os.Getenv("METRICS_USER"),
		MetricsPass:   os.Getenv("METRICS_PASS"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		AvatarBaseURL: getEnv("AVATAR_BASE_URL", "https://api.dicebear.com/7.x"),
		Mail: MailConfig{
			Host:     getEnv("MAIL_SERVER", "smtp.qq.com"),
			Username: os.Getenv("MAIL_USERNAME"),
			Password: os.Getenv("MAIL_PASSWORD"),
			From:     os.Getenv("MAIL_FROM"),
			FromName: getEnv("MAIL_FROM_NAME", "Study Tracker"),
		},
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("SECRET_KEY environment variable is required")
	}
	if cfg.Mail.From == "" {
		cfg.Mail.From = cfg.Mail.Username
	}

	ttl, err := getInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)
	if err != nil {
		return nil, err
	}
	cfg.TokenTTL = time.Duration(ttl) * time.Minute

	if cfg.Mail.Port, err = getInt("MAIL_PORT", 465); err != nil {
		return nil, err
	}
	if cfg.AvatarCacheSize, err = getInt("AVATAR_CACHE_SIZE", 512); err != nil {
		return nil, err
	}

	maxConns, err := getInt("DB_MAX_CONNS", 25)
	if err != nil {
		return nil, err
	}
	minConns, err := getInt("DB_MIN_CONNS", 5)
	if err != nil {
		return nil, err
	}
	cfg.DBMaxConns, cfg.DBMinConns = int32(maxConns), int32(minConns)

	tz := getEnv("TIMEZONE", "Asia/Shanghai")
	if cfg.Location, err = time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
	}

	for _, origin := range strings.Split(getEnv("FRONTEND_URL", "http://localhost:5173"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.FrontendURLs = append(cfg.FrontendURLs, origin)
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}
