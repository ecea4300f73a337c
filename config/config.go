package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Port string
	Env  string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	SessionSecret string
	JWTSecret     string

	RazorpayKeyID     string
	RazorpayKeySecret string
	PaymentCurrency   string
	GatewayTimeout    time.Duration
	OrderTTL          time.Duration
	ExpiryInterval    time.Duration

	MapToken  string
	UploadDir string
	ViewsDir  string
	PublicDir string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers []string
	KafkaTopic   string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	LogDir   string
	LogLevel string
}

// LoadConfig loads configuration from .env (when present) and the environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %v", err)
	}

	var errs []string
	duration := func(key string, def time.Duration) time.Duration {
		v := os.Getenv(key)
		if v == "" {
			return def
		}
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Sprintf("%s: invalid duration %q", key, v))
			return def
		}
		return d
	}
	integer := func(key string, def int) int {
		v := os.Getenv(key)
		if v == "" {
			return def
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: invalid number %q", key, v))
			return def
		}
		return n
	}

	config := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "wanderlust"),

		SessionSecret: os.Getenv("SECRET"),
		JWTSecret:     os.Getenv("JWT_SECRET"),

		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		PaymentCurrency:   strings.ToUpper(getEnv("PAYMENT_CURRENCY", "INR")),
		GatewayTimeout:    duration("GATEWAY_TIMEOUT", 5*time.Second),
		OrderTTL:          duration("ORDER_TTL", 30*time.Minute),
		ExpiryInterval:    duration("EXPIRY_INTERVAL", time.Minute),

		MapToken:  os.Getenv("MAP_TOKEN"),
		UploadDir: getEnv("UPLOAD_DIR", "uploads"),
		ViewsDir:  getEnv("VIEWS_DIR", "templates"),
		PublicDir: getEnv("PUBLIC_DIR", "public"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       integer("REDIS_DB", 0),

		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "booking-events"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     integer("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),

		LogDir:   getEnv("LOG_DIR", "logs"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return config, nil
}

// Validate reports the settings the server cannot start without.
func (c *Config) Validate() error {
	var missing []string
	if c.SessionSecret == "" {
		missing = append(missing, "SECRET")
	}
	if c.RazorpayKeyID == "" {
		missing = append(missing, "RAZORPAY_KEY_ID")
	}
	if c.RazorpayKeySecret == "" {
		missing = append(missing, "RAZORPAY_KEY_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
