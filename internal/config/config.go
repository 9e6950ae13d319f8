package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DeliveryFeeMode selects which fee provider the checkout flow uses.
type DeliveryFeeMode string

const (
	DeliveryFeeFlat     DeliveryFeeMode = "flat"
	DeliveryFeeDistance DeliveryFeeMode = "distance"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	AppPort    string
	AppEnv     string
	AppBaseURL string

	JWTSecret string

	PaystackSecretKey     string
	PaystackWebhookSecret string

	DeliveryFeeMode DeliveryFeeMode
	DeliveryFee     float64
	BaseDeliveryFee float64
	PerKmFee        float64

	ResendAPIKey string
	EmailFrom    string
	OwnerEmail   string

	StaleOrderAge        time.Duration
	StaleOrderSweepEvery time.Duration
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     getEnv("DB_PORT", "5432"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		AppPort:    getEnv("APP_PORT", "8080"),
		AppEnv:     os.Getenv("APP_ENV"),
		AppBaseURL: getEnv("APP_BASE_URL", "http://localhost:8080"),

		JWTSecret: os.Getenv("SECRET_KEY"),

		PaystackSecretKey:     os.Getenv("PAYSTACK_SECRET_KEY"),
		PaystackWebhookSecret: os.Getenv("PAYSTACK_WEBHOOK_SECRET"),

		DeliveryFeeMode: DeliveryFeeMode(getEnv("DELIVERY_FEE_MODE", string(DeliveryFeeFlat))),
		DeliveryFee:     getEnvFloat("DELIVERY_FEE", 1500),
		BaseDeliveryFee: getEnvFloat("BASE_DELIVERY_FEE", 500),
		PerKmFee:        getEnvFloat("PER_KM_FEE", 100),

		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		EmailFrom:    getEnv("EMAIL_FROM", "onboarding@resend.dev"),
		OwnerEmail:   os.Getenv("OWNER_EMAIL"),

		StaleOrderAge:        getEnvDuration("STALE_ORDER_AGE", 30*time.Minute),
		StaleOrderSweepEvery: getEnvDuration("STALE_ORDER_SWEEP_EVERY", 5*time.Minute),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
