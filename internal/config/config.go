package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NewRelic NewRelicConfig
	Pricing  PricingConfig
	Routing  RoutingConfig
	Stripe   StripeConfig
	Mail     MailConfig
	Auth     AuthConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// PricingConfig holds the fare policy. Values are explicit so rate
// changes stay testable instead of living in package globals.
type PricingConfig struct {
	TimeZone      string
	PerKmRate     float64
	MinimumFare   float64
	SurchargeRate float64
	DepositAmount float64
}

// RoutingConfig holds openrouteservice configuration.
type RoutingConfig struct {
	BaseURL        string
	APIKey         string
	GeocodeTimeout time.Duration
	RouteTimeout   time.Duration
}

// StripeConfig holds payment provider configuration.
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	FrontendURL   string
}

// MailConfig holds Brevo transactional mail configuration.
type MailConfig struct {
	BrevoAPIKey string
	SenderName  string
	SenderEmail string
	AdminEmail  string
}

// AuthConfig holds JWT configuration.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "driveus"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "driveus-backend"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
		Pricing: PricingConfig{
			TimeZone:      getEnv("PRICING_TIMEZONE", "Europe/Paris"),
			PerKmRate:     getFloatEnv("PRICING_PER_KM_RATE", 3),
			MinimumFare:   getFloatEnv("PRICING_MINIMUM_FARE", 25),
			SurchargeRate: getFloatEnv("PRICING_SURCHARGE_RATE", 1.2),
			DepositAmount: getFloatEnv("PRICING_DEPOSIT_AMOUNT", 10),
		},
		Routing: RoutingConfig{
			BaseURL:        getEnv("ORS_BASE_URL", "https://api.openrouteservice.org"),
			APIKey:         getEnv("OPENROUTE_API_KEY", ""),
			GeocodeTimeout: getDurationEnv("ORS_GEOCODE_TIMEOUT", 15*time.Second),
			RouteTimeout:   getDurationEnv("ORS_ROUTE_TIMEOUT", 20*time.Second),
		},
		Stripe: StripeConfig{
			SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
			FrontendURL:   getEnv("FRONTEND_URL", "http://localhost:3000"),
		},
		Mail: MailConfig{
			BrevoAPIKey: getEnv("BREVO_API_KEY", ""),
			SenderName:  getEnv("MAIL_SENDER_NAME", "DriveUs"),
			SenderEmail: getEnv("MAIL_SENDER_EMAIL", "no-reply@driveus.example"),
			AdminEmail:  getEnv("ADMIN_EMAIL", "admin@driveus.example"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  getDurationEnv("JWT_TOKEN_TTL", 7*24*time.Hour),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
