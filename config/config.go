package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string        `mapstructure:"APP_PORT"`
	Env               string        `mapstructure:"ENV"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	DatabaseURL       string        `mapstructure:"DATABASE_URL"`
	DatabaseName      string        `mapstructure:"DATABASE_NAME"`
	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	SessionTTL        time.Duration `mapstructure:"SESSION_TTL"`
	MaxRequestsPerMin int           `mapstructure:"MAX_REQUESTS_PER_MIN"`
	AllowedOrigins    []string      `mapstructure:"ALLOWED_ORIGINS"`
	PublicBaseURL     string        `mapstructure:"PUBLIC_BASE_URL"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisAuthDB   int    `mapstructure:"REDIS_AUTH_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Hosted auth, messaging and storage.
	FirebaseCredentials string `mapstructure:"FIREBASE_CREDENTIALS"`
	FirebaseProjectID   string `mapstructure:"FIREBASE_PROJECT_ID"`
	StorageBackend      string `mapstructure:"STORAGE_BACKEND"`
	StorageBucket       string `mapstructure:"STORAGE_BUCKET"`
	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`
	UploadConcurrency   int    `mapstructure:"UPLOAD_CONCURRENCY"`

	// Payments.
	StripeSecretKey      string `mapstructure:"STRIPE_SECRET_KEY"`
	StripePublishableKey string `mapstructure:"STRIPE_PUBLISHABLE_KEY"`
	StripeWebhookSecret  string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	DonationCurrency     string `mapstructure:"DONATION_CURRENCY"`
	MaxDonationMinor     int64  `mapstructure:"MAX_DONATION_MINOR"`

	// Transactional email.
	ResendAPIKey string `mapstructure:"RESEND_API_KEY"`
	MailFrom     string `mapstructure:"MAIL_FROM"`

	// Only honoured outside production.
	DemoAdminEnabled bool `mapstructure:"DEMO_ADMIN_ENABLED"`
}

var AppConfig Config

func LoadConfig() {
	// A local .env is optional; real deployments inject the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading process environment")
	}

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig.normalize()
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "memberportal")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("SESSION_TTL", "72h")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("ALLOWED_ORIGINS", "*")
	viper.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_AUTH_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)
	viper.SetDefault("FIREBASE_CREDENTIALS", "")
	viper.SetDefault("FIREBASE_PROJECT_ID", "")
	viper.SetDefault("STORAGE_BACKEND", "cloudinary")
	viper.SetDefault("STORAGE_BUCKET", "")
	viper.SetDefault("CLOUDINARY_CLOUD_NAME", "")
	viper.SetDefault("CLOUDINARY_API_KEY", "")
	viper.SetDefault("CLOUDINARY_API_SECRET", "")
	viper.SetDefault("UPLOAD_CONCURRENCY", 4)
	viper.SetDefault("STRIPE_SECRET_KEY", "")
	viper.SetDefault("STRIPE_PUBLISHABLE_KEY", "")
	viper.SetDefault("STRIPE_WEBHOOK_SECRET", "")
	viper.SetDefault("DONATION_CURRENCY", "usd")
	viper.SetDefault("MAX_DONATION_MINOR", 10_000_000)
	viper.SetDefault("RESEND_API_KEY", "")
	viper.SetDefault("MAIL_FROM", "Member Portal <no-reply@example.org>")
	viper.SetDefault("DEMO_ADMIN_ENABLED", false)
}

// normalize fills gaps viper cannot express as defaults.
func (c *Config) normalize() {
	if c.UploadConcurrency <= 0 {
		c.UploadConcurrency = 4
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = 72 * time.Hour
	}
	// ALLOWED_ORIGINS arrives as a single comma separated string from the environment.
	if len(c.AllowedOrigins) == 1 && strings.Contains(c.AllowedOrigins[0], ",") {
		c.AllowedOrigins = strings.Split(c.AllowedOrigins[0], ",")
	}
	for i := range c.AllowedOrigins {
		c.AllowedOrigins[i] = strings.TrimSpace(c.AllowedOrigins[i])
	}
	c.PublicBaseURL = strings.TrimRight(c.PublicBaseURL, "/")
	c.DonationCurrency = strings.ToLower(c.DonationCurrency)
	c.StorageBackend = strings.ToLower(strings.TrimSpace(c.StorageBackend))
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// DemoAdminAllowed reports whether the demo admin identity may be offered.
// Production builds never allow it regardless of DEMO_ADMIN_ENABLED.
func DemoAdminAllowed() bool {
	return AppConfig.DemoAdminEnabled && !IsProduction()
}
