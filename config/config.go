package config

import (
	"errors"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisAuthDB   int    `mapstructure:"REDIS_AUTH_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Firebase (identity, push and storage).
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	FirebaseBucket          string `mapstructure:"FIREBASE_BUCKET"`

	// Object storage backend: "cloudinary" or "firebase".
	StorageProvider     string `mapstructure:"STORAGE_PROVIDER"`
	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`

	StripeKey           string `mapstructure:"STRIPE_KEY"`
	StripeWebhookSecret string `mapstructure:"STRIPE_WEBHOOK_SECRET"`

	// Google Geocoding API Key.
	GoogleAPIKey string `mapstructure:"GOOGLE_API_KEY"`

	QRSigningSecret string        `mapstructure:"QR_SIGNING_SECRET"`
	QRTokenTTL      time.Duration `mapstructure:"QR_TOKEN_TTL"`

	Billing BillingConfig `mapstructure:",squash"`
	Scan    ScanConfig    `mapstructure:",squash"`
}

// BillingConfig is the lot-independent pricing policy.
type BillingConfig struct {
	DefaultCurrency  string `mapstructure:"DEFAULT_CURRENCY"`
	OvernightStart   string `mapstructure:"OVERNIGHT_START"`
	OvernightEnd     string `mapstructure:"OVERNIGHT_END"`
	OvernightTrigger string `mapstructure:"OVERNIGHT_TRIGGER"`
	OvernightMode    string `mapstructure:"OVERNIGHT_MODE"`
	Timezone         string `mapstructure:"BILLING_TIMEZONE"`
	PaymentDueHours  int    `mapstructure:"PAYMENT_DUE_HOURS"`
}

// ScanConfig controls how gate scans map to session transitions.
type ScanConfig struct {
	// RescanMode is "reject" or "checkout".
	RescanMode string        `mapstructure:"SCAN_RESCAN_MODE"`
	LockTTL    time.Duration `mapstructure:"SCAN_LOCK_TTL"`
}

var AppConfig Config

// DefaultQRSigningSecret is the development-only QR signing secret.
const DefaultQRSigningSecret = "change-me"

// Validate rejects settings that are unsafe outside development.
func (c Config) Validate() error {
	if c.Env == "production" && (c.QRSigningSecret == "" || c.QRSigningSecret == DefaultQRSigningSecret) {
		return errors.New("QR_SIGNING_SECRET must be set to a non-default value in production")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "parkwise")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("REDIS_AUTH_DB", 1)
	v.SetDefault("REDIS_QUEUE_DB", 2)
	v.SetDefault("FIREBASE_CREDENTIALS_FILE", "config/serviceAccountKey.json")
	v.SetDefault("FIREBASE_BUCKET", "")
	v.SetDefault("STORAGE_PROVIDER", "cloudinary")
	v.SetDefault("CLOUDINARY_CLOUD_NAME", "")
	v.SetDefault("CLOUDINARY_API_KEY", "")
	v.SetDefault("CLOUDINARY_API_SECRET", "")
	v.SetDefault("STRIPE_KEY", "")
	v.SetDefault("STRIPE_WEBHOOK_SECRET", "")
	v.SetDefault("GOOGLE_API_KEY", "")
	v.SetDefault("QR_SIGNING_SECRET", DefaultQRSigningSecret)
	v.SetDefault("QR_TOKEN_TTL", "0s")

	v.SetDefault("DEFAULT_CURRENCY", "usd")
	v.SetDefault("OVERNIGHT_START", "22:00")
	v.SetDefault("OVERNIGHT_END", "06:00")
	v.SetDefault("OVERNIGHT_TRIGGER", "full_window")
	v.SetDefault("OVERNIGHT_MODE", "replace")
	v.SetDefault("BILLING_TIMEZONE", "UTC")
	v.SetDefault("PAYMENT_DUE_HOURS", 72)

	v.SetDefault("SCAN_RESCAN_MODE", "reject")
	v.SetDefault("SCAN_LOCK_TTL", "5s")
}

// Load reads config.yaml from the working directory or ./config, overlaid with
// environment variables and the defaults above.
func Load(v *viper.Viper) (Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func LoadConfig() {
	cfg, err := Load(viper.GetViper())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
