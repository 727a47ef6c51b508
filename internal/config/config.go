package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	// Database
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"storefront_db"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	DBMaxConns int32  `env:"DB_MAX_CONNS" envDefault:"25"`

	// Session tokens
	JWTSecret string        `env:"JWT_SECRET"`
	JWTExpiry time.Duration `env:"JWT_EXPIRY" envDefault:"8h"`

	// One-time codes
	OTPTTL            time.Duration `env:"OTP_TTL" envDefault:"10m"`
	OTPResendCooldown time.Duration `env:"OTP_RESEND_COOLDOWN" envDefault:"10m"`

	// Image storage: local, cloudinary or inline
	StorageDriver       string `env:"STORAGE_DRIVER" envDefault:"local"`
	UploadDir           string `env:"UPLOAD_DIR" envDefault:"uploads"`
	UploadURLPrefix     string `env:"UPLOAD_URL_PREFIX" envDefault:"/uploads"`
	CloudinaryCloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `env:"CLOUDINARY_API_SECRET"`

	// Email
	BrevoAPIKey     string `env:"BREVO_API_KEY"`
	EmailFrom       string `env:"EMAIL_FROM" envDefault:"noreply@storefront.local"`
	EmailFromName   string `env:"EMAIL_FROM_NAME" envDefault:"Storefront"`
	NotifyQueueSize int    `env:"NOTIFY_QUEUE_SIZE" envDefault:"256"`

	// Rate limiter storage (in-memory when empty)
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Admin bootstrap
	AdminUsername string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	// Server
	Port             string `env:"PORT" envDefault:"8080"`
	CORSOrigins      string `env:"CORS_ORIGINS" envDefault:"*"`
	BodyLimitMB      int    `env:"BODY_LIMIT_MB" envDefault:"50"`
	AppEnv           string `env:"APP_ENV" envDefault:"development"`
	SentryDSN        string `env:"SENTRY_DSN"`
	LogRetentionDays int    `env:"LOG_RETENTION_DAYS" envDefault:"30"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// UsesLocalStorage reports whether uploads land on disk and must be served by the app.
func (c *Config) UsesLocalStorage() bool {
	return c.StorageDriver == "" || c.StorageDriver == "local"
}
