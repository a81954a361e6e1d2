package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	JWT    JWTConfig
	S3     S3Config
	Log    LogConfig
	CORS   CORSConfig
	Notify NotifyConfig
	Email  EmailConfig
	Events EventsConfig
	Review ReviewConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds settings for the document object store.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// NotifyConfig holds claim-owner notification settings.
type NotifyConfig struct {
	// Channels lists delivery channels: webhook, ses, noop.
	Channels    []string      `mapstructure:"channels"`
	WebhookURL  string        `mapstructure:"webhook_url"`
	WebhookKey  string        `mapstructure:"webhook_key"`
	Timeout     time.Duration `mapstructure:"timeout"`
	QueueSize   int           `mapstructure:"queue_size"`
	Concurrency int           `mapstructure:"concurrency"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	PortalURL   string `mapstructure:"portal_url"`
}

// EventsConfig holds review event publishing settings. An empty SinkURL disables publishing.
type EventsConfig struct {
	SinkURL string `mapstructure:"sink_url"`
	Source  string `mapstructure:"source"`
}

// ReviewConfig holds review engine settings.
type ReviewConfig struct {
	StoreTimeout       time.Duration `mapstructure:"store_timeout"`
	BulkConcurrency    int           `mapstructure:"bulk_concurrency"`
	ReconcileInterval  time.Duration `mapstructure:"reconcile_interval"`
	ReconcileBatchSize int           `mapstructure:"reconcile_batch_size"`
}

// Load reads configuration from environment variables with the INSUREVIS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("INSUREVIS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "insurevis")
	v.SetDefault("db.password", "insurevis_secret")
	v.SetDefault("db.name", "insurevis_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "insurevis")

	// S3 defaults
	v.SetDefault("s3.region", "ap-southeast-1")
	v.SetDefault("s3.bucket", "insurevis-documents")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "text")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Notification defaults
	v.SetDefault("notify.channels", "noop")
	v.SetDefault("notify.webhook_url", "")
	v.SetDefault("notify.webhook_key", "")
	v.SetDefault("notify.timeout", "10s")
	v.SetDefault("notify.queue_size", 256)
	v.SetDefault("notify.concurrency", 4)

	// Email defaults
	v.SetDefault("email.region", "ap-southeast-1")
	v.SetDefault("email.from_address", "noreply@insurevis.app")
	v.SetDefault("email.from_name", "InsureVis")
	v.SetDefault("email.portal_url", "http://localhost:3000")

	v.SetDefault("events.sink_url", "")
	v.SetDefault("events.source", "/insurevis/review")

	// Review engine defaults
	v.SetDefault("review.store_timeout", "5s")
	v.SetDefault("review.bulk_concurrency", 8)
	v.SetDefault("review.reconcile_interval", "5m")
	v.SetDefault("review.reconcile_batch_size", 100)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                 "INSUREVIS_SERVER_PORT",
		"server.read_timeout":         "INSUREVIS_SERVER_READ_TIMEOUT",
		"server.write_timeout":        "INSUREVIS_SERVER_WRITE_TIMEOUT",
		"server.environment":          "INSUREVIS_SERVER_ENVIRONMENT",
		"db.host":                     "INSUREVIS_DB_HOST",
		"db.port":                     "INSUREVIS_DB_PORT",
		"db.user":                     "INSUREVIS_DB_USER",
		"db.password":                 "INSUREVIS_DB_PASSWORD",
		"db.name":                     "INSUREVIS_DB_NAME",
		"db.sslmode":                  "INSUREVIS_DB_SSLMODE",
		"db.max_open":                 "INSUREVIS_DB_MAX_OPEN",
		"db.max_idle":                 "INSUREVIS_DB_MAX_IDLE",
		"jwt.secret":                  "INSUREVIS_JWT_SECRET",
		"jwt.access_expiry":           "INSUREVIS_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":          "INSUREVIS_JWT_REFRESH_EXPIRY",
		"jwt.issuer":                  "INSUREVIS_JWT_ISSUER",
		"s3.region":                   "INSUREVIS_S3_REGION",
		"s3.bucket":                   "INSUREVIS_S3_BUCKET",
		"s3.endpoint":                 "INSUREVIS_S3_ENDPOINT",
		"s3.access_key":               "INSUREVIS_S3_ACCESS_KEY",
		"s3.secret_key":               "INSUREVIS_S3_SECRET_KEY",
		"s3.presign_expiry":           "INSUREVIS_S3_PRESIGN_EXPIRY",
		"log.level":                   "INSUREVIS_LOG_LEVEL",
		"log.format":                  "INSUREVIS_LOG_FORMAT",
		"cors.allowed_origins":        "INSUREVIS_CORS_ALLOWED_ORIGINS",
		"notify.channels":             "INSUREVIS_NOTIFY_CHANNELS",
		"notify.webhook_url":          "INSUREVIS_NOTIFY_WEBHOOK_URL",
		"notify.webhook_key":          "INSUREVIS_NOTIFY_WEBHOOK_KEY",
		"notify.timeout":              "INSUREVIS_NOTIFY_TIMEOUT",
		"notify.queue_size":           "INSUREVIS_NOTIFY_QUEUE_SIZE",
		"notify.concurrency":          "INSUREVIS_NOTIFY_CONCURRENCY",
		"email.region":                "INSUREVIS_EMAIL_REGION",
		"email.from_address":          "INSUREVIS_EMAIL_FROM_ADDRESS",
		"email.from_name":             "INSUREVIS_EMAIL_FROM_NAME",
		"email.portal_url":            "INSUREVIS_EMAIL_PORTAL_URL",
		"events.sink_url":             "INSUREVIS_EVENTS_SINK_URL",
		"events.source":               "INSUREVIS_EVENTS_SOURCE",
		"review.store_timeout":        "INSUREVIS_REVIEW_STORE_TIMEOUT",
		"review.bulk_concurrency":     "INSUREVIS_REVIEW_BULK_CONCURRENCY",
		"review.reconcile_interval":   "INSUREVIS_REVIEW_RECONCILE_INTERVAL",
		"review.reconcile_batch_size": "INSUREVIS_REVIEW_RECONCILE_BATCH_SIZE",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set PORT. Use it if INSUREVIS_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("INSUREVIS_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}
	cfg.Notify = NotifyConfig{
		Channels:    splitList(v.GetString("notify.channels")),
		WebhookURL:  v.GetString("notify.webhook_url"),
		WebhookKey:  v.GetString("notify.webhook_key"),
		Timeout:     v.GetDuration("notify.timeout"),
		QueueSize:   v.GetInt("notify.queue_size"),
		Concurrency: v.GetInt("notify.concurrency"),
	}
	cfg.Email = EmailConfig{
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		PortalURL:   v.GetString("email.portal_url"),
	}
	cfg.Events = EventsConfig{
		SinkURL: v.GetString("events.sink_url"),
		Source:  v.GetString("events.source"),
	}
	cfg.Review = ReviewConfig{
		StoreTimeout:       v.GetDuration("review.store_timeout"),
		BulkConcurrency:    v.GetInt("review.bulk_concurrency"),
		ReconcileInterval:  v.GetDuration("review.reconcile_interval"),
		ReconcileBatchSize: v.GetInt("review.reconcile_batch_size"),
	}

	if cfg.Review.StoreTimeout <= 0 {
		return nil, fmt.Errorf("review.store_timeout must be positive, got %s", cfg.Review.StoreTimeout)
	}
	if cfg.Notify.Concurrency < 1 || cfg.Notify.QueueSize < 1 {
		return nil, fmt.Errorf("notify.concurrency and notify.queue_size must be at least 1")
	}

	return cfg, nil
}

// splitList parses a comma-separated setting, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
