package config

import (
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort            = "3000"
	defaultDBHost          = "localhost"
	defaultDBPort          = "3306"
	defaultDBUser          = "root"
	defaultDBName          = "peterpainter"
	defaultPublicDir       = "./public"
	defaultUploadDir       = "./uploads"
	defaultBlobBackend     = BlobBackendDisk
	defaultMinioBucket     = "paintings"
	defaultMaxUploadMB     = "32"
	defaultShutdownTimeout = "10s"
	defaultDBLogLevel      = "warn"
	defaultDBRetryInterval = "5s"
)

const (
	BlobBackendDisk  = "disk"
	BlobBackendMinio = "minio"
)

type Config struct {
	AppEnv string
	Port   string

	// MySQL connection, used unless DatabaseURL is set.
	DBHost string
	DBPort string
	DBUser string
	DBPass string
	DBName string

	DatabaseURL string
	DBLogLevel  string
	// How often startup keeps pinging an unreachable store before migrating.
	DBRetryInterval time.Duration

	PublicDir string
	UploadDir string

	BlobBackend string
	Minio       MinioConfig

	MaxUploadMemory int64
	ShutdownTimeout time.Duration
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))

	cfg.DBHost = strings.TrimSpace(getEnv("DB_HOST", defaultDBHost))
	cfg.DBPort = strings.TrimSpace(getEnv("DB_PORT", defaultDBPort))
	cfg.DBUser = getEnv("DB_USER", defaultDBUser)
	cfg.DBPass = os.Getenv("DB_PASS")
	cfg.DBName = strings.TrimSpace(getEnv("DB_NAME", defaultDBName))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.DBLogLevel = strings.ToLower(strings.TrimSpace(getEnv("DB_LOG_LEVEL", defaultDBLogLevel)))

	cfg.PublicDir = strings.TrimSpace(getEnv("PUBLIC_DIR", defaultPublicDir))
	cfg.UploadDir = strings.TrimSpace(getEnv("UPLOAD_DIR", defaultUploadDir))

	cfg.BlobBackend = strings.ToLower(strings.TrimSpace(getEnv("BLOB_BACKEND", defaultBlobBackend)))
	cfg.Minio = MinioConfig{
		Endpoint:  strings.TrimSpace(os.Getenv("MINIO_ENDPOINT")),
		AccessKey: strings.TrimSpace(os.Getenv("MINIO_ACCESS_KEY")),
		SecretKey: strings.TrimSpace(os.Getenv("MINIO_SECRET_KEY")),
		Bucket:    strings.TrimSpace(getEnv("MINIO_BUCKET", defaultMinioBucket)),
		UseSSL:    parseBoolEnv("MINIO_USE_SSL", "false"),
	}

	maxUploadMB, err := parseIntEnv("MAX_UPLOAD_MB", defaultMaxUploadMB)
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadMemory = maxUploadMB << 20

	cfg.ShutdownTimeout, err = parseDurationEnv("SHUTDOWN_TIMEOUT", defaultShutdownTimeout)
	if err != nil {
		return nil, err
	}

	cfg.DBRetryInterval, err = parseDurationEnv("DB_RETRY_INTERVAL", defaultDBRetryInterval)
	if err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	log.Printf("config loaded: env=%s port=%s dialect=%s blob_backend=%s", cfg.AppEnv, cfg.Port, cfg.Dialect(), cfg.BlobBackend)

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return fmt.Errorf("invalid PORT value %q: %w", cfg.Port, err)
	}
	if cfg.MaxUploadMemory <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be > 0")
	}
	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be > 0")
	}
	if cfg.DBRetryInterval <= 0 {
		return fmt.Errorf("DB_RETRY_INTERVAL must be > 0")
	}
	if cfg.PublicDir == "" {
		return fmt.Errorf("PUBLIC_DIR must not be empty")
	}

	switch cfg.DBLogLevel {
	case "silent", "error", "warn", "info":
	default:
		return fmt.Errorf("DB_LOG_LEVEL must be one of: silent, error, warn, info")
	}

	switch cfg.BlobBackend {
	case BlobBackendDisk:
		if cfg.UploadDir == "" {
			return fmt.Errorf("UPLOAD_DIR must not be empty")
		}
	case BlobBackendMinio:
		if cfg.Minio.Endpoint == "" {
			return fmt.Errorf("MINIO_ENDPOINT is required when BLOB_BACKEND=minio")
		}
		if cfg.Minio.AccessKey == "" || cfg.Minio.SecretKey == "" {
			return fmt.Errorf("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required when BLOB_BACKEND=minio")
		}
		if cfg.Minio.Bucket == "" {
			return fmt.Errorf("MINIO_BUCKET must not be empty")
		}
	default:
		return fmt.Errorf("BLOB_BACKEND must be one of: disk, minio")
	}

	return nil
}

// IsProduction reports whether gin should run in release mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.AppEnv))
	return env == "prod" || env == "production" || env == "release"
}

// Dialect names the record store backend the DSN is meant for.
func (c *Config) Dialect() string {
	switch {
	case c.DatabaseURL == "":
		return "mysql"
	case strings.HasPrefix(c.DatabaseURL, "postgres://"), strings.HasPrefix(c.DatabaseURL, "postgresql://"):
		return "postgres"
	default:
		return "sqlite"
	}
}

// DSN returns DATABASE_URL when set, otherwise a MySQL DSN built from DB_*.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}

	host := c.DBHost
	if _, _, err := net.SplitHostPort(host); err != nil {
		host = net.JoinHostPort(host, c.DBPort)
	}
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.DBUser, c.DBPass, host, c.DBName)
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int64, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
