package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort  string
	AppEnv   string
	LogLevel string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	// AutoBootstrap creates missing tables and the bucket at startup.
	AutoBootstrap bool

	// TrustProxyHeaders takes the client address from X-Forwarded-For and
	// X-Real-IP. Enable only behind a proxy that overwrites them.
	TrustProxyHeaders bool

	S3BucketName      string
	UploadURLExpiry   time.Duration
	DownloadURLExpiry time.Duration

	JWTSecret                string
	AccessTokenExpiry        time.Duration
	RefreshTokenExpiry       time.Duration
	RotateRefreshOnAuthorize bool
	BcryptCost               int

	PageDefaultLimit int
	PageMaxLimit     int
	PageMaxRounds    int

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users string
	Notes string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:  getEnv("APP_PORT", "3000"),
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users: getEnv("DYNAMO_TABLE_USERS", "users"),
			Notes: getEnv("DYNAMO_TABLE_NOTES", "notes"),
		},

		AutoBootstrap:     getEnvBool("AUTO_BOOTSTRAP", true),
		TrustProxyHeaders: getEnvBool("TRUST_PROXY_HEADERS", false),

		S3BucketName:      getEnv("S3_BUCKET_NAME", "notes-attachments"),
		UploadURLExpiry:   getEnvDuration("UPLOAD_URL_EXPIRY", 24*time.Hour),
		DownloadURLExpiry: getEnvDuration("DOWNLOAD_URL_EXPIRY", time.Hour),

		JWTSecret:                getEnv("JWT_SECRET", ""),
		AccessTokenExpiry:        getEnvDuration("ACCESS_TOKEN_EXPIRY", 48*time.Hour),
		RefreshTokenExpiry:       getEnvDuration("REFRESH_TOKEN_EXPIRY", 48*time.Hour),
		RotateRefreshOnAuthorize: getEnvBool("ROTATE_REFRESH_ON_AUTHORIZE", false),
		BcryptCost:               getEnvInt("BCRYPT_COST", 12),

		PageDefaultLimit: getEnvInt("PAGE_DEFAULT_LIMIT", 20),
		PageMaxLimit:     getEnvInt("PAGE_MAX_LIMIT", 100),
		PageMaxRounds:    getEnvInt("PAGE_MAX_ROUNDS", 5),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("48h", "90m").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
