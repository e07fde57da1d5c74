package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port             string
	Env              string
	BackendURL       string
	AnalysisTimeout  time.Duration
	MaxUploadBytes   int64
	CORSAllowOrigin  []string
	SessionStoreType string
	LocalStoreDir    string
	AWSRegion        string
	S3Bucket         string
	S3Prefix         string
	SSEKMSKeyID      string
	DatabaseURL      string
	RedisURL         string
	SessionTTL       time.Duration
	SessionID        string
	TrendsEnabled    bool
}

const (
	defaultBackendURL      = "http://localhost:5000"
	defaultAnalysisTimeout = 120 * time.Second
	defaultMaxUploadBytes  = 20 << 20
	defaultSessionTTL      = 30 * time.Minute
)

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	storeType := normalizeStoreType(getEnv("SESSION_STORE", "memory"))
	dbURL := os.Getenv("DATABASE_URL")

	if storeType == StorePostgres && dbURL == "" {
		log.Printf("SESSION_STORE=postgres requires DATABASE_URL")
	}

	return Config{
		Port:             getEnv("PORT", "8080"),
		Env:              env,
		BackendURL:       strings.TrimRight(getEnv("BACKEND_URL", defaultBackendURL), "/"),
		AnalysisTimeout:  getEnvSeconds("ANALYSIS_TIMEOUT_SECONDS", defaultAnalysisTimeout),
		MaxUploadBytes:   getEnvInt64("MAX_UPLOAD_BYTES", defaultMaxUploadBytes),
		CORSAllowOrigin:  splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		SessionStoreType: storeType,
		LocalStoreDir:    getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:        getEnv("AWS_REGION", ""),
		S3Bucket:         getEnv("S3_BUCKET", ""),
		S3Prefix:         getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:      getEnv("SSE_KMS_KEY_ID", ""),
		DatabaseURL:      dbURL,
		RedisURL:         getEnv("REDIS_URL", ""),
		SessionTTL:       getEnvDuration("SESSION_TTL", defaultSessionTTL),
		SessionID:        getEnv("SESSION_ID", ""),
		TrendsEnabled:    getEnvBool("TRENDS_ENABLED", false),
	}
}

// Session store backends.
const (
	StoreMemory   = "memory"
	StoreLocal    = "local"
	StoreS3       = "s3"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// loadEnvFiles loads KEY=VALUE pairs from the given files if they exist.
// Variables already set in the environment win.
func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			log.Printf("env file %s ignored: %v", path, err)
		}
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || val < 0 {
		log.Printf("config %s invalid int: %q", key, raw)
		return def
	}
	return val
}

func getEnvBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("config %s invalid bool: %q", key, raw)
		return def
	}
	return val
}

// getEnvSeconds reads a whole number of seconds. 0 is kept and means no timeout.
func getEnvSeconds(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		log.Printf("config %s invalid seconds: %q", key, raw)
		return def
	}
	return time.Duration(val) * time.Second
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil || val <= 0 {
		log.Printf("config %s invalid duration: %q", key, raw)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case StoreLocal, "file":
		return StoreLocal
	case StoreS3:
		return StoreS3
	case StorePostgres, "postgresql", "pg":
		return StorePostgres
	case StoreRedis:
		return StoreRedis
	default:
		return StoreMemory
	}
}
