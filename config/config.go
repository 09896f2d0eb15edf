package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DBUrl       string
	JWTSecret   string
	TokenExpire time.Duration
	// BaseURL is the public origin of this API, used to build local CV links
	BaseURL      string
	FrontendURL  string
	StaticDir    string
	StaticPrefix string
	RenderDir    string
	// Renderer selects the PDF backend: "fpdf" (default) or "chromedp"
	Renderer   string
	ChromePath string
	// Object storage (AWS S3 or any S3-compatible provider)
	S3Bucket          string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Provider        string
	S3Endpoint        string
	S3PublicURL       string
	S3KeyPrefix       string
	// Redis Configuration
	RedisURL      string
	RedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitGlobalThreshold int
	FailedLoginBlockMinutes  int
	FailedLoginMaxAttempts   int
	AllowedOrigins           []string
	ServiceName              string
	Environment              string
}

func LoadConfig() (*Config, error) {
	// Load .env file (only effective locally, ignored when the file is absent)
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnv("PORT", "5000"),
		DBUrl:        getEnv("DATABASE_URL", ""),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		TokenExpire:  getEnvDuration("TOKEN_EXPIRE", 24*time.Hour),
		BaseURL:      strings.TrimRight(getEnv("BASE_URL", "http://localhost:5000"), "/"),
		FrontendURL:  strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		StaticDir:    getEnv("STATIC_DIR", "./temp"),
		StaticPrefix: "/" + strings.Trim(getEnv("STATIC_PREFIX", "/temp"), "/"),
		RenderDir:    getEnv("RENDER_DIR", filepath.Join(os.TempDir(), "cv-render")),
		Renderer:     strings.ToLower(getEnv("RENDERER", "fpdf")),
		ChromePath:   getEnv("CHROME_PATH", ""),
		// Object storage, same variable names as the legacy deployment
		S3Bucket:          getEnv("AWS_S3_BUCKET_NAME", ""),
		S3Region:          getEnv("AWS_REGION", ""),
		S3AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		S3Provider:        strings.ToLower(getEnv("S3_PROVIDER", "aws")),
		S3Endpoint:        strings.TrimRight(getEnv("S3_ENDPOINT", ""), "/"),
		S3PublicURL:       strings.TrimRight(getEnv("S3_PUBLIC_URL", ""), "/"),
		S3KeyPrefix:       getEnv("S3_KEY_PREFIX", "cv-uploads/"),
		// Redis Configuration
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		// Rate Limiting Configuration (with sensible defaults)
		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
		FailedLoginBlockMinutes:  getEnvInt("FAILED_LOGIN_BLOCK_MINUTES", 15),
		FailedLoginMaxAttempts:   getEnvInt("FAILED_LOGIN_MAX_ATTEMPTS", 5),
		AllowedOrigins:           getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		ServiceName:              getEnv("SERVICE_NAME", "cv-platform-backend"),
		Environment:              getEnv("ENVIRONMENT", environmentFromGinMode()),
	}

	// Basic validation to avoid odd panics later
	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.JWTSecret == "" {
		log.Println("WARNING: JWT_SECRET is missing. Tokens cannot be issued or verified.")
	}
	if !cfg.S3Configured() {
		log.Println("WARNING: S3 configuration incomplete. Generated CVs will be served from " + cfg.StaticDir)
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

// S3Configured reports whether every value required for remote uploads is present.
func (c *Config) S3Configured() bool {
	return c.S3Bucket != "" && c.S3Region != "" && c.S3AccessKeyID != "" && c.S3SecretAccessKey != ""
}

// IsProduction reports whether the process runs in release mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvDuration accepts Go durations ("24h") and the legacy "<n>d" / bare-seconds forms.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if strings.HasSuffix(value, "d") {
		if days, err := strconv.Atoi(strings.TrimSuffix(value, "d")); err == nil {
			return time.Duration(days) * 24 * time.Hour
		}
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping empty entries
func getEnvList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func environmentFromGinMode() string {
	if getEnvBool("PRODUCTION", false) || os.Getenv("GIN_MODE") == "release" {
		return "production"
	}
	return "development"
}
