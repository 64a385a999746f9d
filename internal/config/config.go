package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port       string
	Env        string
	Gemini     GeminiConfig
	Session    SessionConfig
	Generation GenerationConfig
	R2         R2Config
	CORS       CORSConfig
}

type GeminiConfig struct {
	APIKey     string
	BaseURL    string
	TextModel  string
	ImageModel string
	Timeout    time.Duration
}

type SessionConfig struct {
	JWTSecret string
	TTL       time.Duration
}

type GenerationConfig struct {
	QueueSize int

	// ClearImageOnFailure drops the previous image when a regeneration fails.
	ClearImageOnFailure bool
}

type R2Config struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
}

// Enabled reports whether every R2 setting is present.
func (r R2Config) Enabled() bool {
	return r.Endpoint != "" &&
		r.AccessKey != "" &&
		r.SecretKey != "" &&
		r.Bucket != "" &&
		r.PublicBaseURL != ""
}

type CORSConfig struct {
	AllowOrigins []string
}

var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set")

// Load reads configuration from the environment. Outside production a .env
// file is loaded first when present.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	cfg := &Config{
		Port: getEnv("PORT", "8000"),
		Env:  getEnv("APP_ENV", "development"),
		Gemini: GeminiConfig{
			APIKey:     os.Getenv("GEMINI_API_KEY"),
			BaseURL:    getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
			TextModel:  getEnv("GEMINI_TEXT_MODEL", "gemini-3-flash-preview"),
			ImageModel: getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),
			Timeout:    getDuration("GEMINI_TIMEOUT", 120*time.Second),
		},
		Session: SessionConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
			TTL:       getDuration("SESSION_TTL", 24*time.Hour),
		},
		Generation: GenerationConfig{
			QueueSize:           getInt("WORKER_QUEUE_SIZE", 256),
			ClearImageOnFailure: getBool("CLEAR_IMAGE_ON_FAILURE", false),
		},
		R2: R2Config{
			Endpoint:      os.Getenv("R2_ENDPOINT"),
			AccessKey:     os.Getenv("R2_ACCESS_KEY"),
			SecretKey:     os.Getenv("R2_SECRET_KEY"),
			Bucket:        os.Getenv("R2_BUCKET_NAME"),
			PublicBaseURL: strings.TrimRight(os.Getenv("R2_PUBLIC_BASE_URL"), "/"),
		},
		CORS: CORSConfig{
			AllowOrigins: getList("CORS_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		},
	}

	if cfg.Gemini.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func getBool(key string, def bool) bool {
	b, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return def
	}
	return b
}

func getDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func getList(key string, def []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
