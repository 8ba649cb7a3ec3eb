package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ImageFormatPNG  = "png"
	ImageFormatWebP = "webp"
)

// Config - every environment setting the server reads at startup
type Config struct {
	// Gemini API
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	// Stability AI
	StabilityAPIKey  string
	StabilityBaseURL string

	// Server
	Port          string
	PublicBaseURL string
	StaticDir     string

	// Image output
	ImageFormat string
	WebPQuality float32

	// Outbound HTTP, 0 keeps the client default (no timeout)
	HTTPTimeout time.Duration

	// Supabase Storage mirror (optional)
	SupabaseURL        string
	SupabaseServiceKey string
	SupabaseBucket     string
}

// LoadConfig - load .env (if any) and read the environment once
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env file not found, using environment variables")
	}

	webpQuality := float32(90)
	if qStr := os.Getenv("WEBP_QUALITY"); qStr != "" {
		if parsed, err := strconv.ParseFloat(qStr, 32); err == nil {
			webpQuality = float32(parsed)
		}
	}

	httpTimeout := time.Duration(0)
	if tStr := os.Getenv("HTTP_TIMEOUT_SECONDS"); tStr != "" {
		if parsed, err := strconv.Atoi(tStr); err == nil && parsed > 0 {
			httpTimeout = time.Duration(parsed) * time.Second
		}
	}

	cfg := &Config{
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", ""),

		StabilityAPIKey:  getEnv("STABILITY_API_KEY", ""),
		StabilityBaseURL: getEnv("STABILITY_BASE_URL", "https://api.stability.ai"),

		Port:          getEnv("PORT", "8000"),
		PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8000"), "/"),
		StaticDir:     getEnv("STATIC_DIR", "static"),

		ImageFormat: strings.ToLower(getEnv("IMAGE_FORMAT", ImageFormatPNG)),
		WebPQuality: webpQuality,

		HTTPTimeout: httpTimeout,

		SupabaseURL:        getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseBucket:     getEnv("SUPABASE_BUCKET", "tshirts"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	log.Println("✅ Configuration loaded successfully")
	log.Printf("   Gemini: %s", cfg.GeminiModel)
	log.Printf("   Stability: %s", cfg.StabilityBaseURL)
	log.Printf("   Static: %s -> %s/static/ (format: %s)", cfg.StaticDir, cfg.PublicBaseURL, cfg.ImageFormat)
	if cfg.SupabaseEnabled() {
		log.Printf("   Supabase mirror: %s (bucket: %s)", cfg.SupabaseURL, cfg.SupabaseBucket)
	}

	return cfg, nil
}

// validate - required keys and allowed values
func (c *Config) validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.StabilityAPIKey == "" {
		return fmt.Errorf("STABILITY_API_KEY is required")
	}
	if c.StaticDir == "" {
		return fmt.Errorf("STATIC_DIR must not be empty")
	}
	switch c.ImageFormat {
	case ImageFormatPNG, ImageFormatWebP:
	default:
		return fmt.Errorf("invalid IMAGE_FORMAT: %s (expected png or webp)", c.ImageFormat)
	}
	if c.WebPQuality < 0 || c.WebPQuality > 100 {
		return fmt.Errorf("WEBP_QUALITY must be between 0 and 100, got %.1f", c.WebPQuality)
	}
	return nil
}

// SupabaseEnabled - mirror uploads only when both URL and key are set
func (c *Config) SupabaseEnabled() bool {
	return c.SupabaseURL != "" && c.SupabaseServiceKey != ""
}

// getEnv - environment value with default
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
