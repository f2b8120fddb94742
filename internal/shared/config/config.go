package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration. It is built once at startup and
// passed explicitly to the components that need it; nothing else reads the
// environment.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	DatabaseURL     string

	UploadDir      string
	MaxUploadBytes int64

	DefaultVisionProvider string

	GroqAPIKey      string
	GroqVisionModel string

	GoogleProjectID       string
	GoogleLocation        string
	GoogleProcessorID     string
	GoogleCredentialsFile string

	TesseractPath string
	TesseractLang string

	OpenAIAPIKey      string
	OpenAIModel       string
	OpenAITemperature float32
	OpenAITimeout     time.Duration

	OCRTimeout time.Duration

	ImageMaxWidth  int
	ImageMaxHeight int
	ImageMinDim    int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		DatabaseURL:     dbURL,

		UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 10<<20),

		DefaultVisionProvider: strings.ToLower(getEnv("VISION_PROVIDER", "groq")),

		GroqAPIKey:      os.Getenv("GROQ_API_KEY"),
		GroqVisionModel: getEnv("GROQ_VISION_MODEL", "meta-llama/llama-4-maverick-17b-128e-instruct"),

		GoogleProjectID:       os.Getenv("GOOGLE_CLOUD_PROJECT_ID"),
		GoogleLocation:        getEnv("GOOGLE_CLOUD_LOCATION", "us"),
		GoogleProcessorID:     os.Getenv("GOOGLE_CLOUD_PROCESSOR_ID"),
		GoogleCredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),

		TesseractPath: getEnv("TESSERACT_PATH", "tesseract"),
		TesseractLang: getEnv("TESSERACT_LANG", "eng"),

		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAITemperature: getEnvFloat32("OPENAI_TEMPERATURE", 0.1),
		OpenAITimeout:     getEnvSeconds("OPENAI_TIMEOUT_SECONDS", 120*time.Second),

		OCRTimeout: getEnvSeconds("OCR_TIMEOUT_SECONDS", 60*time.Second),

		ImageMaxWidth:  getEnvInt("IMAGE_MAX_WIDTH", 2000),
		ImageMaxHeight: getEnvInt("IMAGE_MAX_HEIGHT", 2000),
		ImageMinDim:    getEnvInt("IMAGE_MIN_DIMENSION", 800),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		log.Printf("config %s invalid int %q, using default %d", key, raw, def)
		return def
	}
	return val
}

func getEnvInt64(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || val <= 0 {
		log.Printf("config %s invalid int %q, using default %d", key, raw, def)
		return def
	}
	return val
}

func getEnvFloat32(key string, def float32) float32 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 32)
	if err != nil || val < 0 {
		log.Printf("config %s invalid float %q, using default %v", key, raw, def)
		return def
	}
	return float32(val)
}

func getEnvSeconds(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		log.Printf("config %s invalid seconds %q, using default %v", key, raw, def)
		return def
	}
	return time.Duration(val) * time.Second
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
