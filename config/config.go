package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration for the car search system.
type Config struct {
	Queries  []string
	Workers  int
	OutFile  string
	Headless bool

	// Browser posture. Standvirtual runs bot detection: a realistic
	// user-agent and a pt-PT locale are required or searches silently
	// render zero cards.
	UserAgent string
	Locale    string
	WindowW   int
	WindowH   int

	// Timing
	ConsentTimeout time.Duration
	ContentTimeout time.Duration
	PollInterval   time.Duration
	SettleDelay    time.Duration
	NavTimeout     time.Duration
	GlobalTimeout  time.Duration

	// Politeness
	RatePerSecond float64
	RateBurst     int

	// Extraction
	MaxCards          int
	MinPlausiblePrice int
	MaxPlausiblePrice int

	// Gemini structured extraction
	APIKey         string
	APIBaseURL     string
	Model          string
	MaxLLMAttempts int

	// PostgreSQL (optional sink, see -save-db)
	SaveToDB   bool
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
}

// Default returns a Config populated with sensible defaults.
func Default() Config {
	return Config{
		Queries: []string{
			"Fiat Panda between 5000 and 10000",
			"BMW X5 under 30000 euros diesel",
		},
		Workers:  1,
		OutFile:  "car_results.json",
		Headless: true,

		UserAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
			"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
		Locale:  "pt-PT",
		WindowW: 1920,
		WindowH: 1080,

		ConsentTimeout: 2 * time.Second,
		ContentTimeout: 15 * time.Second,
		PollInterval:   500 * time.Millisecond,
		SettleDelay:    1 * time.Second,
		NavTimeout:     45 * time.Second,
		GlobalTimeout:  30 * time.Minute,

		RatePerSecond: 1.0,
		RateBurst:     2,

		MaxCards:          25,
		MinPlausiblePrice: 100,
		MaxPlausiblePrice: 10_000_000,

		APIKey:         firstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY"),
		APIBaseURL:     getEnv("GEMINI_API_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/models/"),
		Model:          getEnv("GEMINI_MODEL", "gemini-2.5-flash-preview-09-2025"),
		MaxLLMAttempts: 5,

		SaveToDB:   false,
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnvInt("DB_PORT", 5432),
		DBUser:     getEnv("DB_USER", "standvirtual"),
		DBPassword: getEnv("DB_PASSWORD", "standvirtual"),
		DBName:     getEnv("DB_NAME", "car_search"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

func getEnv(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
