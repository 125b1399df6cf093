package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	HTTPAddress   string
	Environment   string
	PublicBaseURL string

	MongoURI string
	MongoDB  string

	GeminiKey   string
	GeminiModel string

	VoiceBaseURL    string
	VoiceAPIKey     string
	VoiceWorkflowID string

	SupabaseURL        string
	SupabaseServiceKey string
	SupabaseBucket     string

	SessionSecret  string
	IdentitySecret string

	TwilioAuthToken string
}

// Load reads environment variables and returns Config with sane defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading it: %v", err)
	}

	cfg := Config{
		HTTPAddress:        getEnv("HTTP_ADDRESS", ":8080"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		PublicBaseURL:      os.Getenv("PUBLIC_BASE_URL"),
		MongoURI:           os.Getenv("MONGO_URI"),
		MongoDB:            getEnv("MONGO_DB", "mockwise"),
		GeminiKey:          os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-2.0-flash-001"),
		VoiceBaseURL:       getEnv("VOICE_BASE_URL", "wss://realtime.vapi.ai"),
		VoiceAPIKey:        os.Getenv("VOICE_API_KEY"),
		VoiceWorkflowID:    os.Getenv("VOICE_WORKFLOW_ID"),
		SupabaseURL:        os.Getenv("SUPABASE_URL"),
		SupabaseServiceKey: os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),
		SupabaseBucket:     getEnv("SUPABASE_BUCKET", "mockwise-media"),
		SessionSecret:      os.Getenv("SESSION_SECRET"),
		IdentitySecret:     os.Getenv("IDENTITY_SECRET"),
		TwilioAuthToken:    os.Getenv("TWILIO_AUTH_TOKEN"),
	}

	if cfg.MongoURI == "" {
		log.Println("Warning: MONGO_URI not set - persistence will not work")
	}
	if cfg.GeminiKey == "" {
		log.Println("Warning: GEMINI_API_KEY not set - question and feedback generation will not work")
	}
	if cfg.VoiceAPIKey == "" {
		log.Println("Warning: VOICE_API_KEY not set - voice calls will not work")
	}
	if cfg.SupabaseURL == "" || cfg.SupabaseServiceKey == "" {
		log.Println("Warning: SUPABASE_URL/SUPABASE_SERVICE_ROLE_KEY not set - image upload will not work")
	}
	if cfg.SessionSecret == "" {
		log.Println("Warning: SESSION_SECRET not set - sessions will not survive restarts securely")
	}
	if cfg.TwilioAuthToken == "" {
		log.Println("Warning: TWILIO_AUTH_TOKEN not set - phone interviews will not work")
	}

	log.Printf("config: HTTP_ADDRESS=%s", cfg.HTTPAddress)
	return cfg
}

// IsProduction reports whether the service runs in production mode.
func (c Config) IsProduction() bool { return c.Environment == "production" }

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
