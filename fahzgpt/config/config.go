package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultProxyEndpoint is the OpenAI-compatible relay used when a stored
// config has no endpoint of its own.
const DefaultProxyEndpoint = "https://api.vikey.ai/v1"

type Config struct {
	Addr string `env:"ADDR" envDefault:":8000"`

	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBName     string `env:"DB_NAME" envDefault:"fahzgpt"`

	JWTSecret string `env:"JWT_SECRET"`

	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	GeminiBaseURL string `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`

	TextModel  string `env:"TEXT_MODEL" envDefault:"gemini-flash-lite-latest"`
	ImageModel string `env:"IMAGE_MODEL" envDefault:"gemini-2.5-flash-image"`
	VideoModel string `env:"VIDEO_MODEL" envDefault:"veo-3.1-fast-generate-preview"`
	VoiceModel string `env:"VOICE_MODEL" envDefault:"gemini-2.5-flash-native-audio-preview-12-2025"`

	MinIOEndpoint  string `env:"MINIO_ENDPOINT" envDefault:"localhost:9000"`
	MinIOAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinIOSecretKey string `env:"MINIO_SECRET_KEY"`
	MinIOBucket    string `env:"MINIO_BUCKET" envDefault:"fahzgpt-media"`

	TemplatesPath string `env:"TEMPLATES_PATH" envDefault:"./templates.yaml"`
}

func LoadConfig() (Config, error) {
	// .env is optional; system environment wins when both are present.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
