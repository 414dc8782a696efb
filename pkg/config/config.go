package config

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/ripplegram/backend/pkg/log"
)

type Config struct {
	Port                    string
	Env                     string
	LogLevel                string
	LogPretty               bool
	FirebaseCredentialsPath string
	MongoURI                string
	MongoDatabase           string
	RedisAddr               string
	RedisPassword           string
	S3Endpoint              string
	S3Region                string
	S3Bucket                string
	S3AccessKeyID           string
	S3SecretAccessKey       string
	S3PublicURL             string
	S3UsePathStyle          bool
}

// Load reads configuration from the environment. A .env file is honoured
// when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.L().Info().Msg("no .env file found, assuming environment variables are set")
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		LogPretty:               getEnv("LOG_PRETTY", "") == "true",
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", "./firebase_credentials.json"),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "ripplegram"),
		RedisAddr:               getEnv("REDIS_ADDR", ""),
		RedisPassword:           getEnv("REDIS_PASSWORD", ""),
		S3Endpoint:              getEnv("S3_ENDPOINT", ""),
		S3Region:                getEnv("S3_REGION", "us-east-1"),
		S3Bucket:                getEnv("S3_BUCKET", ""),
		S3AccessKeyID:           getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey:       getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3PublicURL:             getEnv("S3_PUBLIC_URL", ""),
		S3UsePathStyle:          getEnv("S3_USE_PATH_STYLE", "") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
