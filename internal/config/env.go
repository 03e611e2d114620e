package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL  string
	AwsAccessKey string
	AwsSecretKey string
	AwsRegion    string
	BucketName   string
	AIAPIKey     string
	EmbedModel   string
	EmbedDim     int
	GenModel     string
	Port         string
	JWTSecret    string
	DataDir      string

	// chunking bounds, all in words
	ChunkMinWords     int
	ChunkMaxWords     int
	ChunkOverlapWords int
	ChunkMode         string
	MaxChunks         int

	MaxPages      int
	EmbedTruncate int
	EmbedBatch    int
	TopK          int

	// AutoReplace lets a content-changed upload proceed without force.
	AutoReplace bool
}

// LoadConfig loads the environment variables and return config
func LoadConfig() *Config {

	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		AwsAccessKey: getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey: getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:    getEnv("AWS_REGION", "ap-southeast-1"),
		BucketName:   getEnv("BUCKET_NAME", "pathagar-chapters"),
		AIAPIKey:     getEnv("GEMINI_API_KEY", ""),
		EmbedModel:   getEnv("EMBED_MODEL", "text-embedding-004"),
		EmbedDim:     getEnvInt("EMBED_DIM", 768),
		GenModel:     getEnv("GEN_MODEL", "gemini-1.5-flash"),
		Port:         getEnv("PORT", "8080"),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		DataDir:      getEnv("DATA_DIR", "./data"),

		ChunkMinWords:     getEnvInt("CHUNK_MIN_WORDS", 300),
		ChunkMaxWords:     getEnvInt("CHUNK_MAX_WORDS", 800),
		ChunkOverlapWords: getEnvInt("CHUNK_OVERLAP_WORDS", 50),
		ChunkMode:         getEnv("CHUNK_MODE", "sentence"),
		MaxChunks:         getEnvInt("MAX_CHUNKS", 50),

		MaxPages:      getEnvInt("MAX_PAGES", 50),
		EmbedTruncate: getEnvInt("EMBED_TRUNCATE", 4000),
		EmbedBatch:    getEnvInt("EMBED_BATCH", 100),
		TopK:          getEnvInt("TOP_K", 5),

		AutoReplace: getEnvBool("AUTO_REPLACE", false),
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	if cfg.JWTSecret == "" {
		// an unset secret would make empty-string HMAC tokens verify
		log.Fatal("JWT_SECRET not set")
	}

	return cfg
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("WARN: %s=%q not a bool, using default %v", key, v, def)
		return def
	}
	return b
}
