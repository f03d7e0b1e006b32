package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	GigaChat   GigaChatConfig
	Chunking   ChunkingConfig
	Search     SearchConfig
	Confidence ConfidenceConfig
	Ticket     TicketConfig
	Logger     LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey  string
	Expiration time.Duration
}

type GigaChatConfig struct {
	APIKey             string
	Scope              string
	Model              string
	InsecureSkipVerify bool
}

// ChunkingConfig mirrors service.ChunkingConfig; values flow into the
// chunking engine at construction.
type ChunkingConfig struct {
	MaxChars     int
	OverlapChars int
}

// SearchConfig carries the overridable retrieval constants.
type SearchConfig struct {
	TopK            int
	ScoreFloor      float64
	HeadingWeight   float64
	ProximityBonus  float64
	ExcerptMaxChars int
}

// ConfidenceConfig carries the classification thresholds.
type ConfidenceConfig struct {
	MinRelevance    float64
	HighGap         float64
	HighAvgTop3     float64
	MediumRelevance float64
}

// TicketConfig carries the ticket-draft bounds.
type TicketConfig struct {
	MaxTitleChars  int
	MaxSuggestions int
}

func Load() (*Config, error) {
	// The .env file is optional; environment variables alone work for
	// Docker/K8s deployments.
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout := getEnvInt("SERVER_READ_TIMEOUT", 30)
	writeTimeout := getEnvInt("SERVER_WRITE_TIMEOUT", 30)
	jwtExp := getEnvInt("JWT_EXPIRATION_HOURS", 24)

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "supportpilot"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", "change-me-in-production"),
			Expiration: time.Duration(jwtExp) * time.Hour,
		},
		GigaChat: GigaChatConfig{
			APIKey:             getEnv("GIGACHAT_API_KEY", ""),
			Scope:              getEnv("GIGACHAT_SCOPE", "GIGACHAT_API_PERS"),
			Model:              getEnv("GIGACHAT_MODEL", "GigaChat"),
			InsecureSkipVerify: getEnv("GIGACHAT_INSECURE_SKIP_VERIFY", "false") == "true",
		},
		Chunking: ChunkingConfig{
			MaxChars:     getEnvInt("CHUNK_MAX_CHARS", 4000),
			OverlapChars: getEnvInt("CHUNK_OVERLAP_CHARS", 400),
		},
		Search: SearchConfig{
			TopK:            getEnvInt("SEARCH_TOP_K", 5),
			ScoreFloor:      getEnvFloat("SEARCH_SCORE_FLOOR", 0.1),
			HeadingWeight:   getEnvFloat("SEARCH_HEADING_WEIGHT", 2.5),
			ProximityBonus:  getEnvFloat("SEARCH_PROXIMITY_BONUS", 1.5),
			ExcerptMaxChars: getEnvInt("SEARCH_EXCERPT_MAX_CHARS", 280),
		},
		Confidence: ConfidenceConfig{
			MinRelevance:    getEnvFloat("CONFIDENCE_MIN_RELEVANCE", 1.0),
			HighGap:         getEnvFloat("CONFIDENCE_HIGH_GAP", 2.0),
			HighAvgTop3:     getEnvFloat("CONFIDENCE_HIGH_AVG_TOP3", 4.5),
			MediumRelevance: getEnvFloat("CONFIDENCE_MEDIUM_RELEVANCE", 2.5),
		},
		Ticket: TicketConfig{
			MaxTitleChars:  getEnvInt("TICKET_MAX_TITLE_CHARS", 80),
			MaxSuggestions: getEnvInt("TICKET_MAX_SUGGESTIONS", 5),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
