package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	JWTTTL     time.Duration
	ServerPort string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CoursesCacheTTL time.Duration
	CourseCacheTTL  time.Duration

	CertificateBaseURL string
	CORSOrigins        string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	return &Config{
		AppEnv:     getEnv("APP_ENV", "development"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "cursifynova"),
		JWTSecret:  getEnv("JWT_SECRET", "secret"),
		JWTTTL:     time.Duration(getEnvInt("JWT_TTL_HOURS", 72)) * time.Hour,
		ServerPort: getEnv("SERVER_PORT", "8080"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 1),

		CoursesCacheTTL: time.Duration(getEnvInt("CACHE_COURSES_TTL", 300)) * time.Second,
		CourseCacheTTL:  time.Duration(getEnvInt("CACHE_COURSE_TTL", 600)) * time.Second,

		CertificateBaseURL: strings.TrimRight(getEnv("CERTIFICATE_BASE_URL", "http://localhost:8080/api/certificates"), "/"),
		CORSOrigins:        getEnv("CORS_ORIGINS", "*"),
	}, nil
}

// IsProduction reports whether internal error details must be hidden from clients.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production") || strings.EqualFold(c.AppEnv, "prod")
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		log.Printf("Invalid integer for %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}
