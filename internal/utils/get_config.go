package utils

import (
	"errors"
	"os"
	"strconv"
	"sync"

	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Server configuration
	AppPort     string `yaml:"APP_PORT"`
	AppURL      string `yaml:"APP_URL"`
	CORSOrigins string `yaml:"CORS_ORIGINS"`

	// Database configuration
	DBDriver   string `yaml:"DB_DRIVER"`
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`
	DBPath     string `yaml:"DB_PATH"`

	JWTSecret string `yaml:"JWT_SECRET"`

	// Listing cache
	RedisAddr       string `yaml:"REDIS_ADDR"`
	RedisPassword   string `yaml:"REDIS_PASSWORD"`
	CacheTTLSeconds string `yaml:"CACHE_TTL_SECONDS"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`
}

var (
	config   Config
	configMu sync.RWMutex

	defaults = map[string]string{
		"APP_PORT":          "8080",
		"APP_URL":           "http://localhost:5173",
		"CORS_ORIGINS":      "http://localhost:5173",
		"DB_DRIVER":         "postgres",
		"DB_PORT":           "5432",
		"DB_PATH":           "./data/freshtrack.db",
		"CACHE_TTL_SECONDS": "300",
		"SMTP_PORT":         "587",
	}
)

// LoadConfig reads .env (optional) and then config.yaml (optional).
// Environment variables always take precedence over the yaml file.
func LoadConfig() {
	LoadConfigFile("config.yaml")
}

func LoadConfigFile(path string) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnf("error reading .env file: %v", err)
	}

	file, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warnf("error reading YAML file: %s", err)
		}
		return
	}

	var parsed Config
	if err := yaml.Unmarshal(file, &parsed); err != nil {
		log.Errorf("error parsing YAML file: %s", err)
		return
	}

	configMu.Lock()
	config = parsed
	configMu.Unlock()
}

func GetConfig(key string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}

	configMu.RLock()
	v := config.lookup(key)
	configMu.RUnlock()
	if v != "" {
		return v
	}
	return defaults[key]
}

func GetConfigInt(key string, fallback int) int {
	v, err := strconv.Atoi(GetConfig(key))
	if err != nil {
		return fallback
	}
	return v
}

func (c *Config) lookup(key string) string {
	switch key {
	case "APP_PORT":
		return c.AppPort
	case "APP_URL":
		return c.AppURL
	case "CORS_ORIGINS":
		return c.CORSOrigins
	case "DB_DRIVER":
		return c.DBDriver
	case "DB_USER":
		return c.DBUser
	case "DB_NAME":
		return c.DBName
	case "DB_PASSWORD":
		return c.DBPassword
	case "DB_PORT":
		return c.DBPort
	case "DB_HOST":
		return c.DBHost
	case "DB_PATH":
		return c.DBPath
	case "JWT_SECRET":
		return c.JWTSecret
	case "REDIS_ADDR":
		return c.RedisAddr
	case "REDIS_PASSWORD":
		return c.RedisPassword
	case "CACHE_TTL_SECONDS":
		return c.CacheTTLSeconds
	case "SMTP_HOST":
		return c.SMTPHost
	case "SMTP_PORT":
		return c.SMTPPort
	case "SMTP_SENDER_NAME":
		return c.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return c.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return c.SMTPAuthPassword
	case "AWS_S3_BUCKET":
		return c.AWSS3Bucket
	case "AWS_S3_REGION":
		return c.AWSS3Region
	case "AWS_ACCESS_KEY":
		return c.AWSAccessKey
	case "AWS_SECRET_KEY":
		return c.AWSSecretKey
	default:
		return ""
	}
}
