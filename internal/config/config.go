package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Identity IdentityConfig
	Chat     ChatConfig
	Agency   AgencyConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JWTSecret          string
	UsernamePrefix     string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

// IdentityConfig points at the Keycloak realm that owns the accounts.
type IdentityConfig struct {
	BaseURL        string
	Realm          string
	AdminUsername  string
	AdminPassword  string
	AdminClientID  string
	EmailDummyHost string
}

// ChatConfig points at the Rocket.Chat instance plus the two service
// accounts used for group management.
type ChatConfig struct {
	BaseURL         string
	SystemUserID    string
	SystemToken     string
	TechnicalUserID string
	TechnicalToken  string
}

type AgencyConfig struct {
	BaseURL string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JWTSecret:          getEnv("JWT_SECRET", ""),
			UsernamePrefix:     getEnv("ANONYMOUS_USERNAME_PREFIX", "Ratsuchende_r "),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Online Counseling"),
		},
		Identity: IdentityConfig{
			BaseURL:        getEnv("KEYCLOAK_BASE_URL", "http://localhost:8080/auth"),
			Realm:          getEnv("KEYCLOAK_REALM", "online-counseling"),
			AdminUsername:  getEnv("KEYCLOAK_ADMIN_USERNAME", ""),
			AdminPassword:  getEnv("KEYCLOAK_ADMIN_PASSWORD", ""),
			AdminClientID:  getEnv("KEYCLOAK_ADMIN_CLIENT_ID", "admin-cli"),
			EmailDummyHost: getEnv("EMAIL_DUMMY_SUFFIX", "counseling.local"),
		},
		Chat: ChatConfig{
			BaseURL:         getEnv("ROCKETCHAT_BASE_URL", "http://localhost:3500"),
			SystemUserID:    getEnv("ROCKETCHAT_SYSTEM_USER_ID", ""),
			SystemToken:     getEnv("ROCKETCHAT_SYSTEM_TOKEN", ""),
			TechnicalUserID: getEnv("ROCKETCHAT_TECHNICAL_USER_ID", ""),
			TechnicalToken:  getEnv("ROCKETCHAT_TECHNICAL_TOKEN", ""),
		},
		Agency: AgencyConfig{
			BaseURL: getEnv("AGENCY_SERVICE_BASE_URL", "http://localhost:8081/service"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
