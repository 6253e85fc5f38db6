package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	AuthFirebase = "firebase"
	AuthJWT      = "jwt"
)

type ServerConfig struct {
	Port            string
	AppName         string
	CORSOrigins     string
	ShutdownTimeout time.Duration
}

type DBConfig struct {
	Driver string
	DSN    string // Data Source Name
}

type FirebaseConfig struct {
	ProjectID       string
	CredentialsFile string
	CredentialsJSON string
	CheckRevoked    bool
}

type JWTConfig struct {
	Secret string
	Issuer string
}

type AuthConfig struct {
	Provider string
	Firebase FirebaseConfig
	JWT      JWTConfig
}

type LogConfig struct {
	Mode     string // production | development
	Level    string
	Filename string // empty disables file output
}

type InventoryConfig struct {
	LowStockThreshold int
}

type Config struct {
	Server    ServerConfig
	Database  DBConfig
	Auth      AuthConfig
	Log       LogConfig
	Inventory InventoryConfig
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from environment variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        GetEnv("PORT", "8080"),
			AppName:     GetEnv("APP_NAME", "Inventory Sales API"),
			CORSOrigins: GetEnv("CORS_ALLOW_ORIGINS", "*"),
		},
		Database: DBConfig{
			Driver: strings.ToLower(GetEnv("STORAGE_DRIVER", StoragePostgres)),
			DSN:    databaseDSN(),
		},
		Auth: AuthConfig{
			Provider: strings.ToLower(GetEnv("AUTH_PROVIDER", AuthFirebase)),
			Firebase: FirebaseConfig{
				ProjectID:       GetEnv("FIREBASE_PROJECT_ID", ""),
				CredentialsFile: GetEnv("FIREBASE_CREDENTIALS_FILE", "serviceAccountKey.json"),
				CredentialsJSON: GetEnv("FIREBASE_CREDENTIALS_JSON", ""),
			},
			JWT: JWTConfig{
				Secret: GetEnv("JWT_SECRET", ""),
				Issuer: GetEnv("JWT_ISSUER", "go-inventory-sales"),
			},
		},
		Log: LogConfig{
			Mode:     GetEnv("LOG_MODE", "development"),
			Level:    GetEnv("LOG_LEVEL", "info"),
			Filename: GetEnv("LOG_FILE", ""),
		},
	}

	var err error
	if cfg.Server.ShutdownTimeout, err = getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.Auth.Firebase.CheckRevoked, err = getEnvAsBool("FIREBASE_CHECK_REVOKED", false); err != nil {
		return nil, err
	}
	if cfg.Inventory.LowStockThreshold, err = getEnvAsInt("LOW_STOCK_THRESHOLD", 10); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case StorageMemory:
	case StoragePostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("config: DATABASE_URL or DB_HOST/DB_NAME must be set for the postgres driver")
		}
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.Database.Driver)
	}

	switch c.Auth.Provider {
	case AuthFirebase:
	case AuthJWT:
		if c.Auth.JWT.Secret == "" {
			return fmt.Errorf("config: JWT_SECRET must be set when AUTH_PROVIDER=jwt")
		}
	default:
		return fmt.Errorf("config: unknown AUTH_PROVIDER %q", c.Auth.Provider)
	}

	if c.Inventory.LowStockThreshold < 0 {
		return fmt.Errorf("config: LOW_STOCK_THRESHOLD must not be negative")
	}
	return nil
}

func databaseDSN() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	if os.Getenv("DB_HOST") == "" || os.Getenv("DB_NAME") == "" {
		return ""
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		GetEnv("DB_PORT", "5432"),
		GetEnv("DB_SSLMODE", "disable"),
	)
}

// GetEnv returns the variable's value, or fallback when it is unset or empty.
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	strValue := os.Getenv(key)
	if strValue == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(strValue)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return value, nil
}

func getEnvAsBool(key string, fallback bool) (bool, error) {
	strValue := os.Getenv(key)
	if strValue == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(strValue)
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", key, err)
	}
	return value, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	strValue := os.Getenv(key)
	if strValue == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(strValue)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return value, nil
}
