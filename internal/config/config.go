package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	// DriverMongo stores each collection in a MongoDB collection.
	DriverMongo = "mongo"
	// DriverPostgres stores each collection in a PostgreSQL JSONB table.
	DriverPostgres = "postgres"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI               string
	Database          string
	ConnectTimeoutSec int
}

// StoreConfig selects the document store driver and carries the settings for each driver.
type StoreConfig struct {
	Driver   string
	Mongo    MongoConfig
	Postgres DatabaseConfig
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level    string
	Timezone string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port      string
	Log       LogConfig
	Store     StoreConfig
	MinIO     MinIOConfig
	Snapshots []string
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Real environment variables take precedence over the file.
func Load() *AppConfig {
	return &AppConfig{
		Port: getEnv("PORT", "3000"),
		Log: LogConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Timezone: getEnv("LOG_TIMEZONE", "UTC"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", DriverMongo)),
			Mongo: MongoConfig{
				URI:               getEnv("MONGO_URI", "mongodb://localhost:27017"),
				Database:          getEnv("MONGO_DATABASE", ""),
				ConnectTimeoutSec: getEnvInt("MONGO_CONNECT_TIMEOUT_SEC", 10),
			},
			Postgres: DatabaseConfig{
				Host:               getEnv("DB_HOST", ""),
				Port:               getEnv("DB_PORT", "5432"),
				User:               getEnv("DB_USER", ""),
				Password:           getEnv("DB_PASSWORD", ""),
				Name:               getEnv("DB_NAME", ""),
				SSLMode:            getEnv("DB_SSLMODE", "disable"),
				MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
				MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
				ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
			},
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Snapshots: getEnvList("SNAPSHOT_COLLECTIONS", []string{"books", "people"}),
	}
}

// WithDatabaseDefault fills the database name of the active driver when none was configured.
func (c *AppConfig) WithDatabaseDefault(name string) *AppConfig {
	if c.Store.Mongo.Database == "" {
		c.Store.Mongo.Database = name
	}
	if c.Store.Postgres.Name == "" {
		c.Store.Postgres.Name = name
	}
	return c
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
