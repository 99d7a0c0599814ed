package config

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config holds all configuration values from environment.
type Config struct {
	AppPort   string
	LogLevel  string
	LogPretty bool
	BodyLimit int // request body limit in bytes

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Map states computation
	ComputeTimeout           time.Duration
	ComputeWorkers           int
	ComputeParallelThreshold int

	// Places queries
	PlacesMaxLimit int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("placemap_port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", false)
	v.SetDefault("body_limit_mb", 16)

	v.SetDefault("db_port", "5432")

	v.SetDefault("compute_timeout", 30*time.Second)
	v.SetDefault("compute_workers", 4)
	v.SetDefault("compute_parallel_threshold", 512)

	v.SetDefault("places_max_limit", 10000)
}

// LoadConfig loads configuration from environment variables.
// Database settings are optional; see DatabaseConfigured.
func LoadConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		AppPort:   v.GetString("placemap_port"),
		LogLevel:  v.GetString("log_level"),
		LogPretty: v.GetBool("log_pretty"),
		BodyLimit: v.GetInt("body_limit_mb") * 1024 * 1024,

		DBHost:     v.GetString("db_host"),
		DBPort:     v.GetString("db_port"),
		DBUser:     v.GetString("db_user"),
		DBPassword: v.GetString("db_password"),
		DBName:     v.GetString("db_name"),

		ComputeTimeout:           v.GetDuration("compute_timeout"),
		ComputeWorkers:           v.GetInt("compute_workers"),
		ComputeParallelThreshold: v.GetInt("compute_parallel_threshold"),

		PlacesMaxLimit: v.GetInt("places_max_limit"),
	}

	if cfg.ComputeWorkers < 0 {
		return nil, fmt.Errorf("invalid COMPUTE_WORKERS value: %d", cfg.ComputeWorkers)
	}
	if cfg.ComputeTimeout < 0 {
		return nil, fmt.Errorf("invalid COMPUTE_TIMEOUT value: %s", cfg.ComputeTimeout)
	}
	if cfg.PlacesMaxLimit <= 0 {
		return nil, fmt.Errorf("invalid PLACES_MAX_LIMIT value: %d", cfg.PlacesMaxLimit)
	}
	if cfg.BodyLimit <= 0 {
		return nil, fmt.Errorf("invalid BODY_LIMIT_MB value: %d", cfg.BodyLimit)
	}
	return cfg, nil
}

// DatabaseConfigured reports whether enough settings are present to connect.
func (c *Config) DatabaseConfigured() bool {
	return c.DBHost != "" && c.DBUser != "" && c.DBName != ""
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

// ConnectDatabase initializes a GORM database connection to PostgreSQL.
func ConnectDatabase(cfg *Config) (*gorm.DB, error) {
	if !cfg.DatabaseConfigured() {
		return nil, errors.New("database configuration is incomplete")
	}
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	return db, nil
}
