package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var db *gorm.DB

func GetDB() *gorm.DB {
	return db
}

func init() {
	// Loaded here, not dialed here: a missing .env must not block config
	// validation, and connecting is deferred to ConnectDatabaseWithRetry so a
	// ConfigError can fail the CLI before any network I/O.
	godotenv.Load()
}

// ConnectDatabaseWithRetry opens the warehouse connection and sets the
// package-global DB handle, retrying with exponential backoff on failure.
// Call this from main() after environment validation.
func ConnectDatabaseWithRetry() error {
	dsn, err := DSNFromEnv()
	if err != nil {
		return err
	}

	var attempt int
	for {
		attempt++
		var openErr error
		db, openErr = gorm.Open(mysql.Open(dsn), gormConfig())
		if openErr == nil {
			if sqlDB, derr := db.DB(); derr == nil && sqlDB != nil {
				sqlDB.SetMaxOpenConns(intFromEnv("WAREHOUSE_MAX_OPEN_CONNS", 10))
				sqlDB.SetMaxIdleConns(intFromEnv("WAREHOUSE_MAX_IDLE_CONNS", 5))
				sqlDB.SetConnMaxLifetime(time.Duration(intFromEnv("WAREHOUSE_CONN_MAX_LIFETIME_SECONDS", 300)) * time.Second)
			}
			log.Printf("connected to warehouse (attempt=%d)", attempt)
			return nil
		}

		if attempt >= 5 {
			return fmt.Errorf("connect warehouse after %d attempts: %w", attempt, openErr)
		}

		sleep := time.Second * time.Duration(1<<min(attempt, 5))
		if sleep > 30*time.Second {
			sleep = 30 * time.Second
		}
		log.Printf("failed to connect warehouse (attempt=%d): %v; retrying in %s", attempt, openErr, sleep)
		time.Sleep(sleep)
	}
}

// DSNFromEnv builds the MySQL DSN for the warehouse from environment
// variables, returning an error describing missing required vars.
func DSNFromEnv() (string, error) {
	user := os.Getenv("WAREHOUSE_DB_USER")
	password := os.Getenv("WAREHOUSE_DB_PASSWORD")
	host := os.Getenv("WAREHOUSE_DB_HOST")
	port := os.Getenv("WAREHOUSE_DB_PORT")
	name := os.Getenv("WAREHOUSE_DB_NAME")

	var missing []string
	for k, v := range map[string]string{
		"WAREHOUSE_DB_USER": user,
		"WAREHOUSE_DB_HOST": host,
		"WAREHOUSE_DB_NAME": name,
	} {
		if v == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("config: missing required env vars: %s", strings.Join(missing, ", "))
	}
	if port == "" {
		port = "3306"
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?multiStatements=true&parseTime=true&loc=Local",
		user, password, host, port, name), nil
}

func intFromEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         gormLogger(),
		NamingStrategy: schema.NamingStrategy{SingularTable: false},
	}
}

func gormLogger() logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			Colorful:      false,
			LogLevel:      logger.Error,
			SlowThreshold: time.Second,
		},
	)
}
