package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/lib/pq"
	"github.com/reporadar/reporadar-backend/internal/config"

	"github.com/sirupsen/logrus"
)

// InitDB initializes the PostgreSQL database connection with connection pooling using the provided logger and config.
// Returns a *sql.DB instance for database operations. Ensures the connection is valid before returning.
func InitDB(logger *logrus.Logger, config *config.Config) *sql.DB {
	// Build the PostgreSQL connection URL from config values
	// URL-encode the password to handle special characters
	encodedPassword := url.QueryEscape(config.DBPassword)
	dbURL := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=disable",
		config.DBUser, encodedPassword, config.DBHost, config.DBPort, config.DBName)

	conn, err := sql.Open("postgres", dbURL)
	if err != nil {
		logger.Fatal("Cannot open DB: ", err)
	}

	configureConnectionPool(conn, config, logger)

	// Ping the database to ensure the connection is valid
	if err := conn.Ping(); err != nil {
		logger.Fatal("Cannot ping DB: ", err)
	}

	logger.WithFields(logrus.Fields{
		"max_open_conns":     config.DBMaxOpenConns,
		"max_idle_conns":     config.DBMaxIdleConns,
		"conn_max_lifetime":  fmt.Sprintf("%dm", config.DBConnMaxLifetime),
		"conn_max_idle_time": fmt.Sprintf("%dm", config.DBConnMaxIdleTime),
	}).Info("Database connection pool configured")

	return conn
}

// configureConnectionPool sets up the connection pool with optimal settings for the environment
func configureConnectionPool(db *sql.DB, config *config.Config, logger *logrus.Logger) {
	db.SetMaxOpenConns(config.DBMaxOpenConns)
	db.SetMaxIdleConns(config.DBMaxIdleConns)

	// Bound connection reuse so stale connections get recycled
	db.SetConnMaxLifetime(time.Duration(config.DBConnMaxLifetime) * time.Minute)
	db.SetConnMaxIdleTime(time.Duration(config.DBConnMaxIdleTime) * time.Minute)

	logger.WithFields(logrus.Fields{
		"environment":        config.Env,
		"max_open_conns":     config.DBMaxOpenConns,
		"max_idle_conns":     config.DBMaxIdleConns,
		"conn_max_lifetime":  fmt.Sprintf("%dm", config.DBConnMaxLifetime),
		"conn_max_idle_time": fmt.Sprintf("%dm", config.DBConnMaxIdleTime),
	}).Debug("Database connection pool settings applied")
}

// GetConnectionStats returns current connection pool statistics for monitoring
func GetConnectionStats(db *sql.DB) map[string]interface{} {
	stats := db.Stats()
	return map[string]interface{}{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration":        stats.WaitDuration.String(),
		"max_idle_closed":      stats.MaxIdleClosed,
		"max_lifetime_closed":  stats.MaxLifetimeClosed,
	}
}
