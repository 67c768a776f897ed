package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq" // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"

	"github.com/hydrolog-io/hydrolog/internal/config"
)

var dbConn *sql.DB
var dbType string

// Init initializes the database connection and schema
func Init(cfg *config.Config) error {
	if dbConn != nil {
		return nil
	}

	var db *sql.DB
	var err error

	switch cfg.Database.Type {
	case "postgres":
		db, err = initPostgreSQL(cfg)
	case "sqlite", "":
		db, err = initSQLite(cfg)
	default:
		return fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %v", err)
	}

	if err := initSchema(db, cfg.Database.Type); err != nil {
		db.Close()
		return fmt.Errorf("failed to initialize schema: %v", err)
	}

	dbConn = db
	dbType = cfg.Database.Type
	if dbType == "" {
		dbType = "sqlite"
	}

	log.Printf("Database initialized successfully (type: %s)", dbType)
	return nil
}

func initPostgreSQL(cfg *config.Config) (*sql.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL connection: %v", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	return db, nil
}

func initSQLite(cfg *config.Config) (*sql.DB, error) {
	// Ensure data directory exists
	dataDir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_foreign_keys=on", cfg.Database.Path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %v", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	return db, nil
}

// initSchema creates the database schema if it doesn't exist
func initSchema(db *sql.DB, dbType string) error {
	var queries []string

	if dbType == "postgres" {
		queries = []string{
			`CREATE TABLE IF NOT EXISTS users (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				email TEXT UNIQUE NOT NULL,
				password TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
			`CREATE TABLE IF NOT EXISTS water_records (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL REFERENCES users(id),
				day TEXT NOT NULL,
				full_bottles INTEGER NOT NULL DEFAULT 0,
				half_bottles INTEGER NOT NULL DEFAULT 0,
				total_bottles DOUBLE PRECISION NOT NULL DEFAULT 0,
				total_ml DOUBLE PRECISION NOT NULL DEFAULT 0,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				UNIQUE (user_id, day)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_water_records_user_day ON water_records(user_id, day DESC)`,
		}
	} else {
		queries = []string{
			`CREATE TABLE IF NOT EXISTS users (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				email TEXT UNIQUE NOT NULL,
				password TEXT NOT NULL,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS water_records (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL REFERENCES users(id),
				day TEXT NOT NULL,
				full_bottles INTEGER NOT NULL DEFAULT 0,
				half_bottles INTEGER NOT NULL DEFAULT 0,
				total_bottles REAL NOT NULL DEFAULT 0,
				total_ml REAL NOT NULL DEFAULT 0,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL,
				UNIQUE (user_id, day)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_water_records_user_day ON water_records(user_id, day DESC)`,
		}
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("schema statement failed: %v", err)
		}
	}
	return nil
}

// GetConnection returns the database connection
func GetConnection() *sql.DB {
	return dbConn
}

// Close closes the database connection
func Close() error {
	if dbConn != nil {
		err := dbConn.Close()
		dbConn = nil
		return err
	}
	return nil
}

// Health verifies the database connection with a trivial read.
func Health() error {
	if dbConn == nil {
		return fmt.Errorf("database not initialized")
	}
	return dbConn.Ping()
}

// GenerateID generates a new unique row ID
func GenerateID() string {
	return uuid.New().String()
}
