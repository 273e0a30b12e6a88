package db

import (
	"database/sql"
	"fmt"
	"log"

	"retunefm/config"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

var DB *sql.DB

// ConnectDB establishes a connection to the database.
func ConnectDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = DB.Ping(); err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to the database.")
	return nil
}

// InitDB initializes the database schema, creating tables if they don't exist.
func InitDB() error {
	if err := createRemixJobsTable(); err != nil {
		return err
	}
	log.Println("Database initialization completed.")
	return nil
}

func createRemixJobsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS remix_jobs (
		id VARCHAR(36) PRIMARY KEY,
		original_filename VARCHAR(512) NOT NULL,
		source_key VARCHAR(16) NOT NULL,
		source_bpm INT NOT NULL,
		target_key VARCHAR(16) NOT NULL,
		target_bpm INT NOT NULL,
		semitone_shift INT NOT NULL,
		pitch_factor DOUBLE NOT NULL,
		tempo_stages TEXT NOT NULL,
		duration FLOAT,
		status VARCHAR(16) NOT NULL,
		output_object_key VARCHAR(767),
		error_message TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create remix_jobs table: %w", err)
	}
	log.Println("remix_jobs table initialized successfully (or already exists).")
	return nil
}
