package database

import (
	"database/sql"
	"log"
	"time"

	_ "github.com/lib/pq"
)

var PostgresDB *sql.DB

// ConnectPostgres connects to the PostgreSQL side store that keeps the
// moderation audit trail.
func ConnectPostgres(postgresURI string) error {
	var err error

	PostgresDB, err = sql.Open("postgres", postgresURI)
	if err != nil {
		return err
	}

	PostgresDB.SetMaxOpenConns(25)
	PostgresDB.SetMaxIdleConns(5)
	PostgresDB.SetConnMaxLifetime(5 * time.Minute)

	if err = PostgresDB.Ping(); err != nil {
		// Leave the handle nil so audit writes know the store is gone.
		PostgresDB.Close()
		PostgresDB = nil
		return err
	}

	log.Println("✅ Connected to PostgreSQL")

	if err = InitPostgresTables(); err != nil {
		PostgresDB.Close()
		PostgresDB = nil
		return err
	}
	return nil
}

// InitPostgresTables creates the audit tables if they don't exist
func InitPostgresTables() error {
	queries := []string{
		// Moderation audit: one row per admin moderation decision
		`CREATE TABLE IF NOT EXISTS moderation_audit (
			id UUID PRIMARY KEY,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			admin_id VARCHAR(24) NOT NULL,
			content_type VARCHAR(20) NOT NULL,
			content_id VARCHAR(24) NOT NULL,
			action VARCHAR(20) NOT NULL,
			reason TEXT
		)`,

		`CREATE INDEX IF NOT EXISTS idx_moderation_audit_created_at ON moderation_audit(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_moderation_audit_admin_id ON moderation_audit(admin_id)`,
		`CREATE INDEX IF NOT EXISTS idx_moderation_audit_content_id ON moderation_audit(content_id)`,
	}

	for _, query := range queries {
		if _, err := PostgresDB.Exec(query); err != nil {
			return err
		}
	}

	log.Println("✅ PostgreSQL tables initialized")
	return nil
}

// DisconnectPostgres closes the PostgreSQL connection
func DisconnectPostgres() error {
	if PostgresDB != nil {
		return PostgresDB.Close()
	}
	return nil
}
