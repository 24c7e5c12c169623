package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"roomnlu/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PostgresRepository handles database operations
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	// Disable prepared statement caching to avoid "unnamed prepared statement does not exist" errors
	if !strings.Contains(dsn, "?") {
		dsn += "?prefer_simple_protocol=true"
	} else {
		dsn += "&prefer_simple_protocol=true"
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// LogParse records one pipeline run in the parse_logs audit table.
func (r *PostgresRepository) LogParse(ctx context.Context, entry *model.ParseLog) error {
	query := `
		INSERT INTO parse_logs (parse_id, utterance, model_name, template, slots, warnings, bypassed, response_time_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ParseID, entry.Utterance, entry.ModelName, entry.Template,
		entry.Slots, entry.Warnings, entry.Bypassed, entry.ResponseTimeMs,
	)
	if err != nil {
		return fmt.Errorf("failed to log parse: %w", err)
	}
	return nil
}

// LogFeedback records a user verdict against a previous parse.
func (r *PostgresRepository) LogFeedback(ctx context.Context, parseID, verdict string) error {
	query := `
		UPDATE parse_logs
		SET verdict = $2, updated_at = NOW()
		WHERE parse_id = $1
	`
	res, err := r.db.ExecContext(ctx, query, parseID, verdict)
	if err != nil {
		return fmt.Errorf("failed to log feedback: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("no parse found for id %s", parseID)
	}
	return nil
}

// GetParseLog retrieves a single parse log by its parse id.
func (r *PostgresRepository) GetParseLog(ctx context.Context, parseID string) (*model.ParseLog, error) {
	var entry model.ParseLog
	query := `
		SELECT id, parse_id, utterance, model_name, template, slots, warnings, bypassed, response_time_ms, verdict, created_at, updated_at
		FROM parse_logs
		WHERE parse_id = $1
	`
	err := r.db.GetContext(ctx, &entry, query, parseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get parse log: %w", err)
	}
	return &entry, nil
}
