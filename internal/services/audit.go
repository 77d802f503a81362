package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mindhaven-app/mindhaven-backend/internal/database"
)

// AuditEntry is one admin moderation decision, kept in PostgreSQL so the
// trail survives deletion of the moderated document.
type AuditEntry struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	AdminID     string    `json:"adminId"`
	ContentType string    `json:"contentType"` // "journal" or "forum"
	ContentID   string    `json:"contentId"`
	Action      string    `json:"action"` // "approve", "reject", "delete"
	Reason      string    `json:"reason,omitempty"`
}

// RecordModeration inserts an audit row for a moderation action.
func RecordModeration(ctx context.Context, adminID, contentType, contentID, action, reason string) error {
	if database.PostgresDB == nil {
		return nil
	}
	_, err := database.PostgresDB.ExecContext(ctx,
		`INSERT INTO moderation_audit (id, admin_id, content_type, content_id, action, reason)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.NewString(), adminID, contentType, contentID, action, reason,
	)
	return err
}

// ListModeration returns the most recent audit rows, newest first.
func ListModeration(ctx context.Context, limit, offset int) ([]AuditEntry, int64, error) {
	if database.PostgresDB == nil {
		return []AuditEntry{}, 0, nil
	}

	var total int64
	if err := database.PostgresDB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM moderation_audit`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := database.PostgresDB.QueryContext(ctx,
		`SELECT id, created_at, admin_id, content_type, content_id, action, COALESCE(reason, '')
		 FROM moderation_audit
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries := []AuditEntry{}
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(&e.ID, &e.CreatedAt, &e.AdminID, &e.ContentType, &e.ContentID, &e.Action, &e.Reason); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
