package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/ersonp/genlib/internal/domain/entities"
)

// LogAction logs an action to the audit log.
func (r *Repository) LogAction(ctx context.Context, action string, subject string, details map[string]any) error {
	var detailsJSON sql.NullString
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshaling details: %w", err)
		}
		detailsJSON = sql.NullString{String: string(data), Valid: true}
	}

	var subjectPtr sql.NullString
	if subject != "" {
		subjectPtr = sql.NullString{String: subject, Valid: true}
	}

	query := `INSERT INTO audit_log (action, subject, details, created_at) VALUES (?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, action, subjectPtr, detailsJSON, timeNow()); err != nil {
		return fmt.Errorf("logging action: %w", err)
	}
	return nil
}

// FindAuditLogByAction finds audit log entries by action type, newest first.
// An empty action matches every entry; limit <= 0 returns all of them.
func (r *Repository) FindAuditLogByAction(ctx context.Context, action string, limit int) ([]entities.AuditEntry, error) {
	builder := sq.Select("id", "action", "subject", "details", "created_at").
		From("audit_log").
		OrderBy("created_at DESC", "id DESC")
	if action != "" {
		builder = builder.Where(sq.Eq{"action": action})
	}
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building audit query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close()

	entries := make([]entities.AuditEntry, 0, max(limit, 0))
	for rows.Next() {
		var entry entities.AuditEntry
		var subject, details sql.NullString

		if err := rows.Scan(
			&entry.ID,
			&entry.Action,
			&subject,
			&details,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}

		entry.Subject = subject.String
		if details.Valid {
			if err := json.Unmarshal([]byte(details.String), &entry.Details); err != nil {
				return nil, fmt.Errorf("unmarshaling audit details: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
