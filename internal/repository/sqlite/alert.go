package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/pratik-mahalle/creditwatch/internal/domain/alert"
	"github.com/pratik-mahalle/creditwatch/internal/pkg/errors"
)

// AlertRepository is the durable mirror of the alert collection.
type AlertRepository struct {
	db *DB
}

// NewAlertRepository creates an alert repository.
func NewAlertRepository(db *DB) alert.Repository {
	return &AlertRepository{db: db}
}

func (r *AlertRepository) Insert(ctx context.Context, a *alert.Alert) error {
	metadata, err := json.Marshal(a.Metadata)
	if err != nil {
		return errors.DatabaseError("Failed to encode alert metadata", err)
	}

	query := `
		INSERT INTO alerts (id, type, severity, status, title, message, entity_id, entity_name, metadata,
		                    created_at, read_at, dismissed_at, resolved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.sql.ExecContext(ctx, query,
		a.ID, a.Type, a.Severity, a.Status, a.Title, a.Message, a.EntityID, a.EntityName, string(metadata),
		a.CreatedAt.Format(time.RFC3339Nano), nullableTime(a.ReadAt), nullableTime(a.DismissedAt), nullableTime(a.ResolvedAt),
	)
	if err != nil {
		return errors.DatabaseError("Failed to insert alert", err)
	}
	return nil
}

func (r *AlertRepository) Update(ctx context.Context, a *alert.Alert) error {
	metadata, err := json.Marshal(a.Metadata)
	if err != nil {
		return errors.DatabaseError("Failed to encode alert metadata", err)
	}

	query := `
		UPDATE alerts SET status = ?, metadata = ?, read_at = ?, dismissed_at = ?, resolved_at = ?
		WHERE id = ?
	`

	result, err := r.db.sql.ExecContext(ctx, query,
		a.Status, string(metadata), nullableTime(a.ReadAt), nullableTime(a.DismissedAt), nullableTime(a.ResolvedAt), a.ID,
	)
	if err != nil {
		return errors.DatabaseError("Failed to update alert", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("Alert")
	}
	return nil
}

func (r *AlertRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.sql.ExecContext(ctx, `DELETE FROM alerts WHERE id = ?`, id)
	if err != nil {
		return errors.DatabaseError("Failed to delete alert", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("Alert")
	}
	return nil
}

func (r *AlertRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.sql.ExecContext(ctx, `DELETE FROM alerts`); err != nil {
		return errors.DatabaseError("Failed to clear alerts", err)
	}
	return nil
}

func (r *AlertRepository) LoadAll(ctx context.Context) ([]*alert.Alert, error) {
	query := `
		SELECT id, type, severity, status, title, message, entity_id, entity_name, metadata,
		       created_at, read_at, dismissed_at, resolved_at
		FROM alerts ORDER BY created_at DESC
	`

	rows, err := r.db.sql.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.DatabaseError("Failed to load alerts", err)
	}
	defer rows.Close()

	var alerts []*alert.Alert
	for rows.Next() {
		var a alert.Alert
		var metadata string
		var createdAt string
		var readAt, dismissedAt, resolvedAt sql.NullString

		err := rows.Scan(&a.ID, &a.Type, &a.Severity, &a.Status, &a.Title, &a.Message,
			&a.EntityID, &a.EntityName, &metadata, &createdAt, &readAt, &dismissedAt, &resolvedAt)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan alert", err)
		}

		if metadata != "" {
			if err := json.Unmarshal([]byte(metadata), &a.Metadata); err != nil {
				return nil, errors.DatabaseError("Failed to decode alert metadata", err)
			}
		}
		a.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		a.ReadAt = parseNullableTime(readAt)
		a.DismissedAt = parseNullableTime(dismissedAt)
		a.ResolvedAt = parseNullableTime(resolvedAt)

		alerts = append(alerts, &a)
	}

	return alerts, rows.Err()
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339Nano)
}

func parseNullableTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return nil
	}
	return &t
}
