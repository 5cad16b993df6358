package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/pratik-mahalle/creditwatch/internal/domain/notification"
	"github.com/pratik-mahalle/creditwatch/internal/pkg/errors"
)

// PreferenceRepository persists the single process-wide notification
// preference row.
type PreferenceRepository struct {
	db *DB
}

// NewPreferenceRepository creates a preference repository.
func NewPreferenceRepository(db *DB) notification.Repository {
	return &PreferenceRepository{db: db}
}

// Load returns the persisted preferences, or nil when nothing has
// been saved yet.
func (r *PreferenceRepository) Load(ctx context.Context) (*notification.Preferences, error) {
	query := `
		SELECT enable_sound, enable_desktop, enable_email, enable_sms, muted_types
		FROM notification_preferences WHERE id = 1
	`

	var soundInt, desktopInt, emailInt, smsInt int
	var mutedTypes sql.NullString
	err := r.db.sql.QueryRowContext(ctx, query).Scan(&soundInt, &desktopInt, &emailInt, &smsInt, &mutedTypes)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to load notification preferences", err)
	}

	prefs := &notification.Preferences{
		EnableSound:   soundInt == 1,
		EnableDesktop: desktopInt == 1,
		EnableEmail:   emailInt == 1,
		EnableSMS:     smsInt == 1,
	}
	if mutedTypes.Valid && mutedTypes.String != "" {
		if err := json.Unmarshal([]byte(mutedTypes.String), &prefs.MutedTypes); err != nil {
			return nil, errors.DatabaseError("Failed to decode muted types", err)
		}
	}
	return prefs, nil
}

// Save upserts the preference row.
func (r *PreferenceRepository) Save(ctx context.Context, prefs *notification.Preferences) error {
	mutedTypes, err := json.Marshal(prefs.MutedTypes)
	if err != nil {
		return errors.DatabaseError("Failed to encode muted types", err)
	}

	query := `
		INSERT INTO notification_preferences (id, enable_sound, enable_desktop, enable_email, enable_sms, muted_types)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  enable_sound=excluded.enable_sound,
		  enable_desktop=excluded.enable_desktop,
		  enable_email=excluded.enable_email,
		  enable_sms=excluded.enable_sms,
		  muted_types=excluded.muted_types
	`

	_, err = r.db.sql.ExecContext(ctx, query,
		boolToInt(prefs.EnableSound), boolToInt(prefs.EnableDesktop),
		boolToInt(prefs.EnableEmail), boolToInt(prefs.EnableSMS), string(mutedTypes),
	)
	if err != nil {
		return errors.DatabaseError("Failed to save notification preferences", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
