package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/MeninoFranca/metrify-reminders/internal/domain"
)

// SQLiteRepo implements Repo using an embedded SQLite database.
type SQLiteRepo struct{ db *sql.DB }

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies recommended PRAGMAs, runs SQL migrations, and returns a repository.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Reasonable pooling for SQLite; it's a single-writer engine.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLiteRepo{db: db}, nil
}

// applyPragmas configures the SQLite connection for durability and concurrency.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

// LoadAll returns every reminder owned by ownerID, ordered by creation time.
// Rows whose schedule fails to decode or whose kind/frequency is unknown are
// skipped so one corrupt record cannot break session start.
func (r *SQLiteRepo) LoadAll(ctx context.Context, ownerID string) ([]domain.Reminder, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, kind, title, description, frequency, schedule,
		       active, last_fired_at, next_fire_at, created_at
		FROM reminders
		WHERE owner_id = ?
		ORDER BY created_at ASC`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.Reminder
	for rows.Next() {
		var (
			id          string
			owner       string
			kind        string
			title       string
			description string
			frequency   string
			scheduleRaw string
			activeInt   int
			lastNS      sql.NullInt64
			nextNS      sql.NullInt64
			createdAt   int64
		)
		if err := rows.Scan(
			&id, &owner, &kind, &title, &description, &frequency,
			&scheduleRaw, &activeInt, &lastNS, &nextNS, &createdAt,
		); err != nil {
			return nil, err
		}

		schedule, err := decodeSchedule(scheduleRaw)
		if err != nil {
			continue // corrupt row: drop this reminder, keep loading the rest
		}
		rem := domain.Reminder{
			ID:          id,
			OwnerID:     owner,
			Kind:        domain.ReminderKind(kind),
			Title:       title,
			Description: description,
			Frequency:   domain.RecurrenceFrequency(frequency),
			Schedule:    schedule,
			Active:      activeInt != 0,
			LastFiredAt: fromNullInt64(lastNS),
			NextFireAt:  fromNullInt64(nextNS),
			CreatedAt:   time.Unix(createdAt, 0).UTC(),
		}
		if !rem.Kind.Valid() || !rem.Frequency.Valid() {
			continue
		}
		res = append(res, rem)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Save inserts or updates a reminder by id.
func (r *SQLiteRepo) Save(ctx context.Context, rem *domain.Reminder) error {
	if rem == nil {
		return errors.New("nil reminder")
	}
	scheduleRaw, err := encodeSchedule(rem.Schedule)
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}
	created := rem.CreatedAt.UTC().Unix()

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO reminders (
			id, owner_id, kind, title, description, frequency, schedule,
			active, last_fired_at, next_fire_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind          = excluded.kind,
			title         = excluded.title,
			description   = excluded.description,
			frequency     = excluded.frequency,
			schedule      = excluded.schedule,
			active        = excluded.active,
			last_fired_at = excluded.last_fired_at,
			next_fire_at  = excluded.next_fire_at`,
		rem.ID, rem.OwnerID, string(rem.Kind), rem.Title, rem.Description,
		string(rem.Frequency), scheduleRaw, boolToInt(rem.Active),
		toNullInt64(rem.LastFiredAt), toNullInt64(rem.NextFireAt), created,
	)
	return err
}

// Delete removes a reminder by id. Deleting a missing id is not an error.
func (r *SQLiteRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, id)
	return err
}

// LoadSettings returns the owner's settings document, or defaults when absent.
func (r *SQLiteRepo) LoadSettings(ctx context.Context, ownerID string) (domain.NotificationSettings, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, `
		SELECT settings FROM notification_settings WHERE owner_id = ?`,
		ownerID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DefaultSettings(), nil
	}
	if err != nil {
		return domain.NotificationSettings{}, err
	}

	var s domain.NotificationSettings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		// Corrupt document: fall back to defaults rather than failing start.
		return domain.DefaultSettings(), nil
	}
	return s, nil
}

// SaveSettings upserts the owner's settings document.
func (r *SQLiteRepo) SaveSettings(ctx context.Context, ownerID string, s domain.NotificationSettings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO notification_settings (owner_id, settings) VALUES (?, ?)
		ON CONFLICT(owner_id) DO UPDATE SET settings = excluded.settings`,
		ownerID, string(raw),
	)
	return err
}
