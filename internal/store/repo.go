package store

import (
	"context"

	"github.com/MeninoFranca/metrify-reminders/internal/domain"
)

// Repo defines storage operations for reminders and notification settings.
type Repo interface {
	// LoadAll returns every persisted reminder owned by ownerID. Malformed
	// rows are skipped, not fatal.
	LoadAll(ctx context.Context, ownerID string) ([]domain.Reminder, error)
	Save(ctx context.Context, r *domain.Reminder) error
	Delete(ctx context.Context, id string) error

	// LoadSettings returns the owner's notification settings, or the
	// defaults when nothing is persisted yet.
	LoadSettings(ctx context.Context, ownerID string) (domain.NotificationSettings, error)
	SaveSettings(ctx context.Context, ownerID string, s domain.NotificationSettings) error

	Close() error
}
