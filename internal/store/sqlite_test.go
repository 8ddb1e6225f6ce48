package store

import (
	"context"
	"testing"
	"time"

	"github.com/MeninoFranca/metrify-reminders/internal/domain"
)

func newTestRepo(t *testing.T) *SQLiteRepo {
	t.Helper()
	ctx := context.Background()
	r, err := OpenSQLite(ctx, t.TempDir()+"/reminders.db")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func sampleReminder(id, owner string) *domain.Reminder {
	next := time.Date(2024, time.January, 2, 8, 0, 0, 0, time.UTC)
	return &domain.Reminder{
		ID:          id,
		OwnerID:     owner,
		Kind:        domain.KindHydration,
		Title:       "Drink water",
		Description: "250 ml",
		Frequency:   domain.FrequencyDaily,
		Schedule:    []domain.TimeOfDay{{Hour: 8, Minute: 0}},
		Active:      true,
		NextFireAt:  &next,
		CreatedAt:   time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestSaveAndLoadAll(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	r := sampleReminder("r1", "user-1")
	if err := repo.Save(ctx, r); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.LoadAll(ctx, "user-1")
	if err != nil {
		t.Fatalf("loadAll: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("want 1 reminder, got %d", len(got))
	}
	g := got[0]
	if g.ID != r.ID || g.Kind != r.Kind || g.Title != r.Title || g.Frequency != r.Frequency {
		t.Fatalf("round-trip mismatch: %+v", g)
	}
	if !domain.ScheduleEqual(g.Schedule, r.Schedule) {
		t.Fatalf("schedule mismatch: %v vs %v", g.Schedule, r.Schedule)
	}
	if g.NextFireAt == nil || !g.NextFireAt.Equal(*r.NextFireAt) {
		t.Fatalf("NextFireAt mismatch: %v vs %v", g.NextFireAt, r.NextFireAt)
	}
	if g.LastFiredAt != nil {
		t.Fatalf("LastFiredAt should be nil, got %v", g.LastFiredAt)
	}

	// Owner isolation.
	other, err := repo.LoadAll(ctx, "user-2")
	if err != nil {
		t.Fatalf("loadAll other: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("want no reminders for other owner, got %d", len(other))
	}
}

func TestSaveUpsertsByID(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	r := sampleReminder("r1", "user-1")
	if err := repo.Save(ctx, r); err != nil {
		t.Fatalf("save: %v", err)
	}
	r.Title = "Hydrate!"
	r.Active = false
	r.NextFireAt = nil
	if err := repo.Save(ctx, r); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := repo.LoadAll(ctx, "user-1")
	if err != nil {
		t.Fatalf("loadAll: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("upsert duplicated the row: %d", len(got))
	}
	if got[0].Title != "Hydrate!" || got[0].Active || got[0].NextFireAt != nil {
		t.Fatalf("update not applied: %+v", got[0])
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	if err := repo.Save(ctx, sampleReminder("r1", "user-1")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Delete(ctx, "r1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := repo.LoadAll(ctx, "user-1")
	if err != nil {
		t.Fatalf("loadAll: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("reminder not deleted: %+v", got)
	}
	// Deleting a missing id is not an error.
	if err := repo.Delete(ctx, "r1"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}

func TestLoadAllSkipsCorruptRows(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	if err := repo.Save(ctx, sampleReminder("good", "user-1")); err != nil {
		t.Fatalf("save: %v", err)
	}
	// Inject rows the decoder cannot accept: broken JSON and an unknown kind.
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO reminders (id, owner_id, kind, frequency, schedule, active, created_at)
		VALUES ('bad-json', 'user-1', 'hydration', 'daily', '{not json', 1, 0),
		       ('bad-kind', 'user-1', 'telepathy', 'daily', '[{"hour":8,"minute":0}]', 1, 0)`)
	if err != nil {
		t.Fatalf("inject corrupt rows: %v", err)
	}

	got, err := repo.LoadAll(ctx, "user-1")
	if err != nil {
		t.Fatalf("loadAll: %v", err)
	}
	if len(got) != 1 || got[0].ID != "good" {
		t.Fatalf("corrupt rows must be skipped, got %+v", got)
	}
}

func TestSettingsDefaultAndRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	s, err := repo.LoadSettings(ctx, "user-1")
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if s.Hydration.DailyGoalMl != domain.DefaultSettings().Hydration.DailyGoalMl {
		t.Fatalf("want defaults when absent, got %+v", s)
	}

	s.Hydration.DailyGoalMl = 2500
	s.Meal.PreparationReminder = true
	if err := repo.SaveSettings(ctx, "user-1", s); err != nil {
		t.Fatalf("save settings: %v", err)
	}

	got, err := repo.LoadSettings(ctx, "user-1")
	if err != nil {
		t.Fatalf("reload settings: %v", err)
	}
	if got.Hydration.DailyGoalMl != 2500 || !got.Meal.PreparationReminder {
		t.Fatalf("settings round-trip mismatch: %+v", got)
	}

	// Second save upserts.
	got.Workout.LeadTimeMinutes = 45
	if err := repo.SaveSettings(ctx, "user-1", got); err != nil {
		t.Fatalf("upsert settings: %v", err)
	}
	again, err := repo.LoadSettings(ctx, "user-1")
	if err != nil {
		t.Fatalf("reload settings: %v", err)
	}
	if again.Workout.LeadTimeMinutes != 45 {
		t.Fatalf("settings upsert not applied: %+v", again)
	}
}
