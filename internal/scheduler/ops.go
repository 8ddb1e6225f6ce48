package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MeninoFranca/metrify-reminders/internal/domain"
)

// Create validates the reminder, assigns an id, computes its first fire
// instant from the current time and stores it. The reminder becomes
// schedulable immediately; it does not wait for the next tick.
func (e *Engine) Create(ctx context.Context, r *domain.Reminder) (*domain.Reminder, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.createLocked(ctx, r)
}

func (e *Engine) createLocked(ctx context.Context, r *domain.Reminder) (*domain.Reminder, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	now := e.clock.Now()
	next, err := domain.NextFireAt(r, now)
	if err != nil {
		return nil, err
	}

	rem := r.Clone()
	rem.ID = uuid.NewString()
	rem.OwnerID = e.ownerID
	rem.Active = true
	rem.NextFireAt = &next
	rem.LastFiredAt = nil
	rem.CreatedAt = now

	e.reminders[rem.ID] = rem
	e.persistLocked(ctx, rem)
	return rem.Clone(), nil
}

// Update applies edits to an existing reminder. Changing frequency or
// schedule recomputes the next fire instant from now; title and description
// edits leave it untouched.
func (e *Engine) Update(ctx context.Context, r *domain.Reminder) (*domain.Reminder, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cur, ok := e.reminders[r.ID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownReminder, r.ID)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	recompute := cur.Frequency != r.Frequency || !domain.ScheduleEqual(cur.Schedule, r.Schedule)

	cur.Kind = r.Kind
	cur.Title = r.Title
	cur.Description = r.Description
	cur.Frequency = r.Frequency
	cur.Schedule = r.Clone().Schedule

	if recompute && cur.Active {
		next, err := domain.NextFireAt(cur, e.clock.Now())
		if err != nil {
			return nil, err
		}
		cur.NextFireAt = &next
	}

	e.persistLocked(ctx, cur)
	return cur.Clone(), nil
}

// Delete removes a reminder permanently.
func (e *Engine) Delete(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.reminders[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownReminder, id)
	}
	delete(e.reminders, id)
	delete(e.dirty, id)
	return e.repo.Delete(ctx, id)
}

// Activate resumes a reminder. The next fire instant is recomputed from the
// current time, so a long-inactive reminder resumes relative to now rather
// than its stale prior schedule.
func (e *Engine) Activate(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, ok := e.reminders[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownReminder, id)
	}
	next, err := domain.NextFireAt(r, e.clock.Now())
	if err != nil {
		return err
	}
	r.Active = true
	r.NextFireAt = &next
	e.persistLocked(ctx, r)
	return nil
}

// Deactivate pauses a reminder: the next fire instant is cleared, the last
// fired instant is left untouched.
func (e *Engine) Deactivate(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, ok := e.reminders[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownReminder, id)
	}
	r.Active = false
	r.NextFireAt = nil
	e.persistLocked(ctx, r)
	return nil
}

// Get returns a copy of the reminder with the given id.
func (e *Engine) Get(id string) (*domain.Reminder, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.reminders[id]
	if !ok {
		return nil, false
	}
	return r.Clone(), true
}

// Reminders returns copies of every reminder in the session.
func (e *Engine) Reminders() []domain.Reminder {
	e.mu.Lock()
	defer e.mu.Unlock()
	res := make([]domain.Reminder, 0, len(e.reminders))
	for _, r := range e.reminders {
		res = append(res, *r.Clone())
	}
	return res
}

// Settings returns the session's notification settings.
func (e *Engine) Settings() domain.NotificationSettings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

// UpdateSettings validates and persists new notification settings.
func (e *Engine) UpdateSettings(ctx context.Context, s domain.NotificationSettings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.settings = s
	if err := e.repo.SaveSettings(ctx, e.ownerID, s); err != nil {
		e.log.Error("settings save failed", zap.Error(err))
		e.settingsDirty = true
	}
	return nil
}

// CreateHydrationReminder builds a custom-frequency reminder from the
// session's hydration settings: one slot per interval inside the active
// window.
func (e *Engine) CreateHydrationReminder(ctx context.Context) (*domain.Reminder, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	slots, err := domain.HydrationSlots(e.settings.Hydration)
	if err != nil {
		return nil, err
	}
	r := &domain.Reminder{
		Kind:        domain.KindHydration,
		Title:       "Time to hydrate",
		Description: fmt.Sprintf("Daily goal: %d ml", e.settings.Hydration.DailyGoalMl),
		Frequency:   domain.FrequencyCustom,
		Schedule:    slots,
	}
	return e.createLocked(ctx, r)
}
