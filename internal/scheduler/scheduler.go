package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/MeninoFranca/metrify-reminders/internal/domain"
	"github.com/MeninoFranca/metrify-reminders/internal/store"
)

// ErrUnknownReminder is returned by mutations targeting an id the engine
// does not hold.
var ErrUnknownReminder = errors.New("unknown reminder")

// Sink receives fired-reminder events. Fire-and-forget: the engine decides
// when, the collaborator decides how to render.
type Sink interface {
	Show(title, description string)
}

// Clock is the engine's only source of "now". Injectable so tests can supply
// arbitrary instants.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// Engine owns one user session's reminder collection and notification
// settings, and runs the periodic due-check loop. All mutations and the tick
// are serialized on one mutex, so a tick's evaluate-and-update pass is atomic
// with respect to concurrent edits.
type Engine struct {
	mu   sync.Mutex
	repo store.Repo
	log  *zap.Logger
	sink Sink

	clock    Clock
	interval time.Duration
	ownerID  string

	reminders map[string]*domain.Reminder
	settings  domain.NotificationSettings

	// ids whose last save failed; retried at the start of each tick.
	dirty         map[string]struct{}
	settingsDirty bool
}

// New creates an Engine for one owner. interval <= 0 falls back to the
// default one-minute tick.
func New(repo store.Repo, log *zap.Logger, sink Sink, ownerID string, interval time.Duration) *Engine {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Engine{
		repo:      repo,
		log:       log,
		sink:      sink,
		clock:     systemClock{},
		interval:  interval,
		ownerID:   ownerID,
		reminders: make(map[string]*domain.Reminder),
		settings:  domain.DefaultSettings(),
		dirty:     make(map[string]struct{}),
	}
}

// Start loads the persisted reminders and settings for the session owner.
// Call once before Run.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	reminders, err := e.repo.LoadAll(ctx, e.ownerID)
	if err != nil {
		return err
	}
	for i := range reminders {
		r := reminders[i]
		e.reminders[r.ID] = &r
	}

	settings, err := e.repo.LoadSettings(ctx, e.ownerID)
	if err != nil {
		return err
	}
	e.settings = settings

	e.log.Info("session loaded",
		zap.String("ownerID", e.ownerID),
		zap.Int("reminders", len(e.reminders)),
	)
	return nil
}

// Run executes the tick loop until ctx is canceled.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.log.Info("scheduler stopping")
			return
		case <-ticker.C:
			e.tick(ctx)
		}
	}
}

// tick performs one scheduling cycle: retry failed saves, then fire every due
// reminder at most once and reschedule it. Missed occurrences are skipped,
// never backfilled.
func (e *Engine) tick(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	e.retrySaves(ctx)

	for _, r := range e.reminders {
		if !r.Active || r.NextFireAt == nil || r.NextFireAt.After(now) {
			continue
		}

		next, err := domain.NextFireAt(r, now)
		if err != nil {
			// Degenerate schedule slipped into the collection; leave the
			// reminder untouched for this tick.
			e.log.Warn("skipping reminder with unschedulable config",
				zap.String("id", r.ID), zap.Error(err))
			continue
		}

		e.sink.Show(r.Title, r.Description)
		fired := now
		r.LastFiredAt = &fired
		r.NextFireAt = &next
		e.persistLocked(ctx, r)

		e.log.Debug("reminder fired",
			zap.String("id", r.ID),
			zap.String("kind", string(r.Kind)),
			zap.Time("next", next),
		)
	}
}

// retrySaves re-attempts persistence for reminders (and settings) whose last
// save failed. The in-memory schedule has already advanced, so a retry can
// never re-fire the same occurrence. Caller holds e.mu.
func (e *Engine) retrySaves(ctx context.Context) {
	for id := range e.dirty {
		r, ok := e.reminders[id]
		if !ok {
			delete(e.dirty, id)
			continue
		}
		if err := e.repo.Save(ctx, r); err != nil {
			e.log.Warn("save retry failed", zap.String("id", id), zap.Error(err))
			continue
		}
		delete(e.dirty, id)
	}
	if e.settingsDirty {
		if err := e.repo.SaveSettings(ctx, e.ownerID, e.settings); err != nil {
			e.log.Warn("settings save retry failed", zap.Error(err))
		} else {
			e.settingsDirty = false
		}
	}
}

// persistLocked saves a reminder, marking it for retry on failure. Transient
// persistence errors are invisible to the user: the in-app state already
// reflects the change. Caller holds e.mu.
func (e *Engine) persistLocked(ctx context.Context, r *domain.Reminder) {
	if err := e.repo.Save(ctx, r); err != nil {
		e.log.Error("save failed", zap.String("id", r.ID), zap.Error(err))
		e.dirty[r.ID] = struct{}{}
		return
	}
	delete(e.dirty, r.ID)
}
