package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidConfiguration is returned when a reminder's schedule cannot
	// produce any future occurrence (empty schedule, weekly with no weekdays,
	// out-of-range time fields). Surfaced synchronously on create/update so
	// the UI layer can reject the input.
	ErrInvalidConfiguration = errors.New("invalid reminder configuration")
)

// ReminderKind classifies what a reminder nudges the user about.
// Fixed set; not extensible at runtime.
type ReminderKind string

const (
	KindHydration  ReminderKind = "hydration"
	KindWorkout    ReminderKind = "workout"
	KindMeal       ReminderKind = "meal"
	KindSupplement ReminderKind = "supplement"
	KindSleep      ReminderKind = "sleep"
)

// Valid reports whether k is one of the known reminder kinds.
func (k ReminderKind) Valid() bool {
	switch k {
	case KindHydration, KindWorkout, KindMeal, KindSupplement, KindSleep:
		return true
	}
	return false
}

// RecurrenceFrequency selects the recurrence rule a reminder follows.
type RecurrenceFrequency string

const (
	FrequencyDaily  RecurrenceFrequency = "daily"
	FrequencyWeekly RecurrenceFrequency = "weekly"
	FrequencyCustom RecurrenceFrequency = "custom"
)

// Valid reports whether f is a known recurrence frequency.
func (f RecurrenceFrequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyCustom:
		return true
	}
	return false
}

// TimeOfDay is a wall-clock slot. DaysOfWeek is meaningful only when the
// owning reminder's frequency is weekly; 0 denotes Sunday.
type TimeOfDay struct {
	Hour       int   `json:"hour"`
	Minute     int   `json:"minute"`
	DaysOfWeek []int `json:"daysOfWeek,omitempty"`
}

// Reminder is a user-configured recurring notification request.
// Invariant: Active == true iff NextFireAt is set.
type Reminder struct {
	ID          string
	OwnerID     string
	Kind        ReminderKind
	Title       string
	Description string
	Frequency   RecurrenceFrequency
	Schedule    []TimeOfDay // non-empty; daily/weekly read only the first entry
	Active      bool
	LastFiredAt *time.Time // UTC, nullable
	NextFireAt  *time.Time // UTC, nullable; set iff Active
	CreatedAt   time.Time  // UTC
}

// Validate checks that the reminder's kind, frequency and schedule are
// well-formed and can produce a future occurrence.
func (r *Reminder) Validate() error {
	if !r.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidConfiguration, r.Kind)
	}
	if !r.Frequency.Valid() {
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidConfiguration, r.Frequency)
	}
	return ValidateSchedule(r.Frequency, r.Schedule)
}

// ValidateSchedule checks the schedule entries against the frequency's rules.
func ValidateSchedule(f RecurrenceFrequency, schedule []TimeOfDay) error {
	if len(schedule) == 0 {
		return fmt.Errorf("%w: empty schedule", ErrInvalidConfiguration)
	}
	for i, t := range schedule {
		if t.Hour < 0 || t.Hour > 23 {
			return fmt.Errorf("%w: entry %d: hour %d out of range", ErrInvalidConfiguration, i, t.Hour)
		}
		if t.Minute < 0 || t.Minute > 59 {
			return fmt.Errorf("%w: entry %d: minute %d out of range", ErrInvalidConfiguration, i, t.Minute)
		}
	}
	if f == FrequencyWeekly {
		days := schedule[0].DaysOfWeek
		if len(days) == 0 {
			return fmt.Errorf("%w: weekly reminder has no days of week", ErrInvalidConfiguration)
		}
		for _, d := range days {
			if d < 0 || d > 6 {
				return fmt.Errorf("%w: weekday %d out of range", ErrInvalidConfiguration, d)
			}
		}
	}
	return nil
}

// Clone returns a deep copy so callers can hand reminders across goroutine
// boundaries without sharing mutable state.
func (r *Reminder) Clone() *Reminder {
	c := *r
	c.Schedule = make([]TimeOfDay, len(r.Schedule))
	for i, t := range r.Schedule {
		c.Schedule[i] = t
		if t.DaysOfWeek != nil {
			c.Schedule[i].DaysOfWeek = append([]int(nil), t.DaysOfWeek...)
		}
	}
	if r.LastFiredAt != nil {
		t := *r.LastFiredAt
		c.LastFiredAt = &t
	}
	if r.NextFireAt != nil {
		t := *r.NextFireAt
		c.NextFireAt = &t
	}
	return &c
}

// ScheduleEqual reports whether two schedules are identical entry by entry.
// Used to decide whether an edit must trigger a next-fire recomputation.
func ScheduleEqual(a, b []TimeOfDay) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Hour != b[i].Hour || a[i].Minute != b[i].Minute {
			return false
		}
		if len(a[i].DaysOfWeek) != len(b[i].DaysOfWeek) {
			return false
		}
		for j := range a[i].DaysOfWeek {
			if a[i].DaysOfWeek[j] != b[i].DaysOfWeek[j] {
				return false
			}
		}
	}
	return true
}
