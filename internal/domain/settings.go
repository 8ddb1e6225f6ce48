package domain

import "fmt"

// HydrationSettings configures the default hydration nudges: fire every
// IntervalMinutes while inside the active window, on the listed weekdays.
type HydrationSettings struct {
	IntervalMinutes int    `json:"intervalMinutes"`
	WindowStart     string `json:"windowStart"` // "HH:MM"
	WindowEnd       string `json:"windowEnd"`   // "HH:MM"
	ActiveDays      []int  `json:"activeDaysOfWeek"`
	DailyGoalMl     int    `json:"dailyGoalMl"`
}

// WorkoutSettings configures workout reminder defaults.
type WorkoutSettings struct {
	LeadTimeMinutes   int  `json:"leadTimeMinutes"`
	RecurringReminder bool `json:"recurringReminder"`
}

// MealSettings configures meal reminder defaults.
type MealSettings struct {
	LeadTimeMinutes     int  `json:"leadTimeMinutes"`
	PreparationReminder bool `json:"preparationReminder"`
}

// NotificationSettings holds the per-kind defaults for one user. One instance
// per user, loaded at session start and persisted on every change.
type NotificationSettings struct {
	Hydration HydrationSettings `json:"hydration"`
	Workout   WorkoutSettings   `json:"workout"`
	Meal      MealSettings      `json:"meal"`
}

// DefaultSettings returns the configuration used when nothing is persisted yet.
func DefaultSettings() NotificationSettings {
	return NotificationSettings{
		Hydration: HydrationSettings{
			IntervalMinutes: 60,
			WindowStart:     "08:00",
			WindowEnd:       "22:00",
			ActiveDays:      []int{0, 1, 2, 3, 4, 5, 6},
			DailyGoalMl:     2000,
		},
		Workout: WorkoutSettings{LeadTimeMinutes: 30, RecurringReminder: true},
		Meal:    MealSettings{LeadTimeMinutes: 15, PreparationReminder: false},
	}
}

// Validate checks the settings are internally consistent.
func (s NotificationSettings) Validate() error {
	h := s.Hydration
	if h.IntervalMinutes <= 0 {
		return fmt.Errorf("%w: hydration interval must be positive", ErrInvalidConfiguration)
	}
	fromM, err := ParseHHMM(h.WindowStart)
	if err != nil {
		return fmt.Errorf("%w: hydration window start: %v", ErrInvalidConfiguration, err)
	}
	toM, err := ParseHHMM(h.WindowEnd)
	if err != nil {
		return fmt.Errorf("%w: hydration window end: %v", ErrInvalidConfiguration, err)
	}
	if fromM == toM {
		return fmt.Errorf("%w: hydration window is zero-length", ErrInvalidConfiguration)
	}
	for _, d := range h.ActiveDays {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: hydration weekday %d out of range", ErrInvalidConfiguration, d)
		}
	}
	if s.Workout.LeadTimeMinutes < 0 || s.Meal.LeadTimeMinutes < 0 {
		return fmt.Errorf("%w: lead time must not be negative", ErrInvalidConfiguration)
	}
	return nil
}

// HydrationSlots expands the hydration settings into concrete daily slots:
// one every IntervalMinutes starting at the window start, for as long as the
// slot stays inside the window. Wrap-around windows (start after end) walk
// across midnight the same way InWindow treats them.
func HydrationSlots(h HydrationSettings) ([]TimeOfDay, error) {
	fromM, err := ParseHHMM(h.WindowStart)
	if err != nil {
		return nil, fmt.Errorf("%w: window start: %v", ErrInvalidConfiguration, err)
	}
	toM, err := ParseHHMM(h.WindowEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: window end: %v", ErrInvalidConfiguration, err)
	}
	if h.IntervalMinutes <= 0 {
		return nil, fmt.Errorf("%w: interval must be positive", ErrInvalidConfiguration)
	}

	var slots []TimeOfDay
	for m := fromM; InWindow(m, fromM, toM); {
		slots = append(slots, TimeOfDay{Hour: m / 60, Minute: m % 60})
		m = (m + h.IntervalMinutes) % minutesPerDay
		if m == fromM {
			break // walked the full day back to the start
		}
	}
	if len(slots) == 0 {
		return nil, fmt.Errorf("%w: window produces no slots", ErrInvalidConfiguration)
	}
	return slots, nil
}
