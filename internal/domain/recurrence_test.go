package domain

import (
	"errors"
	"testing"
	"time"
)

// 2024-01-01 is a Monday; weekday index 1.
var monday = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func at(t *testing.T, day time.Time, hh, mm int) time.Time {
	t.Helper()
	return time.Date(day.Year(), day.Month(), day.Day(), hh, mm, 0, 0, day.Location())
}

func daily(hh, mm int) *Reminder {
	return &Reminder{
		Kind:      KindHydration,
		Frequency: FrequencyDaily,
		Schedule:  []TimeOfDay{{Hour: hh, Minute: mm}},
	}
}

func weekly(hh, mm int, days ...int) *Reminder {
	return &Reminder{
		Kind:      KindWorkout,
		Frequency: FrequencyWeekly,
		Schedule:  []TimeOfDay{{Hour: hh, Minute: mm, DaysOfWeek: days}},
	}
}

func custom(slots ...TimeOfDay) *Reminder {
	return &Reminder{
		Kind:      KindMeal,
		Frequency: FrequencyCustom,
		Schedule:  slots,
	}
}

func TestNextFireAt_Daily(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{name: "before slot", now: at(t, monday, 7, 0), want: at(t, monday, 8, 0)},
		{name: "after slot rolls to tomorrow", now: at(t, monday, 9, 0), want: at(t, monday.AddDate(0, 0, 1), 8, 0)},
		{name: "exactly at slot rolls forward", now: at(t, monday, 8, 0), want: at(t, monday.AddDate(0, 0, 1), 8, 0)},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextFireAt(daily(8, 0), tt.now)
			if err != nil {
				t.Fatalf("NextFireAt: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("want %v, got %v", tt.want, got)
			}
		})
	}
}

func TestNextFireAt_WeeklySameDayFuture(t *testing.T) {
	t.Parallel()
	// Monday 07:00, slot Monday 09:00 → today 09:00.
	got, err := NextFireAt(weekly(9, 0, 1), at(t, monday, 7, 0))
	if err != nil {
		t.Fatalf("NextFireAt: %v", err)
	}
	want := at(t, monday, 9, 0)
	if !got.Equal(want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestNextFireAt_WeeklyWraparound(t *testing.T) {
	t.Parallel()
	// Monday 10:00, slot passed → next Monday 09:00, not today.
	got, err := NextFireAt(weekly(9, 0, 1), at(t, monday, 10, 0))
	if err != nil {
		t.Fatalf("NextFireAt: %v", err)
	}
	want := at(t, monday.AddDate(0, 0, 7), 9, 0)
	if !got.Equal(want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestNextFireAt_WeeklyPicksNearestDay(t *testing.T) {
	t.Parallel()
	// Wednesday=3, Friday=5. From Monday the nearest is Wednesday.
	got, err := NextFireAt(weekly(9, 0, 3, 5), at(t, monday, 10, 0))
	if err != nil {
		t.Fatalf("NextFireAt: %v", err)
	}
	want := at(t, monday.AddDate(0, 0, 2), 9, 0)
	if !got.Equal(want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestNextFireAt_WeeklySkipsPassedTodayForLaterDay(t *testing.T) {
	t.Parallel()
	// Monday and Thursday slots; Monday's has passed → Thursday.
	got, err := NextFireAt(weekly(9, 0, 1, 4), at(t, monday, 10, 0))
	if err != nil {
		t.Fatalf("NextFireAt: %v", err)
	}
	want := at(t, monday.AddDate(0, 0, 3), 9, 0)
	if !got.Equal(want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestNextFireAt_CustomEarliestOfMany(t *testing.T) {
	t.Parallel()
	r := custom(
		TimeOfDay{Hour: 8, Minute: 0},
		TimeOfDay{Hour: 14, Minute: 0},
		TimeOfDay{Hour: 20, Minute: 0},
	)
	got, err := NextFireAt(r, at(t, monday, 10, 0))
	if err != nil {
		t.Fatalf("NextFireAt: %v", err)
	}
	want := at(t, monday, 14, 0)
	if !got.Equal(want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestNextFireAt_CustomAllPassedRollsToTomorrow(t *testing.T) {
	t.Parallel()
	r := custom(
		TimeOfDay{Hour: 8, Minute: 0},
		TimeOfDay{Hour: 14, Minute: 0},
	)
	got, err := NextFireAt(r, at(t, monday, 21, 0))
	if err != nil {
		t.Fatalf("NextFireAt: %v", err)
	}
	want := at(t, monday.AddDate(0, 0, 1), 8, 0)
	if !got.Equal(want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestNextFireAt_AlwaysStrictlyFuture(t *testing.T) {
	t.Parallel()
	reminders := []*Reminder{
		daily(0, 0),
		daily(23, 59),
		weekly(12, 30, 0, 6),
		weekly(9, 0, 1),
		custom(TimeOfDay{Hour: 6, Minute: 0}, TimeOfDay{Hour: 18, Minute: 0}),
	}
	nows := []time.Time{
		at(t, monday, 0, 0),
		at(t, monday, 12, 30),
		at(t, monday, 23, 59),
		at(t, monday.AddDate(0, 0, 5), 6, 0),
	}
	for _, r := range reminders {
		for _, now := range nows {
			got, err := NextFireAt(r, now)
			if err != nil {
				t.Fatalf("NextFireAt(%v, %v): %v", r.Frequency, now, err)
			}
			if !got.After(now) {
				t.Fatalf("result %v not after now %v (frequency %s)", got, now, r.Frequency)
			}
		}
	}
}

func TestNextFireAt_InvalidConfigurations(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		r    *Reminder
	}{
		{name: "weekly without days", r: weekly(9, 0)},
		{name: "empty schedule", r: &Reminder{Kind: KindSleep, Frequency: FrequencyDaily}},
		{name: "hour out of range", r: daily(24, 0)},
		{name: "minute out of range", r: daily(8, 60)},
		{name: "weekday out of range", r: weekly(9, 0, 7)},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := NextFireAt(tt.r, at(t, monday, 7, 0))
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Fatalf("want ErrInvalidConfiguration, got %v", err)
			}
		})
	}
}
