package domain

import (
	"fmt"
	"time"
)

// NextFireAt computes the next instant at which the reminder should fire,
// strictly after now. Pure: the only clock input is the explicit now
// argument, so callers can supply arbitrary instants in tests.
func NextFireAt(r *Reminder, now time.Time) (time.Time, error) {
	if err := ValidateSchedule(r.Frequency, r.Schedule); err != nil {
		return time.Time{}, err
	}
	switch r.Frequency {
	case FrequencyDaily:
		return nextDaily(r.Schedule[0], now), nil
	case FrequencyWeekly:
		return nextWeekly(r.Schedule[0], now)
	case FrequencyCustom:
		return nextCustom(r.Schedule, now), nil
	}
	return time.Time{}, fmt.Errorf("%w: unknown frequency %q", ErrInvalidConfiguration, r.Frequency)
}

// slotOn constructs the slot's wall-clock time on the same calendar day as base.
func slotOn(base time.Time, t TimeOfDay) time.Time {
	return time.Date(base.Year(), base.Month(), base.Day(), t.Hour, t.Minute, 0, 0, base.Location())
}

// nextDaily returns today's slot, or tomorrow's if today's has already passed.
func nextDaily(t TimeOfDay, now time.Time) time.Time {
	c := slotOn(now, t)
	if !c.After(now) {
		c = c.AddDate(0, 0, 1)
	}
	return c
}

// nextWeekly scans forward day by day, starting today, for the first day
// whose weekday is in the slot's set and whose slot time is still ahead.
// A same-day match whose time has passed is rejected and the scan continues;
// offset 7 lands on the starting weekday one week later, so the scan always
// terminates for a non-empty set.
func nextWeekly(t TimeOfDay, now time.Time) (time.Time, error) {
	for offset := 0; offset <= 7; offset++ {
		day := now.AddDate(0, 0, offset)
		if !weekdayIn(t.DaysOfWeek, int(day.Weekday())) {
			continue
		}
		c := slotOn(day, t)
		if c.After(now) {
			return c, nil
		}
	}
	// Unreachable once ValidateSchedule has passed; kept as a hard stop
	// instead of an unbounded scan.
	return time.Time{}, fmt.Errorf("%w: weekly schedule has no upcoming day", ErrInvalidConfiguration)
}

// nextCustom rolls every slot independently to its next occurrence (today or
// tomorrow) and returns the earliest. Models "the next of several possible
// daily-recurring slots".
func nextCustom(schedule []TimeOfDay, now time.Time) time.Time {
	var best time.Time
	for _, t := range schedule {
		c := nextDaily(t, now)
		if best.IsZero() || c.Before(best) {
			best = c
		}
	}
	return best
}

func weekdayIn(days []int, wd int) bool {
	for _, d := range days {
		if d == wd {
			return true
		}
	}
	return false
}
