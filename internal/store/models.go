package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/MeninoFranca/metrify-reminders/internal/domain"
)

func toNullInt64(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UTC().Unix(), Valid: true}
}

func fromNullInt64(ns sql.NullInt64) *time.Time {
	if !ns.Valid {
		return nil
	}
	t := time.Unix(ns.Int64, 0).UTC()
	return &t
}

// encodeSchedule serializes the slot list as JSON for the schedule column.
func encodeSchedule(s []domain.TimeOfDay) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeSchedule(raw string) ([]domain.TimeOfDay, error) {
	var s []domain.TimeOfDay
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, err
	}
	return s, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
