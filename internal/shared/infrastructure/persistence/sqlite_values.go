package persistence

import (
	"database/sql"
	"fmt"
	"time"
)

// SQLite stores timestamps as fixed-width UTC text so that string order
// matches time order.
const (
	SQLiteTimestampLayout = "2006-01-02T15:04:05.000000000Z07:00"
	SQLiteDateLayout      = "2006-01-02"
)

// FormatTimestamp renders t for a SQLite TEXT column.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(SQLiteTimestampLayout)
}

// ParseTimestamp reads a value written by FormatTimestamp. RFC 3339 text
// written by other tools is accepted as well.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(SQLiteTimestampLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
		}
	}
	return t.UTC(), nil
}

// FormatDate renders the UTC calendar day of t.
func FormatDate(t time.Time) string {
	return t.UTC().Format(SQLiteDateLayout)
}

// ParseDate reads a value written by FormatDate.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(SQLiteDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// NullTimestamp renders an optional timestamp.
func NullTimestamp(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: FormatTimestamp(*t), Valid: true}
}

// NullDate renders an optional calendar day.
func NullDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: FormatDate(*t), Valid: true}
}

// ParseNullTimestamp reads an optional timestamp column.
func ParseNullTimestamp(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	t, err := ParseTimestamp(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseNullDate reads an optional date column.
func ParseNullDate(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	t, err := ParseDate(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// BoolToInt maps a bool onto SQLite's integer booleans.
func BoolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
