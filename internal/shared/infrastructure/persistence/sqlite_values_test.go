package persistence

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTimestamp_SortsLikeTime(t *testing.T) {
	early := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	late := early.Add(1500 * time.Millisecond)
	berlin := time.FixedZone("CEST", 2*60*60)

	assert.Less(t, FormatTimestamp(early), FormatTimestamp(late))
	assert.Equal(t, "2026-10-19T09:00:00.000000000Z", FormatTimestamp(early))
	assert.Equal(t, FormatTimestamp(early), FormatTimestamp(early.In(berlin)))
}

func TestParseTimestamp(t *testing.T) {
	at := time.Date(2026, 10, 19, 9, 30, 15, 123456789, time.UTC)

	parsed, err := ParseTimestamp(FormatTimestamp(at))
	require.NoError(t, err)
	assert.True(t, at.Equal(parsed))

	parsed, err = ParseTimestamp("2026-10-19T11:30:15+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 19, 9, 30, 15, 0, time.UTC), parsed)

	_, err = ParseTimestamp("yesterday")
	assert.Error(t, err)
}

func TestDates(t *testing.T) {
	late := time.Date(2026, 10, 19, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "2026-10-19", FormatDate(late))

	day, err := ParseDate("2026-10-19")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), day)
}

func TestNullValues(t *testing.T) {
	assert.False(t, NullTimestamp(nil).Valid)
	assert.False(t, NullDate(nil).Valid)

	at := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	ts, err := ParseNullTimestamp(NullTimestamp(&at))
	require.NoError(t, err)
	require.NotNil(t, ts)
	assert.True(t, at.Equal(*ts))

	day, err := ParseNullDate(NullDate(&at))
	require.NoError(t, err)
	require.NotNil(t, day)
	assert.Equal(t, "2026-10-19", FormatDate(*day))

	missing, err := ParseNullTimestamp(sql.NullString{})
	require.NoError(t, err)
	assert.Nil(t, missing)
}
