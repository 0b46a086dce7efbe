package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBirth(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		clock    string
		gender   string
		want     time.Time
		wantTime bool
		wantG    Gender
	}{
		{"date only defaults to noon", "1990-05-15", "", "", at(1990, time.May, 15, 12, 0), false, GenderUnknown},
		{"separate clock", "1990-05-15", "14:30", "male", at(1990, time.May, 15, 14, 30), true, GenderMale},
		{"clock with seconds", "1990-05-15", "23:05:09", "F", time.Date(1990, time.May, 15, 23, 5, 9, 0, time.UTC), true, GenderFemale},
		{"T separated", "1990-05-15T08:00", "", "女", at(1990, time.May, 15, 8, 0), true, GenderFemale},
		{"space separated", "1990-05-15 08:00", "", "", at(1990, time.May, 15, 8, 0), true, GenderUnknown},
		{"rfc3339 keeps wall clock", "1990-05-15T08:00:00+08:00", "", "", at(1990, time.May, 15, 8, 0), true, GenderUnknown},
		{"whitespace trimmed", "  1990-05-15 ", " 09:15 ", " Male ", at(1990, time.May, 15, 9, 15), true, GenderMale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := ParseBirth(tt.date, tt.clock, tt.gender)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(b.Time), "got %s", b.Time)
			assert.Equal(t, time.UTC, b.Time.Location())
			assert.Equal(t, tt.wantTime, b.HasTime)
			assert.Equal(t, tt.wantG, b.Gender)
		})
	}
}

func TestParseBirthInvalid(t *testing.T) {
	tests := []struct {
		name   string
		date   string
		clock  string
		gender string
	}{
		{"empty date", "", "", ""},
		{"garbage", "yesterday", "", ""},
		{"impossible day", "1990-02-30", "", ""},
		{"bad clock", "1990-05-15", "25:00", ""},
		{"time twice", "1990-05-15T08:00", "09:00", ""},
		{"year zero", "0000-01-01", "", ""},
		{"unknown gender", "1990-05-15", "", "robot"},
		{"us format", "05/15/1990", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBirth(tt.date, tt.clock, tt.gender)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestParseBirthDropsZone(t *testing.T) {
	b, err := ParseBirth("1990-05-15T08:00:00+08:00", "", "male")
	require.NoError(t, err)
	assert.Equal(t, 8, b.Time.Hour())
	assert.Equal(t, time.UTC, b.Time.Location())
	assert.True(t, b.HasTime)
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2024-02-10", FormatDate(at(2024, time.February, 10, 23, 0)))
}
