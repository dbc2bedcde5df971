package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		want    time.Time
	}{
		{
			name:  "rfc3339",
			input: "2024-01-01T10:00:00Z",
			want:  time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "rfc3339 with offset",
			input: "2024-01-01T10:00:00+07:00",
			want:  time.Date(2024, 1, 1, 3, 0, 0, 0, time.UTC),
		},
		{
			name:  "long fractional seconds",
			input: "2024-01-01T10:00:00.123456789Z",
			want:  time.Date(2024, 1, 1, 10, 0, 0, 123456789, time.UTC),
		},
		{
			name:  "no timezone",
			input: "2024-01-01T10:00:00",
			want:  time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "space separator",
			input: "2024-01-01 10:00:00",
			want:  time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "garbage",
			input:   "not-a-date",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)

			if tt.wantErr {
				require.Error(t, err)
				// A malformed input still yields a usable timestamp.
				assert.False(t, got.IsZero())
				assert.WithinDuration(t, time.Now(), got, time.Minute)
				return
			}

			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestCategoryForType(t *testing.T) {
	tests := []struct {
		input string
		want  Category
	}{
		{"announcement", CategoryAnnouncement},
		{"new_activity", CategoryActivity},
		{"registration", CategoryActivity},
		{"hour_approved", CategorySuccess},
		{"attendance_reminder", CategoryWarning},
		{"info", CategoryInfo},
		{"system", CategorySystem},
		{"", CategoryGeneral},
		{"something_new", CategoryGeneral},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CategoryForType(tt.input), "type %q", tt.input)
	}
}

func TestActivitySpotsLeft(t *testing.T) {
	a := Activity{Capacity: 2, Registrations: []ActivityRegistration{{ID: 1}}}
	assert.Equal(t, 1, a.SpotsLeft())

	a.Registrations = append(a.Registrations,
		ActivityRegistration{ID: 2}, ActivityRegistration{ID: 3})
	assert.Equal(t, 0, a.SpotsLeft())
}

func TestUserDisplayName(t *testing.T) {
	u := User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.edu"}
	assert.Equal(t, "Ada Lovelace", u.DisplayName())

	u = User{Email: "ada@example.edu"}
	assert.Equal(t, "ada@example.edu", u.DisplayName())
}
