package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Notification represents one user-facing alert delivered by the CEMS
// backend, either from the initial fetch or over the live stream.
type Notification struct {
	// ID is unique within one user's notification set.
	ID int `json:"ID" db:"id"`

	// UserID is the owning user. The client never holds another
	// user's records.
	UserID int `json:"UserID" db:"user_id"`

	// Message is the human-readable notification text.
	Message string `json:"Message" db:"message"`

	// Type is the server-side tag (e.g. "registration", "reminder",
	// "announcement"). Unrecognized values render as a generic category.
	Type string `json:"Type" db:"type"`

	// IsRead reports whether the user has seen this notification.
	// It only ever moves from false to true.
	IsRead bool `json:"IsRead" db:"is_read"`

	// CreatedAt is when the backend generated the record.
	CreatedAt time.Time `json:"CreatedAt" db:"created_at"`
}

// Category groups notification types for rendering (icon and color).
type Category string

const (
	CategoryAnnouncement Category = "announcement"
	CategoryActivity     Category = "activity"
	CategorySuccess      Category = "success"
	CategoryWarning      Category = "warning"
	CategoryInfo         Category = "info"
	CategorySystem       Category = "system"
	CategoryGeneral      Category = "general"
)

// CategoryForType maps a server-side notification type tag to a display
// category. Unknown tags fall back to CategoryGeneral.
func CategoryForType(t string) Category {
	switch t {
	case "announcement":
		return CategoryAnnouncement
	case "activity", "new_activity", "registration":
		return CategoryActivity
	case "success", "hour_approved":
		return CategorySuccess
	case "warning", "reminder", "attendance_reminder":
		return CategoryWarning
	case "info":
		return CategoryInfo
	case "system":
		return CategorySystem
	default:
		return CategoryGeneral
	}
}

// trailingFraction matches fractional-second suffixes the backend
// sometimes emits without a zone designator.
var trailingFraction = regexp.MustCompile(`\.\d+Z?$`)

// ParseTimestamp parses a CreatedAt string from the backend. The server
// usually emits RFC 3339, but some code paths produce over-long
// fractional seconds or drop the timezone. If nothing parses, the
// current time is returned along with a non-nil error so callers can
// log the malformed input; the returned timestamp is always valid.
func ParseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), fmt.Errorf("empty timestamp")
	}

	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts, nil
	}

	// Zone-less variants, e.g. "2006-01-02T15:04:05" or with a space
	// separator.
	for _, layout := range []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	} {
		if ts, err := time.Parse(layout, strings.TrimSuffix(s, "Z")); err == nil {
			return ts.UTC(), nil
		}
	}

	// Over-long fractional seconds: drop the fraction and retry as
	// plain RFC 3339.
	if trailingFraction.MatchString(s) {
		clean := trailingFraction.ReplaceAllString(s, "Z")
		if ts, err := time.Parse(time.RFC3339, clean); err == nil {
			return ts, nil
		}
	}

	return time.Now(), fmt.Errorf("unparseable timestamp %q", s)
}
