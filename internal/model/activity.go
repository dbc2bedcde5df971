package model

import "time"

// Activity statuses used by the registration flow.
const (
	ActivityStatusOpen      = "open"
	ActivityStatusFull      = "full"
	ActivityStatusFinished  = "finished"
	ActivityStatusCancelled = "cancelled"
)

// Activity is a club activity or event published on CEMS.
type Activity struct {
	ID          int       `json:"ID" db:"id"`
	Title       string    `json:"Title" db:"title"`
	Description string    `json:"Description" db:"description"`
	Location    string    `json:"Location" db:"location"`
	DateStart   time.Time `json:"DateStart" db:"date_start"`
	DateEnd     time.Time `json:"DateEnd" db:"date_end"`
	Capacity    int       `json:"Capacity" db:"capacity"`
	PosterImage string    `json:"PosterImage" db:"poster_image"`
	StatusID    int       `json:"StatusID" db:"status_id"`
	ClubID      int       `json:"ClubID" db:"club_id"`
	CategoryID  int       `json:"CategoryID" db:"category_id"`

	// Status and Club are populated on detail fetches.
	Status *ActivityStatus `json:"Status,omitempty" db:"-"`
	Club   *Club           `json:"Club,omitempty" db:"-"`

	// Registrations is populated on detail fetches and used to show
	// remaining capacity.
	Registrations []ActivityRegistration `json:"ActivityRegistrations,omitempty" db:"-"`
}

// SpotsLeft returns the remaining capacity, never below zero.
func (a Activity) SpotsLeft() int {
	left := a.Capacity - len(a.Registrations)
	if left < 0 {
		return 0
	}
	return left
}

// ActivityStatus is the lifecycle state of an activity.
type ActivityStatus struct {
	ID   int    `json:"ID"`
	Name string `json:"Name"`
}

// ActivityRegistration records one user signed up for an activity.
type ActivityRegistration struct {
	ID         int       `json:"ID"`
	UserID     int       `json:"UserID"`
	ActivityID int       `json:"ActivityID"`
	StatusID   int       `json:"StatusID"`
	CreatedAt  time.Time `json:"CreatedAt"`
}
