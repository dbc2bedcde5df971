package model

import "time"

// Club is a student club registered on CEMS.
type Club struct {
	ID          int    `json:"ID"`
	Name        string `json:"Name"`
	Description string `json:"Description"`
	LogoImage   string `json:"LogoImage"`
	CreatedBy   int    `json:"CreatedBy"`
	StatusID    int    `json:"StatusID"`
	CategoryID  int    `json:"CategoryID"`

	Category      *ClubCategory      `json:"Category,omitempty"`
	Members       []ClubMember       `json:"Members,omitempty"`
	Announcements []ClubAnnouncement `json:"Announcements,omitempty"`
}

// ClubCategory labels clubs (sports, arts, academic, ...).
type ClubCategory struct {
	ID   int    `json:"ID"`
	Name string `json:"Name"`
}

// ClubMember links a user to a club with a role.
type ClubMember struct {
	ID     int    `json:"ID"`
	UserID int    `json:"UserID"`
	ClubID int    `json:"ClubID"`
	Role   string `json:"Role"`
}

// ClubAnnouncement is a post published by club staff.
type ClubAnnouncement struct {
	ID        int       `json:"ID"`
	ClubID    int       `json:"ClubID"`
	Title     string    `json:"Title"`
	Content   string    `json:"Content"`
	CreatedAt time.Time `json:"CreatedAt"`
}

// PopularClub is a club entry in the popularity ranking, with its
// member count.
type PopularClub struct {
	Club
	MemberCount int `json:"MemberCount"`
}
