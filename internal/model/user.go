package model

// User is the authenticated CEMS account as returned by the login
// endpoint.
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// DisplayName returns the user's full name, falling back to the email.
func (u User) DisplayName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Email
	}
	return u.FirstName + " " + u.LastName
}

// DashboardStats is the admin dashboard summary block.
type DashboardStats struct {
	TotalActivities    int     `json:"total_activities"`
	TotalParticipants  int     `json:"total_participants"`
	TotalHours         float64 `json:"total_hours"`
	AverageRating      float64 `json:"average_rating"`
	TotalRegistrations int     `json:"total_registrations"`
	Growth             Growth  `json:"growth_percentage"`
}

// Growth holds period-over-period percentages for the stat cards.
type Growth struct {
	Activities    float64 `json:"activities"`
	Participants  float64 `json:"participants"`
	Hours         float64 `json:"hours"`
	Rating        float64 `json:"rating"`
	Registrations float64 `json:"registrations"`
}

// ChartSeries is a labelled numeric series used by the dashboard charts
// (monthly participation, activity hours by category).
type ChartSeries struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
	Colors []string  `json:"colors,omitempty"`
}
