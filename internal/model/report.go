package model

// Report statuses as reported by the backend.
const (
	ReportStatusPending    = "pending"
	ReportStatusReady      = "ready"
	ReportStatusFailed     = "failed"
	ReportStatusGenerating = "generating"
)

// Report is one generated report entry. Rendering the file itself is a
// backend concern; the client only lists entries and requests new ones.
type Report struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	FileURL     string `json:"file_url"`
	GeneratedAt string `json:"generated_at"`
	UserID      int    `json:"user_id"`
}

// ReportRequest asks the backend to generate a new report.
type ReportRequest struct {
	Type      string `json:"type"`
	Period    string `json:"period"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	ClubID    int    `json:"club_id,omitempty"`
	Format    string `json:"format"`
	UserID    int    `json:"user_id"`
}

// ReportList is a page of report entries.
type ReportList struct {
	Reports []Report `json:"reports"`
	Total   int      `json:"total"`
	Page    int      `json:"page"`
	Limit   int      `json:"limit"`
}
