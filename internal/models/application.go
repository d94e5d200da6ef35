// internal/models/application.go
package models

import "time"

// ApplicationStatus is the review state of a submitted grant application.
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "Pending"
	StatusApproved ApplicationStatus = "Approved"
	StatusRejected ApplicationStatus = "Rejected"
)

// Valid reports whether s is one of the three known statuses.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// DateJustNow is the date label given to every freshly submitted application.
const DateJustNow = "Just now"

type Application struct {
	ID          string            `json:"id"`
	ProjectName string            `json:"projectName"`
	Amount      float64           `json:"amount"`
	Currency    string            `json:"currency"`
	Date        string            `json:"date"`
	Status      ApplicationStatus `json:"status"`
	SubmittedAt time.Time         `json:"submittedAt"`
}

// Stats is the dashboard summary. It is always derived from the current
// application list and never stored.
type Stats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// ComputeStats counts applications per status.
func ComputeStats(apps []Application) Stats {
	stats := Stats{Total: len(apps)}
	for _, app := range apps {
		switch app.Status {
		case StatusPending:
			stats.Pending++
		case StatusApproved:
			stats.Approved++
		case StatusRejected:
			stats.Rejected++
		}
	}
	return stats
}

// SeedApplications returns the historical applications shown on a fresh
// dashboard, most recent first.
func SeedApplications() []Application {
	return []Application{
		{
			ID:          "APH-2025-001",
			ProjectName: "Tech Education Grant",
			Amount:      50000,
			Currency:    "USD",
			Date:        "2 days ago",
			Status:      StatusPending,
		},
		{
			ID:          "APH-2025-002",
			ProjectName: "Community Health",
			Amount:      15000,
			Currency:    "USD",
			Date:        "1 week ago",
			Status:      StatusApproved,
		},
		{
			ID:          "APH-2025-003",
			ProjectName: "AgriTech Initiative",
			Amount:      75000,
			Currency:    "USD",
			Date:        "2 weeks ago",
			Status:      StatusApproved,
		},
	}
}
