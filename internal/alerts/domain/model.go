package domain

import "time"

type Kind string

const (
	KindCost     Kind = "cost"
	KindSchedule Kind = "schedule"
	KindRisk     Kind = "risk"
	KindGeneral  Kind = "general"
)

// Notification is one alert raised for a project. Ownership passes to the
// delivery side as soon as it is persisted; Delivered flips when a deliverer
// has taken it.
type Notification struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	Delivered bool      `json:"delivered"`
	CreatedAt time.Time `json:"created_at"`
}
