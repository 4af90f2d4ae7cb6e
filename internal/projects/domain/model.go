package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectStatus is driven by the external approval workflow; the engine only
// reads it.
type ProjectStatus string

const (
	ProjectPlanning   ProjectStatus = "planning"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectOnHold     ProjectStatus = "on_hold"
	ProjectModified   ProjectStatus = "modified"
)

type ActivityStatus string

const (
	ActivityPending    ActivityStatus = "pending"
	ActivityInProgress ActivityStatus = "in_progress"
	ActivityCompleted  ActivityStatus = "completed"
)

// Project is the root record of one tracked project. All dates are date-only
// (midnight UTC). Budget is nil when no budget has been defined.
type Project struct {
	PublicID    string           `json:"public_id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	StartDate   time.Time        `json:"start_date"`
	EndDate     time.Time        `json:"end_date"`
	Status      ProjectStatus    `json:"status"`
	Budget      *decimal.Decimal `json:"budget,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// Activity is one unit of scheduled work. Predecessor holds the public ID of
// the activity that must finish first, or "" when there is none. ActualStart
// and ActualEnd stay nil until recorded.
type Activity struct {
	PublicID    string           `json:"public_id"`
	ProjectID   string           `json:"project_id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	StartDate   time.Time        `json:"start_date"`
	EndDate     time.Time        `json:"end_date"`
	ActualStart *time.Time       `json:"actual_start,omitempty"`
	ActualEnd   *time.Time       `json:"actual_end,omitempty"`
	Status      ActivityStatus   `json:"status"`
	Cost        *decimal.Decimal `json:"cost,omitempty"`
	Predecessor string           `json:"predecessor,omitempty"`
}

type ResourceType string

const (
	ResourceHuman     ResourceType = "human"
	ResourceMaterial  ResourceType = "material"
	ResourceEquipment ResourceType = "equipment"
	ResourceFinancial ResourceType = "financial"
	ResourceOther     ResourceType = "other"
)

// Resource is attached to an activity. Its total cost is always derived from
// quantity and unit cost, never stored on its own. Quantity is unsigned; a
// negative stored value fails the repository scan instead of flowing into the
// cost ledger.
type Resource struct {
	PublicID    string          `json:"public_id"`
	ActivityID  string          `json:"activity_id"`
	Name        string          `json:"name"`
	Type        ResourceType    `json:"type"`
	Quantity    uint            `json:"quantity"`
	CostPerUnit decimal.Decimal `json:"cost_per_unit"`
}

// TotalCost recomputes quantity x cost-per-unit.
func (r Resource) TotalCost() decimal.Decimal {
	return decimal.NewFromInt(int64(r.Quantity)).Mul(r.CostPerUnit)
}

// ProjectSnapshot is the consistent in-memory view of one project that the
// host assembles before calling the engine. The engine never reaches back to
// storage; everything it needs is here.
type ProjectSnapshot struct {
	Project    Project    `json:"project"`
	Activities []Activity `json:"activities"`
	Resources  []Resource `json:"resources"`
}

// ActivityByID looks up an activity in the snapshot by its public ID.
func (s ProjectSnapshot) ActivityByID(id string) (Activity, bool) {
	for _, a := range s.Activities {
		if a.PublicID == id {
			return a, true
		}
	}
	return Activity{}, false
}
