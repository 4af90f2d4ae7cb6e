package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is one tracking record of a project as of a date.
// PV/EV/AC/CPI/SPI are derived: they are recomputed from the project state
// every time the snapshot is written, never set by callers.
type Snapshot struct {
	ID          string          `json:"id"`
	ProjectID   string          `json:"project_id"`
	AsOf        time.Time       `json:"as_of"`
	Observation string          `json:"observation,omitempty"`
	PV          decimal.Decimal `json:"pv"`
	EV          decimal.Decimal `json:"ev"`
	AC          decimal.Decimal `json:"ac"`
	CPI         decimal.Decimal `json:"cpi"`
	SPI         decimal.Decimal `json:"spi"`
	CreatedAt   time.Time       `json:"created_at"`
}
