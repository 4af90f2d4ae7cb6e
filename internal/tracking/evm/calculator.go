// Package evm computes Earned Value Management figures for one project
// snapshot as of a tracking date.
package evm

import (
	"time"

	"github.com/shopspring/decimal"

	projdomain "github.com/pmhealth/pm-health-backend/internal/projects/domain"
	trackdomain "github.com/pmhealth/pm-health-backend/internal/tracking/domain"
)

// Metrics bundles the four EVM quantities and both indices. A project with no
// baseline (no activities due, nothing completed) reports explicit zeros for
// the ratios rather than an undefined value.
type Metrics struct {
	PV  decimal.Decimal `json:"pv"`
	EV  decimal.Decimal `json:"ev"`
	AC  decimal.Decimal `json:"ac"`
	CPI decimal.Decimal `json:"cpi"`
	SPI decimal.Decimal `json:"spi"`
}

// Compute derives PV, EV, AC, CPI and SPI as of the given date.
//
// PV is the cost of activities scheduled to be done by asOf (end date on or
// before it). EV is the cost of completed activities, taken at 100%. AC is
// carried over from the source system as equal to EV: no independent
// actual-cost figure is tracked, so CPI is 1.00 whenever anything is
// completed and 0 otherwise. Ratios round to two decimal places.
func Compute(s projdomain.ProjectSnapshot, asOf time.Time) Metrics {
	pv := decimal.Zero
	ev := decimal.Zero
	for _, a := range s.Activities {
		cost := decimal.Zero
		if a.Cost != nil {
			cost = *a.Cost
		}
		if !a.EndDate.After(asOf) {
			pv = pv.Add(cost)
		}
		if a.Status == projdomain.ActivityCompleted {
			ev = ev.Add(cost)
		}
	}
	ac := ev

	m := Metrics{PV: pv, EV: ev, AC: ac, CPI: decimal.Zero, SPI: decimal.Zero}
	if ac.IsPositive() {
		m.CPI = ev.DivRound(ac, 2)
	}
	if pv.IsPositive() {
		m.SPI = ev.DivRound(pv, 2)
	}
	return m
}

// Apply writes the computed metrics onto a tracking snapshot. Called on every
// persist so the stored figures always match the snapshot's as-of date.
func Apply(row *trackdomain.Snapshot, s projdomain.ProjectSnapshot) {
	m := Compute(s, row.AsOf)
	row.PV = m.PV
	row.EV = m.EV
	row.AC = m.AC
	row.CPI = m.CPI
	row.SPI = m.SPI
}
