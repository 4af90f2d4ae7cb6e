// Package validation gates activity writes. Every rule runs and every
// violation is collected so the caller can show the complete error set;
// committing (or not) stays the caller's job.
package validation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/pmhealth/pm-health-backend/internal/projects/domain"
	"github.com/pmhealth/pm-health-backend/internal/projects/schedule"
)

// Result maps a field name to its violation messages. Empty means valid.
type Result map[string][]string

func (r Result) OK() bool { return len(r) == 0 }

func (r Result) add(field, msg string) {
	r[field] = append(r[field], msg)
}

const dateLayout = "2006-01-02"

// Validate checks a candidate activity against the project snapshot:
// date bounds, date ordering, budget headroom and predecessor acyclicity.
// A non-nil error means the input itself is malformed (caller bug), not a
// business-rule violation.
func Validate(snap domain.ProjectSnapshot, candidate domain.Activity) (Result, error) {
	if candidate.PublicID == "" {
		return nil, fmt.Errorf("validate activity: missing public id")
	}
	if candidate.StartDate.IsZero() || candidate.EndDate.IsZero() {
		return nil, fmt.Errorf("validate activity %s: missing start or end date", candidate.PublicID)
	}
	if snap.Project.StartDate.IsZero() || snap.Project.EndDate.IsZero() {
		return nil, fmt.Errorf("validate activity %s: project %s has no date span", candidate.PublicID, snap.Project.PublicID)
	}

	res := Result{}

	if candidate.StartDate.Before(snap.Project.StartDate) {
		res.add("start_date", fmt.Sprintf(
			"start date cannot be before the project start (%s)",
			snap.Project.StartDate.Format(dateLayout)))
	}
	if candidate.EndDate.After(snap.Project.EndDate) {
		res.add("end_date", fmt.Sprintf(
			"end date cannot be after the project end (%s)",
			snap.Project.EndDate.Format(dateLayout)))
	}

	if candidate.StartDate.After(candidate.EndDate) {
		res.add("start_date", "start date cannot be after the end date")
	}

	checkBudget(snap, candidate, res)
	checkPredecessor(snap, candidate, res)

	return res, nil
}

// checkBudget verifies the project budget covers this activity's cost on top
// of every sibling's. No budget on the project means no budget rule, and a
// zero-cost activity always fits, even when the siblings already exhaust the
// budget.
func checkBudget(snap domain.ProjectSnapshot, candidate domain.Activity, res Result) {
	if candidate.Cost == nil || candidate.Cost.IsZero() || snap.Project.Budget == nil {
		return
	}
	siblings := decimal.Zero
	for _, a := range snap.Activities {
		if a.PublicID == candidate.PublicID || a.Cost == nil {
			continue
		}
		siblings = siblings.Add(*a.Cost)
	}
	if siblings.Add(*candidate.Cost).GreaterThan(*snap.Project.Budget) {
		available := snap.Project.Budget.Sub(siblings)
		res.add("cost", fmt.Sprintf(
			"cost exceeds the available budget. budget: %s, available: %s",
			snap.Project.Budget.StringFixed(2), available.StringFixed(2)))
	}
}

func checkPredecessor(snap domain.ProjectSnapshot, candidate domain.Activity, res Result) {
	if candidate.Predecessor == "" {
		return
	}
	if _, ok := snap.ActivityByID(candidate.Predecessor); !ok {
		res.add("predecessor", "predecessor activity does not belong to this project")
		return
	}
	g := schedule.FromSnapshot(snap)
	if g.WouldCycle(candidate.PublicID, candidate.Predecessor) {
		res.add("predecessor", "dependency cycles are not allowed: an activity cannot be its own predecessor")
	}
}
