package evm

import (
	"github.com/shopspring/decimal"

	projdomain "github.com/pmhealth/pm-health-backend/internal/projects/domain"
)

var hundred = decimal.NewFromInt(100)

// ActivitiesCost sums the cost of every activity in the project; a missing
// cost counts as zero.
func ActivitiesCost(s projdomain.ProjectSnapshot) decimal.Decimal {
	total := decimal.Zero
	for _, a := range s.Activities {
		if a.Cost != nil {
			total = total.Add(*a.Cost)
		}
	}
	return total
}

// ResourcesCost sums the derived total cost of every resource attached to the
// project's activities.
func ResourcesCost(s projdomain.ProjectSnapshot) decimal.Decimal {
	total := decimal.Zero
	for _, r := range s.Resources {
		total = total.Add(r.TotalCost())
	}
	return total
}

// ActualCost is the project's activity costs plus resource costs.
func ActualCost(s projdomain.ProjectSnapshot) decimal.Decimal {
	return ActivitiesCost(s).Add(ResourcesCost(s))
}

// BudgetVariance is budget minus actual cost, positive when under budget.
// nil when the project has no budget: an undefined variance is not zero.
func BudgetVariance(s projdomain.ProjectSnapshot) *decimal.Decimal {
	if s.Project.Budget == nil {
		return nil
	}
	v := s.Project.Budget.Sub(ActualCost(s))
	return &v
}

// BudgetUtilizationPct is actual cost over budget as a percentage, rounded to
// one decimal place. 0 when there is no positive budget.
func BudgetUtilizationPct(s projdomain.ProjectSnapshot) decimal.Decimal {
	if s.Project.Budget == nil || !s.Project.Budget.IsPositive() {
		return decimal.Zero
	}
	return ActualCost(s).Mul(hundred).DivRound(*s.Project.Budget, 1)
}
