package health

import (
	"github.com/shopspring/decimal"

	projdomain "github.com/pmhealth/pm-health-backend/internal/projects/domain"
	trackdomain "github.com/pmhealth/pm-health-backend/internal/tracking/domain"
	"github.com/pmhealth/pm-health-backend/internal/tracking/evm"
)

// Summary is the read-side health view of one project.
type Summary struct {
	Status               Status           `json:"status"`
	ProgressPct          float64          `json:"progress_pct"`
	BudgetUtilizationPct decimal.Decimal  `json:"budget_utilization_pct"`
	BudgetVariance       *decimal.Decimal `json:"budget_variance"`
}

// Summarize classifies the project and bundles its progress and budget
// figures.
func Summarize(s projdomain.ProjectSnapshot, history []trackdomain.Snapshot) Summary {
	return Summary{
		Status:               Classify(history),
		ProgressPct:          ProgressPct(s),
		BudgetUtilizationPct: evm.BudgetUtilizationPct(s),
		BudgetVariance:       evm.BudgetVariance(s),
	}
}
