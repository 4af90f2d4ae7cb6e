// Package engine holds the alert rules evaluated after activity commits and
// during periodic review. Rules are independent and may all fire; nothing is
// deduplicated here, that is the delivery layer's call.
package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	alertdomain "github.com/pmhealth/pm-health-backend/internal/alerts/domain"
	projdomain "github.com/pmhealth/pm-health-backend/internal/projects/domain"
)

type Config struct {
	// HighCostThreshold is the activity cost above which a cost alert fires.
	// Nil selects the default; an explicit zero alerts on any positive cost.
	HighCostThreshold *decimal.Decimal
}

var defaultHighCostThreshold = decimal.NewFromInt(10000)

func DefaultConfig() Config {
	d := defaultHighCostThreshold
	return Config{HighCostThreshold: &d}
}

type Engine struct {
	highCostThreshold decimal.Decimal
}

func New(cfg Config) *Engine {
	threshold := defaultHighCostThreshold
	if cfg.HighCostThreshold != nil {
		threshold = *cfg.HighCostThreshold
	}
	return &Engine{highCostThreshold: threshold}
}

// Evaluate runs the commit-time rules against one committed activity. Both
// rules may fire for the same activity.
func (e *Engine) Evaluate(project projdomain.Project, activity projdomain.Activity, today time.Time) []alertdomain.Notification {
	var out []alertdomain.Notification
	if n := e.CostAlert(project, activity); n != nil {
		out = append(out, *n)
	}
	if n := e.ScheduleAlert(project, activity, today); n != nil {
		out = append(out, *n)
	}
	return out
}

// CostAlert fires when the activity cost exceeds the high-cost threshold.
func (e *Engine) CostAlert(project projdomain.Project, activity projdomain.Activity) *alertdomain.Notification {
	if activity.Cost == nil || !activity.Cost.GreaterThan(e.highCostThreshold) {
		return nil
	}
	return newNotification(project.PublicID, alertdomain.KindCost,
		fmt.Sprintf("high activity cost: %s - $%s", activity.Name, activity.Cost.StringFixed(2)))
}

// ScheduleAlert fires when the activity is past due and not completed.
func (e *Engine) ScheduleAlert(project projdomain.Project, activity projdomain.Activity, today time.Time) *alertdomain.Notification {
	if activity.Status == projdomain.ActivityCompleted || !activity.EndDate.Before(today) {
		return nil
	}
	return newNotification(project.PublicID, alertdomain.KindSchedule,
		fmt.Sprintf("schedule slip: %s - due %s", activity.Name, activity.EndDate.Format("2006-01-02")))
}

// RiskAlert fires for an identified risk with high probability and high
// impact.
func (e *Engine) RiskAlert(project projdomain.Project, risk projdomain.Risk) *alertdomain.Notification {
	if risk.Status != projdomain.RiskIdentified {
		return nil
	}
	if risk.Probability != projdomain.RiskHigh || risk.Impact != projdomain.RiskHigh {
		return nil
	}
	return newNotification(project.PublicID, alertdomain.KindRisk,
		fmt.Sprintf("high risk identified: %s", risk.Description))
}

func newNotification(projectID string, kind alertdomain.Kind, message string) *alertdomain.Notification {
	return &alertdomain.Notification{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}
