package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	projdomain "github.com/pmhealth/pm-health-backend/internal/projects/domain"
	trackdomain "github.com/pmhealth/pm-health-backend/internal/tracking/domain"
	"github.com/pmhealth/pm-health-backend/internal/tracking/evm"
	"github.com/pmhealth/pm-health-backend/internal/tracking/health"
)

type ProjectStore interface {
	ListProjects(ctx context.Context) ([]projdomain.Project, error)
	LoadSnapshot(ctx context.Context, publicID string) (*projdomain.ProjectSnapshot, error)
}

type SnapshotStore interface {
	ListByProject(ctx context.Context, projectID string) ([]trackdomain.Snapshot, error)
}

// ProjectCard is the per-project line on the portfolio summary.
type ProjectCard struct {
	PublicID string                   `json:"public_id"`
	Name     string                   `json:"name"`
	Status   projdomain.ProjectStatus `json:"status"`
	EndDate  time.Time                `json:"end_date"`
	Health   health.Status            `json:"health"`
}

// Summary aggregates execution health across the whole portfolio.
type Summary struct {
	TotalProjects     int             `json:"total_projects"`
	ActiveProjects    int             `json:"active_projects"`
	CompletedProjects int             `json:"completed_projects"`
	ProjectsByStatus  map[string]int  `json:"projects_by_status"`
	TrafficLights     map[string]int  `json:"traffic_lights"`
	TotalBudget       decimal.Decimal `json:"total_budget"`
	TotalActualCost   decimal.Decimal `json:"total_actual_cost"`
	DueSoon           []ProjectCard   `json:"due_soon"`
	AtRisk            []ProjectCard   `json:"at_risk"`
}

// DashboardService computes the portfolio summary from live project data.
type DashboardService struct {
	projects      ProjectStore
	snapshots     SnapshotStore
	dueSoonWindow time.Duration
}

func NewDashboardService(projects ProjectStore, snapshots SnapshotStore, dueSoonDays int) *DashboardService {
	if dueSoonDays <= 0 {
		dueSoonDays = 7
	}
	return &DashboardService{
		projects:      projects,
		snapshots:     snapshots,
		dueSoonWindow: time.Duration(dueSoonDays) * 24 * time.Hour,
	}
}

// Portfolio builds the summary as of today.
func (s *DashboardService) Portfolio(ctx context.Context, today time.Time) (*Summary, error) {
	projects, err := s.projects.ListProjects(ctx)
	if err != nil {
		return nil, err
	}

	sum := &Summary{
		TotalProjects:    len(projects),
		ProjectsByStatus: make(map[string]int),
		TrafficLights:    make(map[string]int),
		TotalBudget:      decimal.Zero,
		TotalActualCost:  decimal.Zero,
	}
	dueCutoff := today.Add(s.dueSoonWindow)

	for _, p := range projects {
		sum.ProjectsByStatus[string(p.Status)]++
		switch p.Status {
		case projdomain.ProjectPlanning, projdomain.ProjectInProgress:
			sum.ActiveProjects++
		case projdomain.ProjectCompleted:
			sum.CompletedProjects++
		}
		if p.Budget != nil {
			sum.TotalBudget = sum.TotalBudget.Add(*p.Budget)
		}

		snap, err := s.projects.LoadSnapshot(ctx, p.PublicID)
		if err != nil {
			return nil, err
		}
		sum.TotalActualCost = sum.TotalActualCost.Add(evm.ActualCost(*snap))

		history, err := s.snapshots.ListByProject(ctx, p.PublicID)
		if err != nil {
			return nil, err
		}
		status := health.Classify(history)
		sum.TrafficLights[string(status)]++

		card := ProjectCard{
			PublicID: p.PublicID,
			Name:     p.Name,
			Status:   p.Status,
			EndDate:  p.EndDate,
			Health:   status,
		}
		active := p.Status == projdomain.ProjectPlanning || p.Status == projdomain.ProjectInProgress
		if active && !p.EndDate.Before(today) && !p.EndDate.After(dueCutoff) {
			sum.DueSoon = append(sum.DueSoon, card)
		}
		if status == health.StatusRed {
			sum.AtRisk = append(sum.AtRisk, card)
		}
	}

	return sum, nil
}
