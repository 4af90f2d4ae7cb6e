package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	projdomain "github.com/pmhealth/pm-health-backend/internal/projects/domain"
	trackdomain "github.com/pmhealth/pm-health-backend/internal/tracking/domain"
	"github.com/pmhealth/pm-health-backend/internal/tracking/health"
)

type fakePortfolio struct {
	projects []projdomain.Project
	snaps    map[string]projdomain.ProjectSnapshot
	history  map[string][]trackdomain.Snapshot
}

func (f *fakePortfolio) ListProjects(_ context.Context) ([]projdomain.Project, error) {
	return f.projects, nil
}

func (f *fakePortfolio) LoadSnapshot(_ context.Context, publicID string) (*projdomain.ProjectSnapshot, error) {
	s := f.snaps[publicID]
	return &s, nil
}

func (f *fakePortfolio) ListByProject(_ context.Context, projectID string) ([]trackdomain.Snapshot, error) {
	return f.history[projectID], nil
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func money(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func indexSnapshot(spi, cpi string) trackdomain.Snapshot {
	return trackdomain.Snapshot{
		AsOf: day("2026-06-01"),
		SPI:  decimal.RequireFromString(spi),
		CPI:  decimal.RequireFromString(cpi),
	}
}

func TestDashboard_Portfolio(t *testing.T) {
	today := day("2026-06-01")

	cost := decimal.NewFromInt(2000)
	store := &fakePortfolio{
		projects: []projdomain.Project{
			{PublicID: "proj-green", Name: "rollout", Status: projdomain.ProjectInProgress, EndDate: day("2026-06-05"), Budget: money(10000)},
			{PublicID: "proj-red", Name: "migration", Status: projdomain.ProjectInProgress, EndDate: day("2026-12-01"), Budget: money(5000)},
			{PublicID: "proj-done", Name: "archive", Status: projdomain.ProjectCompleted, EndDate: day("2026-01-01")},
		},
		snaps: map[string]projdomain.ProjectSnapshot{
			"proj-green": {Activities: []projdomain.Activity{{PublicID: "act-1", Cost: &cost}}},
			"proj-red":   {},
			"proj-done":  {},
		},
		history: map[string][]trackdomain.Snapshot{
			"proj-green": {indexSnapshot("1.00", "1.00")},
			"proj-red":   {indexSnapshot("0.40", "0.40")},
		},
	}

	svc := NewDashboardService(store, store, 7)
	sum, err := svc.Portfolio(context.Background(), today)
	require.NoError(t, err)

	assert.Equal(t, 3, sum.TotalProjects)
	assert.Equal(t, 2, sum.ActiveProjects)
	assert.Equal(t, 1, sum.CompletedProjects)
	assert.Equal(t, 2, sum.ProjectsByStatus["in_progress"])

	assert.Equal(t, 1, sum.TrafficLights["green"])
	assert.Equal(t, 1, sum.TrafficLights["red"])
	assert.Equal(t, 1, sum.TrafficLights["gray"])

	assert.True(t, decimal.NewFromInt(15000).Equal(sum.TotalBudget), "budget %s", sum.TotalBudget)
	assert.True(t, decimal.NewFromInt(2000).Equal(sum.TotalActualCost), "actual %s", sum.TotalActualCost)

	require.Len(t, sum.DueSoon, 1)
	assert.Equal(t, "proj-green", sum.DueSoon[0].PublicID)

	require.Len(t, sum.AtRisk, 1)
	assert.Equal(t, "proj-red", sum.AtRisk[0].PublicID)
	assert.Equal(t, health.StatusRed, sum.AtRisk[0].Health)
}

func TestDashboard_EmptyPortfolio(t *testing.T) {
	svc := NewDashboardService(&fakePortfolio{}, &fakePortfolio{}, 0)
	sum, err := svc.Portfolio(context.Background(), day("2026-06-01"))
	require.NoError(t, err)
	assert.Equal(t, 0, sum.TotalProjects)
	assert.Empty(t, sum.DueSoon)
	assert.Empty(t, sum.AtRisk)
}
