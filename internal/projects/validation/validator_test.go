package validation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmhealth/pm-health-backend/internal/projects/domain"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func money(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func baseSnapshot() domain.ProjectSnapshot {
	return domain.ProjectSnapshot{
		Project: domain.Project{
			PublicID:  "proj-1",
			Name:      "warehouse rollout",
			StartDate: day("2026-01-01"),
			EndDate:   day("2026-12-31"),
			Budget:    money("500"),
		},
		Activities: []domain.Activity{
			{PublicID: "act-1", StartDate: day("2026-01-10"), EndDate: day("2026-02-10"), Cost: money("100")},
			{PublicID: "act-2", StartDate: day("2026-02-11"), EndDate: day("2026-03-11"), Cost: money("200"), Predecessor: "act-1"},
			{PublicID: "act-3", StartDate: day("2026-03-12"), EndDate: day("2026-04-12"), Cost: money("300"), Predecessor: "act-2"},
		},
	}
}

func validCandidate() domain.Activity {
	return domain.Activity{
		PublicID:  "act-new",
		Name:      "fit-out",
		StartDate: day("2026-05-01"),
		EndDate:   day("2026-06-01"),
	}
}

func TestValidate_MalformedInput(t *testing.T) {
	snap := baseSnapshot()

	t.Run("missing public id", func(t *testing.T) {
		c := validCandidate()
		c.PublicID = ""
		_, err := Validate(snap, c)
		require.Error(t, err)
	})

	t.Run("missing dates", func(t *testing.T) {
		c := validCandidate()
		c.StartDate = time.Time{}
		_, err := Validate(snap, c)
		require.Error(t, err)
	})

	t.Run("project without a date span", func(t *testing.T) {
		broken := baseSnapshot()
		broken.Project.EndDate = time.Time{}
		_, err := Validate(broken, validCandidate())
		require.Error(t, err)
	})
}

func TestValidate_DateBounds(t *testing.T) {
	snap := baseSnapshot()

	t.Run("inside the project span passes", func(t *testing.T) {
		res, err := Validate(snap, validCandidate())
		require.NoError(t, err)
		assert.True(t, res.OK())
	})

	t.Run("starts before the project", func(t *testing.T) {
		c := validCandidate()
		c.StartDate = day("2025-12-15")
		res, err := Validate(snap, c)
		require.NoError(t, err)
		require.Len(t, res["start_date"], 1)
		assert.Contains(t, res["start_date"][0], "2026-01-01")
	})

	t.Run("ends after the project", func(t *testing.T) {
		c := validCandidate()
		c.EndDate = day("2027-01-15")
		res, err := Validate(snap, c)
		require.NoError(t, err)
		require.Len(t, res["end_date"], 1)
		assert.Contains(t, res["end_date"][0], "2026-12-31")
	})

	t.Run("boundary dates are allowed", func(t *testing.T) {
		c := validCandidate()
		c.StartDate = day("2026-01-01")
		c.EndDate = day("2026-12-31")
		res, err := Validate(snap, c)
		require.NoError(t, err)
		assert.True(t, res.OK())
	})
}

func TestValidate_DateOrdering(t *testing.T) {
	snap := baseSnapshot()

	c := validCandidate()
	c.StartDate = day("2026-06-01")
	c.EndDate = day("2026-05-01")
	res, err := Validate(snap, c)
	require.NoError(t, err)
	assert.Contains(t, res["start_date"], "start date cannot be after the end date")
}

func TestValidate_Budget(t *testing.T) {
	t.Run("overrunning the budget is rejected", func(t *testing.T) {
		snap := baseSnapshot()
		c := validCandidate()
		c.Cost = money("150")
		res, err := Validate(snap, c)
		require.NoError(t, err)
		require.Len(t, res["cost"], 1)
		assert.Equal(t,
			"cost exceeds the available budget. budget: 500.00, available: -100.00",
			res["cost"][0])
	})

	t.Run("the candidate's own previous cost does not count against it", func(t *testing.T) {
		snap := baseSnapshot()
		c := validCandidate()
		c.PublicID = "act-3"
		c.Cost = money("200")
		res, err := Validate(snap, c)
		require.NoError(t, err)
		assert.True(t, res.OK())
	})

	t.Run("zero cost always fits", func(t *testing.T) {
		// siblings already total 600 against a 500 budget, so any positive
		// cost is rejected yet a zero-cost activity still goes through
		snap := baseSnapshot()
		c := validCandidate()
		c.Cost = money("0")
		res, err := Validate(snap, c)
		require.NoError(t, err)
		assert.True(t, res.OK())

		c.Cost = money("0.01")
		res, err = Validate(snap, c)
		require.NoError(t, err)
		assert.NotEmpty(t, res["cost"])
	})

	t.Run("no project budget means no budget rule", func(t *testing.T) {
		snap := baseSnapshot()
		snap.Project.Budget = nil
		c := validCandidate()
		c.Cost = money("999999")
		res, err := Validate(snap, c)
		require.NoError(t, err)
		assert.True(t, res.OK())
	})

	t.Run("spending exactly the remainder is allowed", func(t *testing.T) {
		snap := baseSnapshot()
		snap.Project.Budget = money("700")
		c := validCandidate()
		c.Cost = money("100")
		res, err := Validate(snap, c)
		require.NoError(t, err)
		assert.True(t, res.OK())
	})
}

func TestValidate_Predecessor(t *testing.T) {
	t.Run("unknown predecessor", func(t *testing.T) {
		snap := baseSnapshot()
		c := validCandidate()
		c.Predecessor = "act-elsewhere"
		res, err := Validate(snap, c)
		require.NoError(t, err)
		assert.Contains(t, res["predecessor"], "predecessor activity does not belong to this project")
	})

	t.Run("closing a dependency loop", func(t *testing.T) {
		snap := baseSnapshot()
		c := snap.Activities[0]
		c.Predecessor = "act-3"
		res, err := Validate(snap, c)
		require.NoError(t, err)
		require.Len(t, res["predecessor"], 1)
		assert.Contains(t, res["predecessor"][0], "cycle")
	})

	t.Run("valid predecessor", func(t *testing.T) {
		snap := baseSnapshot()
		c := validCandidate()
		c.Predecessor = "act-3"
		res, err := Validate(snap, c)
		require.NoError(t, err)
		assert.True(t, res.OK())
	})
}

func TestValidate_CollectsEveryViolation(t *testing.T) {
	snap := baseSnapshot()
	c := domain.Activity{
		PublicID:    "act-bad",
		StartDate:   day("2025-06-01"),
		EndDate:     day("2025-05-01"),
		Cost:        money("9000"),
		Predecessor: "act-elsewhere",
	}
	res, err := Validate(snap, c)
	require.NoError(t, err)

	assert.False(t, res.OK())
	assert.Len(t, res["start_date"], 2)
	assert.Len(t, res["cost"], 1)
	assert.Len(t, res["predecessor"], 1)
}
