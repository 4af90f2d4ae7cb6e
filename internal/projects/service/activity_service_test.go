package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	alertdomain "github.com/pmhealth/pm-health-backend/internal/alerts/domain"
	"github.com/pmhealth/pm-health-backend/internal/alerts/engine"
	"github.com/pmhealth/pm-health-backend/internal/projects/domain"
)

type fakeActivityStore struct {
	snap     domain.ProjectSnapshot
	upserted []domain.Activity
}

func (f *fakeActivityStore) LoadSnapshot(_ context.Context, _ string) (*domain.ProjectSnapshot, error) {
	s := f.snap
	return &s, nil
}

func (f *fakeActivityStore) UpsertActivity(_ context.Context, a domain.Activity) (*domain.Activity, error) {
	f.upserted = append(f.upserted, a)
	return &a, nil
}

type fakeNotificationWriter struct {
	inserted []alertdomain.Notification
}

func (f *fakeNotificationWriter) Insert(_ context.Context, n *alertdomain.Notification) error {
	f.inserted = append(f.inserted, *n)
	return nil
}

type fakeInvalidator struct {
	dropped []string
}

func (f *fakeInvalidator) Invalidate(_ context.Context, projectID string) error {
	f.dropped = append(f.dropped, projectID)
	return nil
}

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

func fixtureSnapshot() domain.ProjectSnapshot {
	return domain.ProjectSnapshot{
		Project: domain.Project{
			PublicID:  "proj-1",
			StartDate: day("2026-01-01"),
			EndDate:   day("2099-12-31"),
			Budget:    money("50000"),
		},
		Activities: []domain.Activity{
			{PublicID: "act-1", StartDate: day("2026-01-10"), EndDate: day("2026-02-10"), Cost: money("1000")},
		},
	}
}

func newFixture() (*ActivityService, *fakeActivityStore, *fakeNotificationWriter, *fakeInvalidator) {
	store := &fakeActivityStore{snap: fixtureSnapshot()}
	notif := &fakeNotificationWriter{}
	inv := &fakeInvalidator{}
	svc := NewActivityService(store, notif, engine.New(engine.DefaultConfig()), inv)
	return svc, store, notif, inv
}

func TestActivityService_Validate(t *testing.T) {
	svc, store, _, _ := newFixture()

	t.Run("dry run writes nothing", func(t *testing.T) {
		res, err := svc.Validate(context.Background(), "proj-1", domain.Activity{
			StartDate: day("2098-03-01"),
			EndDate:   day("2098-04-01"),
		})
		require.NoError(t, err)
		assert.True(t, res.OK())
		assert.Empty(t, store.upserted)
	})

	t.Run("violations come back without an error", func(t *testing.T) {
		res, err := svc.Validate(context.Background(), "proj-1", domain.Activity{
			StartDate: day("2025-03-01"),
			EndDate:   day("2098-04-01"),
		})
		require.NoError(t, err)
		assert.False(t, res.OK())
		assert.NotEmpty(t, res["start_date"])
	})
}

func TestActivityService_Commit(t *testing.T) {
	t.Run("assigns identity and defaults, persists, drops the cache", func(t *testing.T) {
		svc, store, _, inv := newFixture()

		committed, res, err := svc.Commit(context.Background(), "proj-1", domain.Activity{
			Name:      "fit-out",
			StartDate: day("2098-03-01"),
			EndDate:   day("2098-04-01"),
		})
		require.NoError(t, err)
		assert.True(t, res.OK())
		require.NotNil(t, committed)
		assert.NotEmpty(t, committed.PublicID)
		assert.Equal(t, "proj-1", committed.ProjectID)
		assert.Equal(t, domain.ActivityPending, committed.Status)
		require.Len(t, store.upserted, 1)
		assert.Equal(t, []string{"proj-1"}, inv.dropped)
	})

	t.Run("rejected writes store nothing", func(t *testing.T) {
		svc, store, notif, inv := newFixture()

		committed, res, err := svc.Commit(context.Background(), "proj-1", domain.Activity{
			Name:      "overrun",
			StartDate: day("2098-03-01"),
			EndDate:   day("2098-04-01"),
			Cost:      money("99000"),
		})
		require.NoError(t, err)
		assert.Nil(t, committed)
		assert.False(t, res.OK())
		assert.Empty(t, store.upserted)
		assert.Empty(t, notif.inserted)
		assert.Empty(t, inv.dropped)
	})

	t.Run("a high-cost commit raises a cost alert", func(t *testing.T) {
		svc, _, notif, _ := newFixture()

		_, res, err := svc.Commit(context.Background(), "proj-1", domain.Activity{
			Name:      "steelworks",
			StartDate: day("2098-03-01"),
			EndDate:   day("2098-04-01"),
			Cost:      money("12000"),
		})
		require.NoError(t, err)
		require.True(t, res.OK())
		require.Len(t, notif.inserted, 1)
		assert.Equal(t, alertdomain.KindCost, notif.inserted[0].Kind)
	})
}
