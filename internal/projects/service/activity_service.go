package service

import (
	"context"
	"log"
	"time"

	alertdomain "github.com/pmhealth/pm-health-backend/internal/alerts/domain"
	"github.com/pmhealth/pm-health-backend/internal/alerts/engine"
	"github.com/pmhealth/pm-health-backend/internal/projects/domain"
	"github.com/pmhealth/pm-health-backend/internal/projects/validation"
)

// ActivityStore is the slice of the projects repository this service needs.
type ActivityStore interface {
	LoadSnapshot(ctx context.Context, publicID string) (*domain.ProjectSnapshot, error)
	UpsertActivity(ctx context.Context, a domain.Activity) (*domain.Activity, error)
}

type NotificationWriter interface {
	Insert(ctx context.Context, n *alertdomain.Notification) error
}

type HealthInvalidator interface {
	Invalidate(ctx context.Context, projectID string) error
}

// ActivityService gates activity writes: validate against a fresh snapshot,
// commit, then raise alerts for the committed activity.
type ActivityService struct {
	store         ActivityStore
	notifications NotificationWriter
	alerts        *engine.Engine
	cache         HealthInvalidator
}

func NewActivityService(store ActivityStore, notifications NotificationWriter, alerts *engine.Engine, cache HealthInvalidator) *ActivityService {
	return &ActivityService{
		store:         store,
		notifications: notifications,
		alerts:        alerts,
		cache:         cache,
	}
}

// Validate runs the validator against the current project snapshot without
// writing anything.
func (s *ActivityService) Validate(ctx context.Context, projectID string, candidate domain.Activity) (validation.Result, error) {
	snap, err := s.store.LoadSnapshot(ctx, projectID)
	if err != nil {
		return nil, err
	}
	candidate.ProjectID = projectID
	if candidate.PublicID == "" {
		// dry runs for brand-new activities still need an identity for the
		// cycle walk
		candidate.PublicID, err = domain.NewPublicID("act")
		if err != nil {
			return nil, err
		}
	}
	return validation.Validate(*snap, candidate)
}

// Commit validates and persists one activity. A non-empty Result means the
// write was rejected and nothing was stored. Alert evaluation runs after the
// commit; notification persistence failures are logged, not fatal to the
// write that already happened.
func (s *ActivityService) Commit(ctx context.Context, projectID string, candidate domain.Activity) (*domain.Activity, validation.Result, error) {
	snap, err := s.store.LoadSnapshot(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}

	candidate.ProjectID = projectID
	if candidate.PublicID == "" {
		candidate.PublicID, err = domain.NewPublicID("act")
		if err != nil {
			return nil, nil, err
		}
	}
	if candidate.Status == "" {
		candidate.Status = domain.ActivityPending
	}

	res, err := validation.Validate(*snap, candidate)
	if err != nil {
		return nil, nil, err
	}
	if !res.OK() {
		return nil, res, nil
	}

	committed, err := s.store.UpsertActivity(ctx, candidate)
	if err != nil {
		return nil, nil, err
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	for _, n := range s.alerts.Evaluate(snap.Project, *committed, today) {
		n := n
		if err := s.notifications.Insert(ctx, &n); err != nil {
			log.Printf("store %s alert for project %s: %v", n.Kind, projectID, err)
		}
	}

	if err := s.cache.Invalidate(ctx, projectID); err != nil {
		log.Printf("invalidate health cache for project %s: %v", projectID, err)
	}

	return committed, res, nil
}
