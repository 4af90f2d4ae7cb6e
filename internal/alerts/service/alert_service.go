package service

import (
	"context"
	"time"

	alertdomain "github.com/pmhealth/pm-health-backend/internal/alerts/domain"
	"github.com/pmhealth/pm-health-backend/internal/alerts/engine"
	projdomain "github.com/pmhealth/pm-health-backend/internal/projects/domain"
)

type ProjectStore interface {
	LoadSnapshot(ctx context.Context, publicID string) (*projdomain.ProjectSnapshot, error)
	ListRisks(ctx context.Context, projectID string) ([]projdomain.Risk, error)
}

type NotificationStore interface {
	Insert(ctx context.Context, n *alertdomain.Notification) error
	ListByProject(ctx context.Context, projectID string) ([]alertdomain.Notification, error)
}

// AlertService runs the periodic review path: schedule slips across all of a
// project's activities plus high risks. Cost alerts stay commit-time only so
// the nightly sweep does not re-raise them for unchanged activities.
type AlertService struct {
	projects      ProjectStore
	notifications NotificationStore
	engine        *engine.Engine
}

func NewAlertService(projects ProjectStore, notifications NotificationStore, eng *engine.Engine) *AlertService {
	return &AlertService{
		projects:      projects,
		notifications: notifications,
		engine:        eng,
	}
}

// ReviewProject evaluates the review rules for one project and persists every
// alert raised, returning them.
func (s *AlertService) ReviewProject(ctx context.Context, projectID string, today time.Time) ([]alertdomain.Notification, error) {
	snap, err := s.projects.LoadSnapshot(ctx, projectID)
	if err != nil {
		return nil, err
	}
	risks, err := s.projects.ListRisks(ctx, projectID)
	if err != nil {
		return nil, err
	}

	var raised []alertdomain.Notification
	for _, a := range snap.Activities {
		if n := s.engine.ScheduleAlert(snap.Project, a, today); n != nil {
			raised = append(raised, *n)
		}
	}
	for _, r := range risks {
		if n := s.engine.RiskAlert(snap.Project, r); n != nil {
			raised = append(raised, *n)
		}
	}

	for i := range raised {
		if err := s.notifications.Insert(ctx, &raised[i]); err != nil {
			return raised[:i], err
		}
	}
	return raised, nil
}

// Notifications lists a project's notifications, newest first.
func (s *AlertService) Notifications(ctx context.Context, projectID string) ([]alertdomain.Notification, error) {
	return s.notifications.ListByProject(ctx, projectID)
}
