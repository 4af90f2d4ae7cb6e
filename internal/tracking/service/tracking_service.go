package service

import (
	"context"
	"log"
	"time"

	projdomain "github.com/pmhealth/pm-health-backend/internal/projects/domain"
	trackdomain "github.com/pmhealth/pm-health-backend/internal/tracking/domain"
	"github.com/pmhealth/pm-health-backend/internal/tracking/evm"
	"github.com/pmhealth/pm-health-backend/internal/tracking/health"
)

type SnapshotLoader interface {
	LoadSnapshot(ctx context.Context, publicID string) (*projdomain.ProjectSnapshot, error)
}

type SnapshotStore interface {
	Insert(ctx context.Context, s *trackdomain.Snapshot) error
	ListByProject(ctx context.Context, projectID string) ([]trackdomain.Snapshot, error)
}

type SummaryCache interface {
	Get(ctx context.Context, projectID string) (*health.Summary, bool, error)
	Set(ctx context.Context, projectID string, s health.Summary) error
	Invalidate(ctx context.Context, projectID string) error
}

// TrackingService records tracking snapshots with freshly computed EVM
// metrics and serves the project health read path.
type TrackingService struct {
	projects  SnapshotLoader
	snapshots SnapshotStore
	cache     SummaryCache
}

func NewTrackingService(projects SnapshotLoader, snapshots SnapshotStore, cache SummaryCache) *TrackingService {
	return &TrackingService{
		projects:  projects,
		snapshots: snapshots,
		cache:     cache,
	}
}

// Record computes EVM metrics from the current project state and persists a
// new tracking snapshot carrying them.
func (s *TrackingService) Record(ctx context.Context, projectID string, asOf time.Time, observation string) (*trackdomain.Snapshot, error) {
	snap, err := s.projects.LoadSnapshot(ctx, projectID)
	if err != nil {
		return nil, err
	}

	row := &trackdomain.Snapshot{
		ProjectID:   projectID,
		AsOf:        asOf,
		Observation: observation,
	}
	evm.Apply(row, *snap)

	if err := s.snapshots.Insert(ctx, row); err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, projectID); err != nil {
		log.Printf("invalidate health cache for project %s: %v", projectID, err)
	}
	return row, nil
}

// ComputeEVM derives the metrics as of a date without persisting anything.
func (s *TrackingService) ComputeEVM(ctx context.Context, projectID string, asOf time.Time) (evm.Metrics, error) {
	snap, err := s.projects.LoadSnapshot(ctx, projectID)
	if err != nil {
		return evm.Metrics{}, err
	}
	return evm.Compute(*snap, asOf), nil
}

// History returns the project's tracking snapshots, newest first.
func (s *TrackingService) History(ctx context.Context, projectID string) ([]trackdomain.Snapshot, error) {
	return s.snapshots.ListByProject(ctx, projectID)
}

// Health serves the traffic-light summary, from cache when possible.
func (s *TrackingService) Health(ctx context.Context, projectID string) (health.Summary, error) {
	if cached, ok, err := s.cache.Get(ctx, projectID); err != nil {
		log.Printf("health cache read for project %s: %v", projectID, err)
	} else if ok {
		return *cached, nil
	}

	snap, err := s.projects.LoadSnapshot(ctx, projectID)
	if err != nil {
		return health.Summary{}, err
	}
	history, err := s.snapshots.ListByProject(ctx, projectID)
	if err != nil {
		return health.Summary{}, err
	}

	summary := health.Summarize(*snap, history)
	if err := s.cache.Set(ctx, projectID, summary); err != nil {
		log.Printf("health cache write for project %s: %v", projectID, err)
	}
	return summary, nil
}
