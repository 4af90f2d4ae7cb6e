package cronjob

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pmhealth/pm-health-backend/internal/alerts/dispatcher"
	"github.com/pmhealth/pm-health-backend/internal/alerts/service"
)

type ActiveProjectLister interface {
	ListActiveProjectIDs(ctx context.Context) ([]string, error)
}

// Scheduler runs the nightly alert sweep: review every active project for
// schedule slips and high risks, then dispatch whatever is pending.
type Scheduler struct {
	c          *cron.Cron
	projects   ActiveProjectLister
	alerts     *service.AlertService
	dispatcher *dispatcher.Dispatcher
}

func NewScheduler(projects ActiveProjectLister, alerts *service.AlertService, disp *dispatcher.Dispatcher) *Scheduler {
	return &Scheduler{
		c:          cron.New(cron.WithSeconds()),
		projects:   projects,
		alerts:     alerts,
		dispatcher: disp,
	}
}

// Start registers the nightly job (12:00 AM) and starts the cron loop.
func (s *Scheduler) Start() {
	_, err := s.c.AddFunc("0 0 0 * * *", s.RunNightlyReview)
	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return
	}

	log.Println("Alert scheduler started (nightly review at 12:00AM)")
	s.c.Start()
}

func (s *Scheduler) Stop() {
	if s.c != nil {
		s.c.Stop()
	}
}

// RunNightlyReview is exported so the host can trigger a sweep on demand.
func (s *Scheduler) RunNightlyReview() {
	log.Println("Nightly alert review started...")
	ctx := context.Background()
	today := time.Now().UTC().Truncate(24 * time.Hour)

	ids, err := s.projects.ListActiveProjectIDs(ctx)
	if err != nil {
		log.Printf("list active projects: %v", err)
		return
	}

	raised := 0
	for _, id := range ids {
		ns, err := s.alerts.ReviewProject(ctx, id, today)
		if err != nil {
			log.Printf("review project %s: %v", id, err)
			continue
		}
		raised += len(ns)
	}

	delivered, err := s.dispatcher.DispatchPending(ctx)
	if err != nil {
		log.Printf("dispatch pending notifications: %v", err)
	}

	log.Printf("Nightly alert review completed: %d raised, %d delivered", raised, delivered)
}
