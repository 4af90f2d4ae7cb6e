// Package dispatcher hands pending notifications to a delivery sink and
// records that they went out. What the sink does with them (mail, queue,
// webhook) is the host's choice; the default sink logs.
package dispatcher

import (
	"context"
	"fmt"
	"log"

	alertdomain "github.com/pmhealth/pm-health-backend/internal/alerts/domain"
)

type Deliverer interface {
	Deliver(ctx context.Context, n alertdomain.Notification) error
}

// LogDeliverer writes each notification to the process log.
type LogDeliverer struct{}

func (LogDeliverer) Deliver(_ context.Context, n alertdomain.Notification) error {
	log.Printf("[alert] project=%s kind=%s message=%q", n.ProjectID, n.Kind, n.Message)
	return nil
}

type PendingStore interface {
	ListPending(ctx context.Context) ([]alertdomain.Notification, error)
	MarkDelivered(ctx context.Context, id string) error
}

type Dispatcher struct {
	store PendingStore
	sink  Deliverer
}

func New(store PendingStore, sink Deliverer) *Dispatcher {
	if sink == nil {
		sink = LogDeliverer{}
	}
	return &Dispatcher{store: store, sink: sink}
}

// DispatchPending delivers every undelivered notification and marks it. It
// stops on the first failure so nothing gets marked without being delivered.
func (d *Dispatcher) DispatchPending(ctx context.Context) (int, error) {
	pending, err := d.store.ListPending(ctx)
	if err != nil {
		return 0, fmt.Errorf("list pending notifications: %w", err)
	}

	delivered := 0
	for _, n := range pending {
		if err := d.sink.Deliver(ctx, n); err != nil {
			return delivered, fmt.Errorf("deliver notification %s: %w", n.ID, err)
		}
		if err := d.store.MarkDelivered(ctx, n.ID); err != nil {
			return delivered, fmt.Errorf("mark notification %s delivered: %w", n.ID, err)
		}
		delivered++
	}
	return delivered, nil
}
