// Package schedule holds the predecessor graph of one project's activities
// and answers acyclicity and timing queries over it.
package schedule

import (
	"time"

	"github.com/pmhealth/pm-health-backend/internal/projects/domain"
)

// Graph indexes activities by public ID together with their single
// predecessor edge.
type Graph struct {
	nodes map[string]domain.Activity
	preds map[string]string
}

func New() *Graph {
	return &Graph{
		nodes: make(map[string]domain.Activity),
		preds: make(map[string]string),
	}
}

// FromSnapshot builds the graph for every activity in the snapshot.
func FromSnapshot(s domain.ProjectSnapshot) *Graph {
	g := New()
	for _, a := range s.Activities {
		g.AddOrReplace(a)
	}
	return g
}

// AddOrReplace inserts or updates the node keyed by the activity's public ID.
func (g *Graph) AddOrReplace(a domain.Activity) {
	g.nodes[a.PublicID] = a
	if a.Predecessor == "" {
		delete(g.preds, a.PublicID)
		return
	}
	g.preds[a.PublicID] = a.Predecessor
}

// WouldCycle reports whether linking activityID to predecessorID would make
// the activity (transitively) its own predecessor. The walk is bounded by a
// visited set: revisiting any node means the chain already loops, which is
// reported as a cycle rather than walked forever. The existing edge out of
// activityID is ignored since the candidate edge replaces it.
func (g *Graph) WouldCycle(activityID, predecessorID string) bool {
	if predecessorID == "" {
		return false
	}
	visited := make(map[string]bool)
	current := predecessorID
	for current != "" {
		if current == activityID {
			return true
		}
		if visited[current] {
			return true
		}
		visited[current] = true
		current = g.preds[current]
	}
	return false
}

// TimeVariance is planned end minus actual end, in days. Positive means the
// activity finished early, negative means late. 0 when no actual end has been
// recorded yet.
func (g *Graph) TimeVariance(a domain.Activity) int {
	if a.ActualEnd == nil {
		return 0
	}
	return daysBetween(*a.ActualEnd, a.EndDate)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
