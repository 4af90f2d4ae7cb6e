package domain

import "time"

type MilestonePhase string

const (
	PhaseInitiation MilestonePhase = "initiation"
	PhasePlanning   MilestonePhase = "planning"
	PhaseExecution  MilestonePhase = "execution"
	PhaseMonitoring MilestonePhase = "monitoring"
	PhaseClosure    MilestonePhase = "closure"
)

// Milestone marks a checkpoint in a project phase. ActivityIDs are the public
// IDs of the activities it depends on.
type Milestone struct {
	PublicID    string         `json:"public_id"`
	ProjectID   string         `json:"project_id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	DueDate     time.Time      `json:"due_date"`
	Completed   bool           `json:"completed"`
	Phase       MilestonePhase `json:"phase"`
	IsPhaseGate bool           `json:"is_phase_gate"`
	ActivityIDs []string       `json:"activity_ids,omitempty"`
}

// LinkedActivities filters the snapshot down to the milestone's activities.
func (m Milestone) LinkedActivities(s ProjectSnapshot) []Activity {
	linked := make(map[string]bool, len(m.ActivityIDs))
	for _, id := range m.ActivityIDs {
		linked[id] = true
	}
	var out []Activity
	for _, a := range s.Activities {
		if linked[a.PublicID] {
			out = append(out, a)
		}
	}
	return out
}

// CompletionMet reports whether every linked activity is completed. A
// milestone with no linked activities is trivially met.
func (m Milestone) CompletionMet(s ProjectSnapshot) bool {
	for _, a := range m.LinkedActivities(s) {
		if a.Status != ActivityCompleted {
			return false
		}
	}
	return true
}

// ProgressPct is the completed share of linked activities, rounded to one
// decimal place. 0 when nothing is linked.
func (m Milestone) ProgressPct(s ProjectSnapshot) float64 {
	linked := m.LinkedActivities(s)
	if len(linked) == 0 {
		return 0
	}
	completed := 0
	for _, a := range linked {
		if a.Status == ActivityCompleted {
			completed++
		}
	}
	return roundPct(float64(completed) / float64(len(linked)) * 100)
}

func roundPct(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
