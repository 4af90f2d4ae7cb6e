// Package health maps a project's latest EVM indices to a traffic-light
// status and summarizes its progress and budget position.
package health

import (
	"github.com/shopspring/decimal"

	projdomain "github.com/pmhealth/pm-health-backend/internal/projects/domain"
	trackdomain "github.com/pmhealth/pm-health-backend/internal/tracking/domain"
)

type Status string

const (
	StatusGreen  Status = "green"
	StatusYellow Status = "yellow"
	StatusRed    Status = "red"
	StatusGray   Status = "gray"
)

var (
	greenThreshold  = decimal.RequireFromString("0.95")
	yellowThreshold = decimal.RequireFromString("0.85")
)

// Classify maps the most recent snapshot's SPI/CPI pair to a traffic light.
// Gray means there is no tracking data yet.
func Classify(history []trackdomain.Snapshot) Status {
	latest := Latest(history)
	if latest == nil {
		return StatusGray
	}
	spi, cpi := latest.SPI, latest.CPI
	switch {
	case spi.GreaterThanOrEqual(greenThreshold) && cpi.GreaterThanOrEqual(greenThreshold):
		return StatusGreen
	case spi.GreaterThanOrEqual(yellowThreshold) && cpi.GreaterThanOrEqual(yellowThreshold):
		return StatusYellow
	default:
		return StatusRed
	}
}

// Latest picks the snapshot with the most recent as-of date regardless of
// slice order.
func Latest(history []trackdomain.Snapshot) *trackdomain.Snapshot {
	var latest *trackdomain.Snapshot
	for i := range history {
		if latest == nil || history[i].AsOf.After(latest.AsOf) {
			latest = &history[i]
		}
	}
	return latest
}

// ProgressPct is the completed share of the project's activities, rounded to
// one decimal place. 0 when the project has no activities.
func ProgressPct(s projdomain.ProjectSnapshot) float64 {
	total := len(s.Activities)
	if total == 0 {
		return 0
	}
	completed := 0
	for _, a := range s.Activities {
		if a.Status == projdomain.ActivityCompleted {
			completed++
		}
	}
	return float64(int(float64(completed)/float64(total)*1000+0.5)) / 10
}
