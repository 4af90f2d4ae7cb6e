package http

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pmhealth/pm-health-backend/internal/projects/domain"
)

const dateLayout = "2006-01-02"

type createProjectReq struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Status      string  `json:"status"`
	Budget      *string `json:"budget"`
}

type activityReq struct {
	PublicID    string  `json:"public_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	ActualStart *string `json:"actual_start"`
	ActualEnd   *string `json:"actual_end"`
	Status      string  `json:"status"`
	Cost        *string `json:"cost"`
	Predecessor string  `json:"predecessor"`
}

func (req createProjectReq) toDomain() (domain.Project, error) {
	start, err := parseDate(req.StartDate, "start_date")
	if err != nil {
		return domain.Project{}, err
	}
	end, err := parseDate(req.EndDate, "end_date")
	if err != nil {
		return domain.Project{}, err
	}
	budget, err := parseMoney(req.Budget, "budget")
	if err != nil {
		return domain.Project{}, err
	}
	return domain.Project{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   start,
		EndDate:     end,
		Status:      domain.ProjectStatus(req.Status),
		Budget:      budget,
	}, nil
}

func (req activityReq) toDomain() (domain.Activity, error) {
	start, err := parseDate(req.StartDate, "start_date")
	if err != nil {
		return domain.Activity{}, err
	}
	end, err := parseDate(req.EndDate, "end_date")
	if err != nil {
		return domain.Activity{}, err
	}
	actualStart, err := parseOptionalDate(req.ActualStart, "actual_start")
	if err != nil {
		return domain.Activity{}, err
	}
	actualEnd, err := parseOptionalDate(req.ActualEnd, "actual_end")
	if err != nil {
		return domain.Activity{}, err
	}
	cost, err := parseMoney(req.Cost, "cost")
	if err != nil {
		return domain.Activity{}, err
	}
	return domain.Activity{
		PublicID:    req.PublicID,
		Name:        req.Name,
		Description: req.Description,
		StartDate:   start,
		EndDate:     end,
		ActualStart: actualStart,
		ActualEnd:   actualEnd,
		Status:      domain.ActivityStatus(req.Status),
		Cost:        cost,
		Predecessor: req.Predecessor,
	}, nil
}

func parseDate(s, field string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%s is required (format %s)", field, dateLayout)
	}
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q (format %s)", field, s, dateLayout)
	}
	return t, nil
}

func parseOptionalDate(s *string, field string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := parseDate(*s, field)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseMoney(s *string, field string) (*decimal.Decimal, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", field, *s)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("%s cannot be negative", field)
	}
	return &d, nil
}
