package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/pmhealth/pm-health-backend/internal/projects/domain"
)

var ErrNotFound = errors.New("not found")

// Repo provides persistence for projects and their activities, resources,
// risks and milestones, and assembles the consistent snapshot the engine
// packages compute over.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// CreateProject inserts a new project under a fresh public ID.
func (r *Repo) CreateProject(ctx context.Context, p domain.Project) (*domain.Project, error) {
	if p.Name == "" {
		return nil, fmt.Errorf("name required")
	}
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return nil, fmt.Errorf("start and end dates required")
	}
	if p.EndDate.Before(p.StartDate) {
		return nil, fmt.Errorf("end date before start date")
	}
	if p.Status == "" {
		p.Status = domain.ProjectPlanning
	}

	for i := 0; i < 5; i++ {
		publicID, err := domain.NewPublicID("proj")
		if err != nil {
			return nil, err
		}

		const q = `
insert into projects (public_id, name, description, start_date, end_date, status, budget)
values ($1, $2, $3, $4, $5, $6, $7)
returning public_id, name, description, start_date, end_date, status, budget::text, created_at, updated_at;
`
		row := r.db.QueryRow(ctx, q, publicID, p.Name, p.Description,
			p.StartDate, p.EndDate, p.Status, moneyArg(p.Budget))

		out, err := scanProject(row)
		if err == nil {
			return out, nil
		}

		// unique violation on public_id, try another
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("failed to generate unique project id")
}

// GetProject fetches one project by public ID.
func (r *Repo) GetProject(ctx context.Context, publicID string) (*domain.Project, error) {
	const q = `
select public_id, name, description, start_date, end_date, status, budget::text, created_at, updated_at
from projects
where public_id = $1;
`
	out, err := scanProject(r.db.QueryRow(ctx, q, publicID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListProjects returns all projects, newest first.
func (r *Repo) ListProjects(ctx context.Context) ([]domain.Project, error) {
	const q = `
select public_id, name, description, start_date, end_date, status, budget::text, created_at, updated_at
from projects
order by created_at desc;
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// ListActiveProjectIDs returns the public IDs of projects still in flight,
// used by the nightly alert sweep.
func (r *Repo) ListActiveProjectIDs(ctx context.Context) ([]string, error) {
	const q = `
select public_id from projects
where status in ('planning', 'in_progress')
order by created_at;
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// LoadSnapshot assembles the project, its activities and their resources into
// one consistent in-memory view.
func (r *Repo) LoadSnapshot(ctx context.Context, publicID string) (*domain.ProjectSnapshot, error) {
	p, err := r.GetProject(ctx, publicID)
	if err != nil {
		return nil, err
	}

	activities, err := r.listActivities(ctx, publicID)
	if err != nil {
		return nil, fmt.Errorf("load activities: %w", err)
	}
	resources, err := r.listResources(ctx, publicID)
	if err != nil {
		return nil, fmt.Errorf("load resources: %w", err)
	}

	return &domain.ProjectSnapshot{
		Project:    *p,
		Activities: activities,
		Resources:  resources,
	}, nil
}

func (r *Repo) listActivities(ctx context.Context, projectID string) ([]domain.Activity, error) {
	const q = `
select public_id, project_id, name, description, start_date, end_date,
       actual_start, actual_end, status, cost::text, coalesce(predecessor_id, '')
from activities
where project_id = $1
order by start_date, public_id;
`
	rows, err := r.db.Query(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Activity, 0, 16)
	for rows.Next() {
		var a domain.Activity
		var cost *string
		if err := rows.Scan(&a.PublicID, &a.ProjectID, &a.Name, &a.Description,
			&a.StartDate, &a.EndDate, &a.ActualStart, &a.ActualEnd,
			&a.Status, &cost, &a.Predecessor); err != nil {
			return nil, err
		}
		if a.Cost, err = parseMoney(cost); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repo) listResources(ctx context.Context, projectID string) ([]domain.Resource, error) {
	const q = `
select r.public_id, r.activity_id, r.name, r.type, r.quantity, r.cost_per_unit::text
from resources r
join activities a on a.public_id = r.activity_id
where a.project_id = $1
order by r.public_id;
`
	rows, err := r.db.Query(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Resource, 0, 8)
	for rows.Next() {
		var res domain.Resource
		var unit string
		if err := rows.Scan(&res.PublicID, &res.ActivityID, &res.Name, &res.Type,
			&res.Quantity, &unit); err != nil {
			return nil, err
		}
		cpu, err := decimal.NewFromString(unit)
		if err != nil {
			return nil, fmt.Errorf("resource %s cost_per_unit: %w", res.PublicID, err)
		}
		res.CostPerUnit = cpu
		out = append(out, res)
	}
	return out, rows.Err()
}

// UpsertActivity commits one validated activity. The single statement is the
// serialization point for concurrent writes to the same project.
func (r *Repo) UpsertActivity(ctx context.Context, a domain.Activity) (*domain.Activity, error) {
	if a.PublicID == "" || a.ProjectID == "" {
		return nil, fmt.Errorf("activity public id and project id required")
	}

	const q = `
insert into activities (public_id, project_id, name, description, start_date, end_date,
                        actual_start, actual_end, status, cost, predecessor_id)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, nullif($11, ''))
on conflict (public_id) do update set
  name = excluded.name,
  description = excluded.description,
  start_date = excluded.start_date,
  end_date = excluded.end_date,
  actual_start = excluded.actual_start,
  actual_end = excluded.actual_end,
  status = excluded.status,
  cost = excluded.cost,
  predecessor_id = excluded.predecessor_id
returning public_id, project_id, name, description, start_date, end_date,
          actual_start, actual_end, status, cost::text, coalesce(predecessor_id, '');
`
	var out domain.Activity
	var cost *string
	err := r.db.QueryRow(ctx, q, a.PublicID, a.ProjectID, a.Name, a.Description,
		a.StartDate, a.EndDate, a.ActualStart, a.ActualEnd, a.Status,
		moneyArg(a.Cost), a.Predecessor).
		Scan(&out.PublicID, &out.ProjectID, &out.Name, &out.Description,
			&out.StartDate, &out.EndDate, &out.ActualStart, &out.ActualEnd,
			&out.Status, &cost, &out.Predecessor)
	if err != nil {
		return nil, err
	}
	if out.Cost, err = parseMoney(cost); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListRisks returns the project's recorded risks.
func (r *Repo) ListRisks(ctx context.Context, projectID string) ([]domain.Risk, error) {
	const q = `
select public_id, project_id, description, probability, impact, status,
       coalesce(mitigation_plan, ''), coalesce(identified_by, '')
from risks
where project_id = $1
order by public_id;
`
	rows, err := r.db.Query(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Risk, 0, 8)
	for rows.Next() {
		var risk domain.Risk
		if err := rows.Scan(&risk.PublicID, &risk.ProjectID, &risk.Description,
			&risk.Probability, &risk.Impact, &risk.Status,
			&risk.MitigationPlan, &risk.IdentifiedBy); err != nil {
			return nil, err
		}
		out = append(out, risk)
	}
	return out, rows.Err()
}

// ListMilestones returns the project's milestones with their linked activity
// IDs.
func (r *Repo) ListMilestones(ctx context.Context, projectID string) ([]domain.Milestone, error) {
	const q = `
select m.public_id, m.project_id, m.name, m.description, m.due_date,
       m.completed, m.phase, m.is_phase_gate,
       coalesce(array_agg(ma.activity_id) filter (where ma.activity_id is not null), '{}')
from milestones m
left join milestone_activities ma on ma.milestone_id = m.public_id
where m.project_id = $1
group by m.public_id, m.project_id, m.name, m.description, m.due_date,
         m.completed, m.phase, m.is_phase_gate
order by m.due_date;
`
	rows, err := r.db.Query(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Milestone, 0, 8)
	for rows.Next() {
		var m domain.Milestone
		if err := rows.Scan(&m.PublicID, &m.ProjectID, &m.Name, &m.Description,
			&m.DueDate, &m.Completed, &m.Phase, &m.IsPhaseGate, &m.ActivityIDs); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	var budget *string
	err := row.Scan(&p.PublicID, &p.Name, &p.Description, &p.StartDate, &p.EndDate,
		&p.Status, &budget, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if p.Budget, err = parseMoney(budget); err != nil {
		return nil, err
	}
	return &p, nil
}

// parseMoney converts a nullable numeric-as-text column into a decimal.
func parseMoney(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, fmt.Errorf("parse money %q: %w", *s, err)
	}
	return &d, nil
}

// moneyArg passes an optional decimal as a nullable text parameter.
func moneyArg(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
