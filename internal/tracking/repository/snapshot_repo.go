package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	trackdomain "github.com/pmhealth/pm-health-backend/internal/tracking/domain"
)

// SnapshotRepository persists tracking snapshots. The PV/EV/AC/CPI/SPI
// columns are always written from freshly computed metrics; this repository
// never accepts caller-set values for them beyond what the service computed.
type SnapshotRepository struct {
	db *sql.DB
}

func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Insert stores one snapshot, assigning an ID when missing.
func (r *SnapshotRepository) Insert(ctx context.Context, s *trackdomain.Snapshot) error {
	if s.ProjectID == "" {
		return fmt.Errorf("snapshot project id required")
	}
	if s.AsOf.IsZero() {
		return fmt.Errorf("snapshot as-of date required")
	}
	if s.ID == "" {
		s.ID = uuid.New().String()
	}

	const q = `
INSERT INTO tracking_snapshots (id, project_id, as_of, observation, pv, ev, ac, cpi, spi)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING created_at;
`
	err := r.db.QueryRowContext(ctx, q, s.ID, s.ProjectID, s.AsOf, s.Observation,
		s.PV, s.EV, s.AC, s.CPI, s.SPI).
		Scan(&s.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert tracking snapshot: %w", err)
	}
	return nil
}

// ListByProject returns the project's snapshots, newest as-of first.
func (r *SnapshotRepository) ListByProject(ctx context.Context, projectID string) ([]trackdomain.Snapshot, error) {
	const q = `
SELECT id, project_id, as_of, observation, pv, ev, ac, cpi, spi, created_at
FROM tracking_snapshots
WHERE project_id = $1
ORDER BY as_of DESC, created_at DESC;
`
	rows, err := r.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]trackdomain.Snapshot, 0, 8)
	for rows.Next() {
		var s trackdomain.Snapshot
		if err := rows.Scan(&s.ID, &s.ProjectID, &s.AsOf, &s.Observation,
			&s.PV, &s.EV, &s.AC, &s.CPI, &s.SPI, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Latest returns the most recent snapshot, or nil when the project has none.
func (r *SnapshotRepository) Latest(ctx context.Context, projectID string) (*trackdomain.Snapshot, error) {
	const q = `
SELECT id, project_id, as_of, observation, pv, ev, ac, cpi, spi, created_at
FROM tracking_snapshots
WHERE project_id = $1
ORDER BY as_of DESC, created_at DESC
LIMIT 1;
`
	var s trackdomain.Snapshot
	err := r.db.QueryRowContext(ctx, q, projectID).
		Scan(&s.ID, &s.ProjectID, &s.AsOf, &s.Observation,
			&s.PV, &s.EV, &s.AC, &s.CPI, &s.SPI, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
