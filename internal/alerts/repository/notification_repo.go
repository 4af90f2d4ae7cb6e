package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	alertdomain "github.com/pmhealth/pm-health-backend/internal/alerts/domain"
)

// NotificationRepository persists alert notifications and tracks delivery.
type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Insert stores one notification, assigning an ID when missing.
func (r *NotificationRepository) Insert(ctx context.Context, n *alertdomain.Notification) error {
	if n.ProjectID == "" {
		return fmt.Errorf("notification project id required")
	}
	if n.ID == "" {
		n.ID = uuid.New().String()
	}

	const q = `
INSERT INTO notifications (id, project_id, kind, message, delivered)
VALUES ($1, $2, $3, $4, $5)
RETURNING created_at;
`
	err := r.db.QueryRowContext(ctx, q, n.ID, n.ProjectID, n.Kind, n.Message, n.Delivered).
		Scan(&n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// ListByProject returns the project's notifications, newest first.
func (r *NotificationRepository) ListByProject(ctx context.Context, projectID string) ([]alertdomain.Notification, error) {
	const q = `
SELECT id, project_id, kind, message, delivered, created_at
FROM notifications
WHERE project_id = $1
ORDER BY created_at DESC;
`
	rows, err := r.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNotifications(rows)
}

// ListPending returns undelivered notifications, oldest first.
func (r *NotificationRepository) ListPending(ctx context.Context) ([]alertdomain.Notification, error) {
	const q = `
SELECT id, project_id, kind, message, delivered, created_at
FROM notifications
WHERE delivered = false
ORDER BY created_at;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNotifications(rows)
}

// MarkDelivered flips the delivered flag.
func (r *NotificationRepository) MarkDelivered(ctx context.Context, id string) error {
	const q = `UPDATE notifications SET delivered = true WHERE id = $1;`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("notification %s not found", id)
	}
	return nil
}

func scanNotifications(rows *sql.Rows) ([]alertdomain.Notification, error) {
	out := make([]alertdomain.Notification, 0, 8)
	for rows.Next() {
		var n alertdomain.Notification
		if err := rows.Scan(&n.ID, &n.ProjectID, &n.Kind, &n.Message,
			&n.Delivered, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
