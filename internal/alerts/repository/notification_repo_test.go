package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	alertdomain "github.com/pmhealth/pm-health-backend/internal/alerts/domain"
)

func setupNotificationRepo(t *testing.T) (*NotificationRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewNotificationRepository(db)
	return repo, mock, db
}

func TestNotificationRepository_Insert(t *testing.T) {
	repo, mock, db := setupNotificationRepo(t)
	defer db.Close()

	t.Run("assigns an id and returns created_at", func(t *testing.T) {
		n := &alertdomain.Notification{
			ProjectID: "proj-1",
			Kind:      alertdomain.KindCost,
			Message:   "high activity cost: groundworks - $12000.00",
		}

		mock.ExpectQuery(`INSERT INTO notifications`).
			WithArgs(sqlmock.AnyArg(), "proj-1", "cost", n.Message, false).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

		err := repo.Insert(context.Background(), n)
		require.NoError(t, err)
		assert.NotEmpty(t, n.ID)
		assert.False(t, n.CreatedAt.IsZero())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("keeps a caller-set id", func(t *testing.T) {
		n := &alertdomain.Notification{
			ID:        "notif-1",
			ProjectID: "proj-1",
			Kind:      alertdomain.KindSchedule,
			Message:   "schedule slip: groundworks - due 2026-05-20",
		}

		mock.ExpectQuery(`INSERT INTO notifications`).
			WithArgs("notif-1", "proj-1", "schedule", n.Message, false).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

		err := repo.Insert(context.Background(), n)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("requires a project id", func(t *testing.T) {
		err := repo.Insert(context.Background(), &alertdomain.Notification{Message: "orphan"})
		assert.Error(t, err)
	})
}

func TestNotificationRepository_ListByProject(t *testing.T) {
	repo, mock, db := setupNotificationRepo(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "project_id", "kind", "message", "delivered", "created_at"}).
		AddRow("notif-2", "proj-1", "schedule", "schedule slip: fit-out - due 2026-05-01", false, time.Now()).
		AddRow("notif-1", "proj-1", "cost", "high activity cost: groundworks - $12000.00", true, time.Now())

	mock.ExpectQuery(`SELECT id, project_id, kind, message, delivered, created_at`).
		WithArgs("proj-1").
		WillReturnRows(rows)

	got, err := repo.ListByProject(context.Background(), "proj-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, alertdomain.KindSchedule, got[0].Kind)
	assert.True(t, got[1].Delivered)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_ListPending(t *testing.T) {
	repo, mock, db := setupNotificationRepo(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "project_id", "kind", "message", "delivered", "created_at"}).
		AddRow("notif-1", "proj-1", "risk", "high risk identified: key supplier insolvency", false, time.Now())

	mock.ExpectQuery(`WHERE delivered = false`).
		WillReturnRows(rows)

	got, err := repo.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].Delivered)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_MarkDelivered(t *testing.T) {
	repo, mock, db := setupNotificationRepo(t)
	defer db.Close()

	t.Run("flips the flag", func(t *testing.T) {
		mock.ExpectExec(`UPDATE notifications SET delivered = true`).
			WithArgs("notif-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.MarkDelivered(context.Background(), "notif-1")
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown id is an error", func(t *testing.T) {
		mock.ExpectExec(`UPDATE notifications SET delivered = true`).
			WithArgs("notif-gone").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.MarkDelivered(context.Background(), "notif-gone")
		assert.Error(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
