package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"umrahportal/internal/model"
	"umrahportal/internal/repository"
)

var upgradeCols = []string{"id", "user_id", "package_id", "from_role", "to_role", "status", "note", "reviewed_by",
	"reviewed_at", "created_at"}

func TestUpgradeRequestPostgres_FindPendingByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUpgradeRequestPostgres(db)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM upgrade_requests WHERE user_id = (.+) AND status = 'pending'").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(upgradeCols).
			AddRow("req-1", "u1", "pkg-1", "calon_jamaah", "jamaah", "pending", "", "", nil, now))

	got, err := repo.FindPendingByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleProspective, got.FromRole)
	assert.Equal(t, model.RolePilgrim, got.ToRole)
	assert.Nil(t, got.ReviewedAt)

	mock.ExpectQuery("SELECT (.+) FROM upgrade_requests WHERE user_id").
		WithArgs("u2").
		WillReturnError(sql.ErrNoRows)
	_, err = repo.FindPendingByUser(context.Background(), "u2")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUpgradeRequestPostgres_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Now().UTC()
	mock.ExpectExec("UPDATE upgrade_requests SET status").
		WithArgs("req-1", "pending", "rejected", "admin", "bukti tidak valid", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewUpgradeRequestPostgres(db).UpdateStatus(context.Background(), "req-1", repository.ReviewUpdate{
		From: model.StatusPending, To: model.StatusRejected, ReviewedBy: "admin", Note: "bukti tidak valid", At: at,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpgradeRequestPostgres_Create_DuplicatePending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("INSERT INTO upgrade_requests").
		WithArgs("req-2", "u1", "", "calon_jamaah", "jamaah", "pending", "", now).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_upgrade_requests_pending"})

	_, err = NewUpgradeRequestPostgres(db).Create(context.Background(), &model.UpgradeRequest{
		ID: "req-2", UserID: "u1", FromRole: model.RoleProspective, ToRole: model.RolePilgrim,
		Status: model.StatusPending, CreatedAt: now,
	})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}
