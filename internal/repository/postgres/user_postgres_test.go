package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"umrahportal/internal/model"
	"umrahportal/internal/repository"
)

var userCols = []string{"id", "email", "role", "full_name", "phone", "nik", "birth_place", "birth_date", "gender",
	"address", "passport_number", "passport_expiry", "emergency_contact", "photo_url", "created_at", "updated_at"}

func userRow(rows *sqlmock.Rows, id string, role model.Role, fullName string) *sqlmock.Rows {
	now := time.Now().UTC()
	return rows.AddRow(id, id+"@example.com", string(role), fullName, "", "", "", "", "", "", "", "", "", "", now, now)
}

func TestUserPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id = ?").
		WithArgs("u1").
		WillReturnRows(userRow(sqlmock.NewRows(userCols), "u1", model.RolePilgrim, "Ahmad"))

	u, err := NewUserPostgres(db).FindByID(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, model.RolePilgrim, u.Role)
	assert.Equal(t, "Ahmad", u.Profile.FullName)
}

func TestUserPostgres_UpdateRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("UPDATE users SET role").
		WithArgs("u1", "jamaah", "alumni").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.UpdateRole(ctx, "u1", model.RolePilgrim, model.RoleAlumni))

	mock.ExpectExec("UPDATE users SET role").
		WithArgs("u2", "jamaah", "alumni").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.UpdateRole(ctx, "u2", model.RolePilgrim, model.RoleAlumni), sql.ErrNoRows)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_ListByRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM users WHERE role = ?").
		WithArgs("jamaah").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	rows := sqlmock.NewRows(userCols)
	userRow(rows, "u1", model.RolePilgrim, "A")
	userRow(rows, "u2", model.RolePilgrim, "B")
	mock.ExpectQuery("SELECT (.+) FROM users WHERE role = (.+) ORDER BY created_at ASC").
		WithArgs("jamaah", 2, 0).
		WillReturnRows(rows)

	res, err := NewUserPostgres(db).ListByRole(context.Background(), model.RolePilgrim, repository.PageQuery{Limit: 2})

	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Len(t, res.Items, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
