package postgres

import (
	"context"
	"database/sql"

	"umrahportal/internal/model"
	"umrahportal/internal/repository"
)

const userColumns = `id, email, role, full_name, phone, nik, birth_place, birth_date, gender,
	address, passport_number, passport_expiry, emergency_contact, photo_url, created_at, updated_at`

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

func scanUser(s rowScanner) (*model.User, error) {
	var u model.User
	var role string
	p := &u.Profile
	if err := s.Scan(
		&u.ID, &u.Email, &role,
		&p.FullName, &p.Phone, &p.NIK, &p.BirthPlace, &p.BirthDate, &p.Gender,
		&p.Address, &p.PassportNumber, &p.PassportExpiry, &p.EmergencyContact, &p.PhotoURL,
		&u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	u.Role = model.Role(role)
	return &u, nil
}

// Create inserts a user row and returns the stored record.
func (r *UserPostgres) Create(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `
		INSERT INTO users (id, email, role, full_name, phone, nik, birth_place, birth_date, gender,
			address, passport_number, passport_expiry, emergency_contact, photo_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + userColumns
	p := u.Profile
	stored, err := scanUser(r.db.QueryRowContext(ctx, q,
		u.ID, u.Email, string(u.Role),
		p.FullName, p.Phone, p.NIK, p.BirthPlace, p.BirthDate, p.Gender,
		p.Address, p.PassportNumber, p.PassportExpiry, p.EmergencyContact, p.PhotoURL,
		u.CreatedAt, u.UpdatedAt,
	))
	return stored, mapWriteErr(err)
}

// FindByID fetches a single user by ID.
func (r *UserPostgres) FindByID(ctx context.Context, id string) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, id))
}

// FindByEmail fetches a single user by email.
func (r *UserPostgres) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, email))
}

// UpdateProfile overwrites the profile fields and returns the updated row.
func (r *UserPostgres) UpdateProfile(ctx context.Context, id string, p model.Profile) (*model.User, error) {
	const q = `
		UPDATE users SET full_name = $2, phone = $3, nik = $4, birth_place = $5, birth_date = $6,
			gender = $7, address = $8, passport_number = $9, passport_expiry = $10,
			emergency_contact = $11, photo_url = $12, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRowContext(ctx, q, id,
		p.FullName, p.Phone, p.NIK, p.BirthPlace, p.BirthDate,
		p.Gender, p.Address, p.PassportNumber, p.PassportExpiry,
		p.EmergencyContact, p.PhotoURL,
	))
}

// UpdateRole flips the role only while the user still holds from.
func (r *UserPostgres) UpdateRole(ctx context.Context, id string, from, to model.Role) error {
	const q = `UPDATE users SET role = $3, updated_at = now() WHERE id = $1 AND role = $2`
	res, err := r.db.ExecContext(ctx, q, id, string(from), string(to))
	if err != nil {
		return err
	}
	return affectedOrNoRows(res)
}

// ListByRole pages through users holding role, oldest first so sweeps are stable.
func (r *UserPostgres) ListByRole(ctx context.Context, role model.Role, pq repository.PageQuery) (*repository.PageResult[model.User], error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, string(role)).Scan(&total); err != nil {
		return nil, err
	}

	q := `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY created_at ASC, id ASC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, q, string(role), pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.User]{Items: items, Total: total}, nil
}
