package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"umrahportal/internal/model"
	"umrahportal/internal/repository"
)

const packageColumns = `id, name, slug, category, description, price, quota, departure_date, return_date,
	duration_days, hotel_makkah, hotel_madinah, airline, mutawwif, facilities, image_url, featured, active, created_at`

// PackagePostgres is a PostgreSQL implementation of repository.PackageRepository.
type PackagePostgres struct {
	db *sql.DB
}

// NewPackagePostgres creates a new PackagePostgres repository.
func NewPackagePostgres(db *sql.DB) *PackagePostgres {
	return &PackagePostgres{db: db}
}

var _ repository.PackageRepository = (*PackagePostgres)(nil)

func scanPackage(s rowScanner) (*model.TravelPackage, error) {
	var p model.TravelPackage
	var category string
	var facilities []byte
	var departure, ret sql.NullTime
	if err := s.Scan(
		&p.ID, &p.Name, &p.Slug, &category, &p.Description, &p.Price, &p.Quota, &departure, &ret,
		&p.DurationDays, &p.HotelMakkah, &p.HotelMadinah, &p.Airline, &p.Mutawwif, &facilities,
		&p.ImageURL, &p.Featured, &p.Active, &p.CreatedAt,
	); err != nil {
		return nil, err
	}
	p.Category = model.PackageCategory(category)
	p.DepartureDate = timeOrZero(departure)
	p.ReturnDate = timeOrZero(ret)
	fs, err := decodeJSON[string](facilities)
	if err != nil {
		return nil, err
	}
	p.Facilities = fs
	return &p, nil
}

// Create inserts a package row and returns the stored record.
func (r *PackagePostgres) Create(ctx context.Context, p *model.TravelPackage) (*model.TravelPackage, error) {
	facilities, err := jsonArg(p.Facilities)
	if err != nil {
		return nil, err
	}
	const q = `
		INSERT INTO packages (id, name, slug, category, description, price, quota, departure_date, return_date,
			duration_days, hotel_makkah, hotel_madinah, airline, mutawwif, facilities, image_url, featured, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING ` + packageColumns
	stored, err := scanPackage(r.db.QueryRowContext(ctx, q,
		p.ID, p.Name, p.Slug, string(p.Category), p.Description, p.Price, p.Quota,
		nullTime(p.DepartureDate), nullTime(p.ReturnDate), p.DurationDays,
		p.HotelMakkah, p.HotelMadinah, p.Airline, p.Mutawwif, facilities,
		p.ImageURL, p.Featured, p.Active, p.CreatedAt,
	))
	return stored, mapWriteErr(err)
}

// Update overwrites every mutable column of the package.
func (r *PackagePostgres) Update(ctx context.Context, p *model.TravelPackage) (*model.TravelPackage, error) {
	facilities, err := jsonArg(p.Facilities)
	if err != nil {
		return nil, err
	}
	const q = `
		UPDATE packages SET name = $2, slug = $3, category = $4, description = $5, price = $6, quota = $7,
			departure_date = $8, return_date = $9, duration_days = $10, hotel_makkah = $11, hotel_madinah = $12,
			airline = $13, mutawwif = $14, facilities = $15, image_url = $16, featured = $17, active = $18
		WHERE id = $1
		RETURNING ` + packageColumns
	stored, err := scanPackage(r.db.QueryRowContext(ctx, q,
		p.ID, p.Name, p.Slug, string(p.Category), p.Description, p.Price, p.Quota,
		nullTime(p.DepartureDate), nullTime(p.ReturnDate), p.DurationDays,
		p.HotelMakkah, p.HotelMadinah, p.Airline, p.Mutawwif, facilities,
		p.ImageURL, p.Featured, p.Active,
	))
	return stored, mapWriteErr(err)
}

// FindByID fetches a single package by its ID.
func (r *PackagePostgres) FindByID(ctx context.Context, id string) (*model.TravelPackage, error) {
	q := `SELECT ` + packageColumns + ` FROM packages WHERE id = $1`
	v, err := scanPackage(r.db.QueryRowContext(ctx, q, id))
	return v, mapReadErr(err)
}

// FindBySlug fetches a single package by its slug.
func (r *PackagePostgres) FindBySlug(ctx context.Context, slug string) (*model.TravelPackage, error) {
	q := `SELECT ` + packageColumns + ` FROM packages WHERE slug = $1`
	return scanPackage(r.db.QueryRowContext(ctx, q, slug))
}

// List returns packages matching f, soonest departure first.
func (r *PackagePostgres) List(ctx context.Context, f repository.PackageFilter, pq repository.PageQuery) (*repository.PageResult[model.TravelPackage], error) {
	var conds []string
	var args []any
	if f.Category != "" {
		args = append(args, string(f.Category))
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.Featured {
		conds = append(conds, "featured = TRUE")
	}
	if f.ActiveOnly {
		conds = append(conds, "active = TRUE")
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM packages`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	q := `SELECT ` + packageColumns + ` FROM packages` + where +
		fmt.Sprintf(` ORDER BY departure_date ASC NULLS LAST, id ASC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	rows, err := r.db.QueryContext(ctx, q, append(args, pq.Limit, pq.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.TravelPackage, 0)
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.TravelPackage]{Items: items, Total: total}, nil
}

// Delete removes a package by ID. It does not return an error if the row does not exist.
func (r *PackagePostgres) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM packages WHERE id = $1`, id)
	return err
}
