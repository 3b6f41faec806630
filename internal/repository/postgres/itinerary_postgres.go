package postgres

import (
	"context"
	"database/sql"

	"umrahportal/internal/model"
	"umrahportal/internal/repository"
)

const itineraryColumns = `id, package_id, title, start_date, end_date, status, days, created_at`

// ItineraryPostgres is a PostgreSQL implementation of repository.ItineraryRepository.
type ItineraryPostgres struct {
	db *sql.DB
}

// NewItineraryPostgres creates a new ItineraryPostgres repository.
func NewItineraryPostgres(db *sql.DB) *ItineraryPostgres {
	return &ItineraryPostgres{db: db}
}

var _ repository.ItineraryRepository = (*ItineraryPostgres)(nil)

func scanItinerary(s rowScanner) (*model.Itinerary, error) {
	var it model.Itinerary
	var status string
	var days []byte
	var start, end sql.NullTime
	if err := s.Scan(&it.ID, &it.PackageID, &it.Title, &start, &end, &status, &days, &it.CreatedAt); err != nil {
		return nil, err
	}
	it.StartDate = timeOrZero(start)
	it.EndDate = timeOrZero(end)
	it.Status = model.ItineraryStatus(status)
	d, err := decodeJSON[model.ItineraryDay](days)
	if err != nil {
		return nil, err
	}
	it.Days = d
	return &it, nil
}

func collectItineraries(rows *sql.Rows) ([]model.Itinerary, error) {
	defer rows.Close()
	items := make([]model.Itinerary, 0)
	for rows.Next() {
		it, err := scanItinerary(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ItineraryPostgres) Create(ctx context.Context, it *model.Itinerary) (*model.Itinerary, error) {
	days, err := jsonArg(it.Days)
	if err != nil {
		return nil, err
	}
	const q = `
		INSERT INTO itineraries (id, package_id, title, start_date, end_date, status, days, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + itineraryColumns
	return scanItinerary(r.db.QueryRowContext(ctx, q,
		it.ID, it.PackageID, it.Title, nullTime(it.StartDate), nullTime(it.EndDate), string(it.Status), days, it.CreatedAt))
}

func (r *ItineraryPostgres) FindByID(ctx context.Context, id string) (*model.Itinerary, error) {
	q := `SELECT ` + itineraryColumns + ` FROM itineraries WHERE id = $1`
	v, err := scanItinerary(r.db.QueryRowContext(ctx, q, id))
	return v, mapReadErr(err)
}

// ListByPackage returns the itineraries of one package, earliest start first.
func (r *ItineraryPostgres) ListByPackage(ctx context.Context, packageID string) ([]model.Itinerary, error) {
	q := `SELECT ` + itineraryColumns + ` FROM itineraries WHERE package_id = $1 ORDER BY start_date ASC NULLS LAST, id ASC`
	rows, err := r.db.QueryContext(ctx, q, packageID)
	if err != nil {
		return nil, err
	}
	return collectItineraries(rows)
}

// ListByPackages returns the itineraries of any of the given packages.
func (r *ItineraryPostgres) ListByPackages(ctx context.Context, packageIDs []string) ([]model.Itinerary, error) {
	if len(packageIDs) == 0 {
		return []model.Itinerary{}, nil
	}
	args := make([]any, len(packageIDs))
	for i, id := range packageIDs {
		args[i] = id
	}
	q := `SELECT ` + itineraryColumns + ` FROM itineraries WHERE package_id IN (` + placeholders(1, len(args)) + `)
		ORDER BY start_date ASC NULLS LAST, id ASC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return collectItineraries(rows)
}

func (r *ItineraryPostgres) UpdateStatus(ctx context.Context, id string, status model.ItineraryStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE itineraries SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return err
	}
	return affectedOrNoRows(res)
}
