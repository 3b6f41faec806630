package postgres

import (
	"context"
	"database/sql"

	"umrahportal/internal/model"
	"umrahportal/internal/repository"
)

const paymentColumns = `id, order_id, user_id, package_id, amount, method, proof_path, status,
	gateway_status, note, reviewed_by, reviewed_at, created_at, updated_at`

// PaymentPostgres is a PostgreSQL implementation of repository.PaymentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type PaymentPostgres struct {
	db *sql.DB
}

// NewPaymentPostgres creates a new PaymentPostgres repository.
func NewPaymentPostgres(db *sql.DB) *PaymentPostgres {
	return &PaymentPostgres{db: db}
}

var _ repository.PaymentRepository = (*PaymentPostgres)(nil)

func scanPayment(s rowScanner) (*model.Payment, error) {
	var p model.Payment
	var method, status string
	var reviewedAt sql.NullTime
	if err := s.Scan(
		&p.ID, &p.OrderID, &p.UserID, &p.PackageID, &p.Amount, &method, &p.ProofPath, &status,
		&p.GatewayStatus, &p.Note, &p.ReviewedBy, &reviewedAt, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.Method = model.PaymentMethod(method)
	p.Status = model.ReviewStatus(status)
	p.ReviewedAt = timePtr(reviewedAt)
	return &p, nil
}

func collectPayments(rows *sql.Rows) ([]model.Payment, error) {
	defer rows.Close()
	items := make([]model.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Create inserts a new payment row and returns the stored record.
func (r *PaymentPostgres) Create(ctx context.Context, p *model.Payment) (*model.Payment, error) {
	const q = `
		INSERT INTO payments (id, order_id, user_id, package_id, amount, method, proof_path, status,
			gateway_status, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + paymentColumns
	stored, err := scanPayment(r.db.QueryRowContext(ctx, q,
		p.ID, p.OrderID, p.UserID, p.PackageID, p.Amount, string(p.Method), p.ProofPath, string(p.Status),
		p.GatewayStatus, p.Note, p.CreatedAt, p.UpdatedAt,
	))
	return stored, mapWriteErr(err)
}

// FindByID fetches a single payment by its ID.
func (r *PaymentPostgres) FindByID(ctx context.Context, id string) (*model.Payment, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	v, err := scanPayment(r.db.QueryRowContext(ctx, q, id))
	return v, mapReadErr(err)
}

// FindByOrderID fetches a payment by the order ID shared with the gateway.
func (r *PaymentPostgres) FindByOrderID(ctx context.Context, orderID string) (*model.Payment, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments WHERE order_id = $1`
	return scanPayment(r.db.QueryRowContext(ctx, q, orderID))
}

// ListByUser returns every payment of a user, newest first.
func (r *PaymentPostgres) ListByUser(ctx context.Context, userID string) ([]model.Payment, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	return collectPayments(rows)
}

// List returns payments using LIMIT/OFFSET pagination and a total count.
func (r *PaymentPostgres) List(ctx context.Context, status model.ReviewStatus, pq repository.PageQuery) (*repository.PageResult[model.Payment], error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM payments WHERE ($1::text = '' OR status = $1)`, string(status)).Scan(&total); err != nil {
		return nil, err
	}
	q := `SELECT ` + paymentColumns + ` FROM payments WHERE ($1::text = '' OR status = $1)
		ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, q, string(status), pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	items, err := collectPayments(rows)
	if err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Payment]{Items: items, Total: total}, nil
}

// ListPendingByMethod returns the oldest pending payments of one method.
func (r *PaymentPostgres) ListPendingByMethod(ctx context.Context, method model.PaymentMethod, limit int) ([]model.Payment, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments WHERE status = 'pending' AND method = $1
		ORDER BY created_at ASC, id ASC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, q, string(method), limit)
	if err != nil {
		return nil, err
	}
	return collectPayments(rows)
}

// UpdateStatus applies a review only while the row is still in u.From.
func (r *PaymentPostgres) UpdateStatus(ctx context.Context, id string, u repository.ReviewUpdate) error {
	const q = `
		UPDATE payments SET status = $3, reviewed_by = $4, note = $5, reviewed_at = $6, updated_at = $6
		WHERE id = $1 AND status = $2`
	res, err := r.db.ExecContext(ctx, q, id, string(u.From), string(u.To), u.ReviewedBy, u.Note, u.At)
	if err != nil {
		return err
	}
	return affectedOrNoRows(res)
}

// UpdateGatewayStatus records the raw transaction status reported by the gateway.
func (r *PaymentPostgres) UpdateGatewayStatus(ctx context.Context, id string, gatewayStatus string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE payments SET gateway_status = $2, updated_at = now() WHERE id = $1`, id, gatewayStatus)
	if err != nil {
		return err
	}
	return affectedOrNoRows(res)
}
