package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"umrahportal/internal/gateway"
	"umrahportal/internal/model"
	"umrahportal/internal/repository"
	"umrahportal/internal/storage"
)

// gatewayReviewer is recorded as reviewed_by when the gateway settles a payment.
const gatewayReviewer = "gateway"

// PaymentGateway is the subset of the gateway client used by payments.
type PaymentGateway interface {
	CreateTransaction(ctx context.Context, req gateway.TransactionRequest) (*gateway.Transaction, error)
	Status(ctx context.Context, orderID string) (*gateway.TransactionStatus, error)
	VerifySignature(n gateway.Notification) bool
}

// SubmitPaymentInput is a manual transfer with its proof of payment.
type SubmitPaymentInput struct {
	PackageID   string
	Amount      int64
	Note        string
	Proof       io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// GatewayCheckout is a pending gateway payment and the hosted page to pay it on.
type GatewayCheckout struct {
	Payment     *model.Payment `json:"payment"`
	Token       string         `json:"token"`
	RedirectURL string         `json:"redirect_url"`
}

// NotificationResult reports what a gateway notification did to its payment.
type NotificationResult struct {
	OrderID string             `json:"order_id"`
	Status  model.ReviewStatus `json:"status"`
	Changed bool               `json:"changed"`
}

// ReconcileResult counts the outcome of one status polling pass.
type ReconcileResult struct {
	Checked int `json:"checked"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// PaymentService handles manual transfers, gateway payments and their review.
type PaymentService interface {
	// SubmitPayment uploads the proof to storage, saves the payment, and removes the object if saving fails.
	SubmitPayment(ctx context.Context, actor Actor, in SubmitPaymentInput) (*model.Payment, error)
	StartGatewayPayment(ctx context.Context, actor Actor, packageID string) (*GatewayCheckout, error)
	ListMyPayments(ctx context.Context, actor Actor) ([]model.Payment, error)
	ListPayments(ctx context.Context, status model.ReviewStatus, limit, offset int) (*ListResult[model.Payment], error)
	GetPayment(ctx context.Context, actor Actor, id string) (*model.Payment, error)
	ReviewPayment(ctx context.Context, id string, in ReviewInput) (*model.Payment, error)
	// HandleNotification applies a signed gateway notification. Repeats are no-ops and
	// a final status is never overwritten.
	HandleNotification(ctx context.Context, n gateway.Notification) (*NotificationResult, error)
	// ReconcilePending polls the gateway for up to limit pending gateway payments.
	ReconcilePending(ctx context.Context, limit int) (*ReconcileResult, error)
}

type paymentService struct {
	payments      repository.PaymentRepository
	packages      repository.PackageRepository
	users         repository.UserRepository
	store         storage.Storage
	gw            PaymentGateway
	presignExpiry time.Duration
}

// NewPaymentService constructs a PaymentService. gw may be nil when no gateway is configured.
func NewPaymentService(
	payments repository.PaymentRepository,
	packages repository.PackageRepository,
	users repository.UserRepository,
	store storage.Storage,
	gw PaymentGateway,
	presignExpiry time.Duration,
) PaymentService {
	if presignExpiry <= 0 {
		presignExpiry = 15 * time.Minute
	}
	return &paymentService{
		payments:      payments,
		packages:      packages,
		users:         users,
		store:         store,
		gw:            gw,
		presignExpiry: presignExpiry,
	}
}

// newOrderID builds an order ID shared with the gateway: UMR-<yyyymmdd>-<12 hex>.
func newOrderID(t time.Time) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("UMR-%s-%s", t.Format("20060102"), strings.ToUpper(id[:12]))
}

func (s *paymentService) activePackage(ctx context.Context, id string) (*model.TravelPackage, error) {
	if id == "" {
		return nil, validationf("package_id is required")
	}
	pkg, err := s.packages.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("package", err)
	}
	if !pkg.Active {
		return nil, validationf("package %s is not open for booking", pkg.Name)
	}
	return pkg, nil
}

func (s *paymentService) SubmitPayment(ctx context.Context, actor Actor, in SubmitPaymentInput) (*model.Payment, error) {
	if in.Proof == nil {
		return nil, validationf("proof file is required")
	}
	if in.Amount <= 0 {
		return nil, validationf("amount must be positive")
	}
	if err := storage.ValidateUpload(in.ContentType, in.Size); err != nil {
		return nil, validationf("%v", err)
	}
	if _, err := s.activePackage(ctx, in.PackageID); err != nil {
		return nil, err
	}

	key := storage.ProofKey(actor.UserID, in.Filename, in.ContentType)
	info, err := s.store.Put(ctx, key, in.Proof, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
		Metadata:    map[string]string{"original-filename": in.Filename, "user-id": actor.UserID},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	t := now()
	p := &model.Payment{
		ID:        uuid.NewString(),
		OrderID:   newOrderID(t),
		UserID:    actor.UserID,
		PackageID: in.PackageID,
		Amount:    in.Amount,
		Method:    model.MethodTransfer,
		ProofPath: info.Key,
		Status:    model.StatusPending,
		Note:      strings.TrimSpace(in.Note),
		CreatedAt: t,
		UpdatedAt: t,
	}
	stored, err := s.payments.Create(ctx, p)
	if err != nil {
		if delErr := s.store.Delete(ctx, info.Key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	log.Ctx(ctx).Info().
		Str("component", "payment").
		Str("payment_id", stored.ID).
		Str("order_id", stored.OrderID).
		Str("user_id", actor.UserID).
		Msg("transfer proof submitted")
	s.withProofURL(ctx, stored)
	return stored, nil
}

func (s *paymentService) StartGatewayPayment(ctx context.Context, actor Actor, packageID string) (*GatewayCheckout, error) {
	if s.gw == nil {
		return nil, fmt.Errorf("%w: payment gateway is not configured", ErrUnavailable)
	}
	pkg, err := s.activePackage(ctx, packageID)
	if err != nil {
		return nil, err
	}

	t := now()
	p := &model.Payment{
		ID:        uuid.NewString(),
		OrderID:   newOrderID(t),
		UserID:    actor.UserID,
		PackageID: pkg.ID,
		Amount:    pkg.Price,
		Method:    model.MethodGateway,
		Status:    model.StatusPending,
		CreatedAt: t,
		UpdatedAt: t,
	}
	stored, err := s.payments.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	req := gateway.TransactionRequest{
		OrderID:     stored.OrderID,
		GrossAmount: stored.Amount,
		Items:       []gateway.Item{{ID: pkg.ID, Name: truncate(pkg.Name, 50), Price: pkg.Price, Quantity: 1}},
	}
	if u, err := s.users.FindByID(ctx, actor.UserID); err == nil {
		req.Customer = gateway.Customer{FirstName: u.Profile.FullName, Email: u.Email, Phone: u.Profile.Phone}
	}
	tx, err := s.gw.CreateTransaction(ctx, req)
	if err != nil {
		// The pending row stays; the reconciler or a notification settles it.
		log.Ctx(ctx).Error().Err(err).
			Str("component", "payment").
			Str("order_id", stored.OrderID).
			Msg("gateway transaction failed")
		return nil, fmt.Errorf("%w: payment gateway did not accept the transaction", ErrUnavailable)
	}
	return &GatewayCheckout{Payment: stored, Token: tx.Token, RedirectURL: tx.RedirectURL}, nil
}

func (s *paymentService) ListMyPayments(ctx context.Context, actor Actor) ([]model.Payment, error) {
	items, err := s.payments.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		s.withProofURL(ctx, &items[i])
	}
	return items, nil
}

func (s *paymentService) ListPayments(ctx context.Context, status model.ReviewStatus, limit, offset int) (*ListResult[model.Payment], error) {
	if status != "" && !status.Valid() {
		return nil, validationf("unknown status %q", status)
	}
	res, err := s.payments.List(ctx, status, page(limit, offset))
	if err != nil {
		return nil, err
	}
	for i := range res.Items {
		s.withProofURL(ctx, &res.Items[i])
	}
	return fromPage(res), nil
}

func (s *paymentService) GetPayment(ctx context.Context, actor Actor, id string) (*model.Payment, error) {
	p, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("payment", err)
	}
	if p.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, fmt.Errorf("payment %w", ErrNotFound)
	}
	s.withProofURL(ctx, p)
	return p, nil
}

func (s *paymentService) ReviewPayment(ctx context.Context, id string, in ReviewInput) (*model.Payment, error) {
	p, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("payment", err)
	}
	to := in.target()
	if err := p.Status.Transition(to); err != nil {
		return nil, fmt.Errorf("payment is %s: %w", p.Status, err)
	}
	t := now()
	u := repository.ReviewUpdate{From: p.Status, To: to, ReviewedBy: in.Reviewer, Note: strings.TrimSpace(in.Note), At: t}
	if err := s.payments.UpdateStatus(ctx, id, u); err != nil {
		return nil, transitionLost("payment", err)
	}
	p.Status, p.ReviewedBy, p.Note, p.ReviewedAt, p.UpdatedAt = to, u.ReviewedBy, u.Note, &t, t
	log.Ctx(ctx).Info().
		Str("component", "payment").
		Str("payment_id", id).
		Str("status", string(to)).
		Str("reviewer", in.Reviewer).
		Msg("payment reviewed")
	s.withProofURL(ctx, p)
	return p, nil
}

func (s *paymentService) HandleNotification(ctx context.Context, n gateway.Notification) (*NotificationResult, error) {
	if s.gw == nil {
		return nil, fmt.Errorf("%w: payment gateway is not configured", ErrUnavailable)
	}
	l := log.Ctx(ctx).With().Str("component", "payment").Str("order_id", n.OrderID).Logger()
	if !s.gw.VerifySignature(n) {
		l.Warn().Msg("notification signature mismatch")
		return nil, ErrInvalidSignature
	}

	p, err := s.payments.FindByOrderID(ctx, n.OrderID)
	if err != nil {
		return nil, notFound("payment", err)
	}
	if !amountMatches(n.GrossAmount, p.Amount) {
		l.Warn().Str("gross_amount", n.GrossAmount).Int64("amount", p.Amount).Msg("notification amount mismatch")
		return nil, validationf("gross_amount does not match order %s", n.OrderID)
	}

	changed, err := s.applyGatewayStatus(ctx, p, n.TransactionStatus, n.FraudStatus)
	if err != nil {
		return nil, err
	}
	l.Info().
		Str("transaction_status", n.TransactionStatus).
		Str("status", string(p.Status)).
		Bool("changed", changed).
		Msg("notification applied")
	return &NotificationResult{OrderID: p.OrderID, Status: p.Status, Changed: changed}, nil
}

// applyGatewayStatus records the raw gateway status and moves a pending payment
// to the mapped final status. p is updated in place.
func (s *paymentService) applyGatewayStatus(ctx context.Context, p *model.Payment, txStatus, fraudStatus string) (bool, error) {
	if txStatus != "" && txStatus != p.GatewayStatus {
		if err := s.payments.UpdateGatewayStatus(ctx, p.ID, txStatus); err != nil {
			return false, notFound("payment", err)
		}
		p.GatewayStatus = txStatus
	}

	target := gateway.MapStatus(txStatus, fraudStatus)
	if target == model.StatusPending || target == p.Status {
		return false, nil
	}
	if p.Status.Final() {
		log.Ctx(ctx).Warn().
			Str("component", "payment").
			Str("order_id", p.OrderID).
			Str("status", string(p.Status)).
			Str("gateway_target", string(target)).
			Msg("ignoring gateway status for a settled payment")
		return false, nil
	}

	t := now()
	err := s.payments.UpdateStatus(ctx, p.ID, repository.ReviewUpdate{
		From:       model.StatusPending,
		To:         target,
		ReviewedBy: gatewayReviewer,
		Note:       "transaction_status=" + txStatus,
		At:         t,
	})
	if errors.Is(err, sql.ErrNoRows) {
		// Settled concurrently by an admin or another notification.
		fresh, ferr := s.payments.FindByID(ctx, p.ID)
		if ferr != nil {
			return false, ferr
		}
		*p = *fresh
		return false, nil
	}
	if err != nil {
		return false, err
	}
	p.Status, p.ReviewedBy, p.ReviewedAt, p.UpdatedAt = target, gatewayReviewer, &t, t
	return true, nil
}

func (s *paymentService) ReconcilePending(ctx context.Context, limit int) (*ReconcileResult, error) {
	if s.gw == nil {
		return nil, fmt.Errorf("%w: payment gateway is not configured", ErrUnavailable)
	}
	if limit <= 0 {
		limit = maxLimit
	}
	pending, err := s.payments.ListPendingByMethod(ctx, model.MethodGateway, limit)
	if err != nil {
		return nil, err
	}

	res := &ReconcileResult{}
	for i := range pending {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		p := &pending[i]
		res.Checked++
		st, err := s.gw.Status(ctx, p.OrderID)
		if errors.Is(err, gateway.ErrNotFound) {
			// The buyer never opened the payment page.
			continue
		}
		if err != nil {
			res.Failed++
			log.Ctx(ctx).Warn().Err(err).Str("component", "reconcile").Str("order_id", p.OrderID).Msg("status poll failed")
			continue
		}
		changed, err := s.applyGatewayStatus(ctx, p, st.TransactionStatus, st.FraudStatus)
		if err != nil {
			res.Failed++
			log.Ctx(ctx).Warn().Err(err).Str("component", "reconcile").Str("order_id", p.OrderID).Msg("apply status failed")
			continue
		}
		if changed {
			res.Updated++
		}
	}
	return res, nil
}

// withProofURL fills ProofURL with a presigned link. Failures leave it empty.
func (s *paymentService) withProofURL(ctx context.Context, p *model.Payment) {
	if p.ProofPath == "" || s.store == nil {
		return
	}
	u, err := s.store.PresignGet(ctx, p.ProofPath, s.presignExpiry)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("component", "payment").Str("payment_id", p.ID).Msg("presign proof failed")
		return
	}
	p.ProofURL = u
}

// amountMatches compares the gateway's decimal gross_amount with an IDR amount.
func amountMatches(gross string, amount int64) bool {
	if gross == "" {
		return true
	}
	f, err := strconv.ParseFloat(gross, 64)
	if err != nil {
		return false
	}
	return math.Abs(f-float64(amount)) < 0.005
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
