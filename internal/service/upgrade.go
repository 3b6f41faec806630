package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"umrahportal/internal/model"
	"umrahportal/internal/repository"
)

// Reasons reported by AutoUpgradeAlumni.
const (
	ReasonUpgraded             = "itinerary_completed"
	ReasonNotPilgrim           = "not_a_pilgrim"
	ReasonNoApprovedPayment    = "no_approved_payment"
	ReasonNoCompletedItinerary = "no_completed_itinerary"
	ReasonAlreadyUpgraded      = "already_upgraded"
)

// UpgradeResult is the outcome of an automatic jamaah to alumni check.
type UpgradeResult struct {
	Upgraded bool       `json:"upgraded"`
	Reason   string     `json:"reason"`
	Role     model.Role `json:"role"`
}

// UpgradeService moves users between roles, automatically or by admin review.
type UpgradeService interface {
	// AutoUpgradeAlumni follows approved payments to their packages' itineraries and
	// turns a jamaah into alumni once any of them is completed.
	AutoUpgradeAlumni(ctx context.Context, userID string) (*UpgradeResult, error)
	// CheckUpgrade runs AutoUpgradeAlumni for the caller, provisioning the account first.
	CheckUpgrade(ctx context.Context, actor Actor) (*UpgradeResult, error)
	RequestUpgrade(ctx context.Context, actor Actor, packageID, note string) (*model.UpgradeRequest, error)
	ReviewUpgrade(ctx context.Context, id string, in ReviewInput) (*model.UpgradeRequest, error)
	ListUpgradeRequests(ctx context.Context, status model.ReviewStatus, limit, offset int) (*ListResult[model.UpgradeRequest], error)
	PendingRequest(ctx context.Context, userID string) (*model.UpgradeRequest, error)
}

type upgradeService struct {
	users       repository.UserRepository
	payments    repository.PaymentRepository
	itineraries repository.ItineraryRepository
	packages    repository.PackageRepository
	requests    repository.UpgradeRequestRepository
	outcomes    *prometheus.CounterVec
}

// NewUpgradeService constructs an UpgradeService. reg may be nil to skip metric registration.
func NewUpgradeService(
	users repository.UserRepository,
	payments repository.PaymentRepository,
	itineraries repository.ItineraryRepository,
	packages repository.PackageRepository,
	requests repository.UpgradeRequestRepository,
	reg prometheus.Registerer,
) (UpgradeService, error) {
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "alumni_upgrade_checks_total",
		Help: "Automatic jamaah to alumni checks by reason.",
	}, []string{"reason"})
	if reg != nil {
		if err := reg.Register(outcomes); err != nil {
			return nil, err
		}
	}
	return &upgradeService{
		users:       users,
		payments:    payments,
		itineraries: itineraries,
		packages:    packages,
		requests:    requests,
		outcomes:    outcomes,
	}, nil
}

func (s *upgradeService) result(upgraded bool, reason string, role model.Role) *UpgradeResult {
	s.outcomes.WithLabelValues(reason).Inc()
	return &UpgradeResult{Upgraded: upgraded, Reason: reason, Role: role}
}

func (s *upgradeService) AutoUpgradeAlumni(ctx context.Context, userID string) (*UpgradeResult, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound("user", err)
	}
	return s.upgrade(ctx, u)
}

func (s *upgradeService) CheckUpgrade(ctx context.Context, actor Actor) (*UpgradeResult, error) {
	u, err := provisionUser(ctx, s.users, actor)
	if err != nil {
		return nil, err
	}
	return s.upgrade(ctx, u)
}

func (s *upgradeService) upgrade(ctx context.Context, u *model.User) (*UpgradeResult, error) {
	userID := u.ID
	l := log.Ctx(ctx).With().Str("component", "upgrade").Str("user_id", userID).Logger()

	if u.Role != model.RolePilgrim {
		l.Debug().Str("role", string(u.Role)).Msg("skip: not a jamaah")
		return s.result(false, ReasonNotPilgrim, u.Role), nil
	}

	payments, err := s.payments.ListByUser(ctx, userID)
	if err != nil {
		l.Error().Err(err).Str("step", "payments").Msg("auto upgrade failed")
		return nil, fmt.Errorf("list payments: %w", err)
	}
	packageIDs := approvedPackageIDs(payments)
	l.Debug().Str("step", "payments").Int("payments", len(payments)).Strs("package_ids", packageIDs).Msg("approved packages")
	if len(packageIDs) == 0 {
		return s.result(false, ReasonNoApprovedPayment, u.Role), nil
	}

	its, err := s.itineraries.ListByPackages(ctx, packageIDs)
	if err != nil {
		l.Error().Err(err).Str("step", "itineraries").Msg("auto upgrade failed")
		return nil, fmt.Errorf("list itineraries: %w", err)
	}
	completed := ""
	for _, it := range its {
		if it.Status == model.ItineraryCompleted {
			completed = it.ID
			break
		}
	}
	l.Debug().Str("step", "itineraries").Int("itineraries", len(its)).Str("completed_itinerary", completed).Msg("itinerary check")
	if completed == "" {
		return s.result(false, ReasonNoCompletedItinerary, u.Role), nil
	}

	if err := s.users.UpdateRole(ctx, userID, model.RolePilgrim, model.RoleAlumni); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			fresh, ferr := s.users.FindByID(ctx, userID)
			if ferr == nil && fresh.Role == model.RoleAlumni {
				return s.result(false, ReasonAlreadyUpgraded, model.RoleAlumni), nil
			}
		}
		l.Error().Err(err).Str("step", "role").Msg("auto upgrade failed")
		return nil, fmt.Errorf("update role: %w", err)
	}
	l.Info().Str("step", "role").Str("itinerary_id", completed).Msg("jamaah upgraded to alumni")
	return s.result(true, ReasonUpgraded, model.RoleAlumni), nil
}

func (s *upgradeService) RequestUpgrade(ctx context.Context, actor Actor, packageID, note string) (*model.UpgradeRequest, error) {
	u, err := provisionUser(ctx, s.users, actor)
	if err != nil {
		return nil, err
	}
	if u.Role != model.RoleProspective {
		return nil, fmt.Errorf("%w: only calon jamaah can request an upgrade", ErrForbidden)
	}
	if packageID != "" {
		if _, err := s.packages.FindByID(ctx, packageID); err != nil {
			return nil, notFound("package", err)
		}
	}
	if _, err := s.requests.FindPendingByUser(ctx, actor.UserID); err == nil {
		return nil, fmt.Errorf("%w: an upgrade request is already pending", ErrConflict)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	req := &model.UpgradeRequest{
		ID:        uuid.NewString(),
		UserID:    actor.UserID,
		PackageID: packageID,
		FromRole:  model.RoleProspective,
		ToRole:    model.RolePilgrim,
		Status:    model.StatusPending,
		Note:      strings.TrimSpace(note),
		CreatedAt: now(),
	}
	stored, err := s.requests.Create(ctx, req)
	if err != nil {
		return nil, conflictOnDuplicate("an upgrade request is already pending", err)
	}
	log.Ctx(ctx).Info().Str("component", "upgrade").Str("user_id", actor.UserID).Str("request_id", stored.ID).Msg("upgrade requested")
	return stored, nil
}

// ReviewUpgrade flips the role before closing the request, so an approved
// request always has its role applied. If closing loses a race the role is restored.
func (s *upgradeService) ReviewUpgrade(ctx context.Context, id string, in ReviewInput) (*model.UpgradeRequest, error) {
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("upgrade request", err)
	}
	to := in.target()
	if err := req.Status.Transition(to); err != nil {
		return nil, fmt.Errorf("upgrade request is %s: %w", req.Status, err)
	}

	if to == model.StatusApproved {
		if err := s.users.UpdateRole(ctx, req.UserID, req.FromRole, req.ToRole); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("%w: user no longer holds role %s", ErrConflict, req.FromRole)
			}
			return nil, err
		}
	}

	t := now()
	u := repository.ReviewUpdate{From: model.StatusPending, To: to, ReviewedBy: in.Reviewer, Note: strings.TrimSpace(in.Note), At: t}
	if err := s.requests.UpdateStatus(ctx, id, u); err != nil {
		if to == model.StatusApproved {
			if rerr := s.users.UpdateRole(ctx, req.UserID, req.ToRole, req.FromRole); rerr != nil {
				log.Ctx(ctx).Error().Err(rerr).Str("component", "upgrade").Str("request_id", id).Msg("role rollback failed")
			}
		}
		return nil, transitionLost("upgrade request", err)
	}
	req.Status, req.ReviewedBy, req.Note, req.ReviewedAt = to, u.ReviewedBy, u.Note, &t
	log.Ctx(ctx).Info().
		Str("component", "upgrade").
		Str("request_id", id).
		Str("user_id", req.UserID).
		Str("status", string(to)).
		Msg("upgrade request reviewed")
	return req, nil
}

func (s *upgradeService) ListUpgradeRequests(ctx context.Context, status model.ReviewStatus, limit, offset int) (*ListResult[model.UpgradeRequest], error) {
	if status != "" && !status.Valid() {
		return nil, validationf("unknown status %q", status)
	}
	res, err := s.requests.List(ctx, status, page(limit, offset))
	if err != nil {
		return nil, err
	}
	return fromPage(res), nil
}

// PendingRequest returns the caller's open request, or nil when there is none.
func (s *upgradeService) PendingRequest(ctx context.Context, userID string) (*model.UpgradeRequest, error) {
	req, err := s.requests.FindPendingByUser(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return req, err
}
