package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"umrahportal/internal/model"
)

// highlightLimit is how many items each dashboard section shows.
const highlightLimit = 4

// PendingCounts is the admin work queue.
type PendingCounts struct {
	Payments        int `json:"payments"`
	UpgradeRequests int `json:"upgrade_requests"`
	Testimonials    int `json:"testimonials"`
}

// Dashboard is the role-specific landing view. Sections that do not apply
// to the role are omitted; sections that failed to load are named in Warnings.
type Dashboard struct {
	Role             model.Role            `json:"role"`
	User             *model.User           `json:"user"`
	Completeness     *Completeness         `json:"completeness,omitempty"`
	Upgrade          *UpgradeResult        `json:"upgrade,omitempty"`
	FeaturedPackages []model.TravelPackage `json:"featured_packages,omitempty"`
	Promos           []model.Promo         `json:"promos,omitempty"`
	Education        []model.Education     `json:"education,omitempty"`
	Articles         []model.Article       `json:"articles,omitempty"`
	Testimonials     []model.Testimonial   `json:"testimonials,omitempty"`
	PendingUpgrade   *model.UpgradeRequest `json:"pending_upgrade,omitempty"`
	Payments         []model.Payment       `json:"payments,omitempty"`
	Itineraries      []model.Itinerary     `json:"itineraries,omitempty"`
	PastItineraries  []model.Itinerary     `json:"past_itineraries,omitempty"`
	Pending          *PendingCounts        `json:"pending,omitempty"`
	Warnings         []string              `json:"warnings,omitempty"`
}

// DashboardService assembles dashboards from the other services.
type DashboardService interface {
	Dashboard(ctx context.Context, actor Actor) (*Dashboard, error)
}

type dashboardService struct {
	profiles    ProfileService
	catalog     CatalogService
	payments    PaymentService
	itineraries ItineraryService
	upgrades    UpgradeService
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(profiles ProfileService, catalog CatalogService, payments PaymentService, itineraries ItineraryService, upgrades UpgradeService) DashboardService {
	return &dashboardService{
		profiles:    profiles,
		catalog:     catalog,
		payments:    payments,
		itineraries: itineraries,
		upgrades:    upgrades,
	}
}

func (s *dashboardService) Dashboard(ctx context.Context, actor Actor) (*Dashboard, error) {
	if actor.IsAdmin() {
		d := &Dashboard{Role: model.RoleAdmin, User: &model.User{ID: actor.UserID, Email: actor.Email, Role: model.RoleAdmin}}
		s.adminView(ctx, d)
		return d, nil
	}

	u, err := s.profiles.Me(ctx, actor)
	if err != nil {
		return nil, err
	}
	d := &Dashboard{Role: u.Role, User: u}
	c := ComputeCompleteness(u.Profile)
	d.Completeness = &c

	switch u.Role {
	case model.RolePilgrim:
		res, err := s.upgrades.AutoUpgradeAlumni(ctx, u.ID)
		if err != nil {
			d.warn(ctx, "upgrade", err)
		} else {
			d.Upgrade = res
			if res.Upgraded {
				u.Role = model.RoleAlumni
				d.Role = model.RoleAlumni
				s.alumniView(ctx, d, actor)
				return d, nil
			}
		}
		s.pilgrimView(ctx, d, actor)
	case model.RoleAlumni:
		s.alumniView(ctx, d, actor)
	default:
		s.prospectiveView(ctx, d)
	}
	return d, nil
}

func (d *Dashboard) warn(ctx context.Context, section string, err error) {
	log.Ctx(ctx).Warn().Err(err).Str("component", "dashboard").Str("section", section).Str("user_id", d.User.ID).Msg("dashboard section failed")
	d.Warnings = append(d.Warnings, fmt.Sprintf("%s unavailable", section))
}

func (s *dashboardService) prospectiveView(ctx context.Context, d *Dashboard) {
	if res, err := s.catalog.ListPackages(ctx, PackageQuery{Featured: true, Limit: highlightLimit}); err != nil {
		d.warn(ctx, "featured_packages", err)
	} else {
		d.FeaturedPackages = res.Items
	}
	if res, err := s.catalog.ListPromos(ctx, true, highlightLimit, 0); err != nil {
		d.warn(ctx, "promos", err)
	} else {
		d.Promos = res.Items
	}
	if res, err := s.catalog.ListEducation(ctx, "", highlightLimit, 0); err != nil {
		d.warn(ctx, "education", err)
	} else {
		d.Education = res.Items
	}
	s.articles(ctx, d)
	s.testimonials(ctx, d)
	if req, err := s.upgrades.PendingRequest(ctx, d.User.ID); err != nil {
		d.warn(ctx, "pending_upgrade", err)
	} else {
		d.PendingUpgrade = req
	}
}

func (s *dashboardService) pilgrimView(ctx context.Context, d *Dashboard, actor Actor) {
	if items, err := s.payments.ListMyPayments(ctx, actor); err != nil {
		d.warn(ctx, "payments", err)
	} else {
		d.Payments = items
	}
	if items, err := s.itineraries.MyItineraries(ctx, actor); err != nil {
		d.warn(ctx, "itineraries", err)
	} else {
		d.Itineraries = items
	}
}

func (s *dashboardService) alumniView(ctx context.Context, d *Dashboard, actor Actor) {
	s.testimonials(ctx, d)
	s.articles(ctx, d)
	items, err := s.itineraries.MyItineraries(ctx, actor)
	if err != nil {
		d.warn(ctx, "past_itineraries", err)
		return
	}
	d.PastItineraries = make([]model.Itinerary, 0, len(items))
	for _, it := range items {
		if it.Status == model.ItineraryCompleted {
			d.PastItineraries = append(d.PastItineraries, it)
		}
	}
}

func (s *dashboardService) adminView(ctx context.Context, d *Dashboard) {
	counts := &PendingCounts{}
	if res, err := s.payments.ListPayments(ctx, model.StatusPending, 1, 0); err != nil {
		d.warn(ctx, "pending_payments", err)
	} else {
		counts.Payments = res.Total
	}
	if res, err := s.upgrades.ListUpgradeRequests(ctx, model.StatusPending, 1, 0); err != nil {
		d.warn(ctx, "pending_upgrade_requests", err)
	} else {
		counts.UpgradeRequests = res.Total
	}
	if res, err := s.catalog.ListTestimonials(ctx, model.StatusPending, 1, 0); err != nil {
		d.warn(ctx, "pending_testimonials", err)
	} else {
		counts.Testimonials = res.Total
	}
	d.Pending = counts
}

func (s *dashboardService) articles(ctx context.Context, d *Dashboard) {
	if res, err := s.catalog.ListArticles(ctx, highlightLimit, 0); err != nil {
		d.warn(ctx, "articles", err)
	} else {
		d.Articles = res.Items
	}
}

func (s *dashboardService) testimonials(ctx context.Context, d *Dashboard) {
	if res, err := s.catalog.ListTestimonials(ctx, model.StatusApproved, highlightLimit, 0); err != nil {
		d.warn(ctx, "testimonials", err)
	} else {
		d.Testimonials = res.Items
	}
}
