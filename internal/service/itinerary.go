package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"umrahportal/internal/model"
	"umrahportal/internal/repository"
)

// ItineraryService manages day-by-day schedules of package departures.
type ItineraryService interface {
	ListForPackage(ctx context.Context, idOrSlug string) ([]model.Itinerary, error)
	Get(ctx context.Context, id string) (*model.Itinerary, error)
	Create(ctx context.Context, it model.Itinerary) (*model.Itinerary, error)
	UpdateStatus(ctx context.Context, id string, status model.ItineraryStatus) (*model.Itinerary, error)
	// MyItineraries returns itineraries of packages the caller has an approved payment for.
	MyItineraries(ctx context.Context, actor Actor) ([]model.Itinerary, error)
}

type itineraryService struct {
	itineraries repository.ItineraryRepository
	packages    repository.PackageRepository
	payments    repository.PaymentRepository
}

// NewItineraryService constructs an ItineraryService.
func NewItineraryService(itineraries repository.ItineraryRepository, packages repository.PackageRepository, payments repository.PaymentRepository) ItineraryService {
	return &itineraryService{itineraries: itineraries, packages: packages, payments: payments}
}

func (s *itineraryService) ListForPackage(ctx context.Context, idOrSlug string) ([]model.Itinerary, error) {
	p, err := findPackage(ctx, s.packages, idOrSlug)
	if err != nil {
		return nil, err
	}
	return s.itineraries.ListByPackage(ctx, p.ID)
}

func (s *itineraryService) Get(ctx context.Context, id string) (*model.Itinerary, error) {
	it, err := s.itineraries.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("itinerary", err)
	}
	return it, nil
}

func (s *itineraryService) Create(ctx context.Context, it model.Itinerary) (*model.Itinerary, error) {
	it.Title = strings.TrimSpace(it.Title)
	if it.Title == "" {
		return nil, validationf("title is required")
	}
	if it.Status == "" {
		it.Status = model.ItineraryScheduled
	}
	if !it.Status.Valid() {
		return nil, validationf("unknown itinerary status %q", it.Status)
	}
	if !it.StartDate.IsZero() && !it.EndDate.IsZero() && it.EndDate.Before(it.StartDate) {
		return nil, validationf("end date is before start date")
	}
	if _, err := s.packages.FindByID(ctx, it.PackageID); err != nil {
		return nil, notFound("package", err)
	}
	seen := make(map[int]bool, len(it.Days))
	for i := range it.Days {
		d := &it.Days[i]
		if d.Day <= 0 {
			d.Day = i + 1
		}
		if seen[d.Day] {
			return nil, validationf("day %d appears twice", d.Day)
		}
		seen[d.Day] = true
		if d.Activities == nil {
			d.Activities = []string{}
		}
	}
	sort.SliceStable(it.Days, func(i, j int) bool { return it.Days[i].Day < it.Days[j].Day })

	it.ID = uuid.NewString()
	it.CreatedAt = now()
	return s.itineraries.Create(ctx, &it)
}

func (s *itineraryService) UpdateStatus(ctx context.Context, id string, status model.ItineraryStatus) (*model.Itinerary, error) {
	if !status.Valid() {
		return nil, validationf("unknown itinerary status %q", status)
	}
	if err := s.itineraries.UpdateStatus(ctx, id, status); err != nil {
		return nil, notFound("itinerary", err)
	}
	return s.Get(ctx, id)
}

func (s *itineraryService) MyItineraries(ctx context.Context, actor Actor) ([]model.Itinerary, error) {
	payments, err := s.payments.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	ids := approvedPackageIDs(payments)
	if len(ids) == 0 {
		return []model.Itinerary{}, nil
	}
	return s.itineraries.ListByPackages(ctx, ids)
}

// approvedPackageIDs returns the distinct package IDs of approved payments, in payment order.
func approvedPackageIDs(payments []model.Payment) []string {
	seen := make(map[string]bool)
	ids := make([]string, 0)
	for _, p := range payments {
		if p.Status != model.StatusApproved || seen[p.PackageID] {
			continue
		}
		seen[p.PackageID] = true
		ids = append(ids, p.PackageID)
	}
	return ids
}
