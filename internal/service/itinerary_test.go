package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"umrahportal/internal/model"
	repoMocks "umrahportal/internal/repository/mocks"
)

func newItineraries() (ItineraryService, *repoMocks.MockItineraryRepository, *repoMocks.MockPackageRepository, *repoMocks.MockPaymentRepository) {
	its := new(repoMocks.MockItineraryRepository)
	pkgs := new(repoMocks.MockPackageRepository)
	pays := new(repoMocks.MockPaymentRepository)
	return NewItineraryService(its, pkgs, pays), its, pkgs, pays
}

func TestItineraryService_Create(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)

	t.Run("numbers and sorts days", func(t *testing.T) {
		fixClock(t)
		svc, its, pkgs, _ := newItineraries()
		pkgs.On("FindByID", ctx, "pkg-1").Return(activePkg, nil)
		its.On("Create", ctx, mock.MatchedBy(func(it *model.Itinerary) bool {
			return it.Status == model.ItineraryScheduled && len(it.Days) == 3 &&
				it.Days[0].Day == 1 && it.Days[1].Day == 2 && it.Days[2].Day == 3 &&
				it.Days[0].City == "Jakarta" && it.Days[2].City == "Madinah" && it.Days[2].Activities != nil
		})).Return(func(ctx context.Context, it *model.Itinerary) *model.Itinerary { return it }, nil)

		it, err := svc.Create(ctx, model.Itinerary{
			PackageID: "pkg-1",
			Title:     "Umrah November",
			StartDate: start,
			EndDate:   start.AddDate(0, 0, 8),
			Days: []model.ItineraryDay{
				{City: "Jakarta"},
				{Day: 3, City: "Madinah"},
				{Day: 2, City: "Jeddah"},
			},
		})
		require.NoError(t, err)
		assert.NotEmpty(t, it.ID)
		assert.Equal(t, testNow, it.CreatedAt)
		its.AssertExpectations(t)
	})

	t.Run("duplicate day", func(t *testing.T) {
		svc, _, pkgs, _ := newItineraries()
		pkgs.On("FindByID", ctx, "pkg-1").Return(activePkg, nil)

		_, err := svc.Create(ctx, model.Itinerary{PackageID: "pkg-1", Title: "x", Days: []model.ItineraryDay{{Day: 1}, {Day: 1}}})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("end before start", func(t *testing.T) {
		svc, _, _, _ := newItineraries()
		_, err := svc.Create(ctx, model.Itinerary{PackageID: "pkg-1", Title: "x", StartDate: start, EndDate: start.AddDate(0, 0, -1)})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown status", func(t *testing.T) {
		svc, _, _, _ := newItineraries()
		_, err := svc.Create(ctx, model.Itinerary{PackageID: "pkg-1", Title: "x", Status: "boarding"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown package", func(t *testing.T) {
		svc, _, pkgs, _ := newItineraries()
		pkgs.On("FindByID", ctx, "gone").Return(nil, sql.ErrNoRows)

		_, err := svc.Create(ctx, model.Itinerary{PackageID: "gone", Title: "x"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestItineraryService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	svc, its, _, _ := newItineraries()
	its.On("UpdateStatus", ctx, "it-1", model.ItineraryCompleted).Return(nil)
	its.On("FindByID", ctx, "it-1").Return(&model.Itinerary{ID: "it-1", Status: model.ItineraryCompleted}, nil)

	it, err := svc.UpdateStatus(ctx, "it-1", model.ItineraryCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.ItineraryCompleted, it.Status)

	_, err = svc.UpdateStatus(ctx, "it-1", "landed")
	assert.ErrorIs(t, err, ErrValidation)

	its.On("UpdateStatus", ctx, "missing", model.ItineraryOngoing).Return(sql.ErrNoRows)
	_, err = svc.UpdateStatus(ctx, "missing", model.ItineraryOngoing)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestItineraryService_MyItineraries(t *testing.T) {
	ctx := context.Background()
	actor := Actor{UserID: "u1"}

	t.Run("only packages with approved payments", func(t *testing.T) {
		svc, its, _, pays := newItineraries()
		pays.On("ListByUser", ctx, "u1").Return([]model.Payment{
			{PackageID: "pkg-1", Status: model.StatusApproved},
			{PackageID: "pkg-2", Status: model.StatusPending},
			{PackageID: "pkg-1", Status: model.StatusApproved},
			{PackageID: "pkg-3", Status: model.StatusApproved},
		}, nil)
		its.On("ListByPackages", ctx, []string{"pkg-1", "pkg-3"}).Return([]model.Itinerary{{ID: "it-1"}, {ID: "it-3"}}, nil)

		items, err := svc.MyItineraries(ctx, actor)
		require.NoError(t, err)
		assert.Len(t, items, 2)
		its.AssertExpectations(t)
	})

	t.Run("no approved payments", func(t *testing.T) {
		svc, its, _, pays := newItineraries()
		pays.On("ListByUser", ctx, "u1").Return([]model.Payment{{PackageID: "pkg-2", Status: model.StatusRejected}}, nil)

		items, err := svc.MyItineraries(ctx, actor)
		require.NoError(t, err)
		assert.Empty(t, items)
		its.AssertNotCalled(t, "ListByPackages", mock.Anything, mock.Anything)
	})
}

func TestItineraryService_ListForPackage_UnknownPackage(t *testing.T) {
	ctx := context.Background()
	svc, _, pkgs, _ := newItineraries()
	pkgs.On("FindBySlug", ctx, "gone").Return(nil, sql.ErrNoRows)

	_, err := svc.ListForPackage(ctx, "gone")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestItineraryService_ListForPackage_BySlug(t *testing.T) {
	ctx := context.Background()
	svc, its, pkgs, _ := newItineraries()
	pkgID := "5b0e6a43-5a53-4c5e-9d51-0f3c1c0a8a11"
	pkgs.On("FindBySlug", ctx, "umrah-reguler-12").Return(&model.TravelPackage{ID: pkgID, Slug: "umrah-reguler-12"}, nil)
	its.On("ListByPackage", ctx, pkgID).Return([]model.Itinerary{{ID: "it-1", PackageID: pkgID}}, nil)

	got, err := svc.ListForPackage(ctx, "umrah-reguler-12")

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, pkgID, got[0].PackageID)
	pkgs.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	its.AssertExpectations(t)
}
