package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"umrahportal/internal/cache"
	"umrahportal/internal/model"
	"umrahportal/internal/repository"
	repoMocks "umrahportal/internal/repository/mocks"
	"umrahportal/internal/storage"
	storeMocks "umrahportal/internal/storage/mocks"
)

type catalogMocks struct {
	packages     *repoMocks.MockPackageRepository
	promos       *repoMocks.MockPromoRepository
	education    *repoMocks.MockEducationRepository
	articles     *repoMocks.MockArticleRepository
	testimonials *repoMocks.MockTestimonialRepository
	users        *repoMocks.MockUserRepository
	store        *storeMocks.MockStorage
}

func (m *catalogMocks) assert(t *testing.T) {
	m.packages.AssertExpectations(t)
	m.promos.AssertExpectations(t)
	m.education.AssertExpectations(t)
	m.articles.AssertExpectations(t)
	m.testimonials.AssertExpectations(t)
	m.users.AssertExpectations(t)
	m.store.AssertExpectations(t)
}

func newCatalog(c cache.Cache) (CatalogService, *catalogMocks) {
	m := &catalogMocks{
		packages:     new(repoMocks.MockPackageRepository),
		promos:       new(repoMocks.MockPromoRepository),
		education:    new(repoMocks.MockEducationRepository),
		articles:     new(repoMocks.MockArticleRepository),
		testimonials: new(repoMocks.MockTestimonialRepository),
		users:        new(repoMocks.MockUserRepository),
		store:        new(storeMocks.MockStorage),
	}
	svc := NewCatalogService(CatalogDeps{
		Packages:     m.packages,
		Promos:       m.promos,
		Education:    m.education,
		Articles:     m.articles,
		Testimonials: m.testimonials,
		Users:        m.users,
		Cache:        c,
		Store:        m.store,
		CacheTTL:     time.Minute,
	})
	return svc, m
}

func TestCatalog_ListPackages_CachedUntilWrite(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rc, err := cache.NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute, nil)
	require.NoError(t, err)
	svc, m := newCatalog(rc)

	filter := repository.PackageFilter{Featured: true, ActiveOnly: true}
	pq := repository.PageQuery{Limit: 4}
	m.packages.On("List", ctx, filter, pq).
		Return(&repository.PageResult[model.TravelPackage]{
			Items: []model.TravelPackage{{ID: "p1", Name: "Umrah Reguler", Price: 29_000_000}},
			Total: 1,
		}, nil).Twice()

	for i := 0; i < 2; i++ {
		res, err := svc.ListPackages(ctx, PackageQuery{Featured: true, Limit: 4})
		require.NoError(t, err)
		require.Len(t, res.Items, 1)
		assert.Equal(t, "Umrah Reguler", res.Items[0].Name)
		assert.Equal(t, 1, res.Total)
	}

	m.packages.On("Create", ctx, mock.Anything).Return(&model.TravelPackage{ID: "p2"}, nil)
	_, err = svc.CreatePackage(ctx, model.TravelPackage{Name: "Umrah Plus", Category: model.CategoryUmrah, Price: 35_000_000})
	require.NoError(t, err)

	_, err = svc.ListPackages(ctx, PackageQuery{Featured: true, Limit: 4})
	require.NoError(t, err)
	_, err = svc.ListPackages(ctx, PackageQuery{Featured: true, Limit: 4})
	require.NoError(t, err)

	m.packages.AssertNumberOfCalls(t, "List", 2)
}

func TestCatalog_ListPackages_UnknownCategory(t *testing.T) {
	svc, m := newCatalog(nil)

	_, err := svc.ListPackages(context.Background(), PackageQuery{Category: "cruise"})
	assert.ErrorIs(t, err, ErrValidation)
	m.assert(t)
}

func TestCatalog_GetPackage(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()

	t.Run("by id", func(t *testing.T) {
		svc, m := newCatalog(nil)
		m.packages.On("FindByID", ctx, id).Return(&model.TravelPackage{ID: id}, nil)

		p, err := svc.GetPackage(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, p.ID)
		m.assert(t)
	})

	t.Run("by slug", func(t *testing.T) {
		svc, m := newCatalog(nil)
		m.packages.On("FindBySlug", ctx, "umrah-reguler").Return(&model.TravelPackage{ID: id, Slug: "umrah-reguler"}, nil)

		p, err := svc.GetPackage(ctx, "umrah-reguler")
		require.NoError(t, err)
		assert.Equal(t, id, p.ID)
		m.assert(t)
	})

	t.Run("not found", func(t *testing.T) {
		svc, m := newCatalog(nil)
		m.packages.On("FindBySlug", ctx, "nope").Return(nil, sql.ErrNoRows)

		_, err := svc.GetPackage(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.EqualError(t, err, "package not found")
		m.assert(t)
	})
}

func TestCatalog_CreatePackage(t *testing.T) {
	ctx := context.Background()
	dep := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   model.TravelPackage
		setup   func(m *catalogMocks)
		wantErr error
		check   func(t *testing.T, p *model.TravelPackage)
	}{
		{
			name:    "missing name",
			input:   model.TravelPackage{Category: model.CategoryUmrah, Price: 1},
			wantErr: ErrValidation,
		},
		{
			name:    "bad category",
			input:   model.TravelPackage{Name: "X", Category: "cruise", Price: 1},
			wantErr: ErrValidation,
		},
		{
			name:    "non positive price",
			input:   model.TravelPackage{Name: "X", Category: model.CategoryHajj},
			wantErr: ErrValidation,
		},
		{
			name:    "return before departure",
			input:   model.TravelPackage{Name: "X", Category: model.CategoryUmrah, Price: 1, DepartureDate: dep, ReturnDate: dep.AddDate(0, 0, -1)},
			wantErr: ErrValidation,
		},
		{
			name:  "derives slug and duration",
			input: model.TravelPackage{Name: "Umrah Plus Turki", Category: model.CategoryUmrah, Price: 38_500_000, DepartureDate: dep, ReturnDate: dep.AddDate(0, 0, 11)},
			setup: func(m *catalogMocks) {
				m.packages.On("Create", ctx, mock.MatchedBy(func(p *model.TravelPackage) bool {
					return p.Slug == "umrah-plus-turki" && p.DurationDays == 12 && p.ID != "" && p.Facilities != nil
				})).Return(func(ctx context.Context, p *model.TravelPackage) *model.TravelPackage { return p }, nil)
			},
			check: func(t *testing.T, p *model.TravelPackage) {
				assert.Equal(t, "umrah-plus-turki", p.Slug)
				assert.Equal(t, testNow, p.CreatedAt)
			},
		},
		{
			name:  "duplicate slug",
			input: model.TravelPackage{Name: "Umrah", Category: model.CategoryUmrah, Price: 1},
			setup: func(m *catalogMocks) {
				m.packages.On("Create", ctx, mock.Anything).Return(nil, repository.ErrDuplicate)
			},
			wantErr: ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixClock(t)
			svc, m := newCatalog(nil)
			if tt.setup != nil {
				tt.setup(m)
			}

			p, err := svc.CreatePackage(ctx, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				tt.check(t, p)
			}
			m.assert(t)
		})
	}
}

func TestCatalog_DeletePackage_NotFound(t *testing.T) {
	ctx := context.Background()
	svc, m := newCatalog(nil)
	m.packages.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)

	err := svc.DeletePackage(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	m.packages.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCatalog_ListPromos_ActiveFilter(t *testing.T) {
	ctx := context.Background()
	fixClock(t)
	svc, m := newCatalog(nil)

	promos := []model.Promo{
		{ID: "expired", ValidFrom: testNow.AddDate(0, -2, 0), ValidUntil: testNow.AddDate(0, -1, 0)},
		{ID: "running", ValidFrom: testNow.AddDate(0, 0, -3), ValidUntil: testNow.AddDate(0, 0, 3)},
		{ID: "upcoming", ValidFrom: testNow.AddDate(0, 1, 0)},
		{ID: "open", ValidFrom: testNow.AddDate(0, 0, -1)},
	}
	m.promos.On("List", ctx, repository.PageQuery{Limit: promoScanPage}).
		Return(&repository.PageResult[model.Promo]{Items: promos, Total: len(promos)}, nil)

	res, err := svc.ListPromos(ctx, true, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "running", res.Items[0].ID)
	assert.Equal(t, "open", res.Items[1].ID)

	res, err = svc.ListPromos(ctx, true, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "open", res.Items[0].ID)

	res, err = svc.ListPromos(ctx, false, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Total)
}

func TestCatalog_ListPromos_ReadsEveryStorePage(t *testing.T) {
	ctx := context.Background()
	fixClock(t)
	svc, m := newCatalog(nil)

	running := model.Promo{ValidFrom: testNow.AddDate(0, 0, -1), ValidUntil: testNow.AddDate(0, 0, 1)}
	first := make([]model.Promo, promoScanPage)
	for i := range first {
		first[i] = running
		first[i].ID = fmt.Sprintf("p-%d", i)
	}
	last := []model.Promo{{ID: "tail", ValidFrom: testNow.AddDate(0, 0, -1)}}
	total := promoScanPage + len(last)

	m.promos.On("List", ctx, repository.PageQuery{Limit: promoScanPage}).
		Return(&repository.PageResult[model.Promo]{Items: first, Total: total}, nil).Once()
	m.promos.On("List", ctx, repository.PageQuery{Limit: promoScanPage, Offset: promoScanPage}).
		Return(&repository.PageResult[model.Promo]{Items: last, Total: total}, nil).Once()

	res, err := svc.ListPromos(ctx, true, 10, total-1)
	require.NoError(t, err)
	assert.Equal(t, total, res.Total)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "tail", res.Items[0].ID)
	m.assert(t)
}

func TestCatalog_CreatePromo_Validation(t *testing.T) {
	ctx := context.Background()
	svc, m := newCatalog(nil)

	_, err := svc.CreatePromo(ctx, model.Promo{Title: "Diskon", DiscountPercent: 120})
	assert.ErrorIs(t, err, ErrValidation)

	m.packages.On("FindByID", ctx, "gone").Return(nil, sql.ErrNoRows)
	_, err = svc.CreatePromo(ctx, model.Promo{Title: "Diskon", DiscountPercent: 10, PackageID: "gone"})
	assert.ErrorIs(t, err, ErrNotFound)
	m.assert(t)
}

func TestCatalog_GetArticle_UnpublishedIsHidden(t *testing.T) {
	ctx := context.Background()
	svc, m := newCatalog(nil)
	m.articles.On("FindBySlug", ctx, "draft").Return(&model.Article{Slug: "draft"}, nil)

	_, err := svc.GetArticle(ctx, "draft")
	assert.ErrorIs(t, err, ErrNotFound)
	m.assert(t)
}

func TestCatalog_CreateArticle_SetsPublishedAt(t *testing.T) {
	ctx := context.Background()
	fixClock(t)
	svc, m := newCatalog(nil)
	m.articles.On("Create", ctx, mock.MatchedBy(func(a *model.Article) bool {
		return a.Slug == "tips-manasik" && a.PublishedAt != nil && a.PublishedAt.Equal(testNow)
	})).Return(func(ctx context.Context, a *model.Article) *model.Article { return a }, nil)

	a, err := svc.CreateArticle(ctx, model.Article{Title: "Tips Manasik", Content: "...", Published: true})
	require.NoError(t, err)
	assert.Equal(t, "tips-manasik", a.Slug)
	m.assert(t)
}

func TestCatalog_SubmitTestimonial(t *testing.T) {
	ctx := context.Background()

	t.Run("prospective pilgrims cannot submit", func(t *testing.T) {
		svc, m := newCatalog(nil)
		m.users.On("FindByID", ctx, "u1").Return(&model.User{ID: "u1", Role: model.RoleProspective}, nil)
		_, err := svc.SubmitTestimonial(ctx, Actor{UserID: "u1", Role: model.RoleProspective}, model.Testimonial{Rating: 5, Content: "ok"})
		assert.ErrorIs(t, err, ErrForbidden)
		m.assert(t)
	})

	t.Run("stored role decides, not the header", func(t *testing.T) {
		svc, m := newCatalog(nil)
		m.users.On("FindByID", ctx, "promoted").Return(&model.User{ID: "promoted", Role: model.RoleAlumni}, nil)
		m.users.On("FindByID", ctx, "calon").Return(&model.User{ID: "calon", Role: model.RoleProspective}, nil)
		m.testimonials.On("Create", ctx, mock.MatchedBy(func(tm *model.Testimonial) bool {
			return tm.UserID == "promoted" && tm.Name == "Jamaah"
		})).Return(func(ctx context.Context, tm *model.Testimonial) *model.Testimonial { return tm }, nil)

		_, err := svc.SubmitTestimonial(ctx, Actor{UserID: "promoted", Role: model.RoleProspective}, model.Testimonial{Rating: 4, Content: "mabrur"})
		require.NoError(t, err)

		_, err = svc.SubmitTestimonial(ctx, Actor{UserID: "calon", Role: model.RolePilgrim}, model.Testimonial{Rating: 4, Content: "mabrur"})
		assert.ErrorIs(t, err, ErrForbidden)
		m.assert(t)
	})

	t.Run("rating out of range", func(t *testing.T) {
		svc, m := newCatalog(nil)
		m.users.On("FindByID", ctx, "u1").Return(&model.User{ID: "u1", Role: model.RoleAlumni}, nil)
		_, err := svc.SubmitTestimonial(ctx, Actor{UserID: "u1", Role: model.RoleAlumni}, model.Testimonial{Rating: 6, Content: "ok"})
		assert.ErrorIs(t, err, ErrValidation)
		_, err = svc.SubmitTestimonial(ctx, Actor{UserID: "u1", Role: model.RoleAlumni}, model.Testimonial{Rating: 0, Content: "ok"})
		assert.ErrorIs(t, err, ErrValidation)
		m.assert(t)
	})

	t.Run("name falls back to profile", func(t *testing.T) {
		svc, m := newCatalog(nil)
		m.users.On("FindByID", ctx, "u1").Return(&model.User{ID: "u1", Role: model.RolePilgrim, Profile: model.Profile{FullName: "Siti Aminah"}}, nil)
		m.testimonials.On("Create", ctx, mock.MatchedBy(func(tm *model.Testimonial) bool {
			return tm.Name == "Siti Aminah" && tm.UserID == "u1" && tm.Status == model.StatusPending
		})).Return(func(ctx context.Context, tm *model.Testimonial) *model.Testimonial { return tm }, nil)

		tm, err := svc.SubmitTestimonial(ctx, Actor{UserID: "u1", Role: model.RolePilgrim}, model.Testimonial{Rating: 5, Content: " Alhamdulillah lancar "})
		require.NoError(t, err)
		assert.Equal(t, "Alhamdulillah lancar", tm.Content)
		m.assert(t)
	})
}

func TestCatalog_ReviewTestimonial(t *testing.T) {
	ctx := context.Background()

	t.Run("approve pending", func(t *testing.T) {
		svc, m := newCatalog(nil)
		m.testimonials.On("FindByID", ctx, "t1").Return(&model.Testimonial{ID: "t1", Status: model.StatusPending}, nil)
		m.testimonials.On("UpdateStatus", ctx, "t1", model.StatusPending, model.StatusApproved).Return(nil)

		tm, err := svc.ReviewTestimonial(ctx, "t1", ReviewInput{Approve: true, Reviewer: "admin-1"})
		require.NoError(t, err)
		assert.Equal(t, model.StatusApproved, tm.Status)
		m.assert(t)
	})

	t.Run("already reviewed", func(t *testing.T) {
		svc, m := newCatalog(nil)
		m.testimonials.On("FindByID", ctx, "t1").Return(&model.Testimonial{ID: "t1", Status: model.StatusRejected}, nil)

		_, err := svc.ReviewTestimonial(ctx, "t1", ReviewInput{Approve: true})
		assert.ErrorIs(t, err, ErrInvalidTransition)
		m.assert(t)
	})

	t.Run("lost race", func(t *testing.T) {
		svc, m := newCatalog(nil)
		m.testimonials.On("FindByID", ctx, "t1").Return(&model.Testimonial{ID: "t1", Status: model.StatusPending}, nil)
		m.testimonials.On("UpdateStatus", ctx, "t1", model.StatusPending, model.StatusRejected).Return(sql.ErrNoRows)

		_, err := svc.ReviewTestimonial(ctx, "t1", ReviewInput{})
		assert.ErrorIs(t, err, ErrInvalidTransition)
		m.assert(t)
	})
}

func TestCatalog_ListTestimonials_DefaultsToApproved(t *testing.T) {
	ctx := context.Background()
	svc, m := newCatalog(nil)
	m.testimonials.On("List", ctx, model.StatusApproved, repository.PageQuery{Limit: defaultLimit}).
		Return(&repository.PageResult[model.Testimonial]{Items: []model.Testimonial{{ID: "t1"}}, Total: 1}, nil)

	res, err := svc.ListTestimonials(ctx, "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)

	_, err = svc.ListTestimonials(ctx, "hidden", 0, 0)
	assert.ErrorIs(t, err, ErrValidation)
	m.assert(t)
}

func TestCatalog_UploadImage(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown kind", func(t *testing.T) {
		svc, m := newCatalog(nil)
		_, err := svc.UploadImage(ctx, "payments", strings.NewReader("x"), "a.png", "image/png", 1)
		assert.ErrorIs(t, err, ErrValidation)
		m.assert(t)
	})

	t.Run("unsupported type", func(t *testing.T) {
		svc, m := newCatalog(nil)
		_, err := svc.UploadImage(ctx, "packages", strings.NewReader("x"), "a.exe", "application/x-msdownload", 1)
		assert.ErrorIs(t, err, ErrValidation)
		m.assert(t)
	})

	t.Run("stored under content prefix", func(t *testing.T) {
		svc, m := newCatalog(nil)
		r := strings.NewReader("png")
		m.store.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "content/packages/") && strings.HasSuffix(key, ".png")
		}), r, mock.Anything).Return(func(ctx context.Context, key string, _ io.Reader, _ storage.PutObjectOptions) storage.ObjectInfo {
			return storage.ObjectInfo{Key: key}
		}, nil)

		img, err := svc.UploadImage(ctx, "packages", r, "cover.png", "image/png", 3)
		require.NoError(t, err)
		assert.Equal(t, "/api/v1/media/"+img.Key, img.URL)
		m.assert(t)
	})

	t.Run("storage failure", func(t *testing.T) {
		svc, m := newCatalog(nil)
		m.store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, errors.New("s3 down"))

		_, err := svc.UploadImage(ctx, "promos", strings.NewReader("x"), "a.jpg", "image/jpeg", 1)
		assert.EqualError(t, err, "upload to storage: s3 down")
		m.assert(t)
	})
}

func TestCatalog_OpenMedia_OnlyContentKeys(t *testing.T) {
	ctx := context.Background()
	svc, m := newCatalog(nil)

	_, _, err := svc.OpenMedia(ctx, "payments/u1/proof.jpg")
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = svc.OpenMedia(ctx, "content/../payments/u1/proof.jpg")
	assert.ErrorIs(t, err, ErrNotFound)

	m.store.On("Get", ctx, "content/promos/x.png").Return(nil, storage.ObjectInfo{}, errors.New("no such key"))
	_, _, err = svc.OpenMedia(ctx, "content/promos/x.png")
	assert.ErrorIs(t, err, ErrNotFound)
	m.assert(t)
}
