package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"umrahportal/internal/cache"
	"umrahportal/internal/model"
	"umrahportal/internal/repository"
	"umrahportal/internal/storage"
)

// Cache key prefixes. Writes drop the whole prefix of the collection they touch.
const (
	keyPackages     = "catalog:packages:"
	keyPromos       = "catalog:promos:"
	keyEducation    = "catalog:education:"
	keyArticles     = "catalog:articles:"
	keyTestimonials = "catalog:testimonials:"

	// promoScanPage is the store page size used when reading every promo for the
	// in-memory active filter.
	promoScanPage = 500
)

// PackageQuery filters the public package listing.
type PackageQuery struct {
	Category        model.PackageCategory
	Featured        bool
	IncludeInactive bool
	Limit           int
	Offset          int
}

// UploadedImage is a stored content image and the URL that serves it.
type UploadedImage struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// CatalogService covers the public catalog: packages, promos, education,
// articles and testimonials, plus their admin writes.
type CatalogService interface {
	ListPackages(ctx context.Context, q PackageQuery) (*ListResult[model.TravelPackage], error)
	// GetPackage accepts either a package ID or its slug.
	GetPackage(ctx context.Context, idOrSlug string) (*model.TravelPackage, error)
	CreatePackage(ctx context.Context, p model.TravelPackage) (*model.TravelPackage, error)
	UpdatePackage(ctx context.Context, id string, p model.TravelPackage) (*model.TravelPackage, error)
	DeletePackage(ctx context.Context, id string) error

	// ListPromos filters by validity in memory when activeOnly is set.
	ListPromos(ctx context.Context, activeOnly bool, limit, offset int) (*ListResult[model.Promo], error)
	CreatePromo(ctx context.Context, p model.Promo) (*model.Promo, error)
	DeletePromo(ctx context.Context, id string) error

	ListEducation(ctx context.Context, category string, limit, offset int) (*ListResult[model.Education], error)
	GetEducation(ctx context.Context, id string) (*model.Education, error)
	CreateEducation(ctx context.Context, e model.Education) (*model.Education, error)

	ListArticles(ctx context.Context, limit, offset int) (*ListResult[model.Article], error)
	GetArticle(ctx context.Context, slug string) (*model.Article, error)
	CreateArticle(ctx context.Context, a model.Article) (*model.Article, error)

	// ListTestimonials lists approved testimonials unless an admin asks for another status.
	ListTestimonials(ctx context.Context, status model.ReviewStatus, limit, offset int) (*ListResult[model.Testimonial], error)
	SubmitTestimonial(ctx context.Context, actor Actor, t model.Testimonial) (*model.Testimonial, error)
	ReviewTestimonial(ctx context.Context, id string, in ReviewInput) (*model.Testimonial, error)

	UploadImage(ctx context.Context, kind string, r io.Reader, filename, contentType string, size int64) (*UploadedImage, error)
	// OpenMedia streams a public content object. Payment proofs are never served here.
	OpenMedia(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error)
}

// CatalogDeps groups the collaborators of the catalog service.
type CatalogDeps struct {
	Packages     repository.PackageRepository
	Promos       repository.PromoRepository
	Education    repository.EducationRepository
	Articles     repository.ArticleRepository
	Testimonials repository.TestimonialRepository
	Users        repository.UserRepository
	Cache        cache.Cache
	Store        storage.Storage
	CacheTTL     time.Duration
	// MediaBaseURL prefixes object keys in UploadedImage.URL, e.g. "/api/v1/media/".
	MediaBaseURL string
}

type catalogService struct {
	CatalogDeps
}

// NewCatalogService constructs a CatalogService. A nil cache disables caching.
func NewCatalogService(d CatalogDeps) CatalogService {
	if d.Cache == nil {
		d.Cache = cache.Noop{}
	}
	if d.MediaBaseURL == "" {
		d.MediaBaseURL = "/api/v1/media/"
	}
	return &catalogService{CatalogDeps: d}
}

func (s *catalogService) invalidate(ctx context.Context, prefix string) {
	if err := s.Cache.DelPrefix(ctx, prefix); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("component", "catalog").Str("prefix", prefix).Msg("cache invalidation failed")
	}
}

// ---- packages ----

func (s *catalogService) ListPackages(ctx context.Context, q PackageQuery) (*ListResult[model.TravelPackage], error) {
	if q.Category != "" && q.Category != model.CategoryUmrah && q.Category != model.CategoryHajj {
		return nil, validationf("unknown category %q", q.Category)
	}
	pq := page(q.Limit, q.Offset)
	key := fmt.Sprintf("%s%s:%t:%t:%d:%d", keyPackages, q.Category, q.Featured, q.IncludeInactive, pq.Limit, pq.Offset)
	return cache.Remember(ctx, s.Cache, key, s.CacheTTL, func(ctx context.Context) (*ListResult[model.TravelPackage], error) {
		res, err := s.Packages.List(ctx, repository.PackageFilter{
			Category:   q.Category,
			Featured:   q.Featured,
			ActiveOnly: !q.IncludeInactive,
		}, pq)
		if err != nil {
			return nil, err
		}
		return fromPage(res), nil
	})
}

func (s *catalogService) GetPackage(ctx context.Context, idOrSlug string) (*model.TravelPackage, error) {
	return findPackage(ctx, s.Packages, idOrSlug)
}

// findPackage looks a package up by UUID, falling back to its slug.
func findPackage(ctx context.Context, packages repository.PackageRepository, idOrSlug string) (*model.TravelPackage, error) {
	if idOrSlug == "" {
		return nil, validationf("package id is required")
	}
	var (
		p   *model.TravelPackage
		err error
	)
	if _, perr := uuid.Parse(idOrSlug); perr == nil {
		p, err = packages.FindByID(ctx, idOrSlug)
	} else {
		p, err = packages.FindBySlug(ctx, idOrSlug)
	}
	if err != nil {
		return nil, notFound("package", err)
	}
	return p, nil
}

func validatePackage(p *model.TravelPackage) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return validationf("name is required")
	}
	if p.Category != model.CategoryUmrah && p.Category != model.CategoryHajj {
		return validationf("category must be umrah or hajj")
	}
	if p.Price <= 0 {
		return validationf("price must be positive")
	}
	if p.Quota < 0 {
		return validationf("quota must not be negative")
	}
	if !p.DepartureDate.IsZero() && !p.ReturnDate.IsZero() && p.ReturnDate.Before(p.DepartureDate) {
		return validationf("return date is before departure date")
	}
	if p.Slug == "" {
		p.Slug = Slugify(p.Name)
	}
	if p.DurationDays == 0 && !p.DepartureDate.IsZero() && !p.ReturnDate.IsZero() {
		p.DurationDays = int(p.ReturnDate.Sub(p.DepartureDate).Hours()/24) + 1
	}
	if p.Facilities == nil {
		p.Facilities = []string{}
	}
	return nil
}

func (s *catalogService) CreatePackage(ctx context.Context, p model.TravelPackage) (*model.TravelPackage, error) {
	if err := validatePackage(&p); err != nil {
		return nil, err
	}
	p.ID = uuid.NewString()
	p.CreatedAt = now()
	stored, err := s.Packages.Create(ctx, &p)
	if err != nil {
		return nil, conflictOnDuplicate("slug already in use", err)
	}
	s.invalidate(ctx, keyPackages)
	return stored, nil
}

func (s *catalogService) UpdatePackage(ctx context.Context, id string, p model.TravelPackage) (*model.TravelPackage, error) {
	existing, err := s.Packages.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("package", err)
	}
	if err := validatePackage(&p); err != nil {
		return nil, err
	}
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	stored, err := s.Packages.Update(ctx, &p)
	if err != nil {
		return nil, conflictOnDuplicate("slug already in use", notFound("package", err))
	}
	s.invalidate(ctx, keyPackages)
	return stored, nil
}

func (s *catalogService) DeletePackage(ctx context.Context, id string) error {
	if _, err := s.Packages.FindByID(ctx, id); err != nil {
		return notFound("package", err)
	}
	if err := s.Packages.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, keyPackages)
	return nil
}

// ---- promos ----

func (s *catalogService) ListPromos(ctx context.Context, activeOnly bool, limit, offset int) (*ListResult[model.Promo], error) {
	pq := page(limit, offset)
	all, err := cache.Remember(ctx, s.Cache, keyPromos+"all", s.CacheTTL, func(ctx context.Context) ([]model.Promo, error) {
		return s.allPromos(ctx)
	})
	if err != nil {
		return nil, err
	}

	items := all
	if activeOnly {
		t := now()
		items = make([]model.Promo, 0, len(all))
		for _, p := range all {
			if p.ActiveAt(t) {
				items = append(items, p)
			}
		}
	}
	return &ListResult[model.Promo]{Items: paginate(items, pq), Total: len(items)}, nil
}

// allPromos pages through the store until every promo has been read.
func (s *catalogService) allPromos(ctx context.Context) ([]model.Promo, error) {
	all := make([]model.Promo, 0)
	for {
		res, err := s.Promos.List(ctx, repository.PageQuery{Limit: promoScanPage, Offset: len(all)})
		if err != nil {
			return nil, err
		}
		all = append(all, res.Items...)
		if len(res.Items) < promoScanPage || len(all) >= res.Total {
			return all, nil
		}
	}
}

func (s *catalogService) CreatePromo(ctx context.Context, p model.Promo) (*model.Promo, error) {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return nil, validationf("title is required")
	}
	if p.DiscountPercent < 0 || p.DiscountPercent > 100 {
		return nil, validationf("discount percent must be between 0 and 100")
	}
	if !p.ValidFrom.IsZero() && !p.ValidUntil.IsZero() && p.ValidUntil.Before(p.ValidFrom) {
		return nil, validationf("valid_until is before valid_from")
	}
	if p.PackageID != "" {
		if _, err := s.Packages.FindByID(ctx, p.PackageID); err != nil {
			return nil, notFound("package", err)
		}
	}
	p.ID = uuid.NewString()
	p.CreatedAt = now()
	stored, err := s.Promos.Create(ctx, &p)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, keyPromos)
	return stored, nil
}

func (s *catalogService) DeletePromo(ctx context.Context, id string) error {
	if _, err := s.Promos.FindByID(ctx, id); err != nil {
		return notFound("promo", err)
	}
	if err := s.Promos.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, keyPromos)
	return nil
}

// ---- education ----

func (s *catalogService) ListEducation(ctx context.Context, category string, limit, offset int) (*ListResult[model.Education], error) {
	pq := page(limit, offset)
	category = strings.ToLower(strings.TrimSpace(category))
	key := fmt.Sprintf("%s%s:%d:%d", keyEducation, category, pq.Limit, pq.Offset)
	return cache.Remember(ctx, s.Cache, key, s.CacheTTL, func(ctx context.Context) (*ListResult[model.Education], error) {
		res, err := s.Education.List(ctx, category, pq)
		if err != nil {
			return nil, err
		}
		return fromPage(res), nil
	})
}

func (s *catalogService) GetEducation(ctx context.Context, id string) (*model.Education, error) {
	e, err := s.Education.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("education", err)
	}
	return e, nil
}

func (s *catalogService) CreateEducation(ctx context.Context, e model.Education) (*model.Education, error) {
	e.Title = strings.TrimSpace(e.Title)
	if e.Title == "" || strings.TrimSpace(e.Content) == "" {
		return nil, validationf("title and content are required")
	}
	e.Category = strings.ToLower(strings.TrimSpace(e.Category))
	e.ID = uuid.NewString()
	e.CreatedAt = now()
	stored, err := s.Education.Create(ctx, &e)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, keyEducation)
	return stored, nil
}

// ---- articles ----

func (s *catalogService) ListArticles(ctx context.Context, limit, offset int) (*ListResult[model.Article], error) {
	pq := page(limit, offset)
	key := fmt.Sprintf("%s%d:%d", keyArticles, pq.Limit, pq.Offset)
	return cache.Remember(ctx, s.Cache, key, s.CacheTTL, func(ctx context.Context) (*ListResult[model.Article], error) {
		res, err := s.Articles.List(ctx, true, pq)
		if err != nil {
			return nil, err
		}
		return fromPage(res), nil
	})
}

func (s *catalogService) GetArticle(ctx context.Context, slug string) (*model.Article, error) {
	a, err := s.Articles.FindBySlug(ctx, slug)
	if err != nil {
		return nil, notFound("article", err)
	}
	if !a.Published {
		return nil, fmt.Errorf("article %w", ErrNotFound)
	}
	return a, nil
}

func (s *catalogService) CreateArticle(ctx context.Context, a model.Article) (*model.Article, error) {
	a.Title = strings.TrimSpace(a.Title)
	if a.Title == "" || strings.TrimSpace(a.Content) == "" {
		return nil, validationf("title and content are required")
	}
	if a.Slug == "" {
		a.Slug = Slugify(a.Title)
	}
	a.ID = uuid.NewString()
	a.CreatedAt = now()
	if a.Published && a.PublishedAt == nil {
		t := a.CreatedAt
		a.PublishedAt = &t
	}
	if !a.Published {
		a.PublishedAt = nil
	}
	stored, err := s.Articles.Create(ctx, &a)
	if err != nil {
		return nil, conflictOnDuplicate("slug already in use", err)
	}
	s.invalidate(ctx, keyArticles)
	return stored, nil
}

// ---- testimonials ----

func (s *catalogService) ListTestimonials(ctx context.Context, status model.ReviewStatus, limit, offset int) (*ListResult[model.Testimonial], error) {
	if status == "" {
		status = model.StatusApproved
	}
	if !status.Valid() {
		return nil, validationf("unknown status %q", status)
	}
	pq := page(limit, offset)
	load := func(ctx context.Context) (*ListResult[model.Testimonial], error) {
		res, err := s.Testimonials.List(ctx, status, pq)
		if err != nil {
			return nil, err
		}
		return fromPage(res), nil
	}
	if status != model.StatusApproved {
		return load(ctx)
	}
	return cache.Remember(ctx, s.Cache, fmt.Sprintf("%s%d:%d", keyTestimonials, pq.Limit, pq.Offset), s.CacheTTL, load)
}

func (s *catalogService) SubmitTestimonial(ctx context.Context, actor Actor, t model.Testimonial) (*model.Testimonial, error) {
	u, err := provisionUser(ctx, s.Users, actor)
	if err != nil {
		return nil, err
	}
	if u.Role != model.RolePilgrim && u.Role != model.RoleAlumni {
		return nil, fmt.Errorf("%w: only pilgrims and alumni can submit testimonials", ErrForbidden)
	}
	if t.Rating < 1 || t.Rating > 5 {
		return nil, validationf("rating must be between 1 and 5")
	}
	t.Content = strings.TrimSpace(t.Content)
	if t.Content == "" {
		return nil, validationf("content is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		t.Name = u.Profile.FullName
		if t.Name == "" {
			t.Name = "Jamaah"
		}
	}
	t.ID = uuid.NewString()
	t.UserID = actor.UserID
	t.Status = model.StatusPending
	t.CreatedAt = now()
	return s.Testimonials.Create(ctx, &t)
}

func (s *catalogService) ReviewTestimonial(ctx context.Context, id string, in ReviewInput) (*model.Testimonial, error) {
	t, err := s.Testimonials.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("testimonial", err)
	}
	to := in.target()
	if err := t.Status.Transition(to); err != nil {
		return nil, fmt.Errorf("testimonial is %s: %w", t.Status, err)
	}
	if err := s.Testimonials.UpdateStatus(ctx, id, model.StatusPending, to); err != nil {
		return nil, transitionLost("testimonial", err)
	}
	t.Status = to
	s.invalidate(ctx, keyTestimonials)
	return t, nil
}

// ---- media ----

func (s *catalogService) UploadImage(ctx context.Context, kind string, r io.Reader, filename, contentType string, size int64) (*UploadedImage, error) {
	if r == nil {
		return nil, validationf("file is required")
	}
	switch kind {
	case "packages", "promos", "articles", "education":
	default:
		return nil, validationf("unknown image kind %q", kind)
	}
	if err := storage.ValidateUpload(contentType, size); err != nil {
		return nil, validationf("%v", err)
	}
	key := storage.ContentKey(kind, filename, contentType)
	info, err := s.Store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata:    map[string]string{"original-filename": filename},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}
	return &UploadedImage{Key: info.Key, URL: s.MediaBaseURL + info.Key}, nil
}

func (s *catalogService) OpenMedia(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	if !strings.HasPrefix(key, "content/") || strings.Contains(key, "..") {
		return nil, storage.ObjectInfo{}, fmt.Errorf("media %w", ErrNotFound)
	}
	rc, info, err := s.Store.Get(ctx, key)
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("component", "catalog").Str("key", key).Msg("media lookup failed")
		return nil, storage.ObjectInfo{}, fmt.Errorf("media %w", ErrNotFound)
	}
	return rc, info, nil
}

// Slugify lowercases s and joins its alphanumeric runs with hyphens.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if b.Len() > 0 && !dash {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
