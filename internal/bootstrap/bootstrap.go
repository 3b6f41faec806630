// Package bootstrap connects the portal's infrastructure and builds its
// services. Both the API server and portalctl start from here.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"umrahportal/internal/cache"
	"umrahportal/internal/config"
	"umrahportal/internal/database"
	"umrahportal/internal/gateway"
	handlers "umrahportal/internal/http/handler"
	"umrahportal/internal/repository"
	"umrahportal/internal/repository/postgres"
	"umrahportal/internal/service"
	"umrahportal/internal/storage"
)

// Repositories are the Postgres-backed stores.
type Repositories struct {
	Users        repository.UserRepository
	Packages     repository.PackageRepository
	Promos       repository.PromoRepository
	Education    repository.EducationRepository
	Articles     repository.ArticleRepository
	Testimonials repository.TestimonialRepository
	Payments     repository.PaymentRepository
	Itineraries  repository.ItineraryRepository
	Upgrades     repository.UpgradeRequestRepository
}

// Portal is the wired application.
type Portal struct {
	DB       *sql.DB
	Repos    Repositories
	Services handlers.Services

	closers []io.Closer
}

// NewRepositories builds every repository over db.
func NewRepositories(db *sql.DB) Repositories {
	return Repositories{
		Users:        postgres.NewUserPostgres(db),
		Packages:     postgres.NewPackagePostgres(db),
		Promos:       postgres.NewPromoPostgres(db),
		Education:    postgres.NewEducationPostgres(db),
		Articles:     postgres.NewArticlePostgres(db),
		Testimonials: postgres.NewTestimonialPostgres(db),
		Payments:     postgres.NewPaymentPostgres(db),
		Itineraries:  postgres.NewItineraryPostgres(db),
		Upgrades:     postgres.NewUpgradeRequestPostgres(db),
	}
}

// NewServices builds the use cases. gw may be nil when no gateway is configured.
func NewServices(cfg *config.AppConfig, r Repositories, c cache.Cache, store storage.Storage, gw service.PaymentGateway, reg prometheus.Registerer) (handlers.Services, error) {
	catalog := service.NewCatalogService(service.CatalogDeps{
		Packages:     r.Packages,
		Promos:       r.Promos,
		Education:    r.Education,
		Articles:     r.Articles,
		Testimonials: r.Testimonials,
		Users:        r.Users,
		Cache:        c,
		Store:        store,
		CacheTTL:     cfg.Redis.TTL,
	})
	profiles := service.NewProfileService(r.Users)
	payments := service.NewPaymentService(r.Payments, r.Packages, r.Users, store, gw, cfg.MinIO.PresignExpiry)
	itineraries := service.NewItineraryService(r.Itineraries, r.Packages, r.Payments)
	upgrades, err := service.NewUpgradeService(r.Users, r.Payments, r.Itineraries, r.Packages, r.Upgrades, reg)
	if err != nil {
		return handlers.Services{}, fmt.Errorf("upgrade service: %w", err)
	}

	svcs := handlers.Services{
		Catalog:    catalog,
		Profiles:   profiles,
		Payments:   payments,
		Itinerary:  itineraries,
		Upgrades:   upgrades,
		Dashboards: service.NewDashboardService(profiles, catalog, payments, itineraries, upgrades),
	}
	if p, ok := c.(handlers.Pinger); ok {
		svcs.Readiness = append(svcs.Readiness, p)
	}
	return svcs, nil
}

// New connects Postgres, MinIO, Redis and the payment gateway, then builds
// the services. The caller must Close the returned Portal.
func New(ctx context.Context, cfg *config.AppConfig, reg prometheus.Registerer) (*Portal, error) {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	p := &Portal{DB: db, Repos: NewRepositories(db), closers: []io.Closer{db}}

	store, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("initialize object storage: %w", err)
	}

	c, err := cache.New(cfg.Redis, reg)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("initialize cache: %w", err)
	}
	if rc, ok := c.(io.Closer); ok {
		p.closers = append(p.closers, rc)
	}

	var gw service.PaymentGateway
	if cfg.Gateway.ServerKey != "" {
		client, err := gateway.New(cfg.Gateway, reg)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("initialize payment gateway: %w", err)
		}
		gw = client
	} else {
		log.Ctx(ctx).Warn().Str("component", "bootstrap").Msg("payment gateway not configured; gateway checkout and notifications are disabled")
	}

	p.Services, err = NewServices(cfg, p.Repos, c, store, gw, reg)
	if err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// Close releases connections in reverse order of creation.
func (p *Portal) Close() error {
	var errs []error
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
