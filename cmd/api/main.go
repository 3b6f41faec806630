package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"umrahportal/docs"
	"umrahportal/internal/bootstrap"
	"umrahportal/internal/config"
	"umrahportal/internal/database/migration"
	handlers "umrahportal/internal/http/handler"
	"umrahportal/internal/http/middleware"
	"umrahportal/internal/logger"
	tracing "umrahportal/internal/otel"
	"umrahportal/internal/storage"
)

// @title						Umrah Portal API
// @version					1.0
// @description				Travel packages, payments, itineraries and role-based dashboards for umrah and hajj pilgrims.
// @BasePath					/
// @securityDefinitions.apikey	ProxyIdentity
// @in							header
// @name						X-User-ID
func main() {
	cfg := config.Load()
	l := logger.Init(cfg.AppEnv, cfg.LogLevel, cfg.Location())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = l.WithContext(ctx)

	shutdownTracing, err := tracing.Init(ctx, "umrahportal")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracing")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	portal, err := bootstrap.New(ctx, cfg, reg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start portal")
	}
	defer portal.Close()

	if err := migration.EnsureMigrated(ctx, portal.DB, l); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register http metrics")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		// Multipart envelope on top of the largest accepted upload.
		BodyLimit: int(storage.MaxUploadSize) + 1<<20,
	})

	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(l))
	app.Use(promMiddleware.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, portal.DB, portal.Services)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(15 * time.Second); err != nil {
			log.Error().Err(err).Msg("http shutdown")
		}
	}()

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.AppEnv).Msg("listening")
	if err := app.Listen(addr); err != nil {
		log.Error().Err(err).Msg("failed to start server")
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		log.Error().Err(err).Msg("tracing shutdown")
	}
}
