package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"umrahportal/internal/http/middleware"
	"umrahportal/internal/model"
	"umrahportal/internal/service"
)

// Services bundles the use cases the HTTP layer exposes.
type Services struct {
	Catalog    service.CatalogService
	Profiles   service.ProfileService
	Payments   service.PaymentService
	Itinerary  service.ItineraryService
	Upgrades   service.UpgradeService
	Dashboards service.DashboardService
	// Readiness lists extra dependencies /health pings, such as the cache.
	Readiness []Pinger
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin: parse, call the service, map errors.
func RegisterRoutes(app *fiber.App, db *sql.DB, s Services) {
	app.Get("/health", HealthCheck(db, s.Readiness...))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api/v1", middleware.ProxyIdentity())

	api.Get("/packages", ListPackages(s.Catalog))
	api.Get("/packages/:id", GetPackage(s.Catalog))
	api.Get("/packages/:id/itineraries", PackageItineraries(s.Itinerary))
	api.Get("/promos", ListPromos(s.Catalog))
	api.Get("/education", ListEducation(s.Catalog))
	api.Get("/education/:id", GetEducation(s.Catalog))
	api.Get("/articles", ListArticles(s.Catalog))
	api.Get("/articles/:slug", GetArticle(s.Catalog))
	api.Get("/testimonials", ListTestimonials(s.Catalog))
	api.Post("/testimonials", middleware.RequireIdentity(), SubmitTestimonial(s.Catalog))
	api.Get("/itineraries/:id", GetItinerary(s.Itinerary))
	api.Get("/media/*", ServeMedia(s.Catalog))

	api.Post("/webhooks/payment", PaymentNotification(s.Payments))

	me := api.Group("/me", middleware.RequireIdentity(), middleware.NoStore())
	me.Get("/dashboard", Dashboard(s.Dashboards))
	me.Get("/profile", GetProfile(s.Profiles))
	me.Put("/profile", UpdateProfile(s.Profiles))
	me.Get("/profile/completeness", ProfileCompleteness(s.Profiles))
	me.Get("/payments", ListMyPayments(s.Payments))
	me.Post("/payments", SubmitPayment(s.Payments))
	me.Post("/payments/gateway", StartGatewayPayment(s.Payments))
	me.Get("/payments/:id", GetMyPayment(s.Payments))
	me.Get("/itineraries", MyItineraries(s.Itinerary))
	me.Post("/upgrade", CheckUpgrade(s.Upgrades))
	me.Post("/upgrade-requests", RequestUpgrade(s.Upgrades))

	admin := api.Group("/admin", middleware.RequireRole(model.RoleAdmin), middleware.NoStore())
	admin.Post("/packages", CreatePackage(s.Catalog))
	admin.Put("/packages/:id", UpdatePackage(s.Catalog))
	admin.Delete("/packages/:id", DeletePackage(s.Catalog))
	admin.Post("/promos", CreatePromo(s.Catalog))
	admin.Delete("/promos/:id", DeletePromo(s.Catalog))
	admin.Post("/education", CreateEducation(s.Catalog))
	admin.Post("/articles", CreateArticle(s.Catalog))
	admin.Post("/testimonials/:id/review", ReviewTestimonial(s.Catalog))
	admin.Post("/uploads/:kind", UploadImage(s.Catalog))
	admin.Post("/itineraries", CreateItinerary(s.Itinerary))
	admin.Patch("/itineraries/:id/status", UpdateItineraryStatus(s.Itinerary))
	admin.Get("/payments", ListPayments(s.Payments))
	admin.Post("/payments/:id/review", ReviewPayment(s.Payments))
	admin.Get("/upgrade-requests", ListUpgradeRequests(s.Upgrades))
	admin.Post("/upgrade-requests/:id/review", ReviewUpgrade(s.Upgrades))
}
