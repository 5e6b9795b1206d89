package router

import (
	"outlethub-api/internal/handler"
	"outlethub-api/internal/middleware"
	"outlethub-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Config holds the configuration for creating a router. Route registration
// happens once here; nothing mutates the table afterwards.
type Config struct {
	StatusHandler   *handler.StatusHandler
	OutletHandler   *handler.OutletHandler
	AuthHandler     *handler.AuthHandler
	StatsHandler    *handler.StatsHandler
	ProductHandler  *handler.ProductHandler
	MutationHandler *handler.MutationHandler
	AdminHandler    *handler.AdminHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/api/status", cfg.StatusHandler.Status)

	r.Route("/api/v1", func(r chi.Router) {
		// PUBLIC routes (no auth required)
		r.Post("/outlet/login", cfg.OutletHandler.Login)
		r.Post("/outlet/register", cfg.OutletHandler.Register)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/local/customer/register", cfg.AuthHandler.CustomerRegister)
			r.Post("/local/seller/register", cfg.AuthHandler.SellerRegister)
			r.Post("/create-outlet/{userId}", cfg.AuthHandler.CreateOutletForSeller)
			r.Post("/create-outlets-for-all-sellers", cfg.AuthHandler.CreateOutletsForAllSellers)
		})

		r.Post("/outlets/{id}/update-stats", cfg.StatsHandler.UpdateStats)
		r.Post("/outlets/recalculate-all-stats", cfg.StatsHandler.RecalculateAllStats)

		r.Post("/mutation/{name}", cfg.MutationHandler.Dispatch)

		// Product mutation path feeding the statistics aggregator
		r.Route("/products", func(r chi.Router) {
			r.Post("/", cfg.ProductHandler.Create)
			r.Get("/{id}", cfg.ProductHandler.Get)
			r.Put("/{id}", cfg.ProductHandler.Update)
			r.Delete("/{id}", cfg.ProductHandler.Delete)
		})

		r.Get("/admin/stats", cfg.AdminHandler.GetStats)

		// OUTLET-SCOPED routes (outlet-kind bearer token required)
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthMiddleware.RequireKind(service.KindOutlet))

			r.Get("/outlet/me", cfg.OutletHandler.Me)
			r.Put("/outlet/{id}", cfg.OutletHandler.Update)
		})
	})

	return r
}
