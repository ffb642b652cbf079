package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cillii/catalog-backend/api/controllers"
	"github.com/cillii/catalog-backend/api/middleware"
	"github.com/cillii/catalog-backend/internal/bulk"
	"github.com/cillii/catalog-backend/internal/cart"
	"github.com/cillii/catalog-backend/internal/classes"
	"github.com/cillii/catalog-backend/internal/orders"
	"github.com/cillii/catalog-backend/internal/settings"
	"github.com/cillii/catalog-backend/internal/uploads"
	"github.com/cillii/catalog-backend/pkg/config"
	"github.com/cillii/catalog-backend/pkg/db"
	"github.com/cillii/catalog-backend/pkg/logger"
	"github.com/cillii/catalog-backend/pkg/redis"
)

// Params carries everything the router wires together.
type Params struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    redis.Pinger
	Registry *prometheus.Registry

	Classes  *classes.Service
	Bulk     *bulk.Service
	Fetcher  *bulk.SheetFetcher
	Cart     *cart.Service
	Orders   *orders.Service
	Settings *settings.Service
	Uploads  *uploads.Store
}

func NewRouter(p Params) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis))
	})

	if p.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	}

	// Uploaded class videos are served straight off disk.
	fileServer := http.StripPrefix(p.Uploads.PublicRoute(), http.FileServer(http.Dir(p.Uploads.Dir())))
	r.Get(p.Uploads.PublicRoute()+"/*", fileServer.ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Session(logg, cfg.Cart.TTL))

		r.Route("/classes", func(r chi.Router) {
			r.Get("/", controllers.ListClasses(p.Classes, logg))
			r.Get("/{identifier}", controllers.GetClass(p.Classes, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminGate(cfg.Admin, logg))
				r.Get("/generate-id", controllers.GenerateSpecialID(p.Classes, logg))
				r.Post("/", controllers.CreateClass(p.Classes, p.Uploads, cfg.Uploads, logg))
				r.Put("/{id}", controllers.UpdateClass(p.Classes, p.Uploads, cfg.Uploads, logg))
				r.Delete("/{id}", controllers.DeleteClass(p.Classes, logg))
				r.Delete("/", controllers.DeleteAllClasses(p.Classes, logg))
				r.Post("/bulk-upload", controllers.BulkUpload(p.Bulk, cfg.Uploads, logg))
				r.Post("/sync-sheets", controllers.SyncFromSheets(p.Bulk, p.Fetcher, p.Settings, logg))
			})
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(p.Cart, logg))
			r.Put("/", controllers.ReplaceCart(p.Cart, logg))
			r.Delete("/", controllers.ClearCart(p.Cart, logg))
			r.Post("/items", controllers.AddToCart(p.Cart, logg))
			r.Put("/items/{productId}", controllers.SetCartQuantity(p.Cart, logg))
			r.Delete("/items/{productId}", controllers.RemoveFromCart(p.Cart, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.PlaceOrder(p.Orders, logg))
			r.Get("/last-id", controllers.LastOrderID(p.Orders, logg))
			r.Get("/history", controllers.OrderHistory(p.Orders, logg))
			r.Delete("/history/{orderId}", controllers.DeleteOrderFromHistory(p.Orders, logg))
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/columns", controllers.GetColumnVisibility(p.Settings, logg))
			r.Get("/sheets", controllers.GetSheetsSettings(p.Settings, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminGate(cfg.Admin, logg))
				r.Put("/columns", controllers.SaveColumnVisibility(p.Settings, logg))
				r.Put("/sheets", controllers.SaveSheetsSettings(p.Settings, logg))
			})
		})
	})

	return r
}
