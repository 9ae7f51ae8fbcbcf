package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dkempe/inventory-backend/api/controllers"
	"github.com/dkempe/inventory-backend/api/middleware"
	"github.com/dkempe/inventory-backend/internal/inventory"
	"github.com/dkempe/inventory-backend/pkg/config"
	"github.com/dkempe/inventory-backend/pkg/logger"
)

// RouterParams carries everything the HTTP surface needs. Dependency pingers
// may be nil when the binary does not wire that dependency.
type RouterParams struct {
	Config    *config.Config
	Logger    *logger.Logger
	Inventory inventory.Service

	DB       controllers.Pinger
	Redis    controllers.Pinger
	Kafka    controllers.Pinger
	Registry *prometheus.Registry
}

func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(p.Logger),
		middleware.RequestID(p.Logger),
		middleware.Trace(p.Logger, p.Config.App.ServiceName),
		middleware.Logging(p.Logger),
		middleware.CORS(p.Config.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(p.Config))
		r.Get("/ready", controllers.HealthReady(p.Config, p.Logger, map[string]controllers.Pinger{
			"db":    p.DB,
			"redis": p.Redis,
			"kafka": p.Kafka,
		}))
	})

	if p.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())

		r.Route("/inventory", func(r chi.Router) {
			r.Post("/", controllers.StockCreate(p.Inventory, p.Logger))
			r.Get("/", controllers.StockList(p.Inventory, p.Logger))
			r.Post("/reserve", controllers.StockReserve(p.Inventory, p.Logger))
			r.Post("/release", controllers.StockRelease(p.Inventory, p.Logger))

			r.Route("/{stockId}", func(r chi.Router) {
				r.Get("/", controllers.StockDetail(p.Inventory, p.Logger))
				r.Put("/", controllers.StockUpdate(p.Inventory, p.Logger))
				r.Delete("/", controllers.StockDelete(p.Inventory, p.Logger))
			})
		})

		r.Get("/reservations/{customerRef}", controllers.CustomerReservations(p.Inventory, p.Logger))
	})

	return r
}
