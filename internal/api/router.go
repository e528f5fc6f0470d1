package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/worshipops/rosterd/internal/api/handler"
	apimw "github.com/worshipops/rosterd/internal/api/middleware"
	"github.com/worshipops/rosterd/internal/queue"
	"github.com/worshipops/rosterd/internal/roster"
	"github.com/worshipops/rosterd/internal/worker"
)

// NewRouter wires the chi router, attaches all middleware, and registers
// every route. It is the single source of truth for the HTTP surface area.
func NewRouter(
	svc *roster.Service,
	scanner *worker.ReminderScanner,
	q *queue.EventQueue,
	reg prometheus.Gatherer,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- global middleware (applied to every route) ---
	r.Use(chimw.Recoverer)          // recover panics, return 500
	r.Use(chimw.RealIP)             // trust X-Forwarded-For / X-Real-IP
	r.Use(chimw.RequestSize(1<<20)) // 1 MB max request body
	r.Use(apimw.CorrelationID)      // X-Correlation-ID inject / echo
	r.Use(apimw.RequestLogger(logger))

	// --- handler instances ---
	sh := handler.NewServiceHandler(svc, logger)
	uh := handler.NewUserHandler(svc, logger)
	rh := handler.NewReminderHandler(scanner, logger)
	mh := handler.NewMetricsHandler(q)
	hh := handler.NewHealthHandler()

	// --- routes ---
	r.Get("/health", hh.Health)

	// Raw Prometheus scrape endpoint (for Prometheus server / Grafana)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		// Services — note: /upcoming must be registered before /{id}
		// so chi does not treat the literal string "upcoming" as an ID.
		r.Get("/services/upcoming", sh.ListUpcoming)
		r.Post("/services", sh.Create)
		r.Get("/services/{id}", sh.GetByID)
		r.Put("/services/{id}/assignments", sh.UpdateAssignments)
		r.Put("/services/{id}/songs", sh.SetSongList)

		// Users
		r.Post("/users", uh.Create)
		r.Get("/users", uh.List)
		r.Get("/users/{id}", uh.GetByID)

		// Manual reminder scan trigger
		r.Post("/reminders/run", rh.Run)

		// JSON metrics snapshot
		r.Get("/metrics", mh.GetMetrics)
	})

	return r
}
