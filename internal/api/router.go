package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fastprodman/pointledger/internal/infra/metrics"
)

// Services is everything the router serves. Metrics, Gatherer and Logger are
// optional.
type Services struct {
	Ledger   Ledger
	History  History
	Tokens   TokenVerifier
	Metrics  *metrics.HTTP
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// NewRouter constructs the chi router with all API endpoints registered.
func NewRouter(s Services) http.Handler {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	gatherer := s.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	h := NewHandler(s.Ledger, s.History, logger)
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(accessLog(logger))
	r.Use(s.Metrics.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(authenticate(s.Tokens))

		r.Get("/admin/members", h.MembersHandler)
		r.Post("/admin/points", h.AssignPointsHandler)
		r.Get("/history", h.HistoryHandler)

		r.Route("/users/{userId}", func(r chi.Router) {
			r.Get("/balance", h.BalanceHandler)
			r.Get("/activity", h.ActivityHandler)
			r.Post("/redemptions", h.RedeemHandler)
		})
	})

	return r
}
