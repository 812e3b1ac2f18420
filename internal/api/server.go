package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/edvin/retailpos/internal/api/handler"
	mw "github.com/edvin/retailpos/internal/api/middleware"
	"github.com/edvin/retailpos/internal/config"
	"github.com/edvin/retailpos/internal/core"
)

// ReadyCheck reports whether a backing dependency is reachable.
type ReadyCheck func(ctx context.Context) error

// Options carries the optional collaborators of the server. A nil OAuth
// disables the GHL auth routes; a nil Events leaves /ws/events unregistered.
type Options struct {
	OAuth  handler.OAuthFlow
	Events http.Handler
	Checks map[string]ReadyCheck
}

type Server struct {
	router   chi.Router
	logger   zerolog.Logger
	services *core.Services
	cfg      *config.Config
	opts     Options
}

func NewServer(logger zerolog.Logger, cfg *config.Config, services *core.Services, opts Options) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		logger:   logger,
		services: services,
		cfg:      cfg,
		opts:     opts,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
	s.router.Use(mw.CORS(s.cfg.CORSOrigins))
}

func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint
	s.router.Handle("/metrics", promhttp.Handler())

	// Health check endpoints
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	// Register catalog
	inventory := handler.NewInventory(s.services.Inventory)
	s.router.Get("/inventory", inventory.Get)
	s.router.Post("/update-inventory", inventory.Update)

	// GHL OAuth
	auth := handler.NewAuth(s.opts.OAuth, !s.cfg.DevMode)
	s.router.Get("/auth", auth.Start)
	s.router.Get("/callback", auth.Callback)
	s.router.Get("/auth/status", auth.Status)
	s.router.Post("/auth/refresh", auth.Refresh)

	// Stripe Terminal
	terminal := handler.NewTerminal(s.services.Terminal)
	s.router.Post("/connection_token", terminal.ConnectionToken)
	s.router.Post("/create_payment_intent", terminal.CreatePaymentIntent)
	s.router.Post("/capture_payment_intent", terminal.CapturePaymentIntent)
	s.router.Post("/cancel_payment_intent", terminal.CancelPaymentIntent)
	s.router.Route("/terminal", func(r chi.Router) {
		r.Get("/readers", terminal.Readers)
		r.Get("/locations", terminal.Locations)
		r.Get("/diagnostics", terminal.Diagnostics)
		r.Post("/readers/{id}/process", terminal.ProcessPayment)
		r.Post("/readers/{id}/cancel", terminal.CancelAction)
		r.Post("/readers/{id}/simulate", terminal.Simulate)
	})

	// Payments
	payment := handler.NewPayment(s.services.Payment)
	s.router.Post("/log-payment", payment.Log)
	s.router.Get("/payments", payment.List)
	s.router.Get("/payments/export.csv", payment.ExportCSV)

	s.router.Route("/mongodb", func(r chi.Router) {
		// Folders
		folder := handler.NewFolder(s.services.Folder)
		r.Get("/folders", folder.List)
		r.Post("/folders", folder.Create)
		r.Put("/folders/reorder", folder.Reorder)
		r.Post("/folders/recalculate", folder.Recalculate)
		r.Get("/folders/{id}", folder.Get)
		r.Put("/folders/{id}", folder.Update)
		r.Delete("/folders/{id}", folder.Delete)
		r.Get("/folders/{id}/products", folder.ListProducts)

		// Products
		product := handler.NewProduct(s.services.Product)
		r.Get("/products", product.List)
		r.Post("/products", product.Create)
		r.Get("/products/{id}", product.Get)
		r.Put("/products/{id}", product.Update)
		r.Delete("/products/{id}", product.Delete)
		r.Patch("/products/{id}/folder", product.Move)
		r.Post("/products/{id}/sell", product.Sell)
	})

	if s.opts.Events != nil {
		s.router.Handle("/ws/events", s.opts.Events)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	for name, check := range s.opts.Checks {
		if err := check(ctx); err != nil {
			checks[name] = err.Error()
			healthy = false
		} else {
			checks[name] = "ok"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(checks)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
