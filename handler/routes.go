package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phbpx/prits"
	"github.com/phbpx/prits/auth"
	"github.com/phbpx/prits/catalog"
	"github.com/phbpx/prits/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riandyrn/otelchi"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
)

// Config holds everything the router needs.
type Config struct {
	ServiceName      string
	Log              *otelzap.SugaredLogger
	Health           StatusCheck
	Enquiries        prits.EnquiryStore
	ServiceEnquiries prits.ServiceEnquiryStore
	Testimonials     prits.TestimonialStore
	Stats            prits.StatsStore
	Catalog          catalog.Catalog
	Auth             *auth.Authenticator
	Guard            auth.Guard
	Notices          Dispatcher
	SecureCookie     bool
}

// Routes assembles the API router.
func Routes(cfg Config) http.Handler {
	enquiries := NewEnquiryHandler(cfg.Enquiries, cfg.Notices, cfg.Log)
	serviceEnquiries := NewServiceEnquiryHandler(cfg.ServiceEnquiries, cfg.Notices, cfg.Log)
	testimonials := NewTestimonialHandler(cfg.Testimonials, cfg.Log)
	stats := NewStatsHandler(cfg.Stats, cfg.Log)
	plans := NewPlanHandler(cfg.Catalog)
	sessions := NewAuthHandler(cfg.Auth, cfg.SecureCookie, cfg.Log)
	health := NewHealthHandler(cfg.Health, cfg.Log)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(otelchi.Middleware(cfg.ServiceName, otelchi.WithChiRoutes(r)))
	r.Use(metrics.Middleware)

	r.Get("/health", health.Check)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/plans", plans.List)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", sessions.Login)
		r.Post("/logout", sessions.Logout)
	})

	// Public
	r.Post("/enquiries", enquiries.Create)
	r.Post("/service-enquiries", serviceEnquiries.Create)
	r.Get("/testimonials", testimonials.Public)

	// Session-gated
	gated := r.With(Authorized(cfg.Guard))

	gated.Get("/enquiries", enquiries.List)
	gated.Patch("/enquiries/{id}/status", enquiries.UpdateStatus)
	gated.Delete("/enquiries/{id}", enquiries.Delete)

	gated.Get("/service-enquiries", serviceEnquiries.List)
	gated.Patch("/service-enquiries/{id}/status", serviceEnquiries.UpdateStatus)
	gated.Delete("/service-enquiries/{id}", serviceEnquiries.Delete)

	gated.Post("/testimonials", testimonials.Create)
	gated.Put("/testimonials", testimonials.Update)
	gated.Delete("/testimonials", testimonials.Delete)
	gated.Post("/testimonials/{id}/toggle", testimonials.Toggle)

	gated.Get("/admin/testimonials", testimonials.All)
	gated.Get("/admin/stats", stats.Dashboard)

	return r
}
