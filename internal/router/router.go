package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mw "github.com/driftwood-dev/driftwood/internal/middleware"
	"github.com/driftwood-dev/driftwood/internal/middleware/metrics"
	rl "github.com/driftwood-dev/driftwood/internal/ratelimiter"
	"github.com/driftwood-dev/driftwood/internal/setup"
)

// New builds the chi router with all routes and middleware.
// Rate limiters attached with .Use limit all endpoints of that group combined.
func New(deps *setup.Dependencies) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(metrics.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{deps.Config.Public.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Ingest-Token"},
		AllowCredentials: true,
	}))

	// JSON API only, nothing should render
	backendCSP := "default-src 'none'; frame-ancestors 'none'"
	r.Use(mw.SecurityHeadersWithCSP(deps.Config.Public.SecureCookies, backendCSP))

	h := deps.Handler
	authMw := deps.AuthMiddleware

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(v1 chi.Router) {
		// Public reads, rate limited by IP
		v1.Group(func(public chi.Router) {
			public.Use(authMw.OptionalAuth())
			public.Use(mw.RateLimit(rl.NewKeyed(10, 20), mw.GetIP))
			public.Use(mw.GlobalRateLimit(rl.NewKeyed(1000, 1000)))

			public.Get("/threads", h.Feed)
			public.Get("/threads/{thread}", h.GetThread)
			public.Get("/categories", h.ListCategories)
			public.Get("/categories/{category}", h.GetCategory)
			public.Get("/newsletters", h.ListNewsletters)
		})

		// Newsletter ingest authenticates with its own token, not a user JWT
		v1.Group(func(ingest chi.Router) {
			ingest.Use(mw.RateLimit(rl.Every(time.Second, 5), mw.GetIP))
			ingest.Post("/newsletters/ingest", h.IngestIssue)
		})

		// Logged-in routes
		v1.Group(func(authed chi.Router) {
			authed.Use(authMw.NeedAuth())
			authed.Use(mw.RateLimit(rl.NewKeyed(100, 100), mw.GetUserIDFromContext))

			authed.Post("/threads", h.CreateThread)
			authed.Put("/threads/{thread}", h.EditThread)
			authed.Delete("/threads/{thread}", h.DeleteThread)

			authed.Post("/threads/{thread}/like", h.LikeThread)
			authed.Delete("/threads/{thread}/like", h.UnlikeThread)

			authed.Post("/threads/{thread}/replies", h.CreateReply)
			authed.Delete("/replies/{reply}", h.DeleteReply)

			authed.Get("/drafts", h.GetDraft)
			authed.Put("/drafts", h.SaveDraft)
			authed.Delete("/drafts", h.DiscardDraft)
			authed.Post("/drafts/pending-clear", h.MarkDraftPendingClear)

			authed.Get("/notifications", h.ListNotifications)
			authed.Post("/notifications/read-all", h.MarkAllNotificationsRead)
			authed.Post("/notifications/{notification}/read", h.MarkNotificationRead)

			authed.Post("/reports", h.CreateReport)
		})

		// Admin routes
		v1.Group(func(admin chi.Router) {
			admin.Use(authMw.AdminOnly())

			admin.Post("/categories", h.CreateCategory)
			admin.Delete("/categories/{category}", h.DeleteCategory)

			admin.Post("/newsletters", h.CreateNewsletter)

			admin.Post("/threads/{thread}/lock", h.ToggleLockedThread)
			admin.Post("/threads/{thread}/pin", h.TogglePinnedThread)

			admin.Get("/reports", h.ListReports)
		})
	})

	return r
}
