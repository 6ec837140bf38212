package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/morocclubs/clubs-api/internal/auth"
	"github.com/morocclubs/clubs-api/internal/config"
	"github.com/morocclubs/clubs-api/internal/handlers"
	"github.com/morocclubs/clubs-api/internal/metrics"
	"github.com/morocclubs/clubs-api/internal/middleware"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	Health      *handlers.HealthHandler
	Clubs       *handlers.ClubHandler
	Events      *handlers.EventHandler
	Application *handlers.ApplicationHandler
	Content     *handlers.ContentHandler
	Analytics   *handlers.AnalyticsHandler
}

func Setup(
	app *fiber.App,
	cfg *config.Config,
	tokens *auth.TokenService,
	resolver middleware.PrincipalResolver,
	m *metrics.Metrics,
	h Handlers,
) {
	authn := middleware.Authenticate(cfg, tokens, resolver)
	admin := middleware.AdminRequired()

	app.Get("/health", h.Health.Check)
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	// Auth
	authGroup := app.Group("/auth")
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/admin-login", h.Auth.AdminLogin)
	authGroup.Get("/me", authn, h.Auth.Me)
	authGroup.Post("/logout", authn, h.Auth.Logout)

	api := app.Group("/api")

	// Users
	api.Put("/users/me", authn, h.Auth.UpdateMe)
	api.Get("/users/me/memberships", authn, h.Clubs.MyMemberships)

	// Clubs
	api.Get("/clubs", h.Clubs.List)
	api.Get("/clubs/:id", h.Clubs.Get)
	api.Post("/clubs", authn, admin, h.Clubs.Create)
	api.Put("/clubs/:id", authn, admin, h.Clubs.Update)
	api.Delete("/clubs/:id", authn, admin, h.Clubs.Delete)
	api.Post("/clubs/:id/join", authn, h.Clubs.Join)
	api.Post("/clubs/:id/leave", authn, h.Clubs.Leave)
	api.Get("/clubs/:id/members", h.Clubs.Members)
	api.Get("/clubs/:id/reviews", h.Clubs.Reviews)
	api.Post("/clubs/:id/reviews", authn, h.Clubs.AddReview)
	api.Get("/clubs/:id/gallery", h.Clubs.Gallery)
	api.Post("/clubs/:id/gallery", authn, h.Clubs.AddGalleryImage)
	api.Get("/clubs/:id/events", h.Events.ClubEvents)

	// Events
	api.Get("/events", h.Events.List)
	api.Get("/events/:id", h.Events.Get)
	api.Post("/events", authn, admin, h.Events.Create)
	api.Put("/events/:id", authn, admin, h.Events.Update)
	api.Get("/events/:id/participants", authn, admin, h.Events.Participants)
	api.Post("/events/:id/register", authn, h.Events.Register)
	api.Delete("/events/:id/register", authn, h.Events.Unregister)

	// Applications
	api.Post("/applications", h.Application.Submit)
	api.Get("/applications", authn, admin, h.Application.List)
	api.Get("/applications/:id", authn, admin, h.Application.Get)
	api.Put("/applications/:id", authn, admin, h.Application.Review)

	// Public content
	api.Get("/content/landing", h.Content.Landing)
	api.Get("/content/join-config", h.Content.JoinConfig)
	api.Get("/news", h.Content.News)
	api.Get("/news/:slug", h.Content.Article)

	api.Get("/analytics/dashboard", authn, admin, h.Analytics.Dashboard)

	// Admin panel (authenticated + admin required)
	adminGroup := api.Group("/admin", authn, admin)
	adminGroup.Post("/users", h.Auth.CreateUser)
	adminGroup.Get("/content/landing", h.Content.AdminLanding)
	adminGroup.Post("/content/landing", h.Content.CreateSection)
	adminGroup.Put("/content/landing/:key", h.Content.UpdateSection)
	adminGroup.Delete("/content/landing/:key", h.Content.DeleteSection)
	adminGroup.Put("/content/join-config", h.Content.SaveJoinConfig)
	adminGroup.Get("/news", h.Content.AdminNews)
	adminGroup.Post("/news", h.Content.CreateNews)
	adminGroup.Put("/news/:id", h.Content.UpdateNews)
	adminGroup.Delete("/news/:id", h.Content.DeleteNews)
}
