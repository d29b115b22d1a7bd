package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/membify/membify-backend/internal/config"
	"github.com/membify/membify-backend/internal/handlers"
	"github.com/membify/membify-backend/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	communityHandler *handlers.CommunityHandler,
	planHandler *handlers.PlanHandler,
	memberHandler *handlers.MemberHandler,
	broadcastHandler *handlers.BroadcastHandler,
	cronHandler *handlers.CronHandler,
	searchHandler *handlers.SearchHandler,
	billingHandler *handlers.BillingHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Health (public)
	api.Get("/health", healthHandler.Check)

	// Public discovery (consumed by the Mini-App search screen)
	api.Get("/search/communities", searchHandler.Communities)

	// Auth — stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Owner panel (JWT required)
	owner := api.Group("/communities", middleware.JWTProtected(cfg))
	owner.Post("/", communityHandler.Create)
	owner.Get("/", communityHandler.List)
	owner.Put("/:community_id", communityHandler.Update)

	owner.Post("/:community_id/plans", planHandler.Create)
	owner.Get("/:community_id/plans", planHandler.List)
	owner.Put("/:community_id/plans/:plan_id", planHandler.Update)
	owner.Delete("/:community_id/plans/:plan_id", planHandler.Delete)

	owner.Get("/:community_id/members", memberHandler.List)
	owner.Post("/:community_id/members", memberHandler.Upsert)
	owner.Post("/:community_id/members/activate", memberHandler.Activate)
	owner.Delete("/:community_id/members/:member_id", memberHandler.Remove)

	owner.Get("/:community_id/payment-methods", billingHandler.ListPaymentMethods)
	owner.Post("/:community_id/payment-methods", billingHandler.CreatePaymentMethod)
	owner.Patch("/:community_id/payment-methods/:method_id", billingHandler.TogglePaymentMethod)

	owner.Post("/:community_id/broadcast", broadcastHandler.Dispatch)
	owner.Post("/:community_id/subscriptions/check", cronHandler.CheckCommunity)

	// Owner's own platform subscription and cron status (JWT required)
	api.Get("/subscriptions/me", middleware.JWTProtected(cfg), billingHandler.MySubscription)
	api.Get("/subscriptions/cron-status", middleware.JWTProtected(cfg), cronHandler.Status)

	// Admin panel (JWT + admin required)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Post("/subscriptions/check", cronHandler.CheckAll)
}
