package router

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/ManuelReschke/PixelMarket/app/controllers"
	"github.com/ManuelReschke/PixelMarket/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{
		Max: 120,
		// Webhooks and cron sweeps must never be throttled away.
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/webhooks") || strings.HasPrefix(c.Path(), "/api/cron")
		},
	}))

	api.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "PixelMarket API"})
	})

	// Auth and account
	api.Post("/auth/register", controllers.HandleAPIRegister)
	api.Post("/auth/login", controllers.HandleAPILogin)
	api.Post("/auth/logout", controllers.HandleAPILogout)
	api.Get("/account", middleware.RequireAPISessionAuth, controllers.HandleGetAccount)
	api.Post("/waitlist", controllers.HandleWaitlistJoin)

	// Public catalogue
	api.Get("/listings", controllers.HandleBrowseListings)
	api.Get("/listings/:uuid", controllers.HandleGetListing)

	// Seller listing management
	api.Post("/listings", middleware.RequireAPISessionAuth, controllers.HandleCreateListing)
	api.Put("/listings/:id", middleware.RequireAPISessionAuth, controllers.HandleUpdateListing)
	api.Post("/listings/:id/boost", middleware.RequireAPISessionAuth, controllers.HandleBoostListing)
	api.Post("/listings/:id/delete", middleware.RequireAPISessionAuth, controllers.HandleScheduleListingDeletion)
	api.Post("/listings/:id/restore", middleware.RequireAPISessionAuth, controllers.HandleCancelListingDeletion)
	api.Get("/my/listings", middleware.RequireAPISessionAuth, controllers.HandleMyListings)

	// Votes and wishlist
	api.Post("/listings/:id/vote", middleware.RequireAPISessionAuth, controllers.HandleVoteListing)
	api.Post("/users/:id/vote", middleware.RequireAPISessionAuth, controllers.HandleVoteProfile)
	api.Get("/wishlist", middleware.RequireAPISessionAuth, controllers.HandleGetWishlist)
	api.Post("/listings/:id/wishlist", middleware.RequireAPISessionAuth, controllers.HandleToggleWishlist)

	// Checkout and payouts
	api.Post("/checkout", middleware.RequireAPISessionAuth, controllers.HandleCheckout)
	api.Get("/stripe/connect", middleware.RequireAPISessionAuth, controllers.HandleStripeConnect)
	api.Get("/my/purchases", middleware.RequireAPISessionAuth, controllers.HandleMyPurchases)
	api.Get("/my/sales", middleware.RequireAPISessionAuth, controllers.HandleMySales)

	// Subscriptions
	api.Post("/subscribe", middleware.RequireAPISessionAuth, controllers.HandleSubscribe)
	api.Post("/subscribe/cancel", middleware.RequireAPISessionAuth, controllers.HandleSubscribeCancel)
	api.Get("/subscription", middleware.RequireAPISessionAuth, controllers.HandleGetSubscription)

	// Provider webhooks (authenticated by signature, not session)
	api.Post("/webhooks/stripe", controllers.HandleStripeWebhook)

	// Support tickets
	api.Post("/tickets", middleware.RequireAPISessionAuth, controllers.HandleCreateTicket)
	api.Get("/tickets", middleware.RequireAPISessionAuth, controllers.HandleMyTickets)
	api.Get("/tickets/:id", middleware.RequireAPISessionAuth, controllers.HandleGetTicket)
	api.Post("/tickets/:id/messages", middleware.RequireAPISessionAuth, controllers.HandleTicketMessage)
	api.Post("/tickets/:id/close", middleware.RequireAPISessionAuth, controllers.HandleCloseTicket)
	api.Post("/tickets/:id/reopen", middleware.RequireAPISessionAuth, controllers.HandleReopenTicket)

	// Notifications
	api.Get("/notifications", middleware.RequireAPISessionAuth, controllers.HandleListNotifications)
	api.Post("/notifications/:id/read", middleware.RequireAPISessionAuth, controllers.HandleMarkNotificationRead)
	api.Post("/notifications/read-all", middleware.RequireAPISessionAuth, controllers.HandleMarkAllNotificationsRead)

	// Admin
	admin := api.Group("/admin", middleware.RequireAPIAdmin)
	admin.Get("/stats", controllers.HandleAdminStats)
	admin.Get("/overview", controllers.HandleAdminOverview)
	admin.Get("/tickets", controllers.HandleAdminListTickets)

	// Externally triggered cleanup sweeps
	cron := api.Group("/cron", middleware.CronAuthMiddleware)
	cron.Get("/cleanup-assets", controllers.HandleCronCleanupAssets)
	cron.Get("/cleanup-tickets", controllers.HandleCronCleanupTickets)
	cron.Get("/cleanup-notifications", controllers.HandleCronCleanupNotifications)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
