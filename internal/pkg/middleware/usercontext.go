package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PixelMarket/app/models"
	"github.com/ManuelReschke/PixelMarket/internal/pkg/database"
	"github.com/ManuelReschke/PixelMarket/internal/pkg/session"
	"github.com/ManuelReschke/PixelMarket/internal/pkg/usercontext"
)

// UserContextMiddleware resolves the session into an explicit UserContext
// value once per request so handlers never do ambient session lookups.
func UserContextMiddleware(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		c.Locals("USER_CONTEXT", usercontext.UserContext{})
		c.Locals(usercontext.KeyFromProtected, false)
		return c.Next()
	}

	userID := sess.Get(usercontext.KeyUserID)
	if userID == nil {
		c.Locals("USER_CONTEXT", usercontext.UserContext{})
		c.Locals(usercontext.KeyFromProtected, false)
		return c.Next()
	}

	username := session.GetSessionValue(c, usercontext.KeyUsername)
	isAdmin := sess.Get(usercontext.KeyIsAdmin)

	// Session-first plan resolution; fall back to subscription state once.
	plan := session.GetSessionValue(c, "user_plan")
	if plan == "" {
		plan = models.SubscriptionPlanFree
		if db := database.GetDB(); db != nil {
			var subs []models.Subscription
			if err := db.Where("user_id = ?", userID.(uint)).Find(&subs).Error; err == nil {
				for _, sub := range subs {
					if sub.IsEntitling() {
						plan = sub.Plan
						break
					}
				}
			}
		}
		_ = session.SetSessionValue(c, "user_plan", plan)
	}

	userCtx := usercontext.UserContext{
		UserID:     userID.(uint),
		Username:   username,
		IsLoggedIn: true,
		IsAdmin:    isAdmin != nil && isAdmin.(bool),
		Plan:       plan,
	}
	c.Locals("USER_CONTEXT", userCtx)
	c.Locals(usercontext.KeyFromProtected, true)
	c.Locals(usercontext.KeyUserID, userID.(uint))
	c.Locals(usercontext.KeyUsername, username)
	c.Locals(usercontext.KeyIsAdmin, userCtx.IsAdmin)

	return c.Next()
}
