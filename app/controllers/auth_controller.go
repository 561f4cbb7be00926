package controllers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ManuelReschke/PixelMarket/app/models"
	"github.com/ManuelReschke/PixelMarket/app/repository"
	"github.com/ManuelReschke/PixelMarket/internal/pkg/database"
	"github.com/ManuelReschke/PixelMarket/internal/pkg/session"
	"github.com/ManuelReschke/PixelMarket/internal/pkg/usercontext"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleAPIRegister creates a new account.
func HandleAPIRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	if existing, err := repo.GetByEmail(strings.ToLower(strings.TrimSpace(req.Email))); err == nil && existing != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict", "message": "Email is already registered"})
	}

	user, err := models.CreateUser(req.Username, strings.ToLower(strings.TrimSpace(req.Email)), req.Password)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}
	if err := repo.Create(user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create account"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":       user.ID,
		"username": user.Name,
		"email":    user.Email,
	})
}

// HandleAPILogin authenticates a user and starts a session.
func HandleAPILogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil || !user.CheckPassword(req.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid email or password"})
	}
	if !user.IsActive() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "Account is not active"})
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create session"})
	}
	sess.Set(usercontext.KeyUserID, user.ID)
	sess.Set(usercontext.KeyUsername, user.Name)
	sess.Set(usercontext.KeyIsAdmin, user.Role == models.ROLE_ADMIN)
	sess.Delete("user_plan")
	if err := sess.Save(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to save session"})
	}

	now := time.Now()
	user.LastLoginAt = &now
	_ = repo.Update(user)

	return c.JSON(fiber.Map{
		"id":       user.ID,
		"username": user.Name,
		"is_admin": user.Role == models.ROLE_ADMIN,
	})
}

// HandleAPILogout destroys the current session.
func HandleAPILogout(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err == nil {
		_ = sess.Destroy()
	}
	return c.JSON(fiber.Map{"status": "logged_out"})
}

// HandleGetAccount returns account information for the authenticated user.
func HandleGetAccount(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "login required"})
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load user"})
	}

	return c.JSON(fiber.Map{
		"id":                 user.ID,
		"username":           user.Name,
		"email":              user.Email,
		"bio":                user.Bio,
		"avatar_url":         user.AvatarURL,
		"plan":               userCtx.Plan,
		"is_admin":           user.Role == models.ROLE_ADMIN,
		"boost_credits":      user.BoostCredits,
		"has_payout_account": user.HasStripeAccount(),
		"created_at":         user.CreatedAt.UTC().Format(time.RFC3339),
		"last_login_at":      formatTimePtr(user.LastLoginAt),
	})
}

type waitlistRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// HandleWaitlistJoin records an email on the launch waitlist. Re-joining with
// a known email succeeds without a duplicate row.
func HandleWaitlistJoin(c *fiber.Ctx) error {
	var req waitlistRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": "A valid email is required"})
	}

	entry := models.WaitlistEntry{Email: strings.ToLower(strings.TrimSpace(req.Email))}
	err := database.GetDB().Clauses(clause.OnConflict{DoNothing: true}).Create(&entry).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to join waitlist"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "joined"})
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
