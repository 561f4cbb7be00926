package controllers

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// parseUintParam reads a numeric path parameter, 0 when absent or invalid.
func parseUintParam(c *fiber.Ctx, name string) uint {
	raw := c.Params(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(v)
}

// parseUintQuery reads a numeric query parameter, 0 when absent or invalid.
func parseUintQuery(c *fiber.Ctx, name string) uint {
	raw := c.Query(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(v)
}

// pagination reads page/per_page query params into offset and limit.
func pagination(c *fiber.Ctx) (offset, limit int) {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit = c.QueryInt("per_page", 24)
	if limit < 1 || limit > 100 {
		limit = 24
	}
	return (page - 1) * limit, limit
}
