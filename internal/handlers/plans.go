package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wallpix/backend/internal/plans"
	"github.com/wallpix/backend/pkg/utils"
)

// ListPlans exposes the static plan registry for pricing display.
func ListPlans(c *fiber.Ctx) error {
	return utils.Success(c, fiber.StatusOK, plans.All())
}
