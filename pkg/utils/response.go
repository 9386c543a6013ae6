package utils

import "github.com/gofiber/fiber/v2"

func Success(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// ErrorWithDetails is for caller errors that need structured context in the
// body, like quota failures the UI turns into an upgrade prompt.
func ErrorWithDetails(c *fiber.Ctx, status int, message string, details fiber.Map) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
		"details": details,
	})
}

func Paginated(c *fiber.Ctx, data interface{}, p PageParams, total int64) error {
	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    data,
		"pagination": fiber.Map{
			"page":       p.Page,
			"limit":      p.Limit,
			"total":      total,
			"totalPages": totalPages,
		},
	})
}
