package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wallpix/backend/internal/middleware"
	"github.com/wallpix/backend/internal/services"
	"github.com/wallpix/backend/pkg/utils"
)

// SharesHandler serves unauthenticated share-link resolution. The editable
// and read-only link flavors hit the same resolver; the distinction is a
// client routing convention.
type SharesHandler struct {
	Shares *services.ShareService
}

func NewSharesHandler(shares *services.ShareService) *SharesHandler {
	return &SharesHandler{Shares: shares}
}

func (h *SharesHandler) Resolve(c *fiber.Ctx) error {
	token := c.Params("token")

	view, err := h.Shares.Resolve(c.Context(), token)
	if errors.Is(err, services.ErrNotFound) {
		middleware.RecordShareResolve("not_found")
		return utils.Error(c, fiber.StatusNotFound, "share not found")
	}
	if err != nil {
		middleware.RecordShareResolve("error")
		return utils.Error(c, fiber.StatusInternalServerError, "failed resolving share")
	}

	middleware.RecordShareResolve("resolved")
	return utils.Success(c, fiber.StatusOK, view)
}
