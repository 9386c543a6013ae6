package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/wallpix/backend/internal/middleware"
	"github.com/wallpix/backend/internal/models"
	"github.com/wallpix/backend/internal/services"
	"github.com/wallpix/backend/pkg/utils"
)

type UpgradesHandler struct {
	DB       *gorm.DB
	Upgrades *services.UpgradeService
}

func NewUpgradesHandler(db *gorm.DB, upgrades *services.UpgradeService) *UpgradesHandler {
	return &UpgradesHandler{DB: db, Upgrades: upgrades}
}

type upgradeRequestBody struct {
	Plan string `json:"plan"`
}

func (h *UpgradesHandler) Request(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req upgradeRequestBody
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Plan = strings.ToLower(strings.TrimSpace(req.Plan))

	request, err := h.Upgrades.Request(currentUser, req.Plan)
	switch {
	case errors.Is(err, services.ErrInvalidPlan):
		return utils.Error(c, fiber.StatusBadRequest, "requested plan is not upgrade-eligible")
	case errors.Is(err, services.ErrNotUpgrade):
		return utils.Error(c, fiber.StatusBadRequest, "requested plan must exceed current plan")
	case errors.Is(err, services.ErrAlreadyPending):
		return utils.Error(c, fiber.StatusConflict, "an upgrade request is already pending")
	case err != nil:
		return utils.Error(c, fiber.StatusInternalServerError, "failed creating upgrade request")
	}

	return utils.Success(c, fiber.StatusCreated, request)
}

func (h *UpgradesHandler) Status(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	status, err := h.Upgrades.StatusFor(currentUser.Email)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed fetching upgrade status")
	}

	return utils.Success(c, fiber.StatusOK, status)
}

func (h *UpgradesHandler) Cancel(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	err := h.Upgrades.Cancel(currentUser.Email)
	if errors.Is(err, services.ErrNoPendingRequest) {
		return utils.Error(c, fiber.StatusNotFound, "no pending upgrade request")
	}
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed cancelling upgrade request")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"cancelled": true})
}

// AdminList returns upgrade requests, optionally filtered by status.
func (h *UpgradesHandler) AdminList(c *fiber.Ctx) error {
	p := utils.ParsePageParams(c)

	query := h.DB.Model(&models.UpgradeRequest{})
	if status := strings.ToLower(strings.TrimSpace(c.Query("status"))); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed counting upgrade requests")
	}

	var requests []models.UpgradeRequest
	if err := p.Scope(query.Order("created_at DESC")).Find(&requests).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing upgrade requests")
	}

	return utils.Paginated(c, requests, p, total)
}

func (h *UpgradesHandler) Approve(c *fiber.Ctx) error {
	requestID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request id")
	}

	request, err := h.Upgrades.Approve(requestID)
	switch {
	case errors.Is(err, services.ErrNotFound):
		return utils.Error(c, fiber.StatusNotFound, "upgrade request not found")
	case errors.Is(err, services.ErrAlreadyProcessed):
		return utils.Error(c, fiber.StatusConflict, "upgrade request already processed")
	case err != nil:
		return utils.Error(c, fiber.StatusInternalServerError, "failed approving upgrade request")
	}

	middleware.RecordUpgradeDecision("approved")
	return utils.Success(c, fiber.StatusOK, request)
}

func (h *UpgradesHandler) Reject(c *fiber.Ctx) error {
	requestID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request id")
	}

	request, err := h.Upgrades.Reject(requestID)
	switch {
	case errors.Is(err, services.ErrNotFound):
		return utils.Error(c, fiber.StatusNotFound, "upgrade request not found")
	case errors.Is(err, services.ErrAlreadyProcessed):
		return utils.Error(c, fiber.StatusConflict, "upgrade request already processed")
	case err != nil:
		return utils.Error(c, fiber.StatusInternalServerError, "failed rejecting upgrade request")
	}

	middleware.RecordUpgradeDecision("rejected")
	return utils.Success(c, fiber.StatusOK, request)
}
