package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/wallpix/backend/internal/middleware"
	"github.com/wallpix/backend/internal/models"
	"github.com/wallpix/backend/internal/services"
	"github.com/wallpix/backend/pkg/utils"
)

type DraftsHandler struct {
	DB           *gorm.DB
	Drafts       *services.DraftService
	ShareBaseURL string
}

func NewDraftsHandler(db *gorm.DB, drafts *services.DraftService, shareBaseURL string) *DraftsHandler {
	return &DraftsHandler{DB: db, Drafts: drafts, ShareBaseURL: shareBaseURL}
}

type draftRequest struct {
	Data models.RawPayload `json:"data"`
}

func (h *DraftsHandler) shareLinks(draft *models.Draft) fiber.Map {
	if draft.ShareToken == nil {
		return nil
	}
	return fiber.Map{
		"editable": fmt.Sprintf("%s/shared/%s", h.ShareBaseURL, *draft.ShareToken),
		"readOnly": fmt.Sprintf("%s/view/%s", h.ShareBaseURL, *draft.ShareToken),
	}
}

func (h *DraftsHandler) Create(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req draftRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if len(req.Data) == 0 {
		return utils.Error(c, fiber.StatusBadRequest, "data is required")
	}

	draft, err := h.Drafts.Create(currentUser, req.Data)
	if err != nil {
		var quotaErr *services.QuotaError
		if errors.As(err, &quotaErr) {
			middleware.RecordDraftCreate("quota_exceeded")
			return utils.ErrorWithDetails(c, fiber.StatusForbidden, "draft quota reached", fiber.Map{
				"plan":              quotaErr.Plan,
				"draftLimit":        quotaErr.DraftLimit,
				"currentDraftCount": quotaErr.DraftCount,
			})
		}
		middleware.RecordDraftCreate("error")
		return utils.Error(c, fiber.StatusInternalServerError, "failed creating draft")
	}

	middleware.RecordDraftCreate("created")
	return utils.Success(c, fiber.StatusCreated, fiber.Map{
		"draft":      draft,
		"shareLinks": h.shareLinks(draft),
	})
}

func (h *DraftsHandler) List(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	drafts, err := h.Drafts.List(currentUser.Email)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing drafts")
	}

	return utils.Success(c, fiber.StatusOK, drafts)
}

func (h *DraftsHandler) Get(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	draftID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid draft id")
	}

	draft, err := h.Drafts.Get(draftID, currentUser.Email)
	if errors.Is(err, services.ErrNotFound) {
		return utils.Error(c, fiber.StatusNotFound, "draft not found")
	}
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed fetching draft")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"draft":      draft,
		"shareLinks": h.shareLinks(draft),
	})
}

func (h *DraftsHandler) Update(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	draftID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid draft id")
	}

	var req draftRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if len(req.Data) == 0 {
		return utils.Error(c, fiber.StatusBadRequest, "data is required")
	}

	draft, err := h.Drafts.Update(c.Context(), draftID, currentUser.Email, req.Data)
	if errors.Is(err, services.ErrNotFound) {
		return utils.Error(c, fiber.StatusNotFound, "draft not found")
	}
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed updating draft")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"draft":      draft,
		"shareLinks": h.shareLinks(draft),
	})
}

func (h *DraftsHandler) Delete(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	draftID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid draft id")
	}

	err = h.Drafts.Delete(c.Context(), draftID, currentUser.Email)
	if errors.Is(err, services.ErrNotFound) {
		return utils.Error(c, fiber.StatusNotFound, "draft not found")
	}
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed deleting draft")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

// AdminList returns every user's drafts, paginated, newest first.
func (h *DraftsHandler) AdminList(c *fiber.Ctx) error {
	p := utils.ParsePageParams(c)

	query := h.DB.Model(&models.Draft{})
	if email := normalizeEmail(c.Query("userEmail")); email != "" {
		query = query.Where("user_email = ?", email)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed counting drafts")
	}

	var drafts []models.Draft
	if err := p.Scope(query.Order("created_at DESC")).Find(&drafts).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing drafts")
	}

	return utils.Paginated(c, drafts, p, total)
}

// AdminDelete removes any user's draft. Ownership is bypassed; the
// existence check is not.
func (h *DraftsHandler) AdminDelete(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	draftID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid draft id")
	}

	err = h.Drafts.AdminDelete(c.Context(), draftID)
	if errors.Is(err, services.ErrNotFound) {
		return utils.Error(c, fiber.StatusNotFound, "draft not found")
	}
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed deleting draft")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"deleted": true})
}
