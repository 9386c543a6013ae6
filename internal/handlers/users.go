package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/wallpix/backend/internal/middleware"
	"github.com/wallpix/backend/internal/models"
	"github.com/wallpix/backend/internal/plans"
	"github.com/wallpix/backend/internal/services"
	"github.com/wallpix/backend/pkg/logger"
	"github.com/wallpix/backend/pkg/utils"
)

// UsersHandler is the admin-only account surface. Deleting an account
// cascades to the user's drafts and upgrade requests.
type UsersHandler struct {
	DB       *gorm.DB
	Drafts   *services.DraftService
	Upgrades *services.UpgradeService
}

func NewUsersHandler(db *gorm.DB, drafts *services.DraftService, upgrades *services.UpgradeService) *UsersHandler {
	return &UsersHandler{DB: db, Drafts: drafts, Upgrades: upgrades}
}

func (h *UsersHandler) List(c *fiber.Ctx) error {
	p := utils.ParsePageParams(c)
	search := strings.TrimSpace(c.Query("search"))

	query := h.DB.Model(&models.User{})
	if search != "" {
		query = query.Where("LOWER(email) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed counting users")
	}

	var users []models.User
	if err := p.Scope(query.Order("created_at DESC")).Find(&users).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing users")
	}

	return utils.Paginated(c, users, p, total)
}

func (h *UsersHandler) Get(c *fiber.Ctx) error {
	userID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid user id")
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, "user not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed fetching user")
	}

	return utils.Success(c, fiber.StatusOK, user)
}

type updateUserRequest struct {
	Plan     *string `json:"plan"`
	IsAdmin  *bool   `json:"isAdmin"`
	Password *string `json:"password"`
}

func (h *UsersHandler) Update(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	userID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid user id")
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, "user not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed fetching user")
	}

	var req updateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}
	if req.Plan != nil {
		plan := strings.ToLower(strings.TrimSpace(*req.Plan))
		if !plans.IsValid(plan) {
			return utils.Error(c, fiber.StatusBadRequest, "invalid plan")
		}
		updates["plan"] = plan
	}
	if req.IsAdmin != nil {
		if user.ID == currentUser.ID && !*req.IsAdmin {
			return utils.Error(c, fiber.StatusBadRequest, "cannot demote your own account")
		}
		updates["is_admin"] = *req.IsAdmin
	}
	if req.Password != nil {
		if len(*req.Password) < 8 {
			return utils.Error(c, fiber.StatusBadRequest, "password must be at least 8 characters")
		}
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			return utils.Error(c, fiber.StatusInternalServerError, "failed to hash password")
		}
		updates["password_hash"] = hash
	}

	if len(updates) == 0 {
		return utils.Success(c, fiber.StatusOK, user)
	}

	if err := h.DB.Model(&user).Updates(updates).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed updating user")
	}

	logger.InfoWithUser(currentUser.ID.String(), "admin_user_updated", map[string]interface{}{
		"target_user_id": user.ID.String(),
	})

	return utils.Success(c, fiber.StatusOK, user)
}

func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	userID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid user id")
	}
	if userID == currentUser.ID {
		return utils.Error(c, fiber.StatusBadRequest, "cannot delete your own account")
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, "user not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed fetching user")
	}

	if err := h.Drafts.DeleteAllForUser(c.Context(), user.Email); err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed deleting user drafts")
	}
	if err := h.Upgrades.DeleteAllForUser(user.Email); err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed deleting user upgrade requests")
	}
	if err := h.DB.Delete(&user).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed deleting user")
	}

	logger.InfoWithUser(currentUser.ID.String(), "admin_user_deleted", map[string]interface{}{
		"target_user_id": user.ID.String(),
		"target_email":   user.Email,
	})

	return utils.Success(c, fiber.StatusOK, fiber.Map{"deleted": true})
}
