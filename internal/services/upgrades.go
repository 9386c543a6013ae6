package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wallpix/backend/internal/models"
	"github.com/wallpix/backend/internal/notify"
	"github.com/wallpix/backend/internal/plans"
	"github.com/wallpix/backend/pkg/logger"
)

// UpgradeService runs the plan-change state machine: a user files at most
// one pending request, an admin resolves it, approval moves the user's
// plan in the same transaction as the status flip.
type UpgradeService struct {
	DB       *gorm.DB
	Notifier notify.Notifier
}

func NewUpgradeService(db *gorm.DB, notifier notify.Notifier) *UpgradeService {
	return &UpgradeService{DB: db, Notifier: notifier}
}

// Request files a new upgrade request for the user. The target must be an
// upgrade-eligible plan and a strict step up from the current plan.
func (s *UpgradeService) Request(user *models.User, targetPlan string) (*models.UpgradeRequest, error) {
	eligible := false
	for _, target := range plans.UpgradeTargets() {
		if targetPlan == target {
			eligible = true
			break
		}
	}
	if !eligible {
		return nil, ErrInvalidPlan
	}
	if !plans.IsUpgrade(user.Plan, targetPlan) {
		return nil, ErrNotUpgrade
	}

	var pending int64
	err := s.DB.Model(&models.UpgradeRequest{}).
		Where("user_email = ? AND status = ?", user.Email, models.UpgradeStatusPending).
		Count(&pending).Error
	if err != nil {
		return nil, err
	}
	if pending > 0 {
		return nil, ErrAlreadyPending
	}

	request := models.UpgradeRequest{
		UserEmail:     user.Email,
		CurrentPlan:   user.Plan,
		RequestedPlan: targetPlan,
		Status:        models.UpgradeStatusPending,
	}
	if err := s.DB.Create(&request).Error; err != nil {
		return nil, err
	}

	logger.InfoWithUser(user.ID.String(), "upgrade_requested", map[string]interface{}{
		"request_id":     request.ID.String(),
		"current_plan":   request.CurrentPlan,
		"requested_plan": request.RequestedPlan,
	})

	return &request, nil
}

// Approve flips a pending request to approved and sets the requesting
// user's plan. Both writes happen inside one transaction: a request is
// never left approved with the plan unchanged.
func (s *UpgradeService) Approve(id uuid.UUID) (*models.UpgradeRequest, error) {
	var request models.UpgradeRequest

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if request.Status != models.UpgradeStatusPending {
			return ErrAlreadyProcessed
		}

		request.Status = models.UpgradeStatusApproved
		if err := tx.Save(&request).Error; err != nil {
			return err
		}

		result := tx.Model(&models.User{}).
			Where("email = ?", request.UserEmail).
			Update("plan", request.RequestedPlan)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("upgrade_approved", map[string]interface{}{
		"request_id": request.ID.String(),
		"user_email": request.UserEmail,
		"plan":       request.RequestedPlan,
	})
	notify.Dispatch(s.Notifier, request.UserEmail, notify.EventUpgradeApproved, map[string]interface{}{
		"plan": request.RequestedPlan,
	})

	return &request, nil
}

// Reject flips a pending request to rejected. The user's plan is untouched.
func (s *UpgradeService) Reject(id uuid.UUID) (*models.UpgradeRequest, error) {
	var request models.UpgradeRequest

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if request.Status != models.UpgradeStatusPending {
			return ErrAlreadyProcessed
		}

		request.Status = models.UpgradeStatusRejected
		return tx.Save(&request).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Info("upgrade_rejected", map[string]interface{}{
		"request_id": request.ID.String(),
		"user_email": request.UserEmail,
	})
	notify.Dispatch(s.Notifier, request.UserEmail, notify.EventUpgradeRejected, map[string]interface{}{
		"plan": request.RequestedPlan,
	})

	return &request, nil
}

// Cancel deletes the user's pending request. Terminal requests cannot be
// cancelled.
func (s *UpgradeService) Cancel(userEmail string) error {
	result := s.DB.Delete(&models.UpgradeRequest{},
		"user_email = ? AND status = ?", userEmail, models.UpgradeStatusPending)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNoPendingRequest
	}
	return nil
}

// UpgradeStatus is the user-facing view of their most recent request.
type UpgradeStatus struct {
	Status        string     `json:"status"`
	RequestedPlan string     `json:"requestedPlan,omitempty"`
	RequestID     *uuid.UUID `json:"requestID,omitempty"`
}

// StatusFor reflects the single most recent request row, terminal or not.
// A rejected or approved request stays visible until the user files a new
// one; only an empty history reads as "none".
func (s *UpgradeService) StatusFor(userEmail string) (*UpgradeStatus, error) {
	var request models.UpgradeRequest
	err := s.DB.Where("user_email = ?", userEmail).Order("created_at DESC").First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &UpgradeStatus{Status: "none"}, nil
	}
	if err != nil {
		return nil, err
	}

	return &UpgradeStatus{
		Status:        string(request.Status),
		RequestedPlan: request.RequestedPlan,
		RequestID:     &request.ID,
	}, nil
}

// DeleteAllForUser removes the user's request history. Used by the admin
// account-deletion cascade.
func (s *UpgradeService) DeleteAllForUser(userEmail string) error {
	return s.DB.Delete(&models.UpgradeRequest{}, "user_email = ?", userEmail).Error
}
