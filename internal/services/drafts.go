package services

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wallpix/backend/internal/models"
	"github.com/wallpix/backend/internal/notify"
	"github.com/wallpix/backend/internal/plans"
	"github.com/wallpix/backend/pkg/logger"
	"github.com/wallpix/backend/pkg/utils"
)

// ShareCacheInvalidator evicts a resolved share view when its token stops
// being valid. Implemented by cache.ShareViewCache; nil disables eviction.
type ShareCacheInvalidator interface {
	Invalidate(ctx context.Context, token string)
}

// DraftService owns the draft lifecycle: quota-checked creation, the
// dual-match ownership rule on update/delete, and share token rotation.
type DraftService struct {
	DB       *gorm.DB
	Notifier notify.Notifier
	Cache    ShareCacheInvalidator

	createLocks sync.Map // owner email -> *sync.Mutex
}

func NewDraftService(db *gorm.DB, notifier notify.Notifier, cache ShareCacheInvalidator) *DraftService {
	return &DraftService{DB: db, Notifier: notifier, Cache: cache}
}

func (s *DraftService) ownerLock(email string) *sync.Mutex {
	lock, _ := s.createLocks.LoadOrStore(email, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// Create inserts a new draft for the owner after checking the plan quota.
// The count-then-insert is serialized per owner so two in-flight creates
// cannot both slip under the limit.
func (s *DraftService) Create(owner *models.User, payload models.RawPayload) (*models.Draft, error) {
	lock := s.ownerLock(owner.Email)
	lock.Lock()
	defer lock.Unlock()

	// Re-read the plan so an approval moments ago counts immediately.
	var fresh models.User
	if err := s.DB.First(&fresh, "id = ?", owner.ID).Error; err != nil {
		return nil, err
	}

	def := plans.Lookup(fresh.Plan)
	if !def.Unlimited() {
		var count int64
		if err := s.DB.Model(&models.Draft{}).Where("user_email = ?", fresh.Email).Count(&count).Error; err != nil {
			return nil, err
		}
		if count >= int64(def.DraftLimit) {
			return nil, &QuotaError{Plan: def.Name, DraftLimit: def.DraftLimit, DraftCount: count}
		}
	}

	token, err := utils.GenerateShareToken()
	if err != nil {
		return nil, err
	}

	draft := models.Draft{
		UserID:     fresh.ID,
		UserEmail:  fresh.Email,
		Data:       payload,
		ShareToken: &token,
	}
	if err := s.DB.Create(&draft).Error; err != nil {
		return nil, err
	}

	logger.InfoWithUser(fresh.ID.String(), "draft_created", map[string]interface{}{
		"draft_id": draft.ID.String(),
		"plan":     fresh.Plan,
	})
	notify.Dispatch(s.Notifier, fresh.Email, notify.EventDraftCreated, map[string]interface{}{
		"draftID": draft.ID.String(),
	})

	return &draft, nil
}

// List returns the owner's drafts, newest first.
func (s *DraftService) List(ownerEmail string) ([]models.Draft, error) {
	var drafts []models.Draft
	err := s.DB.Where("user_email = ?", ownerEmail).Order("created_at DESC").Find(&drafts).Error
	return drafts, err
}

// Get loads one draft matching both id and owner email. A miss on either
// is ErrNotFound.
func (s *DraftService) Get(id uuid.UUID, ownerEmail string) (*models.Draft, error) {
	var draft models.Draft
	err := s.DB.First(&draft, "id = ? AND user_email = ?", id, ownerEmail).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

// Update replaces the payload and rotates the share token. Rotation is
// deliberate: every update invalidates previously handed-out share links.
func (s *DraftService) Update(ctx context.Context, id uuid.UUID, ownerEmail string, payload models.RawPayload) (*models.Draft, error) {
	draft, err := s.Get(id, ownerEmail)
	if err != nil {
		return nil, err
	}

	oldToken := draft.ShareToken

	token, err := utils.GenerateShareToken()
	if err != nil {
		return nil, err
	}

	draft.Data = payload
	draft.ShareToken = &token
	if err := s.DB.Save(draft).Error; err != nil {
		return nil, err
	}

	if s.Cache != nil && oldToken != nil {
		s.Cache.Invalidate(ctx, *oldToken)
	}

	logger.InfoWithUser(draft.UserID.String(), "draft_updated", map[string]interface{}{
		"draft_id": draft.ID.String(),
	})

	return draft, nil
}

// Delete removes an owner's draft under the same dual-match rule as Update.
func (s *DraftService) Delete(ctx context.Context, id uuid.UUID, ownerEmail string) error {
	draft, err := s.Get(id, ownerEmail)
	if err != nil {
		return err
	}
	return s.remove(ctx, draft)
}

// AdminGet loads any draft by id, ownership ignored.
func (s *DraftService) AdminGet(id uuid.UUID) (*models.Draft, error) {
	var draft models.Draft
	err := s.DB.First(&draft, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

// AdminDelete removes any draft by id. Only the existence check applies.
func (s *DraftService) AdminDelete(ctx context.Context, id uuid.UUID) error {
	draft, err := s.AdminGet(id)
	if err != nil {
		return err
	}
	return s.remove(ctx, draft)
}

func (s *DraftService) remove(ctx context.Context, draft *models.Draft) error {
	if err := s.DB.Delete(&models.Draft{}, "id = ?", draft.ID).Error; err != nil {
		return err
	}

	if s.Cache != nil && draft.ShareToken != nil {
		s.Cache.Invalidate(ctx, *draft.ShareToken)
	}

	logger.InfoWithUser(draft.UserID.String(), "draft_deleted", map[string]interface{}{
		"draft_id": draft.ID.String(),
	})
	notify.Dispatch(s.Notifier, draft.UserEmail, notify.EventDraftDeleted, map[string]interface{}{
		"draftID": draft.ID.String(),
	})

	return nil
}

// DeleteAllForUser removes every draft owned by the email and evicts
// their cached share views, so a purged account's share links stop
// resolving immediately instead of at TTL expiry. Used by the admin
// account-deletion cascade.
func (s *DraftService) DeleteAllForUser(ctx context.Context, ownerEmail string) error {
	var drafts []models.Draft
	if err := s.DB.Where("user_email = ?", ownerEmail).Find(&drafts).Error; err != nil {
		return err
	}

	if err := s.DB.Delete(&models.Draft{}, "user_email = ?", ownerEmail).Error; err != nil {
		return err
	}

	if s.Cache != nil {
		for _, draft := range drafts {
			if draft.ShareToken != nil {
				s.Cache.Invalidate(ctx, *draft.ShareToken)
			}
		}
	}

	return nil
}
