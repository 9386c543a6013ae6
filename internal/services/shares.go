package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wallpix/backend/internal/models"
)

// ShareView is what an anonymous share-link holder gets to see: the design
// payload and the owner's email for attribution, never credentials.
type ShareView struct {
	ID         uuid.UUID         `json:"id"`
	OwnerEmail string            `json:"ownerEmail"`
	Data       models.RawPayload `json:"data"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// ShareViewStore is the optional read-through cache in front of Resolve.
type ShareViewStore interface {
	Get(ctx context.Context, token string) (*ShareView, bool)
	Set(ctx context.Context, token string, view *ShareView)
	Invalidate(ctx context.Context, token string)
}

// ShareService resolves opaque share tokens to draft read views without
// authentication. Unknown, malformed, and empty tokens all resolve the
// same way so the endpoint cannot be used as a token oracle.
type ShareService struct {
	DB    *gorm.DB
	Cache ShareViewStore
}

func NewShareService(db *gorm.DB, cache ShareViewStore) *ShareService {
	return &ShareService{DB: db, Cache: cache}
}

func (s *ShareService) Resolve(ctx context.Context, token string) (*ShareView, error) {
	if token == "" {
		return nil, ErrNotFound
	}

	if s.Cache != nil {
		if view, ok := s.Cache.Get(ctx, token); ok {
			return view, nil
		}
	}

	var draft models.Draft
	err := s.DB.First(&draft, "share_token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	view := &ShareView{
		ID:         draft.ID,
		OwnerEmail: draft.UserEmail,
		Data:       draft.Data,
		CreatedAt:  draft.CreatedAt,
		UpdatedAt:  draft.UpdatedAt,
	}

	if s.Cache != nil {
		s.Cache.Set(ctx, token, view)
	}

	return view, nil
}
