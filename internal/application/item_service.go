package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lendhive/service-rental/internal/domain/item"
	"github.com/lendhive/service-rental/internal/domain/user"
	"github.com/lendhive/service-rental/pkg/domain"
)

// CreateItemRequest holds the data needed to publish a new listing.
type CreateItemRequest struct {
	Name                string `json:"name" binding:"required,max=200"`
	Description         string `json:"description" binding:"max=2000"`
	DailyRateCents      int64  `json:"daily_rate_cents" binding:"required,gt=0"`
	SecurityAmountCents int64  `json:"security_amount_cents" binding:"gte=0"`
	MinRentalDays       int    `json:"min_rental_days" binding:"required,min=1"`
	MaxRentalDays       int    `json:"max_rental_days" binding:"required,min=1"`
}

// UpdateItemRequest holds partial updates to a listing's rental terms.
type UpdateItemRequest struct {
	Name                string `json:"name" binding:"max=200"`
	Description         string `json:"description" binding:"max=2000"`
	DailyRateCents      int64  `json:"daily_rate_cents" binding:"gte=0"`
	SecurityAmountCents *int64 `json:"security_amount_cents" binding:"omitempty,gte=0"`
	MinRentalDays       int    `json:"min_rental_days" binding:"gte=0"`
	MaxRentalDays       int    `json:"max_rental_days" binding:"gte=0"`
}

// ItemDTO is the response representation of a listing.
type ItemDTO struct {
	ID                  uuid.UUID `json:"id"`
	OwnerID             uuid.UUID `json:"owner_id"`
	Name                string    `json:"name"`
	Description         string    `json:"description,omitempty"`
	Active              bool      `json:"active"`
	Status              string    `json:"status"`
	DailyRateCents      int64     `json:"daily_rate_cents"`
	SecurityAmountCents int64     `json:"security_amount_cents"`
	MinRentalDays       int       `json:"min_rental_days"`
	MaxRentalDays       int       `json:"max_rental_days"`
	Version             int64     `json:"version"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// ItemService manages the item directory the booking core reads terms from.
type ItemService struct {
	items  item.Repository
	users  user.Repository
	logger *zap.Logger
}

// NewItemService creates a new ItemService.
func NewItemService(items item.Repository, users user.Repository, logger *zap.Logger) *ItemService {
	return &ItemService{items: items, users: users, logger: logger}
}

// CreateItem publishes a new listing for the given owner.
func (s *ItemService) CreateItem(ctx context.Context, ownerID uuid.UUID, req CreateItemRequest) (*ItemDTO, error) {
	if err := s.users.EnsureExists(ctx, ownerID); err != nil {
		return nil, fmt.Errorf("failed to register owner: %w", err)
	}

	it, err := item.NewItem(
		ownerID,
		req.Name, req.Description,
		req.DailyRateCents, req.SecurityAmountCents,
		req.MinRentalDays, req.MaxRentalDays,
	)
	if err != nil {
		return nil, err
	}

	if err := s.items.Save(ctx, it); err != nil {
		return nil, fmt.Errorf("failed to save item: %w", err)
	}

	s.logger.Info("item listed",
		zap.String("item_id", it.ID().String()),
		zap.String("owner_id", ownerID.String()))

	result := toItemDTO(it)
	return &result, nil
}

// GetItem retrieves a listing by ID.
func (s *ItemService) GetItem(ctx context.Context, itemID uuid.UUID) (*ItemDTO, error) {
	it, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	result := toItemDTO(it)
	return &result, nil
}

// ListOwnItems retrieves the requester's listings with pagination.
func (s *ItemService) ListOwnItems(ctx context.Context, ownerID uuid.UUID, page, limit int) (*domain.PaginatedResult[ItemDTO], error) {
	list, total, err := s.items.FindByOwnerID(ctx, ownerID, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]ItemDTO, len(list))
	for i, it := range list {
		dtos[i] = toItemDTO(it)
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// UpdateItem applies partial term updates to the requester's own listing.
func (s *ItemService) UpdateItem(ctx context.Context, itemID, requesterID uuid.UUID, req UpdateItemRequest) (*ItemDTO, error) {
	it, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !it.IsOwnedBy(requesterID) {
		return nil, domain.NewForbiddenError("only the owner may update this item")
	}

	security := int64(-1)
	if req.SecurityAmountCents != nil {
		security = *req.SecurityAmountCents
	}
	if err := it.UpdateTerms(
		req.Name, req.Description,
		req.DailyRateCents, security,
		req.MinRentalDays, req.MaxRentalDays,
	); err != nil {
		return nil, err
	}

	if err := s.items.Update(ctx, it); err != nil {
		return nil, err
	}

	result := toItemDTO(it)
	return &result, nil
}

// DeactivateItem withdraws the requester's own listing from the marketplace.
// Existing bookings are unaffected; new bookings are rejected.
func (s *ItemService) DeactivateItem(ctx context.Context, itemID, requesterID uuid.UUID) (*ItemDTO, error) {
	it, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !it.IsOwnedBy(requesterID) {
		return nil, domain.NewForbiddenError("only the owner may deactivate this item")
	}

	it.Deactivate()
	if err := s.items.Update(ctx, it); err != nil {
		return nil, err
	}

	s.logger.Info("item deactivated", zap.String("item_id", it.ID().String()))

	result := toItemDTO(it)
	return &result, nil
}

func toItemDTO(it *item.Item) ItemDTO {
	return ItemDTO{
		ID:                  it.ID(),
		OwnerID:             it.OwnerID(),
		Name:                it.Name(),
		Description:         it.Description(),
		Active:              it.IsActive(),
		Status:              string(it.Status()),
		DailyRateCents:      it.DailyRateCents(),
		SecurityAmountCents: it.SecurityAmountCents(),
		MinRentalDays:       it.MinRentalDays(),
		MaxRentalDays:       it.MaxRentalDays(),
		Version:             it.Version(),
		CreatedAt:           it.CreatedAt(),
		UpdatedAt:           it.UpdatedAt(),
	}
}
