package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	itemDomain "github.com/lendhive/service-rental/internal/domain/item"
	"github.com/lendhive/service-rental/pkg/domain"
)

// ItemModel is the GORM model for the items table.
type ItemModel struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID             uuid.UUID `gorm:"type:uuid;index;not null"`
	Name                string    `gorm:"not null;size:200"`
	Description         string    `gorm:"size:2000"`
	Active              bool      `gorm:"not null;default:true;index"`
	Status              string    `gorm:"not null;size:20;default:'available'"`
	DailyRateCents      int64     `gorm:"not null"`
	SecurityAmountCents int64     `gorm:"not null;default:0"`
	MinRentalDays       int       `gorm:"not null;default:1"`
	MaxRentalDays       int       `gorm:"not null"`
	Version             int64     `gorm:"not null;default:1"`
	CreatedAt           time.Time `gorm:"not null"`
	UpdatedAt           time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ItemModel) TableName() string {
	return "items"
}

// GormItemRepository is the GORM-based implementation of item.Repository.
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository.
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindByID retrieves an item by its unique identifier.
func (r *GormItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*itemDomain.Item, error) {
	return r.findByID(ctx, id, false)
}

// FindByIDForUpdate retrieves an item with a row lock. Inside a transaction
// this serializes every confirm for the same item.
func (r *GormItemRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*itemDomain.Item, error) {
	return r.findByID(ctx, id, true)
}

func (r *GormItemRepository) findByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*itemDomain.Item, error) {
	tx := r.db.WithContext(ctx)
	if forUpdate {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var model ItemModel
	if err := tx.Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Item", id.String())
		}
		return nil, fmt.Errorf("failed to find item by ID: %w", err)
	}
	return toDomainItem(&model)
}

// FindByOwnerID retrieves a user's listings with pagination.
func (r *GormItemRepository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]*itemDomain.Item, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&ItemModel{}).Where("owner_id = ?", ownerID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count owner items: %w", err)
	}

	var models []ItemModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find owner items: %w", err)
	}

	items := make([]*itemDomain.Item, len(models))
	for i := range models {
		it, err := toDomainItem(&models[i])
		if err != nil {
			return nil, 0, err
		}
		items[i] = it
	}
	return items, total, nil
}

// Save persists a new item.
func (r *GormItemRepository) Save(ctx context.Context, it *itemDomain.Item) error {
	if err := r.db.WithContext(ctx).Create(toItemModel(it)).Error; err != nil {
		return fmt.Errorf("failed to save item: %w", err)
	}
	return nil
}

// Update persists changes to an existing item with optimistic locking.
func (r *GormItemRepository) Update(ctx context.Context, it *itemDomain.Item) error {
	model := toItemModel(it)

	expectedVersion := it.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&ItemModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"name":                  model.Name,
			"description":           model.Description,
			"active":                model.Active,
			"status":                model.Status,
			"daily_rate_cents":      model.DailyRateCents,
			"security_amount_cents": model.SecurityAmountCents,
			"min_rental_days":       model.MinRentalDays,
			"max_rental_days":       model.MaxRentalDays,
			"version":               model.Version,
			"updated_at":            model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("item was modified by another transaction")
	}
	return nil
}

// SetStatus writes only the availability status column.
func (r *GormItemRepository) SetStatus(ctx context.Context, id uuid.UUID, status itemDomain.AvailabilityStatus) error {
	result := r.db.WithContext(ctx).
		Model(&ItemModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to set item status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Item", id.String())
	}
	return nil
}

// --- Conversion helpers ---

func toItemModel(it *itemDomain.Item) *ItemModel {
	return &ItemModel{
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

func toDomainItem(m *ItemModel) (*itemDomain.Item, error) {
	status, err := itemDomain.ParseAvailabilityStatus(m.Status)
	if err != nil {
		return nil, err
	}
	return itemDomain.Reconstruct(
		m.ID, m.OwnerID,
		m.Name, m.Description,
		m.Active,
		status,
		m.DailyRateCents, m.SecurityAmountCents,
		m.MinRentalDays, m.MaxRentalDays,
		m.Version,
		m.CreatedAt, m.UpdatedAt,
	), nil
}
