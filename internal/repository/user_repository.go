package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	userDomain "github.com/lendhive/service-rental/internal/domain/user"
	"github.com/lendhive/service-rental/pkg/domain"
)

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	DisplayName string    `gorm:"size:200"`
	TrustScore  float64   `gorm:"not null;default:0"`
	RatingCount int64     `gorm:"not null;default:0"`
	Version     int64     `gorm:"not null;default:1"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (UserModel) TableName() string {
	return "users"
}

// GormUserRepository is the GORM-based implementation of user.Repository.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID retrieves a user by ID.
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("User", id.String())
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return userDomain.Reconstruct(
		model.ID, model.DisplayName,
		model.TrustScore, model.RatingCount,
		model.Version,
		model.CreatedAt, model.UpdatedAt,
	), nil
}

// EnsureExists mirrors a first-seen identity into the local directory.
func (r *GormUserRepository) EnsureExists(ctx context.Context, id uuid.UUID) error {
	now := time.Now().UTC()
	model := UserModel{
		ID:        id,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model).Error
	if err != nil {
		return fmt.Errorf("failed to ensure user exists: %w", err)
	}
	return nil
}

// Update persists changes to an existing user with optimistic locking.
func (r *GormUserRepository) Update(ctx context.Context, u *userDomain.User) error {
	expectedVersion := u.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&UserModel{}).
		Where("id = ? AND version = ?", u.ID(), expectedVersion).
		Updates(map[string]interface{}{
			"display_name": u.DisplayName(),
			"trust_score":  u.TrustScore(),
			"rating_count": u.RatingCount(),
			"version":      u.Version(),
			"updated_at":   u.UpdatedAt(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("user was modified by another transaction")
	}
	return nil
}
