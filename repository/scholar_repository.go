package repository

import (
	"context"
	"errors"

	"purchase-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScholarRepository resolves seller display data from the user service's
// scholars view. Read-only.
type ScholarRepository interface {
	Get(ctx context.Context, scholarID uuid.UUID) (*models.Scholar, error)
}

type gormScholarRepo struct {
	db *gorm.DB
}

func NewGormScholarRepo(db *gorm.DB) ScholarRepository {
	return &gormScholarRepo{db: db}
}

func (r *gormScholarRepo) Get(ctx context.Context, scholarID uuid.UUID) (*models.Scholar, error) {
	var scholar models.Scholar
	if err := r.db.WithContext(ctx).First(&scholar, "id = ?", scholarID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &scholar, nil
}
