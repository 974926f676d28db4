package repository

import (
	"context"
	"errors"

	"purchase-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogRepository resolves purchasable subjects. Read-only: the catalog
// service owns the rows.
type CatalogRepository interface {
	GetSubject(ctx context.Context, subjectID uuid.UUID) (*models.Subject, error)
}

type gormCatalogRepo struct {
	db *gorm.DB
}

func NewGormCatalogRepo(db *gorm.DB) CatalogRepository {
	return &gormCatalogRepo{db: db}
}

func (r *gormCatalogRepo) GetSubject(ctx context.Context, subjectID uuid.UUID) (*models.Subject, error) {
	var subject models.Subject
	if err := r.db.WithContext(ctx).First(&subject, "id = ?", subjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &subject, nil
}
