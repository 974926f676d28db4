package repository

import (
	"context"
	"errors"

	"purchase-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PayoutAccountRepository resolves a scholar's Stripe connected-account
// status. Read-only here; the Connect onboarding flow writes the rows.
type PayoutAccountRepository interface {
	GetByScholarID(ctx context.Context, scholarID uuid.UUID) (*models.PayoutAccount, error)
}

type gormPayoutAccountRepo struct {
	db *gorm.DB
}

func NewGormPayoutAccountRepo(db *gorm.DB) PayoutAccountRepository {
	return &gormPayoutAccountRepo{db: db}
}

func (r *gormPayoutAccountRepo) GetByScholarID(ctx context.Context, scholarID uuid.UUID) (*models.PayoutAccount, error) {
	var account models.PayoutAccount
	if err := r.db.WithContext(ctx).First(&account, "scholar_id = ?", scholarID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}
