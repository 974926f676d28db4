package repository

import (
	"context"
	"errors"
	"strings"

	"purchase-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicatePurchase is returned when an insert hits the
	// (buyer_id, subject_id, scholar_id) unique index. Callers treat it as
	// the authoritative "already purchased" signal.
	ErrDuplicatePurchase = errors.New("purchase already recorded")
)

type PurchaseRepository interface {
	Create(ctx context.Context, purchase *models.Purchase) error
	Find(ctx context.Context, buyerID, subjectID, scholarID uuid.UUID) (*models.Purchase, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Purchase, error)
}

type gormPurchaseRepo struct {
	db *gorm.DB
}

func NewGormPurchaseRepo(db *gorm.DB) PurchaseRepository {
	return &gormPurchaseRepo{db: db}
}

func (r *gormPurchaseRepo) Create(ctx context.Context, purchase *models.Purchase) error {
	if purchase.ID == uuid.Nil {
		purchase.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(purchase).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicatePurchase
		}
		return err
	}
	return nil
}

func (r *gormPurchaseRepo) Find(ctx context.Context, buyerID, subjectID, scholarID uuid.UUID) (*models.Purchase, error) {
	var purchase models.Purchase
	err := r.db.WithContext(ctx).
		Where("buyer_id = ? AND subject_id = ? AND scholar_id = ?", buyerID, subjectID, scholarID).
		First(&purchase).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &purchase, nil
}

func (r *gormPurchaseRepo) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&purchases).Error
	if err != nil {
		return nil, err
	}
	return purchases, nil
}

// isUniqueViolation reports whether err is a unique-constraint conflict.
// GORM translates these when TranslateError is enabled; the string check
// covers drivers that surface the raw SQLSTATE 23505 message instead.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
