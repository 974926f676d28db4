package models

import (
	"time"

	"github.com/google/uuid"
)

// Purchase is one finalized course-bundle purchase. Rows are immutable once
// written. The composite unique index on (buyer_id, subject_id, scholar_id)
// is what makes both reconciliation paths idempotent: whichever path inserts
// second hits the constraint instead of creating a duplicate row.
type Purchase struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BuyerID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_purchases_buyer_subject_scholar" json:"buyer_id"`
	SubjectID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_purchases_buyer_subject_scholar" json:"subject_id"`
	ScholarID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_purchases_buyer_subject_scholar" json:"scholar_id"`
	AmountCents         int64     `gorm:"not null" json:"amount_cents"`
	Currency            string    `gorm:"type:varchar(10);not null" json:"currency"`
	StripeTransactionID string    `gorm:"type:varchar(255);index" json:"stripe_transaction_id"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// PayoutAccount is a scholar's Stripe connected-account status. It is written
// by the Connect onboarding flow and read-only to this service.
type PayoutAccount struct {
	ScholarID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"scholar_id"`
	StripeAccountID    string    `gorm:"type:varchar(255)" json:"stripe_account_id"`
	OnboardingComplete bool      `gorm:"not null;default:false" json:"onboarding_complete"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PayoutAccount) TableName() string { return "scholar_payout_accounts" }

// Subject is the catalog view of a purchasable course bundle. The catalog
// service owns its lifecycle; this service only reads name and price.
type Subject struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string    `gorm:"type:varchar(255);not null" json:"name"`
	BundlePriceCents *int64    `json:"bundle_price_cents"`
}

// Scholar is the user-service view of a seller, read for display purposes.
type Scholar struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName string    `gorm:"type:varchar(100)" json:"first_name"`
	LastName  string    `gorm:"type:varchar(100)" json:"last_name"`
}

// DisplayName returns the name shown on checkout line items.
func (s *Scholar) DisplayName() string {
	switch {
	case s.FirstName == "" && s.LastName == "":
		return "Scholar"
	case s.LastName == "":
		return s.FirstName
	default:
		return s.FirstName + " " + s.LastName
	}
}
