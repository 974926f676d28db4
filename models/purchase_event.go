package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment event sources. Two adapters feed the same reconciliation sink: the
// client-side confirmation call and the Stripe checkout-session flow
// (success callback or webhook).
const (
	PaymentSourceConfirm         = "client_confirmation"
	PaymentSourceCheckoutSession = "checkout_session"
)

// PaymentEvent is a confirmed payment observed by one of the reconciliation
// entry points, carrying everything needed to materialize a Purchase row.
type PaymentEvent struct {
	BuyerID       uuid.UUID
	SubjectID     uuid.UUID
	ScholarID     uuid.UUID
	AmountCents   int64
	Currency      string
	TransactionID string
	Source        string
}

// PurchaseEvent is published to SNS after a purchase is recorded, for
// downstream consumers (notifications, analytics).
type PurchaseEvent struct {
	Type          string    `json:"type"` // "purchase_recorded"
	PurchaseID    string    `json:"purchase_id"`
	BuyerID       string    `json:"buyer_id"`
	SubjectID     string    `json:"subject_id"`
	ScholarID     string    `json:"scholar_id"`
	AmountCents   int64     `json:"amount_cents"`
	Currency      string    `json:"currency"`
	TransactionID string    `json:"transaction_id"`
	Source        string    `json:"source"`
	Timestamp     time.Time `json:"timestamp"` // UTC
}
