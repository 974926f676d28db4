package services

import "errors"

var (
	// ErrAlreadyPurchased means a purchase row already exists for the
	// (buyer, subject, scholar) tuple. Not retryable.
	ErrAlreadyPurchased = errors.New("course bundle already purchased")

	// ErrPaymentIncomplete means the checkout session has not reached
	// payment_status=paid yet. The caller may poll and retry.
	ErrPaymentIncomplete = errors.New("payment not completed")

	// ErrScholarNotFound means the referenced seller does not exist.
	ErrScholarNotFound = errors.New("scholar not found")

	// ErrPaymentProvider wraps any Stripe failure. The caller must start a
	// fresh session; nothing is retried automatically.
	ErrPaymentProvider = errors.New("payment provider error")
)
