package services

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// Checkout-session metadata is the only durable link between Stripe's async
// callbacks and this system's domain identifiers, so the payload must be
// complete enough to reconstruct a purchase row without further lookups,
// and versioned so the format can evolve.
const (
	checkoutMetadataVersion   = "1"
	purchaseTypeSubjectBundle = "subject_bundle"
)

// CheckoutMetadata is the domain payload embedded in a Stripe checkout
// session.
type CheckoutMetadata struct {
	BuyerID            uuid.UUID
	SubjectID          uuid.UUID
	ScholarID          uuid.UUID
	GrossAmountCents   int64
	PlatformFeeCents   int64
	ScholarAmountCents int64
	Currency           string
}

// BuildCheckoutMetadata serializes the payload into Stripe's string map.
func BuildCheckoutMetadata(md CheckoutMetadata) map[string]string {
	return map[string]string{
		"version":        checkoutMetadataVersion,
		"type":           purchaseTypeSubjectBundle,
		"buyer_id":       md.BuyerID.String(),
		"subject_id":     md.SubjectID.String(),
		"scholar_id":     md.ScholarID.String(),
		"gross_amount":   strconv.FormatInt(md.GrossAmountCents, 10),
		"platform_fee":   strconv.FormatInt(md.PlatformFeeCents, 10),
		"scholar_amount": strconv.FormatInt(md.ScholarAmountCents, 10),
		"currency":       md.Currency,
	}
}

// ParseCheckoutMetadata reconstructs the payload from a retrieved session.
func ParseCheckoutMetadata(raw map[string]string) (*CheckoutMetadata, error) {
	if raw["type"] != purchaseTypeSubjectBundle {
		return nil, fmt.Errorf("unexpected purchase type %q", raw["type"])
	}
	if v := raw["version"]; v != checkoutMetadataVersion {
		return nil, fmt.Errorf("unsupported metadata version %q", v)
	}

	md := &CheckoutMetadata{Currency: raw["currency"]}
	if md.Currency == "" {
		return nil, fmt.Errorf("metadata missing currency")
	}

	var err error
	if md.BuyerID, err = parseUUIDField(raw, "buyer_id"); err != nil {
		return nil, err
	}
	if md.SubjectID, err = parseUUIDField(raw, "subject_id"); err != nil {
		return nil, err
	}
	if md.ScholarID, err = parseUUIDField(raw, "scholar_id"); err != nil {
		return nil, err
	}
	if md.GrossAmountCents, err = parseAmountField(raw, "gross_amount"); err != nil {
		return nil, err
	}
	if md.PlatformFeeCents, err = parseAmountField(raw, "platform_fee"); err != nil {
		return nil, err
	}
	if md.ScholarAmountCents, err = parseAmountField(raw, "scholar_amount"); err != nil {
		return nil, err
	}
	return md, nil
}

func parseUUIDField(raw map[string]string, key string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw[key])
	if err != nil {
		return uuid.Nil, fmt.Errorf("metadata field %s: %w", key, err)
	}
	return id, nil
}

func parseAmountField(raw map[string]string, key string) (int64, error) {
	n, err := strconv.ParseInt(raw[key], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("metadata field %s: %w", key, err)
	}
	return n, nil
}
