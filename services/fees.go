package services

import "fmt"

// SplitAmount divides a gross charge between the platform and the scholar.
// Amounts are integer minor units. The platform fee is rounded half up;
// the scholar share is the remainder, so the two always sum to grossCents
// and any rounding drift lands on the scholar side, never the fee.
func SplitAmount(grossCents, feePercent int64) (platformFeeCents, scholarAmountCents int64, err error) {
	if grossCents < 0 {
		return 0, 0, fmt.Errorf("gross amount must be non-negative, got %d", grossCents)
	}
	if feePercent < 0 || feePercent > 100 {
		return 0, 0, fmt.Errorf("fee percent must be between 0 and 100, got %d", feePercent)
	}

	platformFeeCents = (grossCents*feePercent + 50) / 100
	return platformFeeCents, grossCents - platformFeeCents, nil
}
