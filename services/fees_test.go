package services_test

import (
	"testing"

	"purchase-service/services"

	"github.com/stretchr/testify/assert"
)

func TestSplitAmount(t *testing.T) {
	tests := []struct {
		name        string
		gross       int64
		percent     int64
		wantFee     int64
		wantScholar int64
	}{
		{"default bundle price", 600, 20, 120, 480},
		{"zero gross", 0, 20, 0, 0},
		{"zero percent", 1000, 0, 0, 1000},
		{"full percent", 1000, 100, 1000, 0},
		{"rounds fee half up", 125, 20, 25, 100},
		{"odd amount", 999, 20, 200, 799},
		{"single cent", 1, 20, 0, 1},
		{"rounding lands on scholar side", 3, 50, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee, scholar, err := services.SplitAmount(tt.gross, tt.percent)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantFee, fee)
			assert.Equal(t, tt.wantScholar, scholar)
		})
	}
}

func TestSplitAmount_SumAlwaysEqualsGross(t *testing.T) {
	for gross := int64(0); gross <= 1000; gross++ {
		for _, percent := range []int64{0, 1, 7, 20, 33, 50, 99, 100} {
			fee, scholar, err := services.SplitAmount(gross, percent)
			assert.NoError(t, err)
			assert.Equal(t, gross, fee+scholar, "gross=%d percent=%d", gross, percent)
		}
	}
}

func TestSplitAmount_RejectsNegativeGross(t *testing.T) {
	_, _, err := services.SplitAmount(-1, 20)
	assert.Error(t, err)
}

func TestSplitAmount_RejectsInvalidPercent(t *testing.T) {
	_, _, err := services.SplitAmount(100, -1)
	assert.Error(t, err)

	_, _, err = services.SplitAmount(100, 101)
	assert.Error(t, err)
}
