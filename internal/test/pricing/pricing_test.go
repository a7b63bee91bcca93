package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"photo-print-orders/internal/pricing"
)

func TestPriceTable(t *testing.T) {
	expected := map[string]float64{
		"10x15": 0.79,
		"13x18": 1.29,
		"15x21": 1.99,
		"21x30": 5.99,
	}
	for format, price := range expected {
		unit, ok := pricing.UnitPrice(format)
		assert.True(t, ok, format)
		assert.Equal(t, price, unit, format)
	}
}

func TestValid(t *testing.T) {
	assert.True(t, pricing.Valid("10x15"))
	assert.True(t, pricing.Valid(pricing.DefaultFormat))
	assert.False(t, pricing.Valid("99x99"))
	assert.False(t, pricing.Valid(""))
}

func TestFormatsSortedByPrice(t *testing.T) {
	assert.Equal(t, []string{"10x15", "13x18", "15x21", "21x30"}, pricing.Formats())
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0.79", pricing.FormatAmount(0.79))
	assert.Equal(t, "7.57", pricing.FormatAmount(0.79*2+5.99))
	assert.Equal(t, "0.00", pricing.FormatAmount(0))
}
