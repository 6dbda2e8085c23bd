package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmountInWords(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{0, "RUPEES ZERO ONLY"},
		{7, "RUPEES SEVEN ONLY"},
		{15, "RUPEES FIFTEEN ONLY"},
		{40, "RUPEES FORTY ONLY"},
		{42, "RUPEES FORTY TWO ONLY"},
		{100, "RUPEES ONE HUNDRED ONLY"},
		{250, "RUPEES TWO HUNDRED FIFTY ONLY"},
		{999, "RUPEES NINE HUNDRED NINETY NINE ONLY"},
		{2000, "RUPEES TWO THOUSAND ONLY"},
		{2550, "RUPEES TWO THOUSAND FIVE HUNDRED FIFTY ONLY"},
		{12200, "RUPEES TWELVE THOUSAND TWO HUNDRED ONLY"},
		{100000, "RUPEES ONE LAKH ONLY"},
		{125000, "RUPEES ONE LAKH TWENTY FIVE THOUSAND ONLY"},
		{1234567, "RUPEES TWELVE LAKH THIRTY FOUR THOUSAND FIVE HUNDRED SIXTY SEVEN ONLY"},
		{10000000, "RUPEES ONE CRORE ONLY"},
		{12500000, "RUPEES ONE CRORE TWENTY FIVE LAKH ONLY"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, AmountInWords(tt.amount), "amount %.0f", tt.amount)
	}
}

func TestAmountInWords_TruncatesPaise(t *testing.T) {
	assert.Equal(t, "RUPEES FIFTY ONLY", AmountInWords(50.75))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "0", FormatCurrency(0))
	assert.Equal(t, "950", FormatCurrency(950))
	assert.Equal(t, "2,000", FormatCurrency(2000))
	assert.Equal(t, "12,200", FormatCurrency(12200))
	assert.Equal(t, "1,25,000", FormatCurrency(125000))
	assert.Equal(t, "12,34,567", FormatCurrency(1234567))
	assert.Equal(t, "1,00,00,000", FormatCurrency(10000000))
	assert.Equal(t, "-2,500", FormatCurrency(-2500))
}
