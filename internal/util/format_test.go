package util

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected string
	}{
		{"zero", 0, "0"},
		{"below thousand", 999, "999"},
		{"exact thousand", 1000, "1.0K"},
		{"thousands", 15500, "15.5K"},
		{"just below million", 999999, "1000.0K"},
		{"exact million", 1000000, "1.0M"},
		{"millions", 2500000, "2.5M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatNumber(tt.input))
		})
	}
}

func TestFormatTokens(t *testing.T) {
	tests := []struct {
		input    int
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{200001, "200,001"},
		{1234567, "1,234,567"},
		{-45000, "-45,000"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatTokens(tt.input))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Duration
		expected string
	}{
		{"zero", 0, "0m"},
		{"seconds only", 45 * time.Second, "0m"},
		{"minutes", 30 * time.Minute, "30m"},
		{"hours and minutes", 4*time.Hour + 59*time.Minute, "4h 59m"},
		{"exact hours", 5 * time.Hour, "5h 0m"},
		{"negative clamps", -time.Hour, "0m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDuration(tt.input))
		})
	}
}

func TestFormatCost(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"0", "$0.000000"},
		{"0.0003", "$0.000300"},
		{"1.200006", "$1.200006"},
		{"0.6", "$0.600000"},
		{"12.3456789", "$12.345679"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatCost(decimal.RequireFromString(tt.input)))
		})
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"0", "$0.00"},
		{"18", "$18.00"},
		{"0.005", "$0.01"},
		{"1234.5", "$1,234.50"},
		{"1234567.891", "$1,234,567.89"},
		{"-1500", "-$1,500.00"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatCurrency(decimal.RequireFromString(tt.input)))
		})
	}
}
