package tui

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "₹0.00"},
		{"354", "₹354.00"},
		{"1180", "₹1,180.00"},
		{"12345.5", "₹12,345.50"},
		{"1234567.5", "₹12,34,567.50"},
		{"123456789", "₹12,34,56,789.00"},
		{"-100", "-₹100.00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, formatMoney(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestTruncateStr(t *testing.T) {
	assert.Equal(t, "Widget", truncateStr("Widget", 10))
	assert.Equal(t, "Long pr...", truncateStr("Long product name", 10))
	assert.Equal(t, "ab", truncateStr("abcdef", 2))

	name := "श्री गणेश ट्रेडर्स प्राइवेट लिमिटेड"
	cut := truncateStr(name, 12)
	assert.True(t, utf8.ValidString(cut))
	assert.LessOrEqual(t, ansi.StringWidth(cut), 12)
	assert.True(t, strings.HasSuffix(cut, "..."))
}

func TestClampCursor(t *testing.T) {
	assert.Equal(t, 0, clampCursor(5, 0))
	assert.Equal(t, 2, clampCursor(5, 3))
	assert.Equal(t, 1, clampCursor(1, 3))
}

func TestScreenString(t *testing.T) {
	assert.Equal(t, "Billing", ScreenBilling.String())
	assert.Equal(t, "Unknown", Screen(99).String())
}
