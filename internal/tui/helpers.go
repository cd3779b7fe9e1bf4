package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/shopspring/decimal"
)

// formatMoney formats an amount as "₹12,34,567.50" using Indian digit
// grouping.
func formatMoney(amount decimal.Decimal) string {
	s := amount.Abs().StringFixed(2)
	dot := len(s) - 3
	out := "₹" + groupIndian(s[:dot]) + s[dot:]
	if amount.IsNegative() {
		return "-" + out
	}
	return out
}

// groupIndian separates the last three digits, then every two
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}

// truncateStr truncates a string to maxLen terminal cells with ellipsis,
// never splitting a character
func truncateStr(s string, maxLen int) string {
	if maxLen <= 3 {
		return ansi.Truncate(s, maxLen, "")
	}
	return ansi.Truncate(s, maxLen, "...")
}

func clampCursor(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}
