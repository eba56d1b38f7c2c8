package cli

import (
	"fmt"
	"strings"
)

// FormatIndianNumber formats a number with Indian digit grouping, e.g.
// 1234567.5 becomes "12,34,567.50". Amounts are shown to two decimal places.
func FormatIndianNumber(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	whole := fmt.Sprintf("%.2f", amount)
	intPart := whole[:len(whole)-3]
	fracPart := whole[len(whole)-2:]

	grouped := groupIndian(intPart)
	if negative {
		grouped = "-" + grouped
	}
	return grouped + "." + fracPart
}

// groupIndian inserts commas after the last three digits and then every two
// digits, per the Indian numbering system.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	groups = append(groups, tail)
	return strings.Join(groups, ",")
}
