package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CostPlaces is the number of decimal places shown for dollar amounts
const CostPlaces = 6

// FormatNumber abbreviates large counts, e.g. 1.5K, 2.0M
func FormatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	} else if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	return fmt.Sprintf("%.1fM", float64(n)/1000000)
}

// FormatTokens prints a token count with thousands separators
func FormatTokens(n int) string {
	return groupThousands(fmt.Sprintf("%d", n))
}

func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatCost renders a dollar amount with six decimal places, the precision
// the status line shows for per-request costs.
func FormatCost(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(CostPlaces)
}

// FormatCurrency renders a dollar amount rounded to cents with thousands
// separators, for plan limits and reports.
func FormatCurrency(amount decimal.Decimal) string {
	str := amount.StringFixed(2)

	sign := ""
	if strings.HasPrefix(str, "-") {
		sign, str = "-", str[1:]
	}

	intPart, decPart, _ := strings.Cut(str, ".")
	return fmt.Sprintf("%s$%s.%s", sign, groupThousands(intPart), decPart)
}

func groupThousands(digits string) string {
	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}
	if len(digits) <= 3 {
		if neg {
			return "-" + digits
		}
		return digits
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 && !(neg && b.Len() == 1) {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
