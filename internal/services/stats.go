package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// accuracyPercent returns round(correct/total*100), rounding halves away
// from zero, or 0 when total is 0.
func accuracyPercent(correct, total int64) int64 {
	if total <= 0 {
		return 0
	}
	return decimal.NewFromInt(correct).
		Mul(hundred).
		Div(decimal.NewFromInt(total)).
		Round(0).
		IntPart()
}

// engagementScore is total*2 + accuracy, capped at 95
func engagementScore(total, accuracy int64) int64 {
	return min(95, total*2+accuracy)
}

// milestone returns the highest accuracy milestone reached, or 0
func milestone(accuracy int64) int64 {
	switch {
	case accuracy >= 80:
		return 80
	case accuracy >= 70:
		return 70
	case accuracy >= 60:
		return 60
	}
	return 0
}

// formatRelativeTime renders how long before now t happened, in whole
// minutes, hours or days.
func formatRelativeTime(now, t time.Time) string {
	diff := now.Sub(t)
	if diff < 0 {
		diff = 0
	}

	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%d minutes ago", int64(diff/time.Minute))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int64(diff/time.Hour))
	default:
		return fmt.Sprintf("%d days ago", int64(diff/(24*time.Hour)))
	}
}

// truncate shortens s to n runes
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
