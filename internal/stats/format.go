package stats

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var groupPrinter = message.NewPrinter(language.English)

func formatFlat(v float64) string {
	return fmt.Sprintf("%.0f", v)
}

func formatSigned(v float64) string {
	if v < 0 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("+%.0f", v)
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.0f%%", v)
}

func formatSignedPercent(v float64) string {
	if v < 0 {
		return fmt.Sprintf("%.0f%%", v)
	}
	return fmt.Sprintf("+%.0f%%", v)
}

func formatSignedPercent1(v float64) string {
	if v < 0 {
		return fmt.Sprintf("%.1f%%", v)
	}
	return fmt.Sprintf("+%.1f%%", v)
}

// formatMultiplier renders a ratio (1.5) as a percentage (150%).
func formatMultiplier(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

func formatTimes(v float64) string {
	return fmt.Sprintf("%.0fx", v)
}

func formatTimesOrInactive(v float64) string {
	if v > 0 {
		return formatTimes(v)
	}
	return "Inactive"
}

func formatActive(v float64) string {
	if v > 0 {
		return "Active"
	}
	return "Inactive"
}

// formatGrouped renders an integer with thousands separators (12,345).
func formatGrouped(v float64) string {
	return groupPrinter.Sprintf("%d", int64(math.Round(v)))
}
