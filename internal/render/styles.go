// Package render turns listing and product state into terminal text.
package render

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	headingStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	priceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// FormatPrice renders an amount with two decimals: "$9.99".
func FormatPrice(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// formatNumber prints a float the way the catalog sent it, without padding.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
