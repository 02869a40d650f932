package render

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/padding"

	"github.com/utafrali/storefront/internal/domain"
)

const noCategories = "No categories available"

// CategoryRenderer draws the category menu.
type CategoryRenderer struct{}

// Render lists each category's name next to its route.
func (CategoryRenderer) Render(categories []domain.Category) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Categories") + "\n")
	if len(categories) == 0 {
		b.WriteString(mutedStyle.Render(noCategories) + "\n")
		return b.String()
	}

	nameWidth := 0
	for _, c := range categories {
		nameWidth = max(nameWidth, ansi.PrintableRuneWidth(c.Name))
	}
	for _, c := range categories {
		name := padding.String(c.Name, uint(nameWidth))
		fmt.Fprintf(&b, "  %s  %s\n", name, mutedStyle.Render(c.Path()))
	}
	return b.String()
}
