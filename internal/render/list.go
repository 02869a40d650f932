package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/paginator"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/utafrali/storefront/internal/domain"
)

const (
	cardIndent    = 6
	minWidth      = 20
	ellipsis      = "…"
	loadingLine   = "Loading more products…"
	emptyLine     = "No products on this page."
	paginatorHint = "Type 'page N' to jump to a page."
)

// ListRenderer draws the product listing as a column of cards.
type ListRenderer struct {
	width      int
	totalPages int
}

// NewListRenderer creates a renderer for a terminal width columns wide.
// totalPages is the page count shown by the pagination bar.
func NewListRenderer(width, totalPages int) *ListRenderer {
	if width < minWidth {
		width = minWidth
	}
	return &ListRenderer{width: width, totalPages: totalPages}
}

// Render draws every loaded product, followed by a loading line while a page
// is in flight and the pagination bar once it is shown.
func (r *ListRenderer) Render(s domain.PaginationState) string {
	var b strings.Builder

	for i, p := range s.Products {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(r.Card(p))
	}

	if len(s.Products) == 0 && !s.IsLoading && s.CurrentPage > 0 {
		b.WriteString(mutedStyle.Render(emptyLine))
		b.WriteString("\n")
	}
	if s.IsLoading {
		if len(s.Products) > 0 {
			b.WriteString("\n")
		}
		b.WriteString(noticeStyle.Render(loadingLine))
		b.WriteString("\n")
	}
	if s.IsPaginationVisible {
		b.WriteString("\n")
		b.WriteString(r.PaginationBar(s.CurrentPage))
	}
	return b.String()
}

// Card draws one product: title, price line and wrapped description.
func (r *ListRenderer) Card(p domain.Product) string {
	var b strings.Builder

	id := fmt.Sprintf("#%-*d", cardIndent-2, p.ID)
	title := truncate.StringWithTail(p.Title, uint(r.width-ansi.PrintableRuneWidth(id)-1), ellipsis)
	b.WriteString(id + " " + titleStyle.Render(title) + "\n")

	facts := []string{priceStyle.Render(FormatPrice(p.Price))}
	if p.Category != "" {
		facts = append(facts, p.Category)
	}
	if p.Rating > 0 {
		facts = append(facts, fmt.Sprintf("★ %.2f", p.Rating))
	}
	if p.AvailabilityStatus != "" {
		facts = append(facts, p.AvailabilityStatus)
	}
	b.WriteString(indent.String(wordwrap.String(strings.Join(facts, " · "), r.width-cardIndent), cardIndent) + "\n")

	if p.Description != "" {
		wrapped := wordwrap.String(p.Description, r.width-cardIndent)
		b.WriteString(mutedStyle.Render(indent.String(wrapped, cardIndent)) + "\n")
	}
	return b.String()
}

// PaginationBar draws the page selector shown after infinite scrolling
// stops: a dot strip when it fits, and the current page as "p/N".
func (r *ListRenderer) PaginationBar(current int) string {
	p := paginator.New()
	p.TotalPages = max(r.totalPages, current, 1)
	p.Page = max(current-1, 0)

	arabic := p.View()

	p.Type = paginator.Dots
	p.ActiveDot = "•"
	p.InactiveDot = "◦"
	dots := p.View()

	line := "Page " + arabic
	if ansi.PrintableRuneWidth(dots)+ansi.PrintableRuneWidth(line)+2 <= r.width {
		line = dots + "  " + line
	}
	return line + "\n" + mutedStyle.Render(paginatorHint) + "\n"
}
