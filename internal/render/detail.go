package render

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"github.com/utafrali/storefront/internal/domain"
)

const (
	loadingProduct = "Loading product…"
	noProduct      = "No product found"
	noReviews      = "No reviews available"
	dateLayout     = "2006-01-02"
	timeLayout     = "2006-01-02 15:04:05 MST"
)

// DetailRenderer draws the product detail page.
type DetailRenderer struct {
	width int
}

// NewDetailRenderer creates a renderer for a terminal width columns wide.
func NewDetailRenderer(width int) *DetailRenderer {
	if width < minWidth {
		width = minWidth
	}
	return &DetailRenderer{width: width}
}

// Render draws the detail view for its current state: loading, failed,
// empty or showing p.
func (r *DetailRenderer) Render(p *domain.Product, loading bool, err error) string {
	switch {
	case loading:
		return noticeStyle.Render(loadingProduct) + "\n"
	case err != nil:
		return errorStyle.Render(ErrorMessage(err)) + "\n"
	case p == nil:
		return noProduct + "\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(p.Title) + "\n")
	if p.Description != "" {
		b.WriteString(wordwrap.String(p.Description, r.width) + "\n")
	}
	b.WriteString("\n")
	b.WriteString("Price: " + priceStyle.Render(FormatPrice(p.Price)) + "\n")
	b.WriteString("Discount: " + formatNumber(p.DiscountPercentage) + "%\n")
	if p.DiscountPercentage > 0 {
		b.WriteString("You pay: " + FormatPrice(p.DiscountedPrice()) + "\n")
	}

	r.section(&b, "Product Details",
		"Category: "+p.Category,
		"Brand: "+p.Brand,
		"SKU: "+p.SKU,
		"Rating: "+formatNumber(p.Rating),
		fmt.Sprintf("Stock: %d units", p.Stock),
		"Availability: "+p.AvailabilityStatus,
		fmt.Sprintf("Minimum Order Quantity: %d", p.MinimumOrderQuantity),
	)
	r.section(&b, "Dimensions",
		"Width: "+formatNumber(p.Dimensions.Width)+" cm",
		"Height: "+formatNumber(p.Dimensions.Height)+" cm",
		"Depth: "+formatNumber(p.Dimensions.Depth)+" cm",
		"Weight: "+formatNumber(p.Weight)+" kg",
	)
	r.section(&b, "Shipping and Warranty",
		"Shipping Information: "+p.ShippingInformation,
		"Warranty: "+p.WarrantyInformation,
		"Return Policy: "+p.ReturnPolicy,
	)
	r.section(&b, "Tags", p.Tags...)
	r.reviews(&b, p.Reviews)
	r.section(&b, "Product Metadata",
		"Created At: "+p.Meta.CreatedAt.Format(timeLayout),
		"Updated At: "+p.Meta.UpdatedAt.Format(timeLayout),
		"Barcode: "+p.Meta.Barcode,
		"QR Code: "+p.Meta.QRCode,
	)

	images := make([]string, 0, len(p.Images)+1)
	if p.Thumbnail != "" {
		images = append(images, "Thumbnail: "+p.Thumbnail)
	}
	for i, img := range p.Images {
		images = append(images, fmt.Sprintf("Image %d: %s", i+1, img))
	}
	r.section(&b, "Additional Images", images...)

	return b.String()
}

func (r *DetailRenderer) section(b *strings.Builder, heading string, lines ...string) {
	b.WriteString("\n" + headingStyle.Render(heading) + "\n")
	for _, l := range lines {
		b.WriteString(indent.String(wordwrap.String(l, r.width-2), 2) + "\n")
	}
}

func (r *DetailRenderer) reviews(b *strings.Builder, reviews []domain.Review) {
	if len(reviews) == 0 {
		r.section(b, "Reviews", noReviews)
		return
	}

	lines := make([]string, 0, len(reviews)*3)
	for _, rv := range reviews {
		lines = append(lines,
			fmt.Sprintf("%s (%s)", rv.ReviewerName, rv.Date.Format(dateLayout)),
			fmt.Sprintf("  Rating: %d", rv.Rating),
			"  Comment: "+rv.Comment,
		)
	}
	r.section(b, "Reviews", lines...)
}
