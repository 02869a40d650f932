package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Availability statuses reported by the catalog.
const (
	AvailabilityInStock    = "In Stock"
	AvailabilityLowStock   = "Low Stock"
	AvailabilityOutOfStock = "Out of Stock"
)

// Product is a catalog item as the remote API describes it. Values are never
// mutated after decoding.
type Product struct {
	ID                   int             `json:"id" validate:"gte=0"`
	Title                string          `json:"title"`
	Description          string          `json:"description"`
	Category             string          `json:"category"`
	Price                decimal.Decimal `json:"price" validate:"gte=0"`
	DiscountPercentage   float64         `json:"discountPercentage" validate:"gte=0,lte=100"`
	Rating               float64         `json:"rating" validate:"gte=0,lte=5"`
	Stock                int             `json:"stock" validate:"gte=0"`
	Tags                 []string        `json:"tags"`
	Brand                string          `json:"brand,omitempty"`
	SKU                  string          `json:"sku"`
	Weight               float64         `json:"weight" validate:"gte=0"`
	Dimensions           Dimensions      `json:"dimensions"`
	WarrantyInformation  string          `json:"warrantyInformation"`
	ShippingInformation  string          `json:"shippingInformation"`
	AvailabilityStatus   string          `json:"availabilityStatus"`
	Reviews              []Review        `json:"reviews" validate:"dive"`
	ReturnPolicy         string          `json:"returnPolicy"`
	MinimumOrderQuantity int             `json:"minimumOrderQuantity" validate:"gte=0"`
	Meta                 Meta            `json:"meta"`
	Images               []string        `json:"images"`
	Thumbnail            string          `json:"thumbnail"`
}

// Dimensions of a product, in the catalog's length unit.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

// Review is a customer review attached to a product.
type Review struct {
	Rating        int       `json:"rating" validate:"gte=0,lte=5"`
	Comment       string    `json:"comment"`
	Date          time.Time `json:"date"`
	ReviewerName  string    `json:"reviewerName"`
	ReviewerEmail string    `json:"reviewerEmail"`
}

// Meta carries bookkeeping fields of a product.
type Meta struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Barcode   string    `json:"barcode"`
	QRCode    string    `json:"qrCode"`
}

var hundred = decimal.NewFromInt(100)

// DiscountedPrice applies DiscountPercentage to Price, rounded to cents.
func (p Product) DiscountedPrice() decimal.Decimal {
	if p.DiscountPercentage <= 0 {
		return p.Price
	}
	off := p.Price.Mul(decimal.NewFromFloat(p.DiscountPercentage)).Div(hundred)
	return p.Price.Sub(off).Round(2)
}

// InStock reports whether any unit is available.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// ProductPage is one page of a product listing, normalized from whichever
// shape the catalog answered with.
type ProductPage struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Skip     int       `json:"skip"`
	Limit    int       `json:"limit"`
}
