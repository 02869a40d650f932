// Package mockcatalog serves a deterministic product catalog in the remote
// API's wire shapes, for local development and tests.
package mockcatalog

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/slug"
)

func init() {
	// The catalog API sends prices as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type categoryDef struct {
	Name   string
	Types  []string
	Brands []string
}

var categoryDefs = []categoryDef{
	{"Beauty", []string{"Mascara", "Eyeshadow Palette", "Powder Canister", "Lipstick", "Nail Polish"}, []string{"Essence", "Glamour Beauty", "Velvet Touch", "Chic Cosmetics"}},
	{"Fragrances", []string{"Eau de Parfum", "Cologne", "Body Mist"}, []string{"Calvin Klein", "Chanel", "Dior", "Gucci"}},
	{"Furniture", []string{"Bed", "Sofa", "Bedside Table", "Office Chair", "Bathroom Sink"}, []string{"Annibale Colombo", "Furniture Co.", "Knoll"}},
	{"Groceries", []string{"Apple", "Beef Steak", "Cat Food", "Cooking Oil", "Honey Jar"}, []string{"Fresh Farms", "Golden Hive"}},
	{"Home Decoration", []string{"Decoration Swing", "Family Tree Photo Frame", "House Showpiece Plant", "Table Lamp"}, []string{"Decor Co.", "Homestead"}},
	{"Kitchen Accessories", []string{"Bamboo Spatula", "Black Aluminium Cup", "Chopping Board", "Egg Slicer"}, []string{"Kitchen Pro", "ChefMate"}},
	{"Laptops", []string{"MacBook Pro 14", "Lenovo Yoga 920", "Asus Zenbook Pro", "Huawei Matebook X"}, []string{"Apple", "Lenovo", "Asus", "Huawei"}},
	{"Men's Shirts", []string{"Blue & Black Check Shirt", "Gigabyte Aorus Men Tshirt", "Man Plaid Shirt", "Men Check Shirt"}, []string{"Fashion Trends", "Gigabyte", "Classic Wear"}},
	{"Smartphones", []string{"iPhone 5s", "Oppo A57", "Realme C35", "Samsung Galaxy S8", "Vivo X21"}, []string{"Apple", "Oppo", "Realme", "Samsung", "Vivo"}},
	{"Sunglasses", []string{"Black Sun Glasses", "Classic Sun Glasses", "Party Glasses", "Sunglasses"}, []string{"Fashion Shades", "Sunny Days"}},
}

var (
	adjectives   = []string{"Classic", "Premium", "Compact", "Deluxe", "Essential", "Modern", "Vintage", "Eco"}
	reviewers    = []string{"John Doe", "Nolan Gonzalez", "Scarlett Wright", "Liam Garcia", "Nora Russell", "Elena Long", "Lucas Gordon", "Eleanor Collins"}
	comments     = []string{"Very satisfied!", "Highly impressed!", "Would buy again!", "Not as described!", "Very unhappy with my purchase!", "Great value for money!", "Fast shipping!"}
	warranties   = []string{"1 month warranty", "3 months warranty", "6 months warranty", "1 year warranty", "2 year warranty", "Lifetime warranty", "No warranty"}
	shipping     = []string{"Ships in 1-2 business days", "Ships in 3-5 business days", "Ships in 1 week", "Ships in 2 weeks", "Ships overnight"}
	returnPolicy = []string{"30 days return policy", "60 days return policy", "90 days return policy", "7 days return policy", "No return policy"}
)

// epoch anchors generated timestamps so runs are reproducible.
var epoch = time.Date(2024, time.May, 23, 8, 56, 21, 618_000_000, time.UTC)

// Catalog is an immutable, generated product catalog.
type Catalog struct {
	products   []domain.Product
	byID       map[int]int
	categories []domain.Category
}

// Generate builds a catalog of n products. The same n and seed always yield
// the same catalog.
func Generate(n int, seed uint64) *Catalog {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	c := &Catalog{
		products:   make([]domain.Product, 0, n),
		byID:       make(map[int]int, n),
		categories: make([]domain.Category, 0, len(categoryDefs)),
	}
	for _, def := range categoryDefs {
		s := slug.Generate(def.Name)
		c.categories = append(c.categories, domain.Category{
			Slug: s,
			Name: def.Name,
			URL:  "/products/category/" + s,
		})
	}

	for i := 0; i < n; i++ {
		p := generateProduct(rng, i+1)
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.IntN(len(items))]
}

func generateProduct(rng *rand.Rand, id int) domain.Product {
	// Categories rotate so every page mixes them the way the real catalog does.
	defIdx := (id - 1) % len(categoryDefs)
	def := categoryDefs[defIdx]
	category := slug.Generate(def.Name)
	productType := pick(rng, def.Types)
	brand := pick(rng, def.Brands)
	title := fmt.Sprintf("%s %s", pick(rng, adjectives), productType)

	cents := 99 + rng.Int64N(250_000)
	price := decimal.New(cents, -2)
	discount := decimal.New(rng.Int64N(2000), -2).InexactFloat64()
	stock := rng.IntN(120)

	availability := domain.AvailabilityInStock
	switch {
	case stock == 0:
		availability = domain.AvailabilityOutOfStock
	case stock < 10:
		availability = domain.AvailabilityLowStock
	}

	created := epoch.Add(time.Duration(id) * time.Minute)
	reviews := make([]domain.Review, 0, 3)
	for r := 0; r < rng.IntN(4); r++ {
		name := pick(rng, reviewers)
		reviews = append(reviews, domain.Review{
			Rating:        1 + rng.IntN(5),
			Comment:       pick(rng, comments),
			Date:          created.Add(time.Duration(r+1) * time.Hour),
			ReviewerName:  name,
			ReviewerEmail: strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@x.dummyjson.com",
		})
	}

	var total int
	for _, r := range reviews {
		total += r.Rating
	}
	rating := 2.5 + float64(rng.IntN(250))/100
	if len(reviews) > 0 {
		rating = float64(total) / float64(len(reviews))
	}

	imageBase := fmt.Sprintf("https://cdn.dummyjson.com/products/images/%s/%s", category, slug.Generate(productType))
	images := make([]string, 0, 3)
	for k := 1; k <= 1+rng.IntN(3); k++ {
		images = append(images, fmt.Sprintf("%s/%d.png", imageBase, k))
	}

	return domain.Product{
		ID:                   id,
		Title:                title,
		Description:          fmt.Sprintf("The %s by %s is a %s favourite, built to last and easy to love.", strings.ToLower(productType), brand, strings.ToLower(def.Name)),
		Category:             category,
		Price:                price,
		DiscountPercentage:   discount,
		Rating:               decimal.NewFromFloat(rating).Round(2).InexactFloat64(),
		Stock:                stock,
		Tags:                 []string{category, slug.Generate(productType)},
		Brand:                brand,
		SKU:                  fmt.Sprintf("%s-%05d", strings.ToUpper(category[:3]), id),
		Weight:               float64(1 + rng.IntN(10)),
		Dimensions:           domain.Dimensions{Width: float64(5+rng.IntN(2500)) / 100, Height: float64(5+rng.IntN(2500)) / 100, Depth: float64(5+rng.IntN(2500)) / 100},
		WarrantyInformation:  pick(rng, warranties),
		ShippingInformation:  pick(rng, shipping),
		AvailabilityStatus:   availability,
		Reviews:              reviews,
		ReturnPolicy:         pick(rng, returnPolicy),
		MinimumOrderQuantity: 1 + rng.IntN(48),
		Meta: domain.Meta{
			CreatedAt: created,
			UpdatedAt: created.Add(24 * time.Hour),
			Barcode:   fmt.Sprintf("%013d", 1_000_000_000_000+rng.Int64N(8_999_999_999_999)),
			QRCode:    "https://assets.dummyjson.com/public/qr-code.png",
		},
		Images:    images,
		Thumbnail: imageBase + "/thumbnail.png",
	}
}

// Len is the number of products.
func (c *Catalog) Len() int { return len(c.products) }

// Products returns the products in id order. The slice must not be modified.
func (c *Catalog) Products() []domain.Product { return c.products }

// Product looks a product up by id.
func (c *Catalog) Product(id int) (domain.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return c.products[i], true
}

// Categories returns the category menu.
func (c *Catalog) Categories() []domain.Category { return c.categories }

// ByCategory returns the products of one category in id order.
func (c *Catalog) ByCategory(categorySlug string) []domain.Product {
	out := []domain.Product{}
	for _, p := range c.products {
		if p.Category == categorySlug {
			out = append(out, p)
		}
	}
	return out
}
