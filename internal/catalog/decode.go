package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/slug"
	"github.com/utafrali/storefront/pkg/validator"
)

// productEnvelope is the paged list shape. Pointers tell a missing field
// from a zero one.
type productEnvelope struct {
	Products *[]domain.Product `json:"products"`
	Total    *int              `json:"total"`
	Skip     *int              `json:"skip"`
	Limit    *int              `json:"limit"`
}

// decodeProductPage accepts either a bare JSON array of products or the
// {products,total,skip,limit} envelope.
func decodeProductPage(body []byte, limit, skip int) (*domain.ProductPage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, apperrors.Malformed(errors.New("empty body"))
	}

	page := &domain.ProductPage{Skip: skip, Limit: limit}

	switch body[0] {
	case '[':
		var products []domain.Product
		if err := json.Unmarshal(body, &products); err != nil {
			return nil, apperrors.Malformed(fmt.Errorf("decode product list: %w", err))
		}
		page.Products = products
		page.Total = skip + len(products)
	case '{':
		var env productEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, apperrors.Malformed(fmt.Errorf("decode product envelope: %w", err))
		}
		if env.Products == nil {
			return nil, apperrors.Malformed(errors.New("product envelope has no products field"))
		}
		page.Products = *env.Products
		page.Total = skip + len(page.Products)
		if env.Total != nil {
			page.Total = *env.Total
		}
		if env.Skip != nil {
			page.Skip = *env.Skip
		}
		if env.Limit != nil {
			page.Limit = *env.Limit
		}
	default:
		return nil, apperrors.Malformed(fmt.Errorf("unexpected product list payload starting with %q", body[0]))
	}

	if page.Products == nil {
		page.Products = []domain.Product{}
	}
	for i := range page.Products {
		if err := validator.Validate(page.Products[i]); err != nil {
			return nil, apperrors.Malformed(fmt.Errorf("product %d: %w", i, err))
		}
	}
	return page, nil
}

// decodeProduct decodes and validates a single product.
func decodeProduct(body []byte) (*domain.Product, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return nil, apperrors.Malformed(errors.New("product payload is not an object"))
	}

	var p domain.Product
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, apperrors.Malformed(fmt.Errorf("decode product: %w", err))
	}
	if p.ID == 0 && p.Title == "" {
		return nil, apperrors.Malformed(errors.New("product payload has neither id nor title"))
	}
	if err := validator.Validate(p); err != nil {
		return nil, apperrors.Malformed(err)
	}
	return &p, nil
}

// decodeCategories accepts an array whose entries are {slug,name,url}
// objects or plain names. Duplicate slugs keep their first entry.
func decodeCategories(body []byte) ([]domain.Category, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, apperrors.Malformed(fmt.Errorf("decode categories: %w", err))
	}

	categories := make([]domain.Category, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for i, entry := range raw {
		c, err := decodeCategory(entry)
		if err != nil {
			return nil, apperrors.Malformed(fmt.Errorf("category %d: %w", i, err))
		}
		if _, dup := seen[c.Slug]; dup {
			continue
		}
		seen[c.Slug] = struct{}{}
		categories = append(categories, c)
	}
	return categories, nil
}

func decodeCategory(entry json.RawMessage) (domain.Category, error) {
	entry = bytes.TrimSpace(entry)
	if len(entry) > 0 && entry[0] == '"' {
		var name string
		if err := json.Unmarshal(entry, &name); err != nil {
			return domain.Category{}, err
		}
		return categoryFromName(name)
	}

	var c domain.Category
	if err := json.Unmarshal(entry, &c); err != nil {
		return domain.Category{}, err
	}
	switch {
	case c.Slug == "" && c.Name == "":
		return domain.Category{}, errors.New("category has neither slug nor name")
	case c.Slug == "":
		c.Slug = slug.Generate(c.Name)
	case c.Name == "":
		c.Name = slug.Title(c.Slug)
	}
	return c, nil
}

// categoryFromName turns a plain entry into a category. Entries that are
// already slugs get a title-cased display name.
func categoryFromName(name string) (domain.Category, error) {
	s := slug.Generate(name)
	if s == "" {
		return domain.Category{}, fmt.Errorf("unusable category name %q", name)
	}
	if s == name {
		name = slug.Title(s)
	}
	return domain.Category{Slug: s, Name: name}, nil
}
