package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Beauty", "beauty"},
		{"two words", "Home Decoration", "home-decoration"},
		{"apostrophe", "Men's Shirts", "mens-shirts"},
		{"typographic apostrophe", "Women’s Bags", "womens-bags"},
		{"ampersand", "Skin Care & Fragrances", "skin-care-and-fragrances"},
		{"accents", "Café Crème", "cafe-creme"},
		{"extra spaces", "  Sports   Accessories  ", "sports-accessories"},
		{"already a slug", "mobile-accessories", "mobile-accessories"},
		{"punctuation", "Tops!!! (new)", "tops-new"},
		{"empty", "", ""},
		{"only symbols", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Generate(tt.input))
		})
	}
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Mens Shirts", Title("mens-shirts"))
	assert.Equal(t, "Beauty", Title("beauty"))
	assert.Equal(t, "Home Decoration", Title("home--decoration"))
	assert.Equal(t, "", Title(""))
}
