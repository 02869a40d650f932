package slug

import (
	"regexp"
	"strings"
)

var (
	slugRegexp = regexp.MustCompile(`[^a-z0-9]+`)

	// Apostrophes are dropped rather than turned into separators so that
	// "Men's Shirts" becomes "mens-shirts".
	apostrophes = strings.NewReplacer("'", "", "’", "")

	transliterate = strings.NewReplacer(
		"à", "a", "á", "a", "â", "a", "ä", "a", "ã", "a", "å", "a",
		"ç", "c",
		"è", "e", "é", "e", "ê", "e", "ë", "e",
		"ğ", "g",
		"ì", "i", "í", "i", "î", "i", "ï", "i", "ı", "i",
		"ñ", "n",
		"ò", "o", "ó", "o", "ô", "o", "ö", "o", "õ", "o", "ø", "o",
		"ş", "s", "ß", "ss",
		"ù", "u", "ú", "u", "û", "u", "ü", "u",
		"&", " and ",
	)
)

// Generate creates a URL-friendly slug from the given name.
//
// Examples:
//   - "Home Decoration" → "home-decoration"
//   - "Men's Shirts" → "mens-shirts"
//   - "Skin Care & Fragrances" → "skin-care-and-fragrances"
func Generate(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = apostrophes.Replace(slug)
	slug = transliterate.Replace(slug)
	slug = slugRegexp.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// Title turns a slug back into a display name: "mens-shirts" → "Mens Shirts".
func Title(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
