package domain

// Category is an entry of the category menu. Slug is unique.
type Category struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Path is the in-app route of the category listing.
func (c Category) Path() string {
	return "/category/" + c.Slug
}
