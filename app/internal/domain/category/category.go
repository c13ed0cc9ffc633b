package category

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Category groups upstream products by their category slug.
type Category struct {
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	ProductCount int    `json:"product_count"`
}

// NameOf derives a display name from slug: "running-shoes" is
// "Running shoes".
func NameOf(slug string) string {
	name := strings.ReplaceAll(slug, "-", " ")
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}
