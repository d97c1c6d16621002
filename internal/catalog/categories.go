// Package catalog owns category naming. Every path that touches a
// category string goes through Normalize so filtering, storefront links
// and product writes all agree on the same canonical slugs.
package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Canonical category slugs. Accented forms are the canonical spelling.
const (
	CategoryFeminino   = "feminino"
	CategoryMasculino  = "masculino"
	CategoryKids       = "kids"
	CategoryAcessorios = "acessórios"
	CategoryCalcados   = "calçados"
	CategoryFeatured   = "featured"
	CategoryOff        = "off"
	CategoryNovidades  = "novidades"
)

var defaultCategories = []string{
	CategoryFeminino,
	CategoryMasculino,
	CategoryKids,
	CategoryAcessorios,
	CategoryCalcados,
	CategoryFeatured,
	CategoryOff,
	CategoryNovidades,
}

// synonyms maps accepted spellings onto canonical slugs. Unlisted values
// pass through as custom categories.
var synonyms = map[string]string{
	"calcados":     CategoryCalcados,
	"calçados":     CategoryCalcados,
	"shoes":        CategoryCalcados,
	"acessorios":   CategoryAcessorios,
	"acessórios":   CategoryAcessorios,
	"accessories":  CategoryAcessorios,
	"accessory":    CategoryAcessorios,
	"masculino":    CategoryMasculino,
	"men":          CategoryMasculino,
	"homem":        CategoryMasculino,
	"feminino":     CategoryFeminino,
	"women":        CategoryFeminino,
	"mulher":       CategoryFeminino,
	"infantil":     CategoryKids,
	"children":     CategoryKids,
	"kids":         CategoryKids,
	"kid":          CategoryKids,
	"oferta":       CategoryOff,
	"ofertas":      CategoryOff,
	"promoção":     CategoryOff,
	"off":          CategoryOff,
	"sale":         CategoryOff,
	"novidade":     CategoryNovidades,
	"novidades":    CategoryNovidades,
	"new":          CategoryNovidades,
	"new arrivals": CategoryNovidades,
	"destaque":     CategoryFeatured,
	"destaques":    CategoryFeatured,
	"featured":     CategoryFeatured,
	"melhores":     CategoryFeatured,
}

// DefaultCategories returns the built-in category slugs in display order.
func DefaultCategories() []string {
	out := make([]string, len(defaultCategories))
	copy(out, defaultCategories)
	return out
}

// Normalize folds a raw category value onto its canonical slug. Custom
// categories come back trimmed and lowercased but otherwise untouched.
// Normalize is idempotent.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := synonyms[normalized]; ok {
		return canonical
	}
	return normalized
}

// IsDefault reports whether the value resolves to a built-in category.
func IsDefault(raw string) bool {
	normalized := Normalize(raw)
	for _, c := range defaultCategories {
		if c == normalized {
			return true
		}
	}
	return false
}

// DisplayName formats a category for end users. Built-in slugs are
// capitalized, custom labels keep their original casing.
func DisplayName(raw string) string {
	normalized := Normalize(raw)
	if IsDefault(normalized) {
		r := []rune(normalized)
		return strings.ToUpper(string(r[0])) + string(r[1:])
	}
	return raw
}

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// ToURLSlug builds a URL-safe slug from arbitrary text. Diacritics are
// stripped, whitespace collapses to single hyphens, and anything outside
// [a-z0-9-] is dropped. Idempotent.
func ToURLSlug(text string) string {
	if text == "" {
		return ""
	}

	lowered := strings.ToLower(text)
	flattened, _, err := transform.String(stripAccents, lowered)
	if err != nil {
		flattened = lowered
	}

	var b strings.Builder
	b.Grow(len(flattened))
	lastHyphen := false
	for _, r := range flattened {
		switch {
		case unicode.IsSpace(r):
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		case r == '-' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = r == '-'
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// LinkSlug resolves text for storefront links. Built-in categories keep
// their canonical slug, accents included, so category routes stay stable.
// Everything else becomes a plain URL slug.
func LinkSlug(text string) string {
	if text == "" {
		return ""
	}
	normalized := Normalize(text)
	if IsDefault(normalized) {
		return normalized
	}
	return ToURLSlug(text)
}

// PagePath returns the storefront route for a category.
func PagePath(category string) string {
	return "/products/" + LinkSlug(category)
}

// CategoryFromPath extracts the category segment from a storefront route.
func CategoryFromPath(path string) string {
	parts := strings.Split(path, "/")
	return parts[len(parts)-1]
}
