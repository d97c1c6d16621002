// Package products owns the product catalog: the document shape shared
// with the remote store and the save path that keeps the local cache
// usable when the remote is down.
package products

import (
	"regexp"
	"strings"

	"github.com/tacoloja/storefront-backend/internal/catalog"
)

// Product types derived from the category.
const (
	TypeClothing  = "clothing"
	TypeShoes     = "shoes"
	TypeAccessory = "accessory"
)

const sizeSingle = "Único"

var (
	shoeSizes     = []string{"38", "39", "40", "41", "42"}
	clothingSizes = []string{"P", "M", "G"}
)

// Product is the catalog document. JSON field names match the remote
// schema, so a cached document and a remote document are byte-compatible.
type Product struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Price          float64  `json:"price"`
	Discount       int      `json:"discount"`
	ImageURL       string   `json:"imageUrl"`
	Images         []string `json:"images"`
	Category       string   `json:"category"`
	Type           string   `json:"type"`
	Sizes          []string `json:"sizes"`
	Colors         []string `json:"colors"`
	Stock          int      `json:"stock"`
	Featured       bool     `json:"featured"`
	OnSale         bool     `json:"on_sale"`
	ShowOnHomepage bool     `json:"showOnHomepage"`
}

var numericSize = regexp.MustCompile(`^\d+$`)

// normalizeFields fills zero values so every persisted document has the
// same shape. Arrays are never nil.
func (p *Product) normalizeFields() {
	p.Name = strings.TrimSpace(p.Name)
	if p.Sizes == nil {
		p.Sizes = []string{}
	}
	if p.Colors == nil {
		p.Colors = []string{}
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Type == "" {
		p.Type = TypeClothing
	}
	if p.Price < 0 {
		p.Price = 0
	}
	if p.Discount < 0 {
		p.Discount = 0
	}
	if p.Stock < 0 {
		p.Stock = 0
	}
}

// ApplyCategoryRules normalizes the category and derives the product
// type. Sizes are replaced only when the current set does not fit the
// new type, so hand-picked sizes survive a category change.
func (p *Product) ApplyCategoryRules() {
	p.Category = catalog.Normalize(p.Category)

	switch p.Category {
	case catalog.CategoryCalcados:
		p.Type = TypeShoes
		if len(p.Sizes) == 0 || !anyNumeric(p.Sizes) {
			p.Sizes = append([]string(nil), shoeSizes...)
		}
	case catalog.CategoryAcessorios:
		p.Type = TypeAccessory
		if len(p.Sizes) == 0 || anyNumeric(p.Sizes) || hasClothingRun(p.Sizes) {
			p.Sizes = []string{sizeSingle}
		}
	default:
		p.Type = TypeClothing
		if len(p.Sizes) == 0 || contains(p.Sizes, sizeSingle) || anyNumeric(p.Sizes) {
			p.Sizes = append([]string(nil), clothingSizes...)
		}
	}
}

func anyNumeric(sizes []string) bool {
	for _, s := range sizes {
		if numericSize.MatchString(s) {
			return true
		}
	}
	return false
}

func hasClothingRun(sizes []string) bool {
	return contains(sizes, "P") && contains(sizes, "M") && contains(sizes, "G")
}

func contains(sizes []string, want string) bool {
	for _, s := range sizes {
		if s == want {
			return true
		}
	}
	return false
}

// HasImage reports whether the product carries at least one image
// reference, hosted or inline.
func (p *Product) HasImage() bool {
	if p.ImageURL != "" {
		return true
	}
	for _, img := range p.Images {
		if img != "" {
			return true
		}
	}
	return false
}

// FinalPrice applies the percentage discount to the list price.
func (p *Product) FinalPrice() float64 {
	if p.Discount <= 0 {
		return p.Price
	}
	return p.Price * (1 - float64(p.Discount)/100)
}
