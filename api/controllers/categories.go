package controllers

import (
	"net/http"

	"github.com/tacoloja/storefront-backend/api/responses"
	"github.com/tacoloja/storefront-backend/internal/catalog"
)

type categoryView struct {
	Slug    string `json:"slug"`
	Display string `json:"display"`
	Path    string `json:"path"`
}

// ListCategories serves the built-in categories with their storefront
// routes.
func ListCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slugs := catalog.DefaultCategories()
		out := make([]categoryView, 0, len(slugs))
		for _, slug := range slugs {
			out = append(out, categoryView{
				Slug:    slug,
				Display: catalog.DisplayName(slug),
				Path:    catalog.PagePath(slug),
			})
		}
		responses.WriteSuccess(w, out)
	}
}

type resolveCategoryResponse struct {
	Input     string `json:"input"`
	Canonical string `json:"canonical"`
	Slug      string `json:"slug"`
	IsDefault bool   `json:"isDefault"`
}

// ResolveCategory normalizes arbitrary category text, for admin tooling
// that needs to preview how a label will be filed and linked.
func ResolveCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input := r.URL.Query().Get("q")
		responses.WriteSuccess(w, resolveCategoryResponse{
			Input:     input,
			Canonical: catalog.Normalize(input),
			Slug:      catalog.LinkSlug(input),
			IsDefault: catalog.IsDefault(input),
		})
	}
}
