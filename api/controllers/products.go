package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tacoloja/storefront-backend/api/responses"
	"github.com/tacoloja/storefront-backend/api/validators"
	productsvc "github.com/tacoloja/storefront-backend/internal/products"
	pkgerrors "github.com/tacoloja/storefront-backend/pkg/errors"
	"github.com/tacoloja/storefront-backend/pkg/logger"
)

// ListProducts serves the cached catalog, optionally filtered by
// category. Category synonyms match their canonical form.
func ListProducts(svc *productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		if category := r.URL.Query().Get("category"); category != "" {
			responses.WriteSuccess(w, svc.ByCategory(r.Context(), category))
			return
		}
		responses.WriteSuccess(w, svc.List(r.Context()))
	}
}

func GetProduct(svc *productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		product, err := svc.Get(r.Context(), chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

type saveProductRequest struct {
	ID             string   `json:"id,omitempty"`
	Name           string   `json:"name" validate:"required"`
	Description    string   `json:"description,omitempty"`
	Price          float64  `json:"price" validate:"gte=0"`
	Discount       int      `json:"discount,omitempty" validate:"omitempty,gte=0,lte=100"`
	ImageURL       string   `json:"imageUrl,omitempty"`
	Images         []string `json:"images,omitempty"`
	Category       string   `json:"category" validate:"required"`
	Sizes          []string `json:"sizes,omitempty"`
	Colors         []string `json:"colors,omitempty"`
	Stock          int      `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Featured       bool     `json:"featured,omitempty"`
	OnSale         bool     `json:"on_sale,omitempty"`
	ShowOnHomepage bool     `json:"showOnHomepage,omitempty"`
}

func (req saveProductRequest) toProduct() productsvc.Product {
	return productsvc.Product{
		ID:             req.ID,
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		Discount:       req.Discount,
		ImageURL:       req.ImageURL,
		Images:         req.Images,
		Category:       req.Category,
		Sizes:          req.Sizes,
		Colors:         req.Colors,
		Stock:          req.Stock,
		Featured:       req.Featured,
		OnSale:         req.OnSale,
		ShowOnHomepage: req.ShowOnHomepage,
	}
}

type saveProductResponse struct {
	Product      productsvc.Product `json:"product"`
	RemoteSaved  bool               `json:"remoteSaved"`
	ImagesInline bool               `json:"imagesInline,omitempty"`
}

// SaveProduct creates or updates a product. An unreachable remote still
// answers 200: the product lands in the cache and remoteSaved says so.
func SaveProduct(svc *productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload saveProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Save(r.Context(), payload.toProduct())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, saveProductResponse{
			Product:      result.Product,
			RemoteSaved:  result.RemoteSaved,
			ImagesInline: result.ImagesInline,
		})
	}
}

func DeleteProduct(svc *productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "productId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
