package controllers

import (
	"net/http"

	"github.com/tacoloja/storefront-backend/api/responses"
	"github.com/tacoloja/storefront-backend/api/validators"
	cartsvc "github.com/tacoloja/storefront-backend/internal/cart"
	pkgerrors "github.com/tacoloja/storefront-backend/pkg/errors"
	"github.com/tacoloja/storefront-backend/pkg/logger"
)

const shopperHeader = "X-Shopper-Id"

func shopperID(r *http.Request) string {
	return r.Header.Get(shopperHeader)
}

type cartView struct {
	Items          []cartsvc.Item `json:"items"`
	CouponCode     string         `json:"couponCode,omitempty"`
	CouponDiscount int            `json:"couponDiscount,omitempty"`
	Subtotal       string         `json:"subtotal"`
	Total          string         `json:"total"`
}

func viewCart(c cartsvc.Cart) cartView {
	totals := c.Price()
	return cartView{
		Items:          c.Items,
		CouponCode:     c.CouponCode,
		CouponDiscount: c.CouponDiscount,
		Subtotal:       totals.Subtotal.StringFixed(2),
		Total:          totals.Total.StringFixed(2),
	}
}

func GetCart(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		responses.WriteSuccess(w, viewCart(svc.Get(r.Context(), shopperID(r))))
	}
}

type addCartItemRequest struct {
	ProductID string  `json:"id" validate:"required"`
	Name      string  `json:"name,omitempty"`
	Price     float64 `json:"price" validate:"gte=0"`
	Discount  int     `json:"discount,omitempty" validate:"omitempty,gte=0,lte=100"`
	ImageURL  string  `json:"imageUrl,omitempty"`
	Size      string  `json:"selectedSize,omitempty"`
	Color     string  `json:"selectedColor,omitempty"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
}

func AddCartItem(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c, err := svc.AddItem(r.Context(), shopperID(r), cartsvc.Item{
			ProductID: payload.ProductID,
			Name:      payload.Name,
			Price:     payload.Price,
			Discount:  payload.Discount,
			ImageURL:  payload.ImageURL,
			Size:      payload.Size,
			Color:     payload.Color,
			Quantity:  payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, viewCart(*c))
	}
}

type updateCartItemRequest struct {
	ProductID string `json:"id" validate:"required"`
	Size      string `json:"selectedSize,omitempty"`
	Color     string `json:"selectedColor,omitempty"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
}

func (req updateCartItemRequest) key() cartsvc.Item {
	return cartsvc.Item{ProductID: req.ProductID, Size: req.Size, Color: req.Color}
}

// UpdateCartItem sets a position's quantity; zero removes the position.
func UpdateCartItem(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c, err := svc.UpdateQuantity(r.Context(), shopperID(r), payload.key(), payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, viewCart(*c))
	}
}

func RemoveCartItem(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c, err := svc.RemoveItem(r.Context(), shopperID(r), payload.key())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, viewCart(*c))
	}
}

func ClearCart(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		c, err := svc.Clear(r.Context(), shopperID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, viewCart(*c))
	}
}

type applyCouponRequest struct {
	Code string `json:"code" validate:"required"`
}

func ApplyCartCoupon(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload applyCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c, err := svc.ApplyCoupon(r.Context(), shopperID(r), payload.Code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, viewCart(*c))
	}
}

func RemoveCartCoupon(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		c, err := svc.RemoveCoupon(r.Context(), shopperID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, viewCart(*c))
	}
}
