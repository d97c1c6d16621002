package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tacoloja/storefront-backend/api/responses"
	"github.com/tacoloja/storefront-backend/api/validators"
	"github.com/tacoloja/storefront-backend/internal/coupons"
	pkgerrors "github.com/tacoloja/storefront-backend/pkg/errors"
	"github.com/tacoloja/storefront-backend/pkg/logger"
)

func ListCoupons(reg *coupons.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if reg == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon registry unavailable"))
			return
		}
		responses.WriteSuccess(w, reg.List(r.Context()))
	}
}

type addCouponRequest struct {
	Code     string `json:"code" validate:"required"`
	Discount int    `json:"discount" validate:"required,gt=0,lte=100"`
}

func AddCoupon(reg *coupons.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if reg == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon registry unavailable"))
			return
		}

		var payload addCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		coupon, err := reg.Add(r.Context(), coupons.Coupon{Code: payload.Code, Discount: payload.Discount})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, coupon)
	}
}

func DeleteCoupon(reg *coupons.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if reg == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon registry unavailable"))
			return
		}

		code := chi.URLParam(r, "couponCode")
		if err := reg.Remove(r.Context(), code); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"code": code, "status": "removed"})
	}
}
