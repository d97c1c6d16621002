// Package coupons keeps the store coupon registry in the local cache.
package coupons

import (
	"context"
	"errors"
	"strings"

	"github.com/tacoloja/storefront-backend/pkg/cache"
	pkgerrors "github.com/tacoloja/storefront-backend/pkg/errors"
)

// Coupon is a percentage discount redeemable at checkout.
type Coupon struct {
	Code     string `json:"code"`
	Discount int    `json:"discount"`
}

// Registry manages the coupon collection. Codes are stored uppercase and
// matched case-insensitively.
type Registry struct {
	cacheSt *cache.Store
}

func NewRegistry(cacheSt *cache.Store) (*Registry, error) {
	if cacheSt == nil {
		return nil, errors.New("cache store is required")
	}
	return &Registry{cacheSt: cacheSt}, nil
}

// List returns every registered coupon.
func (r *Registry) List(ctx context.Context) []Coupon {
	return cache.Get(ctx, r.cacheSt, cache.KeyCoupons, []Coupon{})
}

// Find resolves a code to its coupon, matching case-insensitively.
func (r *Registry) Find(ctx context.Context, code string) (*Coupon, error) {
	normalized := normalizeCode(code)
	if normalized == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}
	for _, c := range r.List(ctx) {
		if c.Code == normalized {
			return &c, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
}

// Add registers a coupon. The code is uppercased and must be unique; the
// discount is a percentage between 1 and 100.
func (r *Registry) Add(ctx context.Context, coupon Coupon) (*Coupon, error) {
	coupon.Code = normalizeCode(coupon.Code)
	if coupon.Code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}
	if coupon.Discount <= 0 || coupon.Discount > 100 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon discount must be between 1 and 100")
	}

	current := r.List(ctx)
	for _, c := range current {
		if c.Code == coupon.Code {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "coupon code already exists")
		}
	}

	current = append(current, coupon)
	if !cache.Set(ctx, r.cacheSt, cache.KeyCoupons, current) {
		return nil, pkgerrors.New(pkgerrors.CodeSerialization, "persisting coupons failed")
	}
	return &coupon, nil
}

// Remove drops a coupon by code. Removing an unknown code is not an
// error.
func (r *Registry) Remove(ctx context.Context, code string) error {
	normalized := normalizeCode(code)
	if normalized == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}

	current := r.List(ctx)
	next := make([]Coupon, 0, len(current))
	for _, c := range current {
		if c.Code != normalized {
			next = append(next, c)
		}
	}
	if !cache.Set(ctx, r.cacheSt, cache.KeyCoupons, next) {
		return pkgerrors.New(pkgerrors.CodeSerialization, "persisting coupons failed")
	}
	return nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
