// Package cart manages per-shopper carts and checkout pricing. The cart
// lives in the local cache and mirrors to the remote store best-effort,
// so checkout keeps working while the remote is down.
package cart

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/tacoloja/storefront-backend/internal/coupons"
	"github.com/tacoloja/storefront-backend/pkg/cache"
	pkgerrors "github.com/tacoloja/storefront-backend/pkg/errors"
	"github.com/tacoloja/storefront-backend/pkg/logger"
	"github.com/tacoloja/storefront-backend/pkg/remote"
)

// Item is one cart line. Two lines are the same position only when
// product id, size and color all match.
type Item struct {
	ProductID string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Discount  int     `json:"discount"`
	ImageURL  string  `json:"imageUrl"`
	Size      string  `json:"selectedSize,omitempty"`
	Color     string  `json:"selectedColor,omitempty"`
	Quantity  int     `json:"quantity"`
}

func (i Item) samePosition(other Item) bool {
	return i.ProductID == other.ProductID && i.Size == other.Size && i.Color == other.Color
}

// Cart is the cached cart document. At most one coupon is active.
type Cart struct {
	Items          []Item `json:"items"`
	CouponCode     string `json:"couponCode,omitempty"`
	CouponDiscount int    `json:"couponDiscount,omitempty"`
}

// Totals is the priced cart, rounded to cents.
type Totals struct {
	Subtotal decimal.Decimal
	Total    decimal.Decimal
}

var one = decimal.NewFromInt(1)

func percentOff(discount int) decimal.Decimal {
	if discount <= 0 {
		return one
	}
	return one.Sub(decimal.NewFromInt(int64(discount)).Div(decimal.NewFromInt(100)))
}

// LineTotal prices one line: price times (1 - discount%) times quantity.
func (i Item) LineTotal() decimal.Decimal {
	return decimal.NewFromFloat(i.Price).
		Mul(percentOff(i.Discount)).
		Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Price sums the line totals and applies the active coupon to the whole.
func (c Cart) Price() Totals {
	subtotal := decimal.Zero
	for _, item := range c.Items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	total := subtotal.Mul(percentOff(c.CouponDiscount))
	return Totals{
		Subtotal: subtotal.Round(2),
		Total:    total.Round(2),
	}
}

// Service stores carts in the cache and mirrors them to the remote.
type Service struct {
	cacheSt *cache.Store
	coupons *coupons.Registry
	store   remote.Store
	logg    *logger.Logger
}

func NewService(cacheSt *cache.Store, registry *coupons.Registry, store remote.Store, logg *logger.Logger) (*Service, error) {
	if cacheSt == nil {
		return nil, errors.New("cache store is required")
	}
	if registry == nil {
		return nil, errors.New("coupon registry is required")
	}
	return &Service{cacheSt: cacheSt, coupons: registry, store: store, logg: logg}, nil
}

// Get returns the shopper's cart; a missing cart is empty, not an error.
func (s *Service) Get(ctx context.Context, userID string) Cart {
	return cache.Get(ctx, s.cacheSt, cache.CartKey(userID), Cart{})
}

// AddItem merges the item into the cart, stacking quantity when the same
// product, size and color is already present.
func (s *Service) AddItem(ctx context.Context, userID string, item Item) (*Cart, error) {
	if item.ProductID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if item.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	current := s.Get(ctx, userID)
	merged := false
	for i := range current.Items {
		if current.Items[i].samePosition(item) {
			current.Items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		current.Items = append(current.Items, item)
	}
	return s.persist(ctx, userID, current)
}

// UpdateQuantity sets the quantity for a position. Zero or negative
// removes the position.
func (s *Service) UpdateQuantity(ctx context.Context, userID string, key Item, quantity int) (*Cart, error) {
	current := s.Get(ctx, userID)
	if quantity <= 0 {
		return s.removePosition(ctx, userID, current, key)
	}
	for i := range current.Items {
		if current.Items[i].samePosition(key) {
			current.Items[i].Quantity = quantity
			return s.persist(ctx, userID, current)
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart position not found")
}

// RemoveItem drops a position identified by product id, size and color.
func (s *Service) RemoveItem(ctx context.Context, userID string, key Item) (*Cart, error) {
	return s.removePosition(ctx, userID, s.Get(ctx, userID), key)
}

// Clear empties the cart and drops the active coupon.
func (s *Service) Clear(ctx context.Context, userID string) (*Cart, error) {
	return s.persist(ctx, userID, Cart{})
}

// ApplyCoupon looks the code up in the registry and attaches it to the
// cart, replacing any previously active coupon.
func (s *Service) ApplyCoupon(ctx context.Context, userID, code string) (*Cart, error) {
	coupon, err := s.coupons.Find(ctx, code)
	if err != nil {
		return nil, err
	}
	current := s.Get(ctx, userID)
	current.CouponCode = coupon.Code
	current.CouponDiscount = coupon.Discount
	return s.persist(ctx, userID, current)
}

// RemoveCoupon detaches the active coupon.
func (s *Service) RemoveCoupon(ctx context.Context, userID string) (*Cart, error) {
	current := s.Get(ctx, userID)
	current.CouponCode = ""
	current.CouponDiscount = 0
	return s.persist(ctx, userID, current)
}

func (s *Service) removePosition(ctx context.Context, userID string, current Cart, key Item) (*Cart, error) {
	next := make([]Item, 0, len(current.Items))
	for _, item := range current.Items {
		if !item.samePosition(key) {
			next = append(next, item)
		}
	}
	current.Items = next
	return s.persist(ctx, userID, current)
}

func (s *Service) persist(ctx context.Context, userID string, c Cart) (*Cart, error) {
	if c.Items == nil {
		c.Items = []Item{}
	}
	if !cache.Set(ctx, s.cacheSt, cache.CartKey(userID), c) {
		return nil, pkgerrors.New(pkgerrors.CodeSerialization, "persisting cart failed")
	}
	s.mirrorRemote(ctx, userID, c)
	return &c, nil
}

func (s *Service) mirrorRemote(ctx context.Context, userID string, c Cart) {
	if s.store == nil || userID == "" {
		return
	}
	doc, err := json.Marshal(struct {
		ID string `json:"id"`
		Cart
	}{ID: userID, Cart: c})
	if err != nil {
		return
	}
	if _, err := s.store.Upsert(ctx, remote.EntityCarts, remote.Record{ID: userID, Doc: doc}); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "remote cart write failed, cart kept locally")
	}
}
