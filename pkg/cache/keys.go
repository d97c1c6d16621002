package cache

// Well-known cache keys. Every cached collection is one serialized JSON
// document under one of these keys.
const (
	KeyProducts         = "products"
	KeyStoreSettings    = "store_settings"
	KeyCoupons          = "store_coupons"
	KeyCart             = "cart"
	KeyFinancialRecords = "financial_records"
	KeyLastSync         = "last_sync"
)

// CartKey scopes the cart key to one shopper. An empty id falls back to
// the shared anonymous cart.
func CartKey(userID string) string {
	if userID == "" {
		return KeyCart
	}
	return KeyCart + ":" + userID
}
