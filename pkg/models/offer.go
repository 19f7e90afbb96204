package models

// Tier records which stage of the fallback chain produced a result set.
type Tier string

const (
	TierAPI      Tier = "api"
	TierFallback Tier = "fallback"
	TierMock     Tier = "mock"
)

// Offer is a single vendor's price quote for one item. All adapters map
// their provider payloads into this shape.
type Offer struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Vendor          string   `json:"vendor"`
	Price           *float64 `json:"price"`
	Currency        string   `json:"currency"`
	PriceText       string   `json:"price_text,omitempty"`
	TotalPrice      *float64 `json:"total_price,omitempty"`
	ShippingCost    *float64 `json:"shipping_cost,omitempty"`
	ShippingText    string   `json:"shipping_text,omitempty"`
	InStock         bool     `json:"in_stock"`
	StockStatus     string   `json:"stock_status,omitempty"`
	Link            string   `json:"link,omitempty"`
	Image           string   `json:"image,omitempty"`
	Rating          *float64 `json:"rating,omitempty"`
	Reviews         *int     `json:"reviews,omitempty"`
	BestPrice       bool     `json:"best_price"`
	IsBestPrice     bool     `json:"is_best_price"`
	Source          string   `json:"source"`
	ProductID       string   `json:"product_id,omitempty"`
	Description     string   `json:"description,omitempty"`
	WeightKg        *float64 `json:"weight_kg,omitempty"`
	ProteinPer100g  *float64 `json:"protein_per_100g,omitempty"`
	PricePerKg      *float64 `json:"price_per_kg,omitempty"`
	DiscountPercent *float64 `json:"discount_percent,omitempty"`
}

// EffectivePrice returns the total price when known, else the base price.
// Nil means the offer carries no usable price at all.
func (o Offer) EffectivePrice() *float64 {
	if o.TotalPrice != nil {
		return o.TotalPrice
	}
	return o.Price
}

// Float returns a pointer to v. Convenience for building optional fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
