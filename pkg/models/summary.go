package models

// ProductSummary aggregates one or more offers for the same logical item.
// Summaries are rebuilt on every request; they never reference their offers.
type ProductSummary struct {
	Name           string   `json:"name"`
	Brand          string   `json:"brand,omitempty"`
	Category       string   `json:"category,omitempty"`
	Image          string   `json:"image,omitempty"`
	BestPrice      *float64 `json:"best_price"`
	Currency       string   `json:"currency,omitempty"`
	OfferCount     int      `json:"offer_count"`
	InStockCount   int      `json:"in_stock_count"`
	AvgRating      *float64 `json:"avg_rating,omitempty"`
	ReviewCount    int      `json:"review_count"`
	PricePerKg     *float64 `json:"price_per_kg,omitempty"`
	ProteinPerEuro *float64 `json:"protein_per_euro,omitempty"`
}
