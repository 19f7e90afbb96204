package shopsearch

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"fitscout-base/pkg/adapters"
	"fitscout-base/pkg/models"
	"fitscout-base/pkg/normalize"
)

const Source = "ShopSearch"

// The shopping-search API aggregates many merchants, so unlike the vendor
// catalogs the merchant name comes from the record itself.
var fieldPaths = map[string][]string{
	"id":       {"product_id", "position"},
	"title":    {"title", "name"},
	"vendor":   {"source", "seller", "merchant.name"},
	"price":    {"extracted_price", "price"},
	"total":    {"total_price", "extracted_total"},
	"shipping": {"shipping", "delivery_price"},
	"link":     {"link", "product_link"},
	"image":    {"thumbnail", "image"},
	"rating":   {"rating"},
	"reviews":  {"reviews", "review_count"},
	"stock":    {"availability", "in_stock"},
}

// Adapter calls the third-party shopping search API used as the secondary
// fallback tier when no first-party vendor returns anything.
type Adapter struct {
	BaseURL string
	APIKey  string
	client  *adapters.Client
}

func New(client *adapters.Client, baseURL, apiKey string) *Adapter {
	return &Adapter{BaseURL: baseURL, APIKey: apiKey, client: client}
}

func (a *Adapter) Name() string { return Source }

func (a *Adapter) FetchOffers(ctx context.Context, query string) ([]models.Offer, error) {
	q := url.Values{}
	q.Set("engine", "shopping")
	q.Set("q", query)
	q.Set("gl", "at")
	q.Set("hl", "de")
	if a.APIKey != "" {
		q.Set("api_key", a.APIKey)
	}
	u := fmt.Sprintf("%s/search?%s", a.BaseURL, q.Encode())

	body, err := a.client.GetJSON(ctx, u, "")
	if err != nil {
		return nil, err
	}

	items := normalize.ResolveField(body, "shopping_results", "results")
	var offers []models.Offer
	items.ForEach(func(_, item gjson.Result) bool {
		if o, ok := mapOffer([]byte(item.Raw)); ok {
			offers = append(offers, o)
		}
		return true
	})
	return offers, nil
}

func mapOffer(raw []byte) (models.Offer, bool) {
	title := normalize.ResolveString(raw, fieldPaths["title"]...)
	if title == "" {
		return models.Offer{}, false
	}

	vendor := normalize.ResolveString(raw, fieldPaths["vendor"]...)
	if vendor == "" {
		vendor = Source
	}

	o := models.Offer{
		Title:    title,
		Vendor:   vendor,
		Source:   Source,
		Currency: "EUR",
		Link:     normalize.ResolveString(raw, fieldPaths["link"]...),
		Image:    normalize.ResolveString(raw, fieldPaths["image"]...),
	}

	if id := normalize.ResolveString(raw, fieldPaths["id"]...); id != "" {
		o.ID = Source + ":" + normalize.Slugify(vendor) + ":" + id
		o.ProductID = id
	} else {
		o.ID = normalize.HashID(Source, vendor, title)
	}

	if price, ok := normalize.ResolvePrice(raw, fieldPaths["price"]...); ok {
		o.Price = models.Float(price)
		o.PriceText = normalize.FormatPrice(price)
		o.InStock = true
	}
	if total, ok := normalize.ResolvePrice(raw, fieldPaths["total"]...); ok {
		o.TotalPrice = models.Float(total)
	}

	shipText := normalize.ResolveString(raw, fieldPaths["shipping"]...)
	o.ShippingText = shipText
	if ship, ok := normalize.Price(shipText); ok {
		o.ShippingCost = models.Float(ship)
		if o.TotalPrice == nil && o.Price != nil {
			o.TotalPrice = models.Float(normalize.Round2(*o.Price + ship))
		}
	} else if strings.Contains(normalize.Fold(shipText), "gratis") ||
		strings.Contains(normalize.Fold(shipText), "kostenlos") {
		o.ShippingCost = models.Float(0)
	}

	if rating, ok := normalize.ResolveNumber(raw, fieldPaths["rating"]...); ok && rating >= 0 && rating <= 5 {
		o.Rating = models.Float(rating)
	}
	if reviews, ok := normalize.ResolveNumber(raw, fieldPaths["reviews"]...); ok && reviews >= 0 {
		o.Reviews = models.Int(int(reviews))
	}

	if w, ok := normalize.WeightKg(title); ok {
		o.WeightKg = models.Float(w)
		if o.Price != nil {
			o.PricePerKg = models.Float(normalize.Round2(*o.Price / w))
		}
	}
	return o, true
}
