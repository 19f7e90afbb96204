package muscleking

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

const Source = "MuscleKing"

// fieldPaths lists the payload shapes this catalog has shipped over time,
// newest first. Tolerating another shape is an entry here, not a branch.
var fieldPaths = map[string][]string{
	"id":       {"id", "sku", "articleNumber"},
	"title":    {"title", "name", "product.name"},
	"price":    {"price.amount", "prices[0].price", "price"},
	"currency": {"price.currency", "prices[0].currency", "currency"},
	"shipping": {"shipping.cost", "shippingCost"},
	"shipText": {"shipping.label", "shippingText"},
	"oldPrice": {"price.regular", "oldPrice", "strikePrice"},
	"link":     {"url", "link", "product.url"},
	"image":    {"image", "imageUrl", "images[0].url"},
	"rating":   {"rating.average", "rating", "stars"},
	"reviews":  {"rating.count", "reviewCount", "reviews"},
	"stock":    {"availability", "stock.status", "stockStatus"},
	"brand":    {"brand", "manufacturer"},
	"weight":   {"weightKg", "attributes.weight_kg"},
}

// Adapter queries the MuscleKing catalog JSON API.
type Adapter struct {
	BaseURL string
	client  *adapters.Client
}

func New(client *adapters.Client, baseURL string) *Adapter {
	return &Adapter{BaseURL: baseURL, client: client}
}

func (a *Adapter) Name() string { return Source }

// FetchOffers searches the catalog and maps every usable record into the
// canonical offer shape. Records without a title are dropped, siblings kept.
func (a *Adapter) FetchOffers(ctx context.Context, query string) ([]models.Offer, error) {
	u := fmt.Sprintf("%s/api/v2/search?q=%s", a.BaseURL, url.QueryEscape(query))
	body, err := a.client.GetJSON(ctx, u, "")
	if err != nil {
		return nil, err
	}

	items := normalize.ResolveField(body, "items", "results", "data.products")
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

	o := models.Offer{
		Title:    title,
		Vendor:   Source,
		Source:   Source,
		Currency: "EUR",
		Link:     normalize.ResolveString(raw, fieldPaths["link"]...),
		Image:    normalize.ResolveString(raw, fieldPaths["image"]...),
	}

	if cur := normalize.ResolveString(raw, fieldPaths["currency"]...); cur != "" {
		o.Currency = cur
	}

	if id := normalize.ResolveString(raw, fieldPaths["id"]...); id != "" {
		o.ID = Source + ":" + id
		o.ProductID = id
	} else {
		o.ID = normalize.HashID(Source, title)
	}

	if price, ok := normalize.ResolvePrice(raw, fieldPaths["price"]...); ok {
		o.Price = models.Float(price)
		o.PriceText = normalize.FormatPrice(price)
	}

	if ship, ok := normalize.ResolvePrice(raw, fieldPaths["shipping"]...); ok {
		o.ShippingCost = models.Float(ship)
		if o.Price != nil {
			o.TotalPrice = models.Float(normalize.Round2(*o.Price + ship))
		}
	}
	o.ShippingText = normalize.ResolveString(raw, fieldPaths["shipText"]...)

	if old, ok := normalize.ResolvePrice(raw, fieldPaths["oldPrice"]...); ok && o.Price != nil && old > *o.Price {
		o.DiscountPercent = models.Float(normalize.Round2((old - *o.Price) / old * 100))
	}

	if rating, ok := normalize.ResolveNumber(raw, fieldPaths["rating"]...); ok && rating >= 0 && rating <= 5 {
		o.Rating = models.Float(rating)
	}
	if reviews, ok := normalize.ResolveNumber(raw, fieldPaths["reviews"]...); ok && reviews >= 0 {
		o.Reviews = models.Int(int(reviews))
	}

	status := normalize.ResolveString(raw, fieldPaths["stock"]...)
	o.StockStatus = status
	if status == "" {
		// no availability field but a price is shown, assume in stock
		o.InStock = o.Price != nil
	} else {
		o.InStock = stockFromStatus(status)
	}

	if w, ok := normalize.ResolveNumber(raw, fieldPaths["weight"]...); ok && w > 0 {
		o.WeightKg = models.Float(w)
	} else if w, ok := normalize.WeightKg(title); ok {
		o.WeightKg = models.Float(w)
	}
	if o.WeightKg != nil && o.Price != nil {
		o.PricePerKg = models.Float(normalize.Round2(*o.Price / *o.WeightKg))
	}

	return o, true
}

func stockFromStatus(status string) bool {
	folded := normalize.Fold(status)
	switch folded {
	case "in stock", "available", "verfugbar", "auf lager", "lagernd", "true":
		return true
	}
	// schema.org availability URLs end in "InStock" / "OutOfStock"
	return strings.Contains(folded, "instock") && !strings.Contains(folded, "outofstock")
}
