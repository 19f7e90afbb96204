package powerfood

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/tidwall/gjson"

	"fitscout-base/pkg/adapters"
	"fitscout-base/pkg/models"
	"fitscout-base/pkg/normalize"
)

const (
	Source = "PowerFood"

	// search results are rendered server-side; the product list sits in a
	// script tag assigning this global
	stateMarker = "window.__PF_SEARCH__"
)

var fieldPaths = map[string][]string{
	"id":       {"sku", "id"},
	"title":    {"name", "title"},
	"price":    {"price", "pricing.current"},
	"oldPrice": {"strikePrice", "pricing.regular"},
	"link":     {"url", "slug"},
	"image":    {"image", "images[0]"},
	"stock":    {"availability"},
	"rating":   {"rating"},
	"reviews":  {"ratingCount"},
}

// Adapter scrapes the PowerFood shop search page and pulls the embedded
// product state out of it.
type Adapter struct {
	BaseURL string
	// Domains whitelists collector targets; tests set it to nil.
	Domains []string
	timeout time.Duration
}

func New(baseURL string, timeout time.Duration) *Adapter {
	return &Adapter{
		BaseURL: baseURL,
		Domains: []string{"www.powerfood.at", "powerfood.at"},
		timeout: timeout,
	}
}

func (a *Adapter) Name() string { return Source }

// FetchOffers visits the search page for query and maps the embedded state.
// The collector runs synchronously under its own request timeout; the
// passed context only gates work that has not started yet.
func (a *Adapter) FetchOffers(ctx context.Context, query string) ([]models.Offer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := colly.NewCollector(colly.UserAgent(adapters.UserAgent))
	c.AllowedDomains = a.Domains
	c.SetRequestTimeout(a.timeout)

	var offers []models.Offer
	var sawState bool

	c.OnHTML("script", func(e *colly.HTMLElement) {
		if sawState || !strings.Contains(e.Text, stateMarker) {
			return
		}
		blob, ok := adapters.ExtractEmbeddedJSON([]byte(e.Text), stateMarker)
		if !ok {
			return
		}
		sawState = true
		normalize.ResolveField(blob, "products", "items").ForEach(func(_, item gjson.Result) bool {
			if o, ok := mapOffer([]byte(item.Raw)); ok {
				offers = append(offers, o)
			}
			return true
		})
	})

	searchURL := fmt.Sprintf("%s/suche?q=%s", a.BaseURL, url.QueryEscape(query))
	if err := c.Visit(searchURL); err != nil {
		return nil, err
	}
	if !sawState {
		return nil, fmt.Errorf("no embedded product state found")
	}
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
		Image:    normalize.ResolveString(raw, fieldPaths["image"]...),
	}

	if link := normalize.ResolveString(raw, fieldPaths["link"]...); link != "" {
		o.Link = link
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
		o.InStock = true
	}
	if status := normalize.ResolveString(raw, fieldPaths["stock"]...); status != "" {
		o.StockStatus = status
		o.InStock = !strings.Contains(normalize.Fold(status), "ausverkauft")
	}

	if old, ok := normalize.ResolvePrice(raw, fieldPaths["oldPrice"]...); ok && o.Price != nil && old > *o.Price {
		o.DiscountPercent = models.Float(normalize.Round2((old - *o.Price) / old * 100))
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
