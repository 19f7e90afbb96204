package sportprofi

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/tidwall/gjson"

	"fitscout-base/pkg/adapters"
	"fitscout-base/pkg/models"
	"fitscout-base/pkg/normalize"
)

const Source = "SportProfi"

var fieldPaths = map[string][]string{
	"id":       {"sku", "productID"},
	"title":    {"name"},
	"price":    {"offers.price", "offers[0].price"},
	"currency": {"offers.priceCurrency", "offers[0].priceCurrency"},
	"stock":    {"offers.availability", "offers[0].availability"},
	"link":     {"offers.url", "url"},
	"image":    {"image", "image[0]"},
	"rating":   {"aggregateRating.ratingValue"},
	"reviews":  {"aggregateRating.reviewCount", "aggregateRating.ratingCount"},
	"brand":    {"brand.name", "brand"},
}

// Adapter drives a headless browser against the SportProfi shop, whose
// search results only exist after client-side rendering. Product data is
// read from the JSON-LD blocks the storefront emits per result.
type Adapter struct {
	BaseURL string
	timeout time.Duration
}

func New(baseURL string, timeout time.Duration) *Adapter {
	return &Adapter{BaseURL: baseURL, timeout: timeout}
}

func (a *Adapter) Name() string { return Source }

func (a *Adapter) FetchOffers(ctx context.Context, query string) ([]models.Offer, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(adapters.UserAgent),
		chromedp.WindowSize(1920, 1080),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	runCtx, cancelRun := context.WithTimeout(browserCtx, a.timeout)
	defer cancelRun()

	searchURL := fmt.Sprintf("%s/suche?query=%s", a.BaseURL, url.QueryEscape(query))

	var jsonLD string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(searchURL),
		chromedp.WaitReady(`body`, chromedp.ByQuery),
		chromedp.Sleep(1500*time.Millisecond),
		chromedp.Evaluate(`
			(function() {
				const out = [];
				for (const s of document.querySelectorAll('script[type="application/ld+json"]')) {
					if (s.innerText.includes('"Product"')) out.push(s.innerText);
				}
				return "[" + out.join(",") + "]";
			})()
		`, &jsonLD),
	)
	if err != nil {
		return nil, fmt.Errorf("chromedp execution failed: %w", err)
	}

	return MapJSONLD([]byte(jsonLD)), nil
}

// MapJSONLD maps an array of JSON-LD product nodes into canonical offers.
// Split out from the browser drive so it can be tested without Chrome.
func MapJSONLD(payload []byte) []models.Offer {
	if !gjson.ValidBytes(payload) {
		return nil
	}
	var offers []models.Offer
	gjson.ParseBytes(payload).ForEach(func(_, node gjson.Result) bool {
		raw := []byte(node.Raw)
		if node.Get("@type").Str != "Product" {
			return true
		}
		if o, ok := mapOffer(raw); ok {
			offers = append(offers, o)
		}
		return true
	})
	return offers
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

	// JSON-LD ships price as string or number, tolerate both
	if price, ok := normalize.ResolvePrice(raw, fieldPaths["price"]...); ok {
		o.Price = models.Float(price)
		o.PriceText = normalize.FormatPrice(price)
	}

	status := normalize.ResolveString(raw, fieldPaths["stock"]...)
	o.StockStatus = status
	if status == "" {
		o.InStock = o.Price != nil
	} else {
		folded := normalize.Fold(status)
		o.InStock = strings.Contains(folded, "instock") && !strings.Contains(folded, "outofstock")
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
