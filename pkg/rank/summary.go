package rank

import (
	"math"
	"sort"
	"strings"

	"fitscout-base/pkg/models"
	"fitscout-base/pkg/normalize"
)

// Summaries condenses a ranked result set into one entry per logical
// product. Offers group by product id when a provider shipped one, else by
// normalized title. Summaries are rebuilt per request from the offers alone.
func Summaries(ranked []models.Offer) []models.ProductSummary {
	groups := make(map[string][]models.Offer)
	var order []string
	for _, o := range ranked {
		key := o.ProductID
		if key == "" {
			key = normalize.Slugify(o.Title)
		}
		if key == "" {
			continue
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], o)
	}

	out := make([]models.ProductSummary, 0, len(order))
	for _, key := range order {
		out = append(out, summarize(groups[key]))
	}
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := summaryPrice(out[i]), summaryPrice(out[j])
		if pi != pj {
			return pi < pj
		}
		return newCollator().CompareString(out[i].Name, out[j].Name) < 0
	})
	return out
}

func summarize(offers []models.Offer) models.ProductSummary {
	s := models.ProductSummary{
		Name:       offers[0].Title,
		OfferCount: len(offers),
	}

	var (
		ratingSum   float64
		ratingCount int
		best        models.Offer
	)
	for _, o := range offers {
		if o.InStock {
			s.InStockCount++
		}
		if o.Rating != nil {
			ratingSum += *o.Rating
			ratingCount++
		}
		if o.Reviews != nil {
			s.ReviewCount += *o.Reviews
		}
		if p := o.EffectivePrice(); p != nil && (s.BestPrice == nil || *p < *s.BestPrice) {
			s.BestPrice = models.Float(*p)
			best = o
		}
		if o.PricePerKg != nil && (s.PricePerKg == nil || *o.PricePerKg < *s.PricePerKg) {
			s.PricePerKg = models.Float(*o.PricePerKg)
		}
		if s.Image == "" && o.Image != "" {
			s.Image = o.Image
		}
	}
	if ratingCount > 0 {
		s.AvgRating = models.Float(normalize.Round2(ratingSum / float64(ratingCount)))
	}
	if s.BestPrice != nil {
		s.Currency = best.Currency
		s.Brand = brandOf(best)
		if g := proteinGrams(best); g > 0 && *s.BestPrice > 0 {
			s.ProteinPerEuro = models.Float(normalize.Round2(g / *s.BestPrice))
		}
	}
	return s
}

func summaryPrice(s models.ProductSummary) float64 {
	if s.BestPrice != nil {
		return *s.BestPrice
	}
	return math.Inf(1)
}

// proteinGrams is the total protein content of the pack, derivable only
// when both weight and protein share are known.
func proteinGrams(o models.Offer) float64 {
	if o.WeightKg == nil || o.ProteinPer100g == nil {
		return 0
	}
	return *o.WeightKg * 1000 * *o.ProteinPer100g / 100
}

func brandOf(o models.Offer) string {
	// the first title token is the closest thing providers give us to a brand
	fields := strings.Fields(o.Title)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
