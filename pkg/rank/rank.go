package rank

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"fitscout-base/pkg/models"
	"fitscout-base/pkg/normalize"
)

func newCollator() *collate.Collator {
	// collators carry internal buffers, build one per call
	return collate.New(language.German, collate.IgnoreCase)
}

// DedupeOffers merges offers that describe the same listing. The key is
// (vendor, link) when a link exists, else (vendor, title). On collision the
// cheaper record wins; at equal or unknown price the record carrying more
// metadata wins. Deduping an already-deduped list is a no-op.
func DedupeOffers(offers []models.Offer) []models.Offer {
	seen := make(map[string]int, len(offers))
	out := make([]models.Offer, 0, len(offers))

	for _, o := range offers {
		key := offerKey(o)
		idx, ok := seen[key]
		if !ok {
			seen[key] = len(out)
			out = append(out, o)
			continue
		}
		if betterOffer(o, out[idx]) {
			out[idx] = o
		}
	}
	return out
}

func offerKey(o models.Offer) string {
	vendor := strings.ToLower(strings.TrimSpace(o.Vendor))
	if o.Link != "" {
		return vendor + "\x00" + o.Link
	}
	return vendor + "\x00t\x00" + strings.ToLower(strings.TrimSpace(o.Title))
}

func betterOffer(candidate, current models.Offer) bool {
	cp, xp := effective(candidate), effective(current)
	if cp != xp {
		return cp < xp
	}
	return richness(candidate) > richness(current)
}

func effective(o models.Offer) float64 {
	if p := o.EffectivePrice(); p != nil {
		return *p
	}
	return math.Inf(1)
}

func richness(o models.Offer) int {
	n := 0
	if o.Description != "" {
		n++
	}
	if o.Image != "" {
		n++
	}
	if o.Rating != nil {
		n++
	}
	if o.Reviews != nil {
		n++
	}
	if o.WeightKg != nil {
		n++
	}
	return n
}

// Offers dedupes, orders and flags a combined result set. Order: effective
// price ascending (unknown last), review count descending, rating
// descending, vendor name in locale order. Exactly the first entry of a
// non-empty result carries the best-price flags.
func Offers(offers []models.Offer) []models.Offer {
	out := DedupeOffers(offers)

	coll := newCollator()
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := effective(out[i]), effective(out[j])
		if pi != pj {
			return pi < pj
		}
		ri, rj := reviews(out[i]), reviews(out[j])
		if ri != rj {
			return ri > rj
		}
		si, sj := rating(out[i]), rating(out[j])
		if si != sj {
			return si > sj
		}
		return coll.CompareString(out[i].Vendor, out[j].Vendor) < 0
	})

	for i := range out {
		out[i].BestPrice = i == 0
		out[i].IsBestPrice = i == 0
	}
	return out
}

func reviews(o models.Offer) int {
	if o.Reviews != nil {
		return *o.Reviews
	}
	return 0
}

func rating(o models.Offer) float64 {
	if o.Rating != nil {
		return *o.Rating
	}
	return -1
}

// TopPromotions picks up to limit offers from an already-ranked list,
// preferring records with a promotional signal (an actual discount, a known
// price per kilogram, or a known weight) and backfilling the rest in rank
// order. IDs stay unique; the limit is never exceeded.
func TopPromotions(ranked []models.Offer, limit int) []models.Offer {
	if limit <= 0 {
		return nil
	}

	picked := make([]models.Offer, 0, limit)
	used := make(map[string]bool, limit)

	for _, o := range ranked {
		if len(picked) == limit {
			return picked
		}
		if promotional(o) && !used[o.ID] {
			used[o.ID] = true
			picked = append(picked, o)
		}
	}
	for _, o := range ranked {
		if len(picked) == limit {
			break
		}
		if !used[o.ID] {
			used[o.ID] = true
			picked = append(picked, o)
		}
	}
	return picked
}

func promotional(o models.Offer) bool {
	if o.DiscountPercent != nil && *o.DiscountPercent > 0 {
		return true
	}
	return o.PricePerKg != nil || o.WeightKg != nil
}

// Gyms dedupes by id (deriving one from brand+name+city when a provider
// shipped none), normalizes amenities and orders by computed distance
// (unknown last), then city, then name.
func Gyms(gyms []models.GymLocation) []models.GymLocation {
	seen := make(map[string]bool, len(gyms))
	out := make([]models.GymLocation, 0, len(gyms))
	for _, g := range gyms {
		if g.ID == "" {
			g.ID = normalize.HashID(g.Brand, g.Name, g.City)
		}
		if seen[g.ID] {
			continue
		}
		seen[g.ID] = true
		g.Amenities = CleanAmenities(g.Amenities)
		out = append(out, g)
	}

	coll := newCollator()
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := distance(out[i]), distance(out[j])
		if di != dj {
			return di < dj
		}
		if c := coll.CompareString(out[i].City, out[j].City); c != 0 {
			return c < 0
		}
		return coll.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out
}

func distance(g models.GymLocation) float64 {
	if g.DistanceKm != nil {
		return *g.DistanceKm
	}
	return math.Inf(1)
}

// CleanAmenities drops case-insensitive duplicates and locale-sorts.
func CleanAmenities(amenities []string) []string {
	if len(amenities) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(amenities))
	out := make([]string, 0, len(amenities))
	for _, a := range amenities {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		key := normalize.Fold(a)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, a)
	}
	if len(out) == 0 {
		return nil
	}
	newCollator().SortStrings(out)
	return out
}
