package fallback

import (
	"context"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"fitscout-base/pkg/aggregate"
	"fitscout-base/pkg/geo"
	"fitscout-base/pkg/models"
	"fitscout-base/pkg/normalize"
	"fitscout-base/pkg/rank"
)

// OfferResult is one tier's answer to an offer query.
type OfferResult struct {
	Records []models.Offer `json:"records"`
	Tier    models.Tier    `json:"served_from"`
}

// GymFilters narrows the directory. Lat and Lng must be set together for
// distance filtering to apply.
type GymFilters struct {
	City          string
	Lat           *float64
	Lng           *float64
	MaxDistanceKm *float64
	Limit         int
}

// GymResult carries the filtered directory slice plus enough context for a
// client to widen its own filters.
type GymResult struct {
	Records         []models.GymLocation `json:"records"`
	AvailableCities []string             `json:"available_cities"`
	Count           int                  `json:"count"`
	Total           int                  `json:"total"`
	Tier            models.Tier          `json:"served_from"`
}

// Chain walks result tiers until one yields records: live vendor adapters
// first, the generic shopping search second, the static seed catalog last.
// As long as the seed pool is non-empty a query cannot come back empty
// handed, only downgraded.
type Chain struct {
	agg       *aggregate.Aggregator
	primary   []aggregate.OfferSource
	secondary []aggregate.OfferSource
	gyms      []aggregate.GymSource
}

func NewChain(agg *aggregate.Aggregator, primary, secondary []aggregate.OfferSource, gyms []aggregate.GymSource) *Chain {
	return &Chain{agg: agg, primary: primary, secondary: secondary, gyms: gyms}
}

// Offers resolves a query through the tiers. A tier is skipped only when its
// deduped result is empty; partial results are served as-is.
func (c *Chain) Offers(ctx context.Context, query string, limit int) OfferResult {
	if recs := rank.Offers(c.agg.Offers(ctx, c.primary, query)); len(recs) > 0 {
		return OfferResult{Records: capOffers(recs, limit), Tier: models.TierAPI}
	}
	if recs := rank.Offers(c.agg.Offers(ctx, c.secondary, query)); len(recs) > 0 {
		return OfferResult{Records: capOffers(recs, limit), Tier: models.TierFallback}
	}
	seeded := SeedOffers(query)
	if len(seeded) == 0 {
		// a query matching no catalog entry still gets the generic catalog;
		// an empty answer is reserved for an empty seed pool
		seeded = SeedOffers("")
	}
	return OfferResult{Records: capOffers(rank.Offers(seeded), limit), Tier: models.TierMock}
}

func capOffers(recs []models.Offer, limit int) []models.Offer {
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}

// Directory loads the full studio list from the live providers, falling back
// to the seed list when every provider comes up empty.
func (c *Chain) Directory(ctx context.Context) ([]models.GymLocation, models.Tier) {
	all := rank.Gyms(c.agg.Gyms(ctx, c.gyms))
	if len(all) == 0 {
		return rank.Gyms(SeedGyms()), models.TierMock
	}
	return all, models.TierAPI
}

// Gyms loads the directory and applies the filters in one step. Callers that
// cache the snapshot use Directory and FilterGyms separately.
func (c *Chain) Gyms(ctx context.Context, f GymFilters) GymResult {
	all, tier := c.Directory(ctx)
	return FilterGyms(all, tier, f)
}

// FilterGyms narrows a directory snapshot. Distance and travel time are
// annotated whenever the caller supplied a position.
func FilterGyms(all []models.GymLocation, tier models.Tier, f GymFilters) GymResult {
	res := GymResult{AvailableCities: cities(all), Tier: tier}

	matched := make([]models.GymLocation, 0, len(all))
	for _, g := range all {
		if f.City != "" && normalize.Fold(g.City) != normalize.Fold(f.City) {
			continue
		}
		if f.Lat != nil && f.Lng != nil && g.Lat != nil && g.Lng != nil {
			d := geo.HaversineKm(*f.Lat, *f.Lng, *g.Lat, *g.Lng)
			g.DistanceKm = models.Float(d)
			g.TravelTime = geo.TravelTime(d)
		}
		if f.MaxDistanceKm != nil {
			if g.DistanceKm == nil || *g.DistanceKm > *f.MaxDistanceKm {
				continue
			}
		}
		matched = append(matched, g)
	}

	matched = rank.Gyms(matched)
	res.Total = len(matched)
	if f.Limit > 0 && len(matched) > f.Limit {
		matched = matched[:f.Limit]
	}
	res.Records = matched
	res.Count = len(matched)
	return res
}

func cities(gyms []models.GymLocation) []string {
	seen := make(map[string]bool, len(gyms))
	var out []string
	for _, g := range gyms {
		if g.City == "" {
			continue
		}
		key := normalize.Fold(g.City)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, g.City)
	}
	collate.New(language.German, collate.IgnoreCase).SortStrings(out)
	return out
}
