package aggregate

import (
	"context"
	"log"
	"sync"
	"time"

	"fitscout-base/pkg/models"
)

// OfferSource is one provider of price offers. Implementations live under
// pkg/adapters; new vendors are added by implementing this interface, never
// by branching on vendor names in shared code.
type OfferSource interface {
	Name() string
	FetchOffers(ctx context.Context, query string) ([]models.Offer, error)
}

// GymSource is one provider of gym locations.
type GymSource interface {
	Name() string
	FetchGyms(ctx context.Context) ([]models.GymLocation, error)
}

// Aggregator fans a query out to every source concurrently and gathers
// whatever comes back. A failing or slow source is logged and contributes
// an empty slice; it never blocks or fails the others.
type Aggregator struct {
	timeout time.Duration
}

func New(perSourceTimeout time.Duration) *Aggregator {
	return &Aggregator{timeout: perSourceTimeout}
}

// Offers queries all sources and concatenates their results. Duplicates are
// expected here; ranking resolves them later.
func (a *Aggregator) Offers(ctx context.Context, sources []OfferSource, query string) []models.Offer {
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		out []models.Offer
	)

	for _, src := range sources {
		wg.Add(1)
		go func(src OfferSource) {
			defer wg.Done()

			srcCtx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()

			offers, err := src.FetchOffers(srcCtx, query)
			if err != nil {
				log.Printf("source %s failed for %q: %v", src.Name(), query, err)
				return
			}

			mu.Lock()
			out = append(out, offers...)
			mu.Unlock()
		}(src)
	}

	wg.Wait()
	return out
}

// Gyms collects the full location list from all sources.
func (a *Aggregator) Gyms(ctx context.Context, sources []GymSource) []models.GymLocation {
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		out []models.GymLocation
	)

	for _, src := range sources {
		wg.Add(1)
		go func(src GymSource) {
			defer wg.Done()

			srcCtx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()

			gyms, err := src.FetchGyms(srcCtx)
			if err != nil {
				log.Printf("gym source %s failed: %v", src.Name(), err)
				return
			}

			mu.Lock()
			out = append(out, gyms...)
			mu.Unlock()
		}(src)
	}

	wg.Wait()
	return out
}
