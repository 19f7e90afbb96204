package aggregate

import (
	"context"
	"errors"
	"testing"
	"time"

	"fitscout-base/pkg/models"
)

type stubSource struct {
	name   string
	offers []models.Offer
	err    error
	delay  time.Duration
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) FetchOffers(ctx context.Context, query string) ([]models.Offer, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, context.Cause(ctx)
		}
	}
	return s.offers, s.err
}

func offer(id, vendor string, price float64) models.Offer {
	return models.Offer{ID: id, Title: id, Vendor: vendor, Price: models.Float(price)}
}

func TestOffers_Concatenates(t *testing.T) {
	agg := New(time.Second)
	sources := []OfferSource{
		&stubSource{name: "a", offers: []models.Offer{offer("1", "A", 10), offer("2", "A", 20)}},
		&stubSource{name: "b", offers: []models.Offer{offer("3", "B", 15)}},
	}

	got := agg.Offers(context.Background(), sources, "whey")
	if len(got) != 3 {
		t.Fatalf("expected 3 offers, got %d", len(got))
	}
}

func TestOffers_FailureIsolation(t *testing.T) {
	agg := New(time.Second)
	sources := []OfferSource{
		&stubSource{name: "ok", offers: []models.Offer{offer("1", "A", 10)}},
		&stubSource{name: "down", err: errors.New("connection refused")},
		&stubSource{name: "empty"},
	}

	got := agg.Offers(context.Background(), sources, "whey")
	if len(got) != 1 {
		t.Fatalf("expected 1 offer from the healthy source, got %d", len(got))
	}
	if got[0].ID != "1" {
		t.Errorf("unexpected offer %+v", got[0])
	}
}

func TestOffers_SlowSourceTimesOut(t *testing.T) {
	agg := New(50 * time.Millisecond)
	sources := []OfferSource{
		&stubSource{name: "fast", offers: []models.Offer{offer("1", "A", 10)}},
		&stubSource{name: "slow", delay: time.Second, offers: []models.Offer{offer("2", "B", 5)}},
	}

	start := time.Now()
	got := agg.Offers(context.Background(), sources, "whey")
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("aggregation took %v, slow source was not cut off", elapsed)
	}
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("expected only the fast source's offer, got %v", got)
	}
}

func TestOffers_AllFail(t *testing.T) {
	agg := New(time.Second)
	sources := []OfferSource{
		&stubSource{name: "x", err: errors.New("boom")},
		&stubSource{name: "y", err: errors.New("boom")},
	}

	if got := agg.Offers(context.Background(), sources, "whey"); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

type stubGymSource struct {
	name string
	gyms []models.GymLocation
	err  error
}

func (s *stubGymSource) Name() string { return s.name }
func (s *stubGymSource) FetchGyms(ctx context.Context) ([]models.GymLocation, error) {
	return s.gyms, s.err
}

func TestGyms_Concatenates(t *testing.T) {
	agg := New(time.Second)
	sources := []GymSource{
		&stubGymSource{name: "a", gyms: []models.GymLocation{{ID: "g1", Name: "One", City: "Wien"}}},
		&stubGymSource{name: "b", err: errors.New("down")},
		&stubGymSource{name: "c", gyms: []models.GymLocation{{ID: "g2", Name: "Two", City: "Graz"}}},
	}

	got := agg.Gyms(context.Background(), sources)
	if len(got) != 2 {
		t.Fatalf("expected 2 gyms, got %d", len(got))
	}
}
