package rank

import (
	"reflect"
	"testing"

	"fitscout-base/pkg/models"
)

func o(vendor, title string, price float64) models.Offer {
	return models.Offer{
		ID:     vendor + ":" + title,
		Title:  title,
		Vendor: vendor,
		Price:  models.Float(price),
	}
}

func TestOffers_DedupeAndBestFlag(t *testing.T) {
	rich := o("Amazon", "Whey Gold 1kg", 32.49)
	rich.Description = "Molkenproteinisolat"
	rich.Rating = models.Float(4.5)

	in := []models.Offer{
		o("Amazon", "Whey Gold 1kg", 32.49),
		rich,
		o("MyProtein", "Whey Gold 1kg", 29.99),
	}

	got := Offers(in)
	if len(got) != 2 {
		t.Fatalf("expected the two Amazon offers to collapse, got %d entries", len(got))
	}
	if got[0].Vendor != "MyProtein" || !got[0].BestPrice || !got[0].IsBestPrice {
		t.Errorf("cheapest offer not flagged best: %+v", got[0])
	}
	if got[1].Vendor != "Amazon" || got[1].BestPrice || got[1].IsBestPrice {
		t.Errorf("second offer must not carry best flags: %+v", got[1])
	}
	if got[1].Description != "Molkenproteinisolat" {
		t.Errorf("dedupe dropped the richer duplicate, kept %+v", got[1])
	}
}

func TestOffers_SameVendorDifferentLinks(t *testing.T) {
	a := o("Amazon", "Creatine 500g", 19.99)
	a.Link = "https://amazon.example/a"
	b := o("Amazon", "Creatine 500g", 18.49)
	b.Link = "https://amazon.example/b"

	if got := Offers([]models.Offer{a, b}); len(got) != 2 {
		t.Fatalf("distinct links are distinct listings, got %d entries", len(got))
	}
}

func TestOffers_CollisionKeepsCheaper(t *testing.T) {
	got := Offers([]models.Offer{
		o("Amazon", "BCAA", 24.99),
		o("Amazon", "BCAA", 21.50),
	})
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if *got[0].Price != 21.50 {
		t.Errorf("kept price %v, want the cheaper 21.50", *got[0].Price)
	}
}

func TestOffers_TotalPriceBeatsBasePrice(t *testing.T) {
	cheapBase := o("A", "Whey", 25.00)
	cheapBase.TotalPrice = models.Float(31.00)
	flatTotal := o("B", "Whey", 27.00)
	flatTotal.TotalPrice = models.Float(27.00)

	got := Offers([]models.Offer{cheapBase, flatTotal})
	if got[0].Vendor != "B" {
		t.Errorf("ranking must use price including shipping, got %q first", got[0].Vendor)
	}
}

func TestOffers_UnknownPriceLast(t *testing.T) {
	noPrice := models.Offer{ID: "x", Title: "Whey", Vendor: "X"}
	got := Offers([]models.Offer{noPrice, o("Y", "Whey", 9.99)})
	if got[len(got)-1].Vendor != "X" {
		t.Errorf("offer without price must sort last, got %+v", got)
	}
}

func TestOffers_TiesBrokenByReviewsThenRating(t *testing.T) {
	a := o("A", "Whey", 20)
	a.Reviews = models.Int(10)
	b := o("B", "Whey", 20)
	b.Reviews = models.Int(500)
	c := o("C", "Whey", 20)
	c.Reviews = models.Int(10)
	c.Rating = models.Float(4.9)

	got := Offers([]models.Offer{a, b, c})
	order := []string{got[0].Vendor, got[1].Vendor, got[2].Vendor}
	if !reflect.DeepEqual(order, []string{"B", "C", "A"}) {
		t.Errorf("order = %v, want [B C A]", order)
	}
}

func TestDedupeOffers_Idempotent(t *testing.T) {
	in := []models.Offer{
		o("Amazon", "Whey", 32.49),
		o("Amazon", "Whey", 32.49),
		o("MyProtein", "Whey", 29.99),
	}
	once := DedupeOffers(in)
	twice := DedupeOffers(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("dedupe is not idempotent: %v vs %v", once, twice)
	}
}

func TestTopPromotions(t *testing.T) {
	discounted := o("A", "Whey Sale", 19.99)
	discounted.DiscountPercent = models.Float(20)
	weighed := o("B", "Whey 1kg", 24.99)
	weighed.WeightKg = models.Float(1)
	plain1 := o("C", "Whey", 21.00)
	plain2 := o("D", "Whey", 22.00)

	ranked := []models.Offer{discounted, plain1, plain2, weighed}

	got := TopPromotions(ranked, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 picks, got %d", len(got))
	}
	// promotional records first, then backfill in rank order
	if got[0].ID != discounted.ID || got[1].ID != weighed.ID || got[2].ID != plain1.ID {
		t.Errorf("picks = %v %v %v", got[0].ID, got[1].ID, got[2].ID)
	}

	if got := TopPromotions(ranked, 10); len(got) != 4 {
		t.Errorf("limit above input size must return everything once, got %d", len(got))
	}
	if got := TopPromotions(ranked, 0); got != nil {
		t.Errorf("zero limit must return nothing, got %v", got)
	}
}

func gym(id, name, city string, distanceKm float64) models.GymLocation {
	return models.GymLocation{ID: id, Name: name, City: city, DistanceKm: models.Float(distanceKm)}
}

func TestGyms_DedupeAndOrder(t *testing.T) {
	far := gym("g1", "FitInn Favoriten", "Wien", 4.1)
	near := gym("g2", "FitInn Mitte", "Wien", 0.8)
	dup := gym("g2", "FitInn Mitte", "Wien", 0.8)
	unknown := models.GymLocation{ID: "g3", Name: "CleverFit", City: "Graz"}

	got := Gyms([]models.GymLocation{far, dup, unknown, near})
	if len(got) != 3 {
		t.Fatalf("expected 3 gyms after dedupe, got %d", len(got))
	}
	if got[0].ID != "g2" || got[1].ID != "g1" {
		t.Errorf("distance order wrong: %v, %v", got[0].ID, got[1].ID)
	}
	if got[2].ID != "g3" {
		t.Errorf("gym without distance must sort last, got %v", got[2].ID)
	}
}

func TestGyms_DerivesMissingID(t *testing.T) {
	a := models.GymLocation{Brand: "UrbanFit", Name: "Wien Mitte", City: "Wien"}
	b := models.GymLocation{Brand: "UrbanFit", Name: "Wien Mitte", City: "Wien"}

	got := Gyms([]models.GymLocation{a, b})
	if len(got) != 1 {
		t.Fatalf("identical id-less gyms must collapse, got %d", len(got))
	}
	if got[0].ID == "" {
		t.Error("derived ID is empty")
	}
}

func TestCleanAmenities(t *testing.T) {
	got := CleanAmenities([]string{"Sauna", "sauna", " Kurse ", "", "Freihantel", "SAUNA"})
	want := []string{"Freihantel", "Kurse", "Sauna"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CleanAmenities = %v, want %v", got, want)
	}
	if CleanAmenities(nil) != nil {
		t.Error("nil input must stay nil")
	}
}
