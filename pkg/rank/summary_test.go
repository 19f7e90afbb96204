package rank

import (
	"testing"

	"fitscout-base/pkg/models"
)

func TestSummaries_GroupsByProductID(t *testing.T) {
	a := o("Amazon", "ESN Designer Whey 1kg", 34.99)
	a.ProductID = "esn-designer-whey"
	a.InStock = true
	a.Rating = models.Float(4.6)
	a.Reviews = models.Int(200)
	b := o("MyProtein", "Designer Whey Protein", 29.99)
	b.ProductID = "esn-designer-whey"
	b.Rating = models.Float(4.2)
	b.Reviews = models.Int(100)
	c := o("A", "Creatine Monohydrat 500g", 14.99)
	c.InStock = true

	got := Summaries([]models.Offer{a, b, c})
	if len(got) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(got))
	}

	cr := got[0]
	if cr.Name != "Creatine Monohydrat 500g" {
		t.Fatalf("cheapest product must come first, got %q", cr.Name)
	}

	whey := got[1]
	if whey.OfferCount != 2 || whey.InStockCount != 1 {
		t.Errorf("counts = %d/%d, want 2/1", whey.OfferCount, whey.InStockCount)
	}
	if whey.BestPrice == nil || *whey.BestPrice != 29.99 {
		t.Errorf("BestPrice = %v, want 29.99", whey.BestPrice)
	}
	if whey.AvgRating == nil || *whey.AvgRating != 4.4 {
		t.Errorf("AvgRating = %v, want 4.4", whey.AvgRating)
	}
	if whey.ReviewCount != 300 {
		t.Errorf("ReviewCount = %d, want 300", whey.ReviewCount)
	}
}

func TestSummaries_ProteinPerEuro(t *testing.T) {
	a := o("Shop", "Whey Protein 1kg", 25.00)
	a.WeightKg = models.Float(1)
	a.ProteinPer100g = models.Float(80)

	got := Summaries([]models.Offer{a})
	if len(got) != 1 {
		t.Fatal("expected one summary")
	}
	// 1 kg at 80 g/100 g is 800 g protein; 800 / 25.00 = 32 g per euro
	if got[0].ProteinPerEuro == nil || *got[0].ProteinPerEuro != 32 {
		t.Errorf("ProteinPerEuro = %v, want 32", got[0].ProteinPerEuro)
	}

	a.ProteinPer100g = nil
	got = Summaries([]models.Offer{a})
	if got[0].ProteinPerEuro != nil {
		t.Errorf("ProteinPerEuro must stay nil without nutrition data, got %v", *got[0].ProteinPerEuro)
	}
}

func TestSummaries_TitleFallbackGrouping(t *testing.T) {
	a := o("A", "Gold Standard Whey", 30)
	b := o("B", "Gold Standard Whey", 28)
	got := Summaries([]models.Offer{a, b})
	if len(got) != 1 {
		t.Fatalf("same normalized title must group, got %d summaries", len(got))
	}
	if got[0].Brand != "Gold" {
		t.Errorf("Brand = %q", got[0].Brand)
	}
}
