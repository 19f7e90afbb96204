package fallback

import (
	"strings"

	"fitscout-base/pkg/models"
	"fitscout-base/pkg/normalize"
)

// SeedSource marks records served from the built-in catalog.
const SeedSource = "Seed"

type seedOffer struct {
	category string
	offer    models.Offer
}

// the last-resort catalog, current list prices as of mid 2026
var seedOffers = []seedOffer{
	{category: "protein whey", offer: seed("ESN Designer Whey 1kg", 26.90, 1, 71)},
	{category: "protein whey", offer: seed("Optimum Nutrition Gold Standard Whey 908g", 32.99, 0.908, 79)},
	{category: "protein whey isolat", offer: seed("MyProtein Impact Whey Isolate 1kg", 29.99, 1, 90)},
	{category: "protein vegan", offer: seed("Alpha Foods Vegan Protein 600g", 24.90, 0.6, 73)},
	{category: "creatine kreatin", offer: seed("ESN Ultrapure Creatine Monohydrate 500g", 19.90, 0.5, 0)},
	{category: "creatine kreatin", offer: seed("Bulk Creatine Monohydrat 1kg", 27.99, 1, 0)},
	{category: "riegel snack", offer: seed("Barebells Protein Riegel 12x55g", 23.88, 0.66, 36)},
	{category: "omega3 fischöl", offer: seed("ESN Super Omega-3 300 Kapseln", 17.90, 0, 0)},
}

func seed(title string, price, weightKg, proteinPer100g float64) models.Offer {
	o := models.Offer{
		ID:       normalize.HashID(SeedSource, title),
		Title:    title,
		Vendor:   SeedSource,
		Price:    models.Float(price),
		Currency: "EUR",
		InStock:  true,
		Source:   SeedSource,
	}
	o.PriceText = normalize.FormatPrice(price)
	if weightKg > 0 {
		o.WeightKg = models.Float(weightKg)
		o.PricePerKg = models.Float(normalize.Round2(price / weightKg))
	}
	if proteinPer100g > 0 {
		o.ProteinPer100g = models.Float(proteinPer100g)
	}
	return o
}

// SeedOffers filters the catalog by case and diacritic insensitive token
// containment over title, vendor and category. An empty query returns the
// whole catalog.
func SeedOffers(query string) []models.Offer {
	tokens := strings.Fields(normalize.Fold(query))
	out := make([]models.Offer, 0, len(seedOffers))
	for _, s := range seedOffers {
		haystack := normalize.Fold(s.offer.Title + " " + s.offer.Vendor + " " + s.category)
		if containsAll(haystack, tokens) {
			out = append(out, s.offer)
		}
	}
	return out
}

func containsAll(haystack string, tokens []string) bool {
	for _, t := range tokens {
		if !strings.Contains(haystack, t) {
			return false
		}
	}
	return true
}

// SeedGyms returns the built-in studio directory. Coordinates are the
// published street addresses, geocoded once by hand.
func SeedGyms() []models.GymLocation {
	gyms := []models.GymLocation{
		seedGym("FitInn", "FitInn Wien Mitte", "Landstraßer Hauptstraße 1b", "1030", "Wien", 48.2066, 16.3847, 24.90, []string{"Cardio", "Freihantel"}),
		seedGym("FitInn", "FitInn Favoriten", "Favoritenstraße 88", "1100", "Wien", 48.1761, 16.3754, 24.90, []string{"Cardio", "Freihantel", "Kurse"}),
		seedGym("CleverFit", "Clever Fit Graz Jakomini", "Conrad-von-Hötzendorf-Straße 35", "8010", "Graz", 47.0643, 15.4465, 29.90, []string{"Cardio", "Sauna"}),
		seedGym("UrbanFit", "UrbanFit Linz Zentrum", "Landstraße 49", "4020", "Linz", 48.2989, 14.2912, 29.90, []string{"Cardio", "Kurse", "Sauna"}),
		seedGym("JohnHarris", "John Harris Schillerpark", "Rainerstraße 2-4", "4020", "Linz", 48.2964, 14.2921, 89.00, []string{"Pool", "Sauna", "Kurse"}),
	}
	return gyms
}

func seedGym(brand, name, address, zip, city string, lat, lng, price float64, amenities []string) models.GymLocation {
	return models.GymLocation{
		ID:           normalize.HashID(brand, name, city),
		Brand:        brand,
		Name:         name,
		Address:      address,
		PostalCode:   zip,
		City:         city,
		Lat:          models.Float(lat),
		Lng:          models.Float(lng),
		MonthlyPrice: models.Float(price),
		Currency:     "EUR",
		Amenities:    amenities,
		Source:       models.GymSource{Provider: SeedSource},
	}
}
