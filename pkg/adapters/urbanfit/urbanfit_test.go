package urbanfit

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fitscout-base/pkg/adapters"
)

func TestFetchGyms(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wp-json/wp/v2/standorte" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `[
			{"id":12,"title":{"rendered":"UrbanFit Wien Mitte"},"link":"https://urbanfit.example/wien-mitte",
			 "acf":{"adresse":"Landstraßer Hauptstraße 1","plz":"1030","stadt":"Wien",
			        "location":{"lat":"48.2066","lng":"16.3847"},
			        "monatspreis":"29,90 €","ausstattung":"Sauna, Freihantel, Kurse"}},
			{"id":13,"title":{"rendered":"UrbanFit Graz"},
			 "acf":{"stadt":"Graz","lat":47.0707,"lng":15.4395,"preis":24.9,"amenities":["Sauna","Cardio"]}},
			{"id":14,"title":{"rendered":"Unbenannt"},"acf":{}}
		]`)
	}))
	defer ts.Close()

	a := New(adapters.NewClient(2*time.Second), ts.URL)
	gyms, err := a.FetchGyms(context.Background())
	if err != nil {
		t.Fatalf("FetchGyms failed: %v", err)
	}

	if len(gyms) != 2 {
		t.Fatalf("expected 2 gyms (city-less record dropped), got %d", len(gyms))
	}

	wien := gyms[0]
	if wien.ID != "UrbanFit:12" {
		t.Errorf("ID = %q", wien.ID)
	}
	if wien.Lat == nil || *wien.Lat != 48.2066 {
		t.Errorf("Lat = %v, want 48.2066 (string coordinate)", wien.Lat)
	}
	if wien.MonthlyPrice == nil || *wien.MonthlyPrice != 29.9 {
		t.Errorf("MonthlyPrice = %v, want 29.9", wien.MonthlyPrice)
	}
	if len(wien.Amenities) != 3 || wien.Amenities[0] != "Sauna" {
		t.Errorf("Amenities = %v", wien.Amenities)
	}
	if wien.Source.Provider != Source || wien.Source.ExternalID != "12" {
		t.Errorf("Source = %+v", wien.Source)
	}

	graz := gyms[1]
	if graz.Lat == nil || *graz.Lat != 47.0707 {
		t.Errorf("Lat = %v, want 47.0707 (flat numeric coordinate)", graz.Lat)
	}
	if graz.MonthlyPrice == nil || *graz.MonthlyPrice != 24.9 {
		t.Errorf("MonthlyPrice = %v, want 24.9", graz.MonthlyPrice)
	}
	if len(graz.Amenities) != 2 {
		t.Errorf("Amenities = %v", graz.Amenities)
	}
}
